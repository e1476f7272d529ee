package serialization

import (
	"encoding/binary"
	"io"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

var errorEncoding = "couldn't serialize field: %s"
var errorDecoding = "couldn't deserialize field: %s"

// WriteElement writes the little endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint8:
		return writeBytes(w, []byte{e})
	case uint16:
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], e)
		return writeBytes(w, buf[:])
	case uint32:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], e)
		return writeBytes(w, buf[:])
	case uint64:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], e)
		return writeBytes(w, buf[:])
	case int64:
		return WriteElement(w, uint64(e))
	case bool:
		if e {
			return writeBytes(w, []byte{1})
		}
		return writeBytes(w, []byte{0})
	case *externalapi.DomainHash:
		return writeBytes(w, e[:])
	case externalapi.DomainHash:
		return writeBytes(w, e[:])
	case *externalapi.DomainTransactionID:
		return writeBytes(w, e[:])
	case externalapi.DomainTransactionID:
		return writeBytes(w, e[:])
	default:
		return errors.Errorf("unsupported element type for serialization: %T", element)
	}
}

// WriteElements writes multiple elements to w.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteVarBytes writes a length-prefixed byte slice to w.
func WriteVarBytes(w io.Writer, data []byte) error {
	err := WriteElement(w, uint64(len(data)))
	if err != nil {
		return err
	}
	return writeBytes(w, data)
}

func writeBytes(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	if err != nil {
		return errors.Wrapf(err, errorEncoding, "bytes")
	}
	return nil
}

// ReadElement reads a little endian representation of element from r.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		buf, err := readBytes(r, 1)
		if err != nil {
			return err
		}
		*e = buf[0]
	case *uint16:
		buf, err := readBytes(r, 2)
		if err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint16(buf)
	case *uint32:
		buf, err := readBytes(r, 4)
		if err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint32(buf)
	case *uint64:
		buf, err := readBytes(r, 8)
		if err != nil {
			return err
		}
		*e = binary.LittleEndian.Uint64(buf)
	case *int64:
		var value uint64
		err := ReadElement(r, &value)
		if err != nil {
			return err
		}
		*e = int64(value)
	case *bool:
		buf, err := readBytes(r, 1)
		if err != nil {
			return err
		}
		*e = buf[0] != 0
	case *externalapi.DomainHash:
		buf, err := readBytes(r, externalapi.DomainHashSize)
		if err != nil {
			return err
		}
		copy(e[:], buf)
	case *externalapi.DomainTransactionID:
		buf, err := readBytes(r, externalapi.DomainHashSize)
		if err != nil {
			return err
		}
		copy(e[:], buf)
	default:
		return errors.Errorf("unsupported element type for deserialization: %T", element)
	}
	return nil
}

// ReadElements reads multiple elements from r.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadVarBytes reads a length-prefixed byte slice from r. maxLength bounds
// the allowed length to protect against memory exhaustion on malformed
// data.
func ReadVarBytes(r io.Reader, maxLength uint64) ([]byte, error) {
	var length uint64
	err := ReadElement(r, &length)
	if err != nil {
		return nil, err
	}
	if length > maxLength {
		return nil, errors.Errorf("variable length bytes is larger than the "+
			"maximum allowed: %d > %d", length, maxLength)
	}
	return readBytes(r, int(length))
}

func readBytes(r io.Reader, length int) ([]byte, error) {
	buf := make([]byte, length)
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, errors.Wrapf(err, errorDecoding, "bytes")
	}
	return buf, nil
}
