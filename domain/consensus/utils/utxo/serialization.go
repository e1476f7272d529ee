package utxo

import (
	"bytes"
	"io"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// SerializeOutpoint returns the canonical byte-slice representation of the
// given outpoint. It doubles as the database key for UTXO entries.
func SerializeOutpoint(outpoint *externalapi.DomainOutpoint) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serializeOutpoint(w, outpoint)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeOutpoint deserializes the given byte slice to an outpoint
func DeserializeOutpoint(outpointBytes []byte) (*externalapi.DomainOutpoint, error) {
	r := bytes.NewReader(outpointBytes)
	return deserializeOutpoint(r)
}

// SerializeUTXO returns the byte-slice representation of the given
// outpoint-entry pair. This is the canonical form multiset commitments
// are computed over.
func SerializeUTXO(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serializeOutpoint(w, outpoint)
	if err != nil {
		return nil, err
	}
	err = serializeUTXOEntry(w, entry)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// SerializeUTXOEntry returns the byte-slice representation of the given
// UTXO entry
func SerializeUTXOEntry(entry externalapi.UTXOEntry) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serializeUTXOEntry(w, entry)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// DeserializeUTXOEntry deserializes the given byte slice to a UTXO entry
func DeserializeUTXOEntry(entryBytes []byte) (externalapi.UTXOEntry, error) {
	r := bytes.NewReader(entryBytes)
	return deserializeUTXOEntry(r)
}

// SerializeUTXODiff returns the byte-slice representation of the given diff
func SerializeUTXODiff(diff externalapi.UTXODiff) ([]byte, error) {
	w := &bytes.Buffer{}

	err := serializeUTXOCollection(w, diff.ToAdd())
	if err != nil {
		return nil, err
	}
	err = serializeUTXOCollection(w, diff.ToRemove())
	if err != nil {
		return nil, err
	}

	return w.Bytes(), nil
}

// DeserializeUTXODiff deserializes the given byte slice to a UTXODiff
func DeserializeUTXODiff(diffBytes []byte) (externalapi.UTXODiff, error) {
	r := bytes.NewReader(diffBytes)

	toAdd, err := deserializeUTXOCollection(r)
	if err != nil {
		return nil, err
	}
	toRemove, err := deserializeUTXOCollection(r)
	if err != nil {
		return nil, err
	}

	return &utxoDiff{toAdd: toAdd, toRemove: toRemove}, nil
}

func serializeOutpoint(w io.Writer, outpoint *externalapi.DomainOutpoint) error {
	return serialization.WriteElements(w, &outpoint.TransactionID, outpoint.Index)
}

func deserializeOutpoint(r io.Reader) (*externalapi.DomainOutpoint, error) {
	outpoint := &externalapi.DomainOutpoint{}
	err := serialization.ReadElements(r, &outpoint.TransactionID, &outpoint.Index)
	if err != nil {
		return nil, err
	}
	return outpoint, nil
}

func serializeUTXOEntry(w io.Writer, entry externalapi.UTXOEntry) error {
	err := serialization.WriteElements(w, entry.BlockHeight(), entry.Amount(), entry.IsCoinbase())
	if err != nil {
		return err
	}
	return serialization.WriteVarBytes(w, entry.ScriptPublicKey())
}

func deserializeUTXOEntry(r io.Reader) (externalapi.UTXOEntry, error) {
	var blockHeight, amount uint64
	var isCoinbase bool
	err := serialization.ReadElements(r, &blockHeight, &amount, &isCoinbase)
	if err != nil {
		return nil, err
	}

	scriptPublicKey, err := serialization.ReadVarBytes(r, constants.MaxScriptPublicKeyLength)
	if err != nil {
		return nil, err
	}

	return NewUTXOEntry(amount, scriptPublicKey, isCoinbase, blockHeight), nil
}

func serializeUTXOCollection(w io.Writer, collection externalapi.UTXOCollection) error {
	err := serialization.WriteElement(w, uint64(collection.Len()))
	if err != nil {
		return err
	}
	iterator := collection.Iterator()
	for iterator.Next() {
		outpoint, entry, err := iterator.Get()
		if err != nil {
			return err
		}
		err = serializeOutpoint(w, outpoint)
		if err != nil {
			return err
		}
		err = serializeUTXOEntry(w, entry)
		if err != nil {
			return err
		}
	}
	return nil
}

func deserializeUTXOCollection(r io.Reader) (utxoCollection, error) {
	var length uint64
	err := serialization.ReadElement(r, &length)
	if err != nil {
		return nil, err
	}
	if length > maxUTXOCollectionLength {
		return nil, errors.Errorf("utxo collection length %d is larger than the maximum allowed %d",
			length, maxUTXOCollectionLength)
	}

	collection := make(utxoCollection, length)
	for i := uint64(0); i < length; i++ {
		outpoint, err := deserializeOutpoint(r)
		if err != nil {
			return nil, err
		}
		entry, err := deserializeUTXOEntry(r)
		if err != nil {
			return nil, err
		}
		collection.add(outpoint, entry)
	}
	return collection, nil
}

const maxUTXOCollectionLength = 1 << 24
