package serialization

import (
	"io"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
)

// SerializeHeader writes header to w in the canonical consensus encoding.
func SerializeHeader(w io.Writer, header *externalapi.DomainBlockHeader) error {
	return WriteElements(w,
		header.Version,
		header.ParentHash,
		header.HashMerkleRoot,
		header.TimeInMilliseconds,
		header.Bits,
		header.Nonce,
	)
}

// DeserializeHeader reads a block header from r in the canonical consensus
// encoding.
func DeserializeHeader(r io.Reader) (*externalapi.DomainBlockHeader, error) {
	header := &externalapi.DomainBlockHeader{}
	err := ReadElements(r,
		&header.Version,
		&header.ParentHash,
		&header.HashMerkleRoot,
		&header.TimeInMilliseconds,
		&header.Bits,
		&header.Nonce,
	)
	if err != nil {
		return nil, err
	}
	return header, nil
}
