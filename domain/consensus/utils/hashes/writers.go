package hashes

import (
	"hash"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	blockDomain         = "BlockHash"
	transactionDomain   = "TransactionHash"
	transactionIDDomain = "TransactionID"
	merkleBranchDomain  = "MerkleBranchHash"
	sighashDomain       = "TransactionSigningHash"
)

// HashWriter is used to incrementally hash data without concatenating all
// of the data to a single buffer. It exposes an io.Writer api and a
// Finalize function to get the resulting hash. The used hash function is
// blake2b. This can only be created via one of the domain-separated
// constructors.
type HashWriter struct {
	hash.Hash
}

// InfallibleWrite is just like write but doesn't return anything
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the
	// hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors"))
	}
}

// Finalize returns the resulting hash
func (h HashWriter) Finalize() *externalapi.DomainHash {
	var sum externalapi.DomainHash
	copy(sum[:], h.Sum(sum[:0]))
	return &sum
}

func newHashWriter(domain string) HashWriter {
	blake, err := blake2b.New256([]byte(domain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", domain))
	}
	return HashWriter{blake}
}

// NewBlockHashWriter returns a new HashWriter used for block hashes
func NewBlockHashWriter() HashWriter {
	return newHashWriter(blockDomain)
}

// NewTransactionHashWriter returns a new HashWriter used for transaction
// hashes
func NewTransactionHashWriter() HashWriter {
	return newHashWriter(transactionDomain)
}

// NewTransactionIDWriter returns a new HashWriter used for transaction IDs
func NewTransactionIDWriter() HashWriter {
	return newHashWriter(transactionIDDomain)
}

// NewMerkleBranchHashWriter returns a new HashWriter used for merkle tree
// branches
func NewMerkleBranchHashWriter() HashWriter {
	return newHashWriter(merkleBranchDomain)
}

// NewTransactionSigningHashWriter returns a new HashWriter used for
// signature hashes
func NewTransactionSigningHashWriter() HashWriter {
	return newHashWriter(sighashDomain)
}
