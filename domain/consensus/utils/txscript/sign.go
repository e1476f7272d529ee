package txscript

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

// RawTxInSignature returns the serialized schnorr signature for the input
// idx of the given transaction. The input's UTXOEntry must be populated
// since the signature hash commits to the spent entry.
func RawTxInSignature(tx *externalapi.DomainTransaction, idx int, key *secp256k1.SchnorrKeyPair) ([]byte, error) {
	hash, err := consensushashing.CalculateSignatureHash(tx, idx)
	if err != nil {
		return nil, err
	}
	secpHash := secp256k1.Hash(*hash)
	signature, err := key.SchnorrSign(&secpHash)
	if err != nil {
		return nil, errors.Errorf("cannot sign tx input: %s", err)
	}

	return signature.Serialize()[:], nil
}

// SignatureScript creates an unlocking script for the idx'th input of tx.
// The previous output being spent must pay to the public key of privKey,
// otherwise verification will fail.
func SignatureScript(tx *externalapi.DomainTransaction, idx int, privKey *secp256k1.SchnorrKeyPair) ([]byte, error) {
	return RawTxInSignature(tx, idx, privKey)
}
