package txscript

import (
	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

type scriptEngine struct{}

// NewEngine returns a script engine that verifies pay-to-pubkey schnorr
// spends
func NewEngine() model.ScriptEngine {
	return &scriptEngine{}
}

func (se *scriptEngine) VerifyInput(transaction *externalapi.DomainTransaction, inputIndex int) error {
	if inputIndex < 0 || inputIndex >= len(transaction.Inputs) {
		return errors.Errorf("input index %d is out of range for a transaction with %d inputs",
			inputIndex, len(transaction.Inputs))
	}
	input := transaction.Inputs[inputIndex]
	if input.UTXOEntry == nil {
		return errors.Errorf("input %d has no populated UTXO entry", inputIndex)
	}

	scriptPublicKey := input.UTXOEntry.ScriptPublicKey()
	if len(scriptPublicKey) != secp256k1.SerializedSchnorrPublicKeySize {
		return errors.Wrapf(ruleerrors.ErrScriptMalformed,
			"locking script of input %d is %d bytes long, expected a %d byte public key",
			inputIndex, len(scriptPublicKey), secp256k1.SerializedSchnorrPublicKeySize)
	}
	if len(input.SignatureScript) != secp256k1.SerializedSchnorrSignatureSize {
		return errors.Wrapf(ruleerrors.ErrScriptMalformed,
			"unlocking script of input %d is %d bytes long, expected a %d byte signature",
			inputIndex, len(input.SignatureScript), secp256k1.SerializedSchnorrSignatureSize)
	}

	publicKey, err := secp256k1.DeserializeSchnorrPubKey(scriptPublicKey)
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrScriptMalformed,
			"locking script of input %d is not a valid public key: %s", inputIndex, err)
	}
	signature, err := secp256k1.DeserializeSchnorrSignatureFromSlice(input.SignatureScript)
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrScriptMalformed,
			"unlocking script of input %d is not a valid signature: %s", inputIndex, err)
	}

	sigHash, err := consensushashing.CalculateSignatureHash(transaction, inputIndex)
	if err != nil {
		return err
	}
	secpHash := secp256k1.Hash(*sigHash)
	if !publicKey.SchnorrVerify(&secpHash, signature) {
		return errors.Wrapf(ruleerrors.ErrScriptValidation,
			"signature of input %d does not verify against the spent output's public key", inputIndex)
	}

	return nil
}
