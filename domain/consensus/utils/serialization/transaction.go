package serialization

import (
	"io"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

const (
	// maxItemsPerTransaction bounds the number of inputs and outputs a
	// deserialized transaction may carry.
	maxItemsPerTransaction = 1 << 20

	// maxScriptLength bounds locking and unlocking script lengths during
	// deserialization.
	maxScriptLength = 1 << 20

	// maxPayloadLength bounds transaction payload length during
	// deserialization.
	maxPayloadLength = 1 << 20
)

// SerializeTransaction writes tx to w in the canonical consensus encoding.
// When encodeSignatureScripts is false the unlocking scripts are replaced
// with empty byte slices; this is the encoding transaction IDs are
// calculated over, so that an ID does not change when witnesses are
// attached.
func SerializeTransaction(w io.Writer, tx *externalapi.DomainTransaction, encodeSignatureScripts bool) error {
	err := WriteElements(w, tx.Version, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}

	for _, input := range tx.Inputs {
		err := WriteElements(w, input.PreviousOutpoint.TransactionID, input.PreviousOutpoint.Index)
		if err != nil {
			return err
		}

		signatureScript := []byte{}
		if encodeSignatureScripts {
			signatureScript = input.SignatureScript
		}
		err = WriteVarBytes(w, signatureScript)
		if err != nil {
			return err
		}

		err = WriteElement(w, input.Sequence)
		if err != nil {
			return err
		}
	}

	err = WriteElement(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}

	for _, output := range tx.Outputs {
		err := WriteElement(w, output.Value)
		if err != nil {
			return err
		}
		err = WriteVarBytes(w, output.ScriptPublicKey)
		if err != nil {
			return err
		}
	}

	err = WriteElement(w, tx.LockTime)
	if err != nil {
		return err
	}

	return WriteVarBytes(w, tx.Payload)
}

// DeserializeTransaction reads a transaction from r in the canonical
// consensus encoding.
func DeserializeTransaction(r io.Reader) (*externalapi.DomainTransaction, error) {
	tx := &externalapi.DomainTransaction{}

	var inputCount uint64
	err := ReadElements(r, &tx.Version, &inputCount)
	if err != nil {
		return nil, err
	}
	if inputCount > maxItemsPerTransaction {
		return nil, errors.Errorf("transaction input count %d is larger than the maximum allowed", inputCount)
	}

	tx.Inputs = make([]*externalapi.DomainTransactionInput, inputCount)
	for i := uint64(0); i < inputCount; i++ {
		input := &externalapi.DomainTransactionInput{}
		err := ReadElements(r, &input.PreviousOutpoint.TransactionID, &input.PreviousOutpoint.Index)
		if err != nil {
			return nil, err
		}

		input.SignatureScript, err = ReadVarBytes(r, maxScriptLength)
		if err != nil {
			return nil, err
		}

		err = ReadElement(r, &input.Sequence)
		if err != nil {
			return nil, err
		}
		tx.Inputs[i] = input
	}

	var outputCount uint64
	err = ReadElement(r, &outputCount)
	if err != nil {
		return nil, err
	}
	if outputCount > maxItemsPerTransaction {
		return nil, errors.Errorf("transaction output count %d is larger than the maximum allowed", outputCount)
	}

	tx.Outputs = make([]*externalapi.DomainTransactionOutput, outputCount)
	for i := uint64(0); i < outputCount; i++ {
		output := &externalapi.DomainTransactionOutput{}
		err := ReadElement(r, &output.Value)
		if err != nil {
			return nil, err
		}
		output.ScriptPublicKey, err = ReadVarBytes(r, maxScriptLength)
		if err != nil {
			return nil, err
		}
		tx.Outputs[i] = output
	}

	err = ReadElement(r, &tx.LockTime)
	if err != nil {
		return nil, err
	}

	tx.Payload, err = ReadVarBytes(r, maxPayloadLength)
	if err != nil {
		return nil, err
	}

	return tx, nil
}
