package transactionvalidator

import (
	"testing"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/txscript"
	"github.com/pkg/errors"
)

const (
	testCoinbaseMaturity     = 10
	testMaxTransactionMass   = 100_000
	testTransactionAmount    = 100_000_000
	testScriptPublicKeyBytes = 32
)

func newTestValidator() *transactionValidator {
	return New(testCoinbaseMaturity, testMaxTransactionMass, txscript.NewEngine()).(*transactionValidator)
}

func validTestTransaction() *externalapi.DomainTransaction {
	var transactionID externalapi.DomainTransactionID
	transactionID[0] = 1
	return &externalapi.DomainTransaction{
		Version: constants.MaxTransactionVersion,
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: *externalapi.NewDomainOutpoint(&transactionID, 0),
			Sequence:         1,
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           testTransactionAmount,
			ScriptPublicKey: make([]byte, testScriptPublicKeyBytes),
		}},
	}
}

func TestValidateTransactionInIsolation(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name          string
		modify        func(tx *externalapi.DomainTransaction)
		expectedError error
	}{
		{
			name:          "valid transaction",
			modify:        func(tx *externalapi.DomainTransaction) {},
			expectedError: nil,
		},
		{
			name: "unknown version",
			modify: func(tx *externalapi.DomainTransaction) {
				tx.Version = constants.MaxTransactionVersion + 1
			},
			expectedError: ruleerrors.ErrTransactionVersionIsUnknown,
		},
		{
			name: "no outputs",
			modify: func(tx *externalapi.DomainTransaction) {
				tx.Outputs = nil
			},
			expectedError: ruleerrors.ErrNoTxOutputs,
		},
		{
			name: "output value too high",
			modify: func(tx *externalapi.DomainTransaction) {
				tx.Outputs[0].Value = constants.MaxSpark + 1
			},
			expectedError: ruleerrors.ErrBadTxOutValue,
		},
		{
			name: "total output value too high",
			modify: func(tx *externalapi.DomainTransaction) {
				tx.Outputs = []*externalapi.DomainTransactionOutput{
					{Value: constants.MaxSpark, ScriptPublicKey: make([]byte, testScriptPublicKeyBytes)},
					{Value: 1, ScriptPublicKey: make([]byte, testScriptPublicKeyBytes)},
				}
			},
			expectedError: ruleerrors.ErrBadTxOutValue,
		},
		{
			name: "duplicate inputs",
			modify: func(tx *externalapi.DomainTransaction) {
				duplicate := *tx.Inputs[0]
				tx.Inputs = append(tx.Inputs, &duplicate)
			},
			expectedError: ruleerrors.ErrDuplicateTxInputs,
		},
		{
			name: "coinbase payload too long",
			modify: func(tx *externalapi.DomainTransaction) {
				tx.Inputs = nil
				tx.Payload = make([]byte, constants.MaxCoinbasePayloadLength+1)
			},
			expectedError: ruleerrors.ErrBadCoinbasePayloadLen,
		},
		{
			name: "mass too high",
			modify: func(tx *externalapi.DomainTransaction) {
				tx.Outputs[0].ScriptPublicKey = make([]byte, testMaxTransactionMass)
			},
			expectedError: ruleerrors.ErrTxMassTooHigh,
		},
	}

	for _, test := range tests {
		tx := validTestTransaction()
		test.modify(tx)

		err := validator.ValidateTransactionInIsolation(tx)
		if test.expectedError == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %+v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectedError) {
			t.Errorf("%s: expected %v, got: %+v", test.name, test.expectedError, err)
		}
	}
}

func TestValidateTransactionInIsolationPopulatesMass(t *testing.T) {
	validator := newTestValidator()

	tx := validTestTransaction()
	err := validator.ValidateTransactionInIsolation(tx)
	if err != nil {
		t.Fatalf("ValidateTransactionInIsolation: %+v", err)
	}
	if tx.Mass == 0 {
		t.Errorf("transaction mass was not populated")
	}
}
