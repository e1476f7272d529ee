package transactionvalidator

import (
	"math"
	"testing"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/txscript"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

type testUTXOView map[externalapi.DomainOutpoint]externalapi.UTXOEntry

func (view testUTXOView) UTXOByOutpoint(outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {
	entry, ok := view[*outpoint]
	return entry, ok, nil
}

type testTransactionSetup struct {
	validator *transactionValidator
	keyPair   *secp256k1.SchnorrKeyPair
	view      testUTXOView

	fundingOutpoint *externalapi.DomainOutpoint
	fundingScript   []byte
}

// newTestTransactionSetup funds the view with a single 1_000_000 spark
// non-coinbase output at height 5, locked to a fresh key pair.
func newTestTransactionSetup(t *testing.T) *testTransactionSetup {
	keyPair, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		t.Fatalf("GenerateSchnorrKeyPair: %+v", err)
	}
	fundingScript, err := txscript.PayToPubKeyScriptForKeyPair(keyPair)
	if err != nil {
		t.Fatalf("PayToPubKeyScriptForKeyPair: %+v", err)
	}

	var fundingTransactionID externalapi.DomainTransactionID
	fundingTransactionID[0] = 1
	fundingOutpoint := externalapi.NewDomainOutpoint(&fundingTransactionID, 0)

	view := testUTXOView{
		*fundingOutpoint: utxo.NewUTXOEntry(1_000_000, fundingScript, false, 5),
	}

	return &testTransactionSetup{
		validator:       newTestValidator(),
		keyPair:         keyPair,
		view:            view,
		fundingOutpoint: fundingOutpoint,
		fundingScript:   fundingScript,
	}
}

// spendingTransaction builds a signed transaction spending the funding
// output, paying outputValue back to the funding script.
func (setup *testTransactionSetup) spendingTransaction(t *testing.T, outputValue uint64) *externalapi.DomainTransaction {
	tx := &externalapi.DomainTransaction{
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: *setup.fundingOutpoint,
			Sequence:         math.MaxUint64,
			UTXOEntry:        setup.view[*setup.fundingOutpoint],
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           outputValue,
			ScriptPublicKey: setup.fundingScript,
		}},
	}

	signatureScript, err := txscript.SignatureScript(tx, 0, setup.keyPair)
	if err != nil {
		t.Fatalf("SignatureScript: %+v", err)
	}
	tx.Inputs[0].SignatureScript = signatureScript
	tx.Inputs[0].UTXOEntry = nil
	return tx
}

func TestValidTransactionInContext(t *testing.T) {
	setup := newTestTransactionSetup(t)
	tx := setup.spendingTransaction(t, 900_000)

	err := setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 100, 0)
	if err != nil {
		t.Fatalf("ValidateTransactionInContextAndPopulateFee: %+v", err)
	}
	if tx.Fee != 100_000 {
		t.Errorf("populated fee is %d, want 100000", tx.Fee)
	}
	if tx.Inputs[0].UTXOEntry == nil {
		t.Errorf("input UTXO entry was not populated")
	}
}

func TestMissingInput(t *testing.T) {
	setup := newTestTransactionSetup(t)
	tx := setup.spendingTransaction(t, 900_000)

	var nonexistentTransactionID externalapi.DomainTransactionID
	nonexistentTransactionID[0] = 0xff
	tx.Inputs[0].PreviousOutpoint = *externalapi.NewDomainOutpoint(&nonexistentTransactionID, 0)

	err := setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 100, 0)
	missingTxOutError := ruleerrors.ErrMissingTxOut{}
	if !errors.As(err, &missingTxOutError) {
		t.Fatalf("expected ErrMissingTxOut, got: %+v", err)
	}
	if len(missingTxOutError.MissingOutpoints) != 1 {
		t.Errorf("expected 1 missing outpoint, got %d", len(missingTxOutError.MissingOutpoints))
	}
}

func TestCoinbaseMaturity(t *testing.T) {
	setup := newTestTransactionSetup(t)
	setup.view[*setup.fundingOutpoint] = utxo.NewUTXOEntry(1_000_000, setup.fundingScript, true, 5)
	tx := setup.spendingTransaction(t, 900_000)

	// Spending a height-5 coinbase output at height 14 is one block short
	// of the required maturity of 10.
	err := setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 14, 0)
	if !errors.Is(err, ruleerrors.ErrImmatureSpend) {
		t.Fatalf("expected ErrImmatureSpend, got: %+v", err)
	}

	tx = setup.spendingTransaction(t, 900_000)
	err = setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 15, 0)
	if err != nil {
		t.Fatalf("spending a matured coinbase output failed: %+v", err)
	}
}

func TestSpendTooHigh(t *testing.T) {
	setup := newTestTransactionSetup(t)
	tx := setup.spendingTransaction(t, 1_000_001)

	err := setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 100, 0)
	if !errors.Is(err, ruleerrors.ErrSpendTooHigh) {
		t.Fatalf("expected ErrSpendTooHigh, got: %+v", err)
	}
}

func TestTransactionFinality(t *testing.T) {
	setup := newTestTransactionSetup(t)

	// A height-based lock time that has not passed with a non-final
	// sequence number makes the transaction unfinalized.
	tx := setup.spendingTransaction(t, 900_000)
	tx.LockTime = 200
	tx.Inputs[0].Sequence = 1
	tx.Inputs[0].UTXOEntry = setup.view[*setup.fundingOutpoint]
	signatureScript, err := txscript.SignatureScript(tx, 0, setup.keyPair)
	if err != nil {
		t.Fatalf("SignatureScript: %+v", err)
	}
	tx.Inputs[0].SignatureScript = signatureScript
	tx.Inputs[0].UTXOEntry = nil

	err = setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 100, 0)
	if !errors.Is(err, ruleerrors.ErrUnfinalizedTx) {
		t.Fatalf("expected ErrUnfinalizedTx, got: %+v", err)
	}

	// A maxed-out sequence number finalizes the transaction regardless of
	// its lock time.
	tx = setup.spendingTransaction(t, 900_000)
	tx.LockTime = 200
	tx.Inputs[0].UTXOEntry = setup.view[*setup.fundingOutpoint]
	signatureScript, err = txscript.SignatureScript(tx, 0, setup.keyPair)
	if err != nil {
		t.Fatalf("SignatureScript: %+v", err)
	}
	tx.Inputs[0].SignatureScript = signatureScript
	tx.Inputs[0].UTXOEntry = nil

	err = setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 100, 0)
	if err != nil {
		t.Fatalf("transaction with maxed-out sequence numbers failed: %+v", err)
	}
}

func TestScriptValidation(t *testing.T) {
	setup := newTestTransactionSetup(t)

	// Signing with a key the output is not locked to must fail script
	// verification.
	wrongKeyPair, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		t.Fatalf("GenerateSchnorrKeyPair: %+v", err)
	}
	tx := setup.spendingTransaction(t, 900_000)
	tx.Inputs[0].UTXOEntry = setup.view[*setup.fundingOutpoint]
	signatureScript, err := txscript.SignatureScript(tx, 0, wrongKeyPair)
	if err != nil {
		t.Fatalf("SignatureScript: %+v", err)
	}
	tx.Inputs[0].SignatureScript = signatureScript
	tx.Inputs[0].UTXOEntry = nil

	err = setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 100, 0)
	if !errors.Is(err, ruleerrors.ErrScriptValidation) {
		t.Fatalf("expected ErrScriptValidation, got: %+v", err)
	}

	// A truncated signature is malformed rather than merely invalid.
	tx = setup.spendingTransaction(t, 900_000)
	tx.Inputs[0].SignatureScript = tx.Inputs[0].SignatureScript[:10]

	err = setup.validator.ValidateTransactionInContextAndPopulateFee(tx, setup.view, 100, 0)
	if !errors.Is(err, ruleerrors.ErrScriptMalformed) {
		t.Fatalf("expected ErrScriptMalformed, got: %+v", err)
	}
}
