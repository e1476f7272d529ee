package mempool

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/estimatedsize"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/pkg/errors"
)

const fundingAmount = 10_000_000

// fakeConsensus resolves transaction inputs against a fixed UTXO map and
// populates fee and mass the way the real consensus does, minus script
// verification.
type fakeConsensus struct {
	utxos map[externalapi.DomainOutpoint]externalapi.UTXOEntry
}

func newFakeConsensus() *fakeConsensus {
	return &fakeConsensus{utxos: make(map[externalapi.DomainOutpoint]externalapi.UTXOEntry)}
}

func (fc *fakeConsensus) fundOutpoint(seed byte) *externalapi.DomainOutpoint {
	var transactionID externalapi.DomainTransactionID
	transactionID[0] = seed
	outpoint := externalapi.NewDomainOutpoint(&transactionID, 0)
	fc.utxos[*outpoint] = utxo.NewUTXOEntry(fundingAmount, make([]byte, 32), false, 1)
	return outpoint
}

func (fc *fakeConsensus) ValidateTransactionAndPopulateWithConsensusData(
	transaction *externalapi.DomainTransaction) error {

	var missingOutpoints []*externalapi.DomainOutpoint
	var totalIn uint64
	for _, input := range transaction.Inputs {
		if input.UTXOEntry == nil {
			entry, ok := fc.utxos[input.PreviousOutpoint]
			if !ok {
				missingOutpoints = append(missingOutpoints, &input.PreviousOutpoint)
				continue
			}
			input.UTXOEntry = entry
		}
		totalIn += input.UTXOEntry.Amount()
	}
	if len(missingOutpoints) > 0 {
		return ruleerrors.NewErrMissingTxOut(missingOutpoints)
	}

	var totalOut uint64
	for _, output := range transaction.Outputs {
		totalOut += output.Value
	}
	if totalOut > totalIn {
		return errors.Wrapf(ruleerrors.ErrSpendTooHigh,
			"spends %d while its inputs only carry %d", totalOut, totalIn)
	}

	transaction.Mass = estimatedsize.TransactionEstimatedSerializedSize(transaction)
	transaction.Fee = totalIn - totalOut
	return nil
}

func (fc *fakeConsensus) BuildBlock(coinbaseData *externalapi.DomainCoinbaseData,
	transactions []*externalapi.DomainTransaction) (*externalapi.DomainBlock, error) {

	coinbase := &externalapi.DomainTransaction{
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           constants.SparkPerEmber,
			ScriptPublicKey: coinbaseData.ScriptPublicKey,
		}},
		Payload: coinbaseData.ExtraData,
	}
	return &externalapi.DomainBlock{
		Header:       &externalapi.DomainBlockHeader{},
		Transactions: append([]*externalapi.DomainTransaction{coinbase}, transactions...),
	}, nil
}

func (fc *fakeConsensus) GetVirtualInfo() (*externalapi.VirtualInfo, error) {
	return &externalapi.VirtualInfo{
		TipHash:         &externalapi.DomainHash{},
		NextBlockHeight: 2,
	}, nil
}

func (fc *fakeConsensus) GetVirtualUTXOEntry(
	outpoint *externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool, error) {

	entry, ok := fc.utxos[*outpoint]
	return entry, ok, nil
}

func (fc *fakeConsensus) GetBlock(blockHash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	return nil, errors.Errorf("block %s not found", blockHash)
}

func setupTestMempool(t *testing.T, adjustConfig func(config *Config)) (*mempool, *fakeConsensus) {
	config := DefaultConfig(nil)
	if adjustConfig != nil {
		adjustConfig(config)
	}
	consensus := newFakeConsensus()
	return New(config, consensus).(*mempool), consensus
}

// spendingTransaction spends the given outpoints, paying everything but
// fee to a single output.
func spendingTransaction(fee uint64, outpoints ...*externalapi.DomainOutpoint) *externalapi.DomainTransaction {
	inputs := make([]*externalapi.DomainTransactionInput, len(outpoints))
	for i, outpoint := range outpoints {
		inputs[i] = &externalapi.DomainTransactionInput{
			PreviousOutpoint: *outpoint,
			SignatureScript:  make([]byte, 64),
			Sequence:         math.MaxUint64,
		}
	}
	return &externalapi.DomainTransaction{
		Inputs: inputs,
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           uint64(len(outpoints))*fundingAmount - fee,
			ScriptPublicKey: make([]byte, 32),
		}},
	}
}

func outpointOf(transaction *externalapi.DomainTransaction, index uint32) *externalapi.DomainOutpoint {
	return externalapi.NewDomainOutpoint(consensushashing.TransactionID(transaction), index)
}

func expectRejectCode(t *testing.T, err error, expected RejectCode) {
	t.Helper()
	txRuleErr := TxRuleError{}
	if !errors.As(err, &txRuleErr) {
		t.Fatalf("expected a TxRuleError with code %s, got: %+v", expected, err)
	}
	if txRuleErr.RejectCode != expected {
		t.Fatalf("expected reject code %s, got %s: %s", expected, txRuleErr.RejectCode, txRuleErr)
	}
}

func TestFeeRateOrdering(t *testing.T) {
	mp, consensus := setupTestMempool(t, nil)

	lowFee := spendingTransaction(10_000, consensus.fundOutpoint(1))
	highFee := spendingTransaction(100_000, consensus.fundOutpoint(2))
	midFee := spendingTransaction(50_000, consensus.fundOutpoint(3))

	for _, transaction := range []*externalapi.DomainTransaction{lowFee, highFee, midFee} {
		err := mp.ValidateAndInsertTransaction(transaction)
		if err != nil {
			t.Fatalf("ValidateAndInsertTransaction: %+v", err)
		}
	}

	candidates := mp.BlockCandidateTransactions()
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidate transactions, got %d: %s",
			len(candidates), spew.Sdump(candidates))
	}
	expectedOrder := []*externalapi.DomainTransaction{highFee, midFee, lowFee}
	for i, expected := range expectedOrder {
		if !consensushashing.TransactionID(candidates[i]).Equal(consensushashing.TransactionID(expected)) {
			t.Errorf("candidate %d is %s, want %s (fee %d)",
				i, consensushashing.TransactionID(candidates[i]), consensushashing.TransactionID(expected), expected.Fee)
		}
	}
}

func TestDuplicateTransactionRejected(t *testing.T) {
	mp, consensus := setupTestMempool(t, nil)

	transaction := spendingTransaction(10_000, consensus.fundOutpoint(1))
	err := mp.ValidateAndInsertTransaction(transaction)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}

	duplicate := transaction.Clone()
	expectRejectCode(t, mp.ValidateAndInsertTransaction(duplicate), RejectDuplicate)
}

func TestMissingInputsRejected(t *testing.T) {
	mp, _ := setupTestMempool(t, nil)

	var unknownTransactionID externalapi.DomainTransactionID
	unknownTransactionID[0] = 0xff
	orphan := spendingTransaction(10_000, externalapi.NewDomainOutpoint(&unknownTransactionID, 0))

	expectRejectCode(t, mp.ValidateAndInsertTransaction(orphan), RejectMissingInputs)
	if mp.TransactionCount() != 0 {
		t.Errorf("rejected transaction was added to the pool")
	}
	if orphan.Inputs[0].UTXOEntry != nil {
		t.Errorf("rejected transaction left with a populated UTXO entry")
	}
}

func TestInsufficientFeeRejected(t *testing.T) {
	mp, consensus := setupTestMempool(t, nil)

	// The default relay fee is 1000 spark per kilomass, so a fee of 1
	// spark is under the minimum for any realistic transaction.
	cheapskate := spendingTransaction(1, consensus.fundOutpoint(1))
	expectRejectCode(t, mp.ValidateAndInsertTransaction(cheapskate), RejectInsufficientFee)
}

func TestChainedTransactions(t *testing.T) {
	mp, consensus := setupTestMempool(t, nil)

	parent := spendingTransaction(10_000, consensus.fundOutpoint(1))
	err := mp.ValidateAndInsertTransaction(parent)
	if err != nil {
		t.Fatalf("inserting the parent: %+v", err)
	}

	// The child spends an output that only exists in the pool.
	child := spendingTransaction(10_000, outpointOf(parent, 0))
	child.Outputs[0].Value = parent.Outputs[0].Value - 10_000
	err = mp.ValidateAndInsertTransaction(child)
	if err != nil {
		t.Fatalf("inserting the chained child: %+v", err)
	}
	if mp.TransactionCount() != 2 {
		t.Fatalf("expected 2 pooled transactions, got %d", mp.TransactionCount())
	}

	// Until the parent is confirmed, only the parent is a block
	// candidate.
	candidates := mp.BlockCandidateTransactions()
	if len(candidates) != 1 ||
		!consensushashing.TransactionID(candidates[0]).Equal(consensushashing.TransactionID(parent)) {
		t.Fatalf("expected the parent to be the only candidate, got %d candidates", len(candidates))
	}

	// Confirming the parent releases the child, provided its output is
	// now known to the consensus.
	consensus.utxos[*outpointOf(parent, 0)] = utxo.NewUTXOEntry(
		parent.Outputs[0].Value, parent.Outputs[0].ScriptPublicKey, false, 2)
	err = mp.HandleNewBlockTransactions([]*externalapi.DomainTransaction{{}, parent})
	if err != nil {
		t.Fatalf("HandleNewBlockTransactions: %+v", err)
	}

	candidates = mp.BlockCandidateTransactions()
	if len(candidates) != 1 ||
		!consensushashing.TransactionID(candidates[0]).Equal(consensushashing.TransactionID(child)) {
		t.Fatalf("expected the child to become a candidate after its parent was confirmed")
	}
}

func TestChainTooLongRejected(t *testing.T) {
	mp, consensus := setupTestMempool(t, func(config *Config) {
		config.MaximumAncestorCount = 2
	})

	transaction := spendingTransaction(10_000, consensus.fundOutpoint(1))
	for i := 0; i < 3; i++ {
		err := mp.ValidateAndInsertTransaction(transaction)
		if err != nil {
			t.Fatalf("inserting chain link %d: %+v", i, err)
		}
		next := spendingTransaction(10_000, outpointOf(transaction, 0))
		next.Outputs[0].Value = transaction.Outputs[0].Value - 10_000
		transaction = next
	}

	expectRejectCode(t, mp.ValidateAndInsertTransaction(transaction), RejectChainTooLong)
}

func TestReplaceByFee(t *testing.T) {
	mp, consensus := setupTestMempool(t, nil)
	fundingOutpoint := consensus.fundOutpoint(1)

	original := spendingTransaction(10_000, fundingOutpoint)
	err := mp.ValidateAndInsertTransaction(original)
	if err != nil {
		t.Fatalf("inserting the original: %+v", err)
	}

	// A conflict paying a lower fee rate must not replace the original.
	undercutting := spendingTransaction(9_000, fundingOutpoint)
	expectRejectCode(t, mp.ValidateAndInsertTransaction(undercutting), RejectInsufficientFee)
	if mp.TransactionCount() != 1 {
		t.Fatalf("a rejected replacement changed the pool")
	}

	// A redeemer of the original raises the fee total a replacement has
	// to beat.
	redeemer := spendingTransaction(50_000, outpointOf(original, 0))
	redeemer.Outputs[0].Value = original.Outputs[0].Value - 50_000
	err = mp.ValidateAndInsertTransaction(redeemer)
	if err != nil {
		t.Fatalf("inserting the redeemer: %+v", err)
	}

	// This conflict has a higher fee rate than the original but does not
	// outbid original+redeemer together.
	outbidOriginalOnly := spendingTransaction(20_000, fundingOutpoint)
	expectRejectCode(t, mp.ValidateAndInsertTransaction(outbidOriginalOnly), RejectInsufficientFee)

	// Outbidding everything it evicts replaces the original and drops
	// the redeemer with it.
	replacement := spendingTransaction(70_000, fundingOutpoint)
	err = mp.ValidateAndInsertTransaction(replacement)
	if err != nil {
		t.Fatalf("inserting the replacement: %+v", err)
	}
	if mp.TransactionCount() != 1 {
		t.Fatalf("expected only the replacement in the pool, got %d transactions", mp.TransactionCount())
	}
	candidates := mp.BlockCandidateTransactions()
	if len(candidates) != 1 ||
		!consensushashing.TransactionID(candidates[0]).Equal(consensushashing.TransactionID(replacement)) {
		t.Fatalf("the replacement is not the pool's only candidate")
	}
}

func TestPoolSizeLimit(t *testing.T) {
	mp, consensus := setupTestMempool(t, func(config *Config) {
		config.MaximumTransactionCount = 2
	})

	lowFee := spendingTransaction(10_000, consensus.fundOutpoint(1))
	midFee := spendingTransaction(50_000, consensus.fundOutpoint(2))
	highFee := spendingTransaction(100_000, consensus.fundOutpoint(3))

	for _, transaction := range []*externalapi.DomainTransaction{lowFee, midFee, highFee} {
		err := mp.ValidateAndInsertTransaction(transaction)
		if err != nil {
			t.Fatalf("ValidateAndInsertTransaction: %+v", err)
		}
	}

	if mp.TransactionCount() != 2 {
		t.Fatalf("expected the pool to be capped at 2 transactions, got %d", mp.TransactionCount())
	}
	if _, ok := mp.transactionsPool.allTransactions[*consensushashing.TransactionID(lowFee)]; ok {
		t.Errorf("the lowest fee rate transaction was not the one evicted")
	}
}

func TestHandleNewBlockDoubleSpends(t *testing.T) {
	mp, consensus := setupTestMempool(t, nil)
	fundingOutpoint := consensus.fundOutpoint(1)

	pooled := spendingTransaction(10_000, fundingOutpoint)
	err := mp.ValidateAndInsertTransaction(pooled)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}
	redeemer := spendingTransaction(10_000, outpointOf(pooled, 0))
	redeemer.Outputs[0].Value = pooled.Outputs[0].Value - 10_000
	err = mp.ValidateAndInsertTransaction(redeemer)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}

	// A block confirms a different transaction spending the same funding
	// outpoint. The pooled conflict and its redeemer become unminable.
	confirmed := spendingTransaction(20_000, fundingOutpoint)
	err = mp.HandleNewBlockTransactions([]*externalapi.DomainTransaction{{}, confirmed})
	if err != nil {
		t.Fatalf("HandleNewBlockTransactions: %+v", err)
	}
	if mp.TransactionCount() != 0 {
		t.Errorf("conflicting transactions survived the block, %d still pooled", mp.TransactionCount())
	}
}

func TestReadmitTransactions(t *testing.T) {
	mp, consensus := setupTestMempool(t, nil)

	transaction := spendingTransaction(10_000, consensus.fundOutpoint(1))
	err := mp.ValidateAndInsertTransaction(transaction)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}

	// The transaction is confirmed and removed, then its block is
	// disconnected by a reorg, returning it to the pool.
	err = mp.HandleNewBlockTransactions([]*externalapi.DomainTransaction{{}, transaction})
	if err != nil {
		t.Fatalf("HandleNewBlockTransactions: %+v", err)
	}
	if mp.TransactionCount() != 0 {
		t.Fatalf("confirmed transaction still pooled")
	}

	mp.ReadmitTransactions([]*externalapi.DomainTransaction{transaction})
	if mp.TransactionCount() != 1 {
		t.Fatalf("disconnected transaction was not readmitted")
	}

	// Readmission is quiet: a transaction that is no longer valid is
	// dropped without failing the rest.
	var unknownTransactionID externalapi.DomainTransactionID
	unknownTransactionID[0] = 0xff
	invalid := spendingTransaction(10_000, externalapi.NewDomainOutpoint(&unknownTransactionID, 0))
	mp.ReadmitTransactions([]*externalapi.DomainTransaction{invalid})
	if mp.TransactionCount() != 1 {
		t.Fatalf("an invalid readmission changed the pool")
	}
}

func TestZeroFeeTransactionWithZeroRelayFee(t *testing.T) {
	mp, consensus := setupTestMempool(t, func(config *Config) {
		config.MinimumRelayTransactionFee = 0
	})

	// With no relay fee configured, a transaction paying its whole input
	// out is admissible and must order below any paying transaction.
	freeRider := spendingTransaction(0, consensus.fundOutpoint(1))
	err := mp.ValidateAndInsertTransaction(freeRider)
	if err != nil {
		t.Fatalf("inserting a zero fee transaction: %+v", err)
	}
	paying := spendingTransaction(10_000, consensus.fundOutpoint(2))
	err = mp.ValidateAndInsertTransaction(paying)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}

	candidates := mp.BlockCandidateTransactions()
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidate transactions, got %d: %s",
			len(candidates), spew.Sdump(candidates))
	}
	if !consensushashing.TransactionID(candidates[0]).Equal(consensushashing.TransactionID(paying)) {
		t.Errorf("the paying transaction does not precede the zero fee one")
	}

	// Confirming the zero fee transaction removes it through the same
	// ordered index it was inserted into.
	err = mp.HandleNewBlockTransactions([]*externalapi.DomainTransaction{{}, freeRider})
	if err != nil {
		t.Fatalf("HandleNewBlockTransactions: %+v", err)
	}
	if mp.TransactionCount() != 1 {
		t.Errorf("expected 1 pooled transaction after the confirmation, got %d", mp.TransactionCount())
	}
}
