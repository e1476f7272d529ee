package domain

import (
	"math"
	"testing"

	"github.com/emberchain/emberd/domain/chainconfig"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/consensushashing"
	"github.com/emberchain/emberd/domain/consensus/utils/txscript"
	"github.com/emberchain/emberd/domain/consensus/utils/utxo"
	"github.com/emberchain/emberd/domain/miningmanager/mempool"
	"github.com/emberchain/emberd/infrastructure/db/database/ldb"
	"github.com/kaspanet/go-secp256k1"
)

func setupTestDomain(t *testing.T) Domain {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	t.Cleanup(func() {
		err := db.Close()
		if err != nil {
			t.Errorf("closing the database: %+v", err)
		}
	})

	testDomain, err := New(&chainconfig.SimnetParams,
		mempool.DefaultConfig(&chainconfig.SimnetParams), db)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}
	return testDomain
}

type testWallet struct {
	keyPair         *secp256k1.SchnorrKeyPair
	scriptPublicKey []byte
	extraData       []byte
}

func newTestWallet(t *testing.T, extraData string) *testWallet {
	keyPair, err := secp256k1.GenerateSchnorrKeyPair()
	if err != nil {
		t.Fatalf("GenerateSchnorrKeyPair: %+v", err)
	}
	scriptPublicKey, err := txscript.PayToPubKeyScriptForKeyPair(keyPair)
	if err != nil {
		t.Fatalf("PayToPubKeyScriptForKeyPair: %+v", err)
	}
	return &testWallet{
		keyPair:         keyPair,
		scriptPublicKey: scriptPublicKey,
		extraData:       []byte(extraData),
	}
}

// mineBlock requests a block template from the mining manager, inserts it
// and returns it.
func (wallet *testWallet) mineBlock(t *testing.T, testDomain Domain) *externalapi.DomainBlock {
	template, err := testDomain.MiningManager().GetBlockTemplate(&externalapi.DomainCoinbaseData{
		ScriptPublicKey: wallet.scriptPublicKey,
		ExtraData:       wallet.extraData,
	})
	if err != nil {
		t.Fatalf("GetBlockTemplate: %+v", err)
	}
	_, err = testDomain.InsertBlock(template)
	if err != nil {
		t.Fatalf("InsertBlock: %+v", err)
	}
	return template
}

// signedSpend builds a signed transaction spending the first output of
// the given transaction, paying everything but fee back to the wallet.
func (wallet *testWallet) signedSpend(t *testing.T, funding *externalapi.DomainTransaction,
	fee uint64) *externalapi.DomainTransaction {

	fundingOutput := funding.Outputs[0]
	tx := &externalapi.DomainTransaction{
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: *externalapi.NewDomainOutpoint(
				consensushashing.TransactionID(funding), 0),
			Sequence: math.MaxUint64,
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value:           fundingOutput.Value - fee,
			ScriptPublicKey: wallet.scriptPublicKey,
		}},
	}

	tx.Inputs[0].UTXOEntry = utxo.NewUTXOEntry(
		fundingOutput.Value, fundingOutput.ScriptPublicKey, len(funding.Inputs) == 0, 0)
	signatureScript, err := txscript.SignatureScript(tx, 0, wallet.keyPair)
	if err != nil {
		t.Fatalf("SignatureScript: %+v", err)
	}
	tx.Inputs[0].SignatureScript = signatureScript
	tx.Inputs[0].UTXOEntry = nil
	return tx
}

func TestMiningPipeline(t *testing.T) {
	testDomain := setupTestDomain(t)
	wallet := newTestWallet(t, "pipeline")

	fundingBlock := wallet.mineBlock(t, testDomain)
	for i := uint64(0); i < chainconfig.SimnetParams.BlockCoinbaseMaturity-1; i++ {
		wallet.mineBlock(t, testDomain)
	}

	spend := wallet.signedSpend(t, fundingBlock.Transactions[0], 10_000)
	err := testDomain.MiningManager().ValidateAndInsertTransaction(spend)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}
	if testDomain.MiningManager().TransactionCount() != 1 {
		t.Fatalf("pool has %d transactions, want 1", testDomain.MiningManager().TransactionCount())
	}

	// The template carries the pooled transaction, and inserting it
	// empties the pool.
	minedBlock := wallet.mineBlock(t, testDomain)
	if len(minedBlock.Transactions) != 2 {
		t.Fatalf("template has %d transactions, want a coinbase and the pooled spend",
			len(minedBlock.Transactions))
	}
	spendID := consensushashing.TransactionID(spend)
	minedID := consensushashing.TransactionID(minedBlock.Transactions[1])
	if !minedID.Equal(spendID) {
		t.Errorf("template carries transaction %s, want %s", minedID, spendID)
	}
	if testDomain.MiningManager().TransactionCount() != 0 {
		t.Errorf("pool has %d transactions after its content was mined, want 0",
			testDomain.MiningManager().TransactionCount())
	}
}

func TestReorgReadmitsTransactions(t *testing.T) {
	testDomain := setupTestDomain(t)
	sideDomain := setupTestDomain(t)
	wallet := newTestWallet(t, "main")
	sideWallet := newTestWallet(t, "side")

	// Build a shared chain prefix long enough for the first coinbase to
	// mature, and sync it to the side instance.
	fundingBlock := wallet.mineBlock(t, testDomain)
	sharedBlocks := []*externalapi.DomainBlock{fundingBlock}
	for i := uint64(0); i < chainconfig.SimnetParams.BlockCoinbaseMaturity-1; i++ {
		sharedBlocks = append(sharedBlocks, wallet.mineBlock(t, testDomain))
	}
	for _, block := range sharedBlocks {
		_, err := sideDomain.InsertBlock(block)
		if err != nil {
			t.Fatalf("syncing the shared prefix: %+v", err)
		}
	}

	// The main chain mines the spend, the side chain forks past it.
	spend := wallet.signedSpend(t, fundingBlock.Transactions[0], 10_000)
	err := testDomain.MiningManager().ValidateAndInsertTransaction(spend)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}
	spendBlock := wallet.mineBlock(t, testDomain)
	if len(spendBlock.Transactions) != 2 {
		t.Fatalf("the spend was not mined")
	}

	sideBlocks := []*externalapi.DomainBlock{
		sideWallet.mineBlock(t, sideDomain),
		sideWallet.mineBlock(t, sideDomain),
	}

	// The first side block only matches the incumbent work. The second
	// one triggers the reorg that disconnects the spend's block.
	chainChange, err := testDomain.InsertBlock(sideBlocks[0])
	if err != nil {
		t.Fatalf("inserting the first side block: %+v", err)
	}
	if chainChange.HasChanges() {
		t.Fatalf("a side block with no more work than the incumbent chain moved the tip")
	}
	chainChange, err = testDomain.InsertBlock(sideBlocks[1])
	if err != nil {
		t.Fatalf("inserting the second side block: %+v", err)
	}
	expectedRemoved := []*externalapi.DomainHash{consensushashing.BlockHash(spendBlock)}
	if !externalapi.HashesEqual(chainChange.RemovedChainBlockHashes, expectedRemoved) {
		t.Fatalf("removed chain blocks are %v, want just the spend's block %v",
			chainChange.RemovedChainBlockHashes, expectedRemoved)
	}

	// The disconnected spend is valid on the new chain too, so it must
	// be back in the pool and in the next template.
	if testDomain.MiningManager().TransactionCount() != 1 {
		t.Fatalf("pool has %d transactions after the reorg, want the readmitted spend",
			testDomain.MiningManager().TransactionCount())
	}
	template, err := testDomain.MiningManager().GetBlockTemplate(&externalapi.DomainCoinbaseData{
		ScriptPublicKey: wallet.scriptPublicKey,
	})
	if err != nil {
		t.Fatalf("GetBlockTemplate: %+v", err)
	}
	if len(template.Transactions) != 2 ||
		!consensushashing.TransactionID(template.Transactions[1]).Equal(consensushashing.TransactionID(spend)) {
		t.Errorf("the readmitted spend is missing from the next block template")
	}
}
