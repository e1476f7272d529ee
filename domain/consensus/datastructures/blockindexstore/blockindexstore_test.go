package blockindexstore

import (
	"math/big"
	"testing"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/infrastructure/db/database"
	"github.com/emberchain/emberd/infrastructure/db/database/ldb"
)

func setupTestDatabase(t *testing.T) database.Database {
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
	return db
}

func testNode(parentSeed byte, height uint64) *model.BlockIndexNode {
	parentHash := &externalapi.DomainHash{}
	parentHash[0] = parentSeed
	return &model.BlockIndexNode{
		ParentHash: parentHash,
		Height:     height,
		ChainWork:  new(big.Int).SetUint64(height * 2),
	}
}

func checkNodesEqual(t *testing.T, actual, expected *model.BlockIndexNode) {
	t.Helper()
	if !actual.ParentHash.Equal(expected.ParentHash) {
		t.Errorf("parent hash is %s, want %s", actual.ParentHash, expected.ParentHash)
	}
	if actual.Height != expected.Height {
		t.Errorf("height is %d, want %d", actual.Height, expected.Height)
	}
	if actual.ChainWork.Cmp(expected.ChainWork) != 0 {
		t.Errorf("chain work is %s, want %s", actual.ChainWork, expected.ChainWork)
	}
}

func TestBlockIndexStoreStaging(t *testing.T) {
	db := setupTestDatabase(t)
	store := New()

	blockHash := &externalapi.DomainHash{1}
	node := testNode(2, 7)

	// Staged entries are visible before any commit.
	store.Stage(blockHash, node)
	if !store.IsStaged() {
		t.Fatalf("store does not report staged data after Stage")
	}
	has, err := store.Has(db, blockHash)
	if err != nil {
		t.Fatalf("Has: %+v", err)
	}
	if !has {
		t.Fatalf("staged node not visible through Has")
	}
	staged, err := store.Get(db, blockHash)
	if err != nil {
		t.Fatalf("Get: %+v", err)
	}
	checkNodesEqual(t, staged, node)

	// Commit persists the staging area and clears it.
	dbTx, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %+v", err)
	}
	err = store.Commit(dbTx)
	if err != nil {
		t.Fatalf("Commit: %+v", err)
	}
	err = dbTx.Commit()
	if err != nil {
		t.Fatalf("committing the database transaction: %+v", err)
	}
	if store.IsStaged() {
		t.Errorf("store still reports staged data after Commit")
	}

	persisted, err := store.Get(db, blockHash)
	if err != nil {
		t.Fatalf("Get after Commit: %+v", err)
	}
	checkNodesEqual(t, persisted, node)
}

func TestBlockIndexStoreDiscard(t *testing.T) {
	db := setupTestDatabase(t)
	store := New()

	blockHash := &externalapi.DomainHash{1}
	store.Stage(blockHash, testNode(2, 7))
	store.Discard()

	if store.IsStaged() {
		t.Errorf("store still reports staged data after Discard")
	}
	_, err := store.Get(db, blockHash)
	if !database.IsNotFoundError(err) {
		t.Fatalf("expected ErrNotFound after Discard, got: %+v", err)
	}
}

func TestBlockIndexStoreStageClones(t *testing.T) {
	db := setupTestDatabase(t)
	store := New()

	blockHash := &externalapi.DomainHash{1}
	node := testNode(2, 7)
	store.Stage(blockHash, node)

	// Mutating the input after staging must not leak into the store.
	node.Height = 100
	node.ChainWork.SetUint64(9999)

	staged, err := store.Get(db, blockHash)
	if err != nil {
		t.Fatalf("Get: %+v", err)
	}
	checkNodesEqual(t, staged, testNode(2, 7))
}
