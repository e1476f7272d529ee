package utxo

import (
	"testing"

	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

func testOutpoint(b byte, index uint32) *externalapi.DomainOutpoint {
	var transactionID externalapi.DomainTransactionID
	transactionID[0] = b
	return externalapi.NewDomainOutpoint(&transactionID, index)
}

func testEntry(amount uint64) externalapi.UTXOEntry {
	return NewUTXOEntry(amount, []byte{0x01}, false, 7)
}

func TestAddTransaction(t *testing.T) {
	spentOutpoint := testOutpoint(1, 0)
	spentEntry := testEntry(100_000)

	transaction := &externalapi.DomainTransaction{
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: *spentOutpoint,
			UTXOEntry:        spentEntry,
		}},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: 60_000, ScriptPublicKey: []byte{0x02}},
			{Value: 30_000, ScriptPublicKey: []byte{0x03}},
		},
	}

	diff := newMutableUTXODiff()
	err := diff.AddTransaction(transaction, 42)
	if err != nil {
		t.Fatalf("AddTransaction: %+v", err)
	}

	if !diff.toRemove.containsWithEqualEntry(spentOutpoint, spentEntry) {
		t.Errorf("spent outpoint %s missing from toRemove", spentOutpoint)
	}
	if diff.toAdd.Len() != 2 {
		t.Fatalf("unexpected toAdd length: got %d, want 2", diff.toAdd.Len())
	}
	for outpoint, entry := range diff.toAdd {
		if entry.BlockHeight() != 42 {
			t.Errorf("output %s has block height %d, want 42", &outpoint, entry.BlockHeight())
		}
		if entry.IsCoinbase() {
			t.Errorf("output %s unexpectedly marked as a coinbase output", &outpoint)
		}
	}
}

func TestAddTransactionCoinbase(t *testing.T) {
	coinbase := &externalapi.DomainTransaction{
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: 50_000_000, ScriptPublicKey: []byte{0x02}},
		},
		Payload: []byte{0x00},
	}

	diff := newMutableUTXODiff()
	err := diff.AddTransaction(coinbase, 0)
	if err != nil {
		t.Fatalf("AddTransaction: %+v", err)
	}
	if diff.toRemove.Len() != 0 {
		t.Errorf("coinbase transaction staged removals: %s", diff.toRemove)
	}
	for outpoint, entry := range diff.toAdd {
		if !entry.IsCoinbase() {
			t.Errorf("output %s of a coinbase transaction not marked as coinbase", &outpoint)
		}
	}
}

func TestAddTransactionMissingEntry(t *testing.T) {
	transaction := &externalapi.DomainTransaction{
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: *testOutpoint(1, 0),
		}},
		Outputs: []*externalapi.DomainTransactionOutput{
			{Value: 1, ScriptPublicKey: []byte{0x02}},
		},
	}

	diff := newMutableUTXODiff()
	err := diff.AddTransaction(transaction, 1)
	if err == nil {
		t.Fatalf("AddTransaction unexpectedly succeeded with an unpopulated input entry")
	}
}

func TestWithDiffInPlaceCancellation(t *testing.T) {
	outpoint := testOutpoint(1, 0)
	entry := testEntry(100)

	// Adding an output and then removing it must leave no trace.
	first := newMutableUTXODiff()
	first.toAdd.add(outpoint, entry)

	second := newMutableUTXODiff()
	second.toRemove.add(outpoint, entry)

	err := first.WithDiffInPlace(second.ToImmutable())
	if err != nil {
		t.Fatalf("WithDiffInPlace: %+v", err)
	}
	if first.toAdd.Len() != 0 || first.toRemove.Len() != 0 {
		t.Errorf("add-then-remove did not cancel out: %s", first)
	}

	// Removing an output and then re-adding the very same entry must
	// cancel out as well.
	first = newMutableUTXODiff()
	first.toRemove.add(outpoint, entry)

	second = newMutableUTXODiff()
	second.toAdd.add(outpoint, entry)

	err = first.WithDiffInPlace(second.ToImmutable())
	if err != nil {
		t.Fatalf("WithDiffInPlace: %+v", err)
	}
	if first.toAdd.Len() != 0 || first.toRemove.Len() != 0 {
		t.Errorf("remove-then-re-add did not cancel out: %s", first)
	}
}

func TestWithDiffInPlaceReplacement(t *testing.T) {
	outpoint := testOutpoint(1, 0)
	removedEntry := testEntry(100)
	replacementEntry := testEntry(200)

	first := newMutableUTXODiff()
	first.toRemove.add(outpoint, removedEntry)

	second := newMutableUTXODiff()
	second.toAdd.add(outpoint, replacementEntry)

	err := first.WithDiffInPlace(second.ToImmutable())
	if err != nil {
		t.Fatalf("WithDiffInPlace: %+v", err)
	}
	if first.toRemove.Len() != 0 {
		t.Errorf("replaced outpoint still in toRemove: %s", first.toRemove)
	}
	if !first.toAdd.containsWithEqualEntry(outpoint, replacementEntry) {
		t.Errorf("replacement entry missing from toAdd: %s", first.toAdd)
	}
}

func TestWithDiffInPlaceDuplicateAdd(t *testing.T) {
	outpoint := testOutpoint(1, 0)

	first := newMutableUTXODiff()
	first.toAdd.add(outpoint, testEntry(100))

	second := newMutableUTXODiff()
	second.toAdd.add(outpoint, testEntry(200))

	err := first.WithDiffInPlace(second.ToImmutable())
	if !errors.Is(err, ruleerrors.ErrDuplicateOutput) {
		t.Fatalf("expected ErrDuplicateOutput, got: %+v", err)
	}
}

func TestReversed(t *testing.T) {
	addedOutpoint := testOutpoint(1, 0)
	addedEntry := testEntry(100)
	removedOutpoint := testOutpoint(2, 1)
	removedEntry := testEntry(200)

	diff := newMutableUTXODiff()
	diff.toAdd.add(addedOutpoint, addedEntry)
	diff.toRemove.add(removedOutpoint, removedEntry)

	reversed := diff.ToImmutable().Reversed()
	if !reversed.ToRemove().Contains(addedOutpoint) {
		t.Errorf("added outpoint not in reversed toRemove")
	}
	if !reversed.ToAdd().Contains(removedOutpoint) {
		t.Errorf("removed outpoint not in reversed toAdd")
	}

	// Applying a diff followed by its reversal must cancel out entirely.
	roundTrip := diff.clone()
	err := roundTrip.WithDiffInPlace(reversed)
	if err != nil {
		t.Fatalf("WithDiffInPlace: %+v", err)
	}
	if roundTrip.toAdd.Len() != 0 || roundTrip.toRemove.Len() != 0 {
		t.Errorf("diff and its reversal did not cancel out: %s", roundTrip)
	}
}

func TestSerializeUTXODiffRoundTrip(t *testing.T) {
	diff := newMutableUTXODiff()
	diff.toAdd.add(testOutpoint(1, 0), testEntry(100))
	diff.toAdd.add(testOutpoint(2, 3), NewUTXOEntry(50, []byte{0x04, 0x05}, true, 0))
	diff.toRemove.add(testOutpoint(3, 1), testEntry(200))

	serialized, err := SerializeUTXODiff(diff.ToImmutable())
	if err != nil {
		t.Fatalf("SerializeUTXODiff: %+v", err)
	}
	deserialized, err := DeserializeUTXODiff(serialized)
	if err != nil {
		t.Fatalf("DeserializeUTXODiff: %+v", err)
	}

	checkCollectionsEqual := func(name string, expected, actual externalapi.UTXOCollection) {
		if expected.Len() != actual.Len() {
			t.Fatalf("%s: length mismatch: got %d, want %d", name, actual.Len(), expected.Len())
		}
		iterator := expected.Iterator()
		for iterator.Next() {
			outpoint, entry, err := iterator.Get()
			if err != nil {
				t.Fatalf("%s: iterator.Get: %+v", name, err)
			}
			actualEntry, ok := actual.Get(outpoint)
			if !ok {
				t.Fatalf("%s: outpoint %s missing after round trip", name, outpoint)
			}
			if !actualEntry.Equal(entry) {
				t.Errorf("%s: entry for %s changed after round trip", name, outpoint)
			}
		}
	}
	checkCollectionsEqual("toAdd", diff.ToAdd(), deserialized.ToAdd())
	checkCollectionsEqual("toRemove", diff.ToRemove(), deserialized.ToRemove())
}
