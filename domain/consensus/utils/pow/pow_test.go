package pow

import (
	"math/big"
	"testing"
)

func TestCompactToBig(t *testing.T) {
	tests := []struct {
		name     string
		compact  uint32
		expected *big.Int
	}{
		{"zero", 0, big.NewInt(0)},
		{"small positive", 0x01123456, big.NewInt(0x12)},
		{"exponent of three", 0x03123456, big.NewInt(0x123456)},
		{"mainnet-like difficulty", 0x1d00ffff, new(big.Int).Lsh(big.NewInt(0xffff), 208)},
		{"simnet powmax", 0x207fffff, new(big.Int).Lsh(big.NewInt(0x7fffff), 232)},
		{"negative", 0x01803456, big.NewInt(-0x34)},
	}

	for _, test := range tests {
		result := CompactToBig(test.compact)
		if result.Cmp(test.expected) != 0 {
			t.Errorf("%s: CompactToBig(%08x) = %x, want %x",
				test.name, test.compact, result, test.expected)
		}
	}
}

func TestBigToCompactRoundTrip(t *testing.T) {
	tests := []uint32{
		0x03123456,
		0x1d00ffff,
		0x1b0404cb,
		0x207fffff,
	}

	for _, compact := range tests {
		roundTrip := BigToCompact(CompactToBig(compact))
		if roundTrip != compact {
			t.Errorf("round trip of %08x produced %08x", compact, roundTrip)
		}
	}
}

func TestBigToCompactZero(t *testing.T) {
	if result := BigToCompact(big.NewInt(0)); result != 0 {
		t.Errorf("BigToCompact(0) = %08x, want 0", result)
	}
}

func TestCalcWork(t *testing.T) {
	// Work is 2^256 / (target + 1). A halved target roughly doubles the
	// work.
	easyWork := CalcWork(0x207fffff)
	halvedWork := CalcWork(0x203fffff)

	if easyWork.Sign() <= 0 {
		t.Fatalf("CalcWork returned non-positive work %s for a valid target", easyWork)
	}

	ratio := new(big.Int).Div(halvedWork, easyWork)
	if ratio.Cmp(big.NewInt(2)) != 0 {
		t.Errorf("halving the target multiplied work by %s, want 2", ratio)
	}

	// A negative target is invalid and carries no work.
	if work := CalcWork(0x01803456); work.Sign() != 0 {
		t.Errorf("CalcWork for a negative target = %s, want 0", work)
	}
}
