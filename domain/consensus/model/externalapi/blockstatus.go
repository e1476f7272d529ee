package externalapi

// BlockStatus represents the validation state of the block. Statuses only
// ever escalate: a block status may move to a status of a higher rank, and
// StatusInvalid is terminal.
type BlockStatus byte

// Clone returns a clone of BlockStatus
func (bs BlockStatus) Clone() BlockStatus {
	return bs
}

const (
	// StatusInvalid indicates that the block is invalid. It is a terminal
	// status: a block is never re-validated once it has been marked
	// invalid.
	StatusInvalid BlockStatus = iota

	// StatusHeaderChecked indicates that the block header passed all
	// checks that can be run against the header in isolation.
	StatusHeaderChecked

	// StatusStructurallyChecked indicates that the block body passed all
	// structural checks: merkle commitment, size bounds and coinbase
	// placement.
	StatusStructurallyChecked

	// StatusContextuallyValid indicates that the block passed all checks
	// against its position in the block index, but its transactions were
	// not yet validated against a UTXO view. Blocks on inactive branches
	// stay in this status until their branch becomes the active chain.
	StatusContextuallyValid

	// StatusConnected indicates that the block has been fully validated
	// and its transactions were applied to the UTXO set. A block is never
	// demoted from StatusConnected.
	StatusConnected
)

var blockStatusStrings = map[BlockStatus]string{
	StatusInvalid:             "Invalid",
	StatusHeaderChecked:       "HeaderChecked",
	StatusStructurallyChecked: "StructurallyChecked",
	StatusContextuallyValid:   "ContextuallyValid",
	StatusConnected:           "Connected",
}

func (bs BlockStatus) String() string {
	return blockStatusStrings[bs]
}

// CanEscalateTo returns whether a block in status bs may transition to
// newStatus. Escalation is monotone: moving to a lower-ranked status is
// forbidden, StatusInvalid is reachable from any non-terminal status, and
// nothing is reachable from StatusInvalid or demoted from StatusConnected.
func (bs BlockStatus) CanEscalateTo(newStatus BlockStatus) bool {
	if bs == StatusInvalid {
		return false
	}
	if newStatus == StatusInvalid {
		return bs != StatusConnected
	}
	return newStatus > bs
}
