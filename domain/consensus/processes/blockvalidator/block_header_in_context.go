package blockvalidator

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// ValidateHeaderInContext validates block headers in the context of the
// current consensus state. The caller guarantees the parent block exists.
func (v *blockValidator) ValidateHeaderInContext(header *externalapi.DomainBlockHeader) error {
	err := v.checkParentNotInvalid(header)
	if err != nil {
		return err
	}
	err = v.validateDifficulty(header)
	if err != nil {
		return err
	}
	return v.validateMedianTime(header)
}

func (v *blockValidator) checkParentNotInvalid(header *externalapi.DomainBlockHeader) error {
	parentStatus, err := v.blockStatusStore.Get(v.databaseContext, &header.ParentHash)
	if err != nil {
		return err
	}
	if parentStatus == externalapi.StatusInvalid {
		return errors.Wrapf(ruleerrors.ErrInvalidAncestorBlock,
			"parent %s is known to be invalid", &header.ParentHash)
	}
	return nil
}

func (v *blockValidator) validateDifficulty(header *externalapi.DomainBlockHeader) error {
	expectedBits, err := v.difficultyManager.RequiredDifficulty(&header.ParentHash)
	if err != nil {
		return err
	}
	if header.Bits != expectedBits {
		return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty,
			"block difficulty of %d is not the expected value of %d", header.Bits, expectedBits)
	}
	return nil
}

func (v *blockValidator) validateMedianTime(header *externalapi.DomainBlockHeader) error {
	pastMedianTime, err := v.pastMedianTimeManager.PastMedianTime(&header.ParentHash)
	if err != nil {
		return err
	}
	if header.TimeInMilliseconds <= pastMedianTime {
		return errors.Wrapf(ruleerrors.ErrTimeTooOld,
			"block timestamp of %d is not after expected %d",
			header.TimeInMilliseconds, pastMedianTime)
	}
	return nil
}
