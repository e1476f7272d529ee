package blockvalidator

import (
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/ruleerrors"
	"github.com/emberchain/emberd/domain/consensus/utils/constants"
	"github.com/emberchain/emberd/domain/consensus/utils/pow"
	"github.com/pkg/errors"
)

// ValidateHeaderInIsolation validates block headers in isolation from the
// current consensus state
func (v *blockValidator) ValidateHeaderInIsolation(header *externalapi.DomainBlockHeader) error {
	err := v.checkBlockVersion(header)
	if err != nil {
		return err
	}
	err = v.checkBlockTimestampInIsolation(header)
	if err != nil {
		return err
	}
	return v.checkProofOfWork(header)
}

func (v *blockValidator) checkBlockVersion(header *externalapi.DomainBlockHeader) error {
	if header.Version > constants.MaxBlockVersion {
		return errors.Wrapf(ruleerrors.ErrBlockVersionIsUnknown,
			"block version %d is unknown, max known version is %d",
			header.Version, constants.MaxBlockVersion)
	}
	return nil
}

func (v *blockValidator) checkBlockTimestampInIsolation(header *externalapi.DomainBlockHeader) error {
	maxAllowedTime := v.timeSource.Now().Add(v.maxTimeOffset)
	maxAllowedTimeInMilliseconds := maxAllowedTime.UnixNano() / int64(1_000_000)
	if header.TimeInMilliseconds > maxAllowedTimeInMilliseconds {
		return errors.Wrapf(ruleerrors.ErrTimeTooMuchInTheFuture,
			"block timestamp of %d is ahead of the maximum allowed time of %d",
			header.TimeInMilliseconds, maxAllowedTimeInMilliseconds)
	}
	return nil
}

// checkProofOfWork ensures the block header bits which indicate the target
// difficulty is in min/max range and that the block hash is less than the
// target difficulty as claimed.
func (v *blockValidator) checkProofOfWork(header *externalapi.DomainBlockHeader) error {
	// The target difficulty must be larger than zero.
	target := pow.CompactToBig(header.Bits)
	if target.Sign() <= 0 {
		return errors.Wrapf(ruleerrors.ErrNegativeTarget,
			"block target difficulty of %064x is too low", target)
	}

	// The target difficulty must be less than the maximum allowed.
	if target.Cmp(v.powMax) > 0 {
		return errors.Wrapf(ruleerrors.ErrTargetTooHigh,
			"block target difficulty of %064x is higher than max of %064x", target, v.powMax)
	}

	if v.skipProofOfWork {
		return nil
	}
	if !pow.CheckProofOfWorkWithTarget(header, target) {
		return errors.Wrapf(ruleerrors.ErrInvalidPoW, "block has invalid proof of work")
	}
	return nil
}
