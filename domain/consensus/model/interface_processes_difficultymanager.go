package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// DifficultyManager provides a method to resolve the
// difficulty value of a block
type DifficultyManager interface {
	RequiredDifficulty(parentHash *externalapi.DomainHash) (uint32, error)
}
