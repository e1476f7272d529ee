package model

import "github.com/emberchain/emberd/domain/consensus/model/externalapi"

// TipsStore represents a store of the current chain tips
type TipsStore interface {
	Store
	Stage(tips []*externalapi.DomainHash)
	Tips(dbContext DBContext) ([]*externalapi.DomainHash, error)
}
