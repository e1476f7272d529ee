package tipsstore

import (
	"bytes"

	"github.com/emberchain/emberd/domain/consensus/model"
	"github.com/emberchain/emberd/domain/consensus/model/externalapi"
	"github.com/emberchain/emberd/domain/consensus/utils/serialization"
	"github.com/emberchain/emberd/infrastructure/db/database"
	"github.com/pkg/errors"
)

var tipsKey = database.MakeBucket(nil).Key([]byte("tips"))

// tipsStore represents a store of the current chain tips
type tipsStore struct {
	stagedTips []*externalapi.DomainHash
}

// New instantiates a new TipsStore
func New() model.TipsStore {
	return &tipsStore{}
}

// Stage stages the given tips
func (ts *tipsStore) Stage(tips []*externalapi.DomainHash) {
	ts.stagedTips = externalapi.CloneHashes(tips)
}

func (ts *tipsStore) IsStaged() bool {
	return ts.stagedTips != nil
}

func (ts *tipsStore) Discard() {
	ts.stagedTips = nil
}

func (ts *tipsStore) Commit(dbTx model.DBTransaction) error {
	if ts.stagedTips == nil {
		return nil
	}

	tipsBytes, err := serializeTips(ts.stagedTips)
	if err != nil {
		return err
	}
	err = dbTx.Put(tipsKey.Bytes(), tipsBytes)
	if err != nil {
		return err
	}

	ts.Discard()
	return nil
}

// Tips returns the current chain tips
func (ts *tipsStore) Tips(dbContext model.DBContext) ([]*externalapi.DomainHash, error) {
	if ts.stagedTips != nil {
		return externalapi.CloneHashes(ts.stagedTips), nil
	}

	tipsBytes, err := dbContext.Get(tipsKey.Bytes())
	if err != nil {
		return nil, err
	}

	return deserializeTips(tipsBytes)
}

func serializeTips(tips []*externalapi.DomainHash) ([]byte, error) {
	w := &bytes.Buffer{}
	err := serialization.WriteElement(w, uint64(len(tips)))
	if err != nil {
		return nil, err
	}
	for _, tip := range tips {
		err = serialization.WriteElement(w, tip)
		if err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func deserializeTips(tipsBytes []byte) ([]*externalapi.DomainHash, error) {
	r := bytes.NewReader(tipsBytes)
	var length uint64
	err := serialization.ReadElement(r, &length)
	if err != nil {
		return nil, err
	}
	if length > maxTips {
		return nil, errors.Errorf("tips length %d is larger than the maximum allowed %d", length, maxTips)
	}

	tips := make([]*externalapi.DomainHash, length)
	for i := uint64(0); i < length; i++ {
		tip := &externalapi.DomainHash{}
		err = serialization.ReadElement(r, tip)
		if err != nil {
			return nil, err
		}
		tips[i] = tip
	}
	return tips, nil
}

const maxTips = 1 << 20
