package types

import (
	"encoding/json"
	"sync"
)

// BlockContext is the clock of the state machine. The host advances the
// height; it is never derived from wall time.
type BlockContext struct {
	chainID string
	height  int64

	mtx sync.RWMutex
}

func NewBlockContext(chainID string, height int64) *BlockContext {
	return &BlockContext{
		chainID: chainID,
		height:  height,
	}
}

func (bctx *BlockContext) ChainID() string {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.chainID
}

func (bctx *BlockContext) Height() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.height
}

func (bctx *BlockContext) SetHeight(h int64) {
	bctx.mtx.Lock()
	defer bctx.mtx.Unlock()

	bctx.height = h
}

func (bctx *BlockContext) MarshalJSON() ([]byte, error) {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return json.Marshal(&struct {
		ChainID string `json:"chainId"`
		Height  int64  `json:"height"`
	}{
		ChainID: bctx.chainID,
		Height:  bctx.height,
	})
}
