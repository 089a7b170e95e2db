package reserve

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/ledger"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"sync"
)

// Reservation is a voter's proposal-agnostic pool of committed tokens.
// It is bound to a proposal only when a vote consumes it.
type Reservation struct {
	Owner  types.Address `json:"owner"`
	Amount *uint256.Int  `json:"amount"`

	mtx sync.RWMutex
}

func NewReservation(owner types.Address) *Reservation {
	return &Reservation{
		Owner:  owner,
		Amount: uint256.NewInt(0),
	}
}

func (rsv *Reservation) GetAmount() *uint256.Int {
	rsv.mtx.RLock()
	defer rsv.mtx.RUnlock()

	return new(uint256.Int).Set(rsv.Amount)
}

func (rsv *Reservation) AddAmount(amt *uint256.Int) xerrors.XError {
	rsv.mtx.Lock()
	defer rsv.mtx.Unlock()

	sum, overflow := new(uint256.Int).AddOverflow(rsv.Amount, amt)
	if overflow {
		return xerrors.ErrNotEnoughReservedTokens
	}
	rsv.Amount = sum
	return nil
}

func (rsv *Reservation) SubAmount(amt *uint256.Int) xerrors.XError {
	rsv.mtx.Lock()
	defer rsv.mtx.Unlock()

	if amt.Cmp(rsv.Amount) > 0 {
		return xerrors.ErrNotEnoughReservedTokens
	}
	_ = rsv.Amount.Sub(rsv.Amount, amt)
	return nil
}

func (rsv *Reservation) Key() ledger.LedgerKey {
	rsv.mtx.RLock()
	defer rsv.mtx.RUnlock()

	return rsv.Owner.Array32()
}

func (rsv *Reservation) Encode() ([]byte, xerrors.XError) {
	rsv.mtx.RLock()
	defer rsv.mtx.RUnlock()

	if bz, err := json.Marshal(rsv); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (rsv *Reservation) Decode(bz []byte) xerrors.XError {
	rsv.mtx.Lock()
	defer rsv.mtx.Unlock()

	if err := json.Unmarshal(bz, rsv); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Reservation)(nil)
