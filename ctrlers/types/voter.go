package types

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/ledger"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"sync"
)

// Voter is a registered participant. Registered is set once at registration
// and never unset; the balance only moves through AddBalance/SubBalance.
type Voter struct {
	Address    types.Address `json:"address"`
	Balance    *uint256.Int  `json:"balance"`
	Registered bool          `json:"registered"`

	mtx sync.RWMutex
}

func NewVoter(addr types.Address, balance *uint256.Int) *Voter {
	return &Voter{
		Address:    addr,
		Balance:    balance.Clone(),
		Registered: true,
	}
}

func (voter *Voter) GetAddress() types.Address {
	voter.mtx.RLock()
	defer voter.mtx.RUnlock()

	return voter.Address
}

func (voter *Voter) AddBalance(amt *uint256.Int) xerrors.XError {
	voter.mtx.Lock()
	defer voter.mtx.Unlock()

	// overflow must fail the operation rather than wrap
	sum, overflow := new(uint256.Int).AddOverflow(voter.Balance, amt)
	if overflow {
		return xerrors.ErrNotEnoughBalance
	}
	voter.Balance = sum
	return nil
}

func (voter *Voter) SubBalance(amt *uint256.Int) xerrors.XError {
	voter.mtx.Lock()
	defer voter.mtx.Unlock()

	if amt.Cmp(voter.Balance) > 0 {
		return xerrors.ErrNotEnoughBalance
	}
	_ = voter.Balance.Sub(voter.Balance, amt)
	return nil
}

func (voter *Voter) GetBalance() *uint256.Int {
	voter.mtx.RLock()
	defer voter.mtx.RUnlock()

	return new(uint256.Int).Set(voter.Balance)
}

func (voter *Voter) CheckBalance(amt *uint256.Int) xerrors.XError {
	voter.mtx.RLock()
	defer voter.mtx.RUnlock()

	if amt.Cmp(voter.Balance) > 0 {
		return xerrors.ErrNotEnoughBalance
	}
	return nil
}

func (voter *Voter) Key() ledger.LedgerKey {
	voter.mtx.RLock()
	defer voter.mtx.RUnlock()

	return voter.Address.Array32()
}

func (voter *Voter) Encode() ([]byte, xerrors.XError) {
	voter.mtx.RLock()
	defer voter.mtx.RUnlock()

	if bz, err := json.Marshal(voter); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (voter *Voter) Decode(bz []byte) xerrors.XError {
	voter.mtx.Lock()
	defer voter.mtx.Unlock()

	if err := json.Unmarshal(bz, voter); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Voter)(nil)
