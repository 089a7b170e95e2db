package reserve

import (
	"github.com/holiman/uint256"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

type voterHandlerMock struct {
	voters map[string]*ctrlertypes.Voter
}

func newVoterHandlerMock() *voterHandlerMock {
	return &voterHandlerMock{
		voters: make(map[string]*ctrlertypes.Voter),
	}
}

func (v *voterHandlerMock) register(addr types.Address, balance uint64) {
	v.voters[addr.String()] = ctrlertypes.NewVoter(addr, uint256.NewInt(balance))
}

func (v *voterHandlerMock) FindVoter(addr types.Address) *ctrlertypes.Voter {
	return v.voters[addr.String()]
}

func (v *voterHandlerMock) IsRegistered(addr types.Address) bool {
	_, ok := v.voters[addr.String()]
	return ok
}

func (v *voterHandlerMock) Debit(addr types.Address, amt *uint256.Int) xerrors.XError {
	vtr := v.FindVoter(addr)
	if vtr == nil {
		return xerrors.ErrNotRegisteredVoter
	}
	return vtr.SubBalance(amt)
}

func (v *voterHandlerMock) Credit(addr types.Address, amt *uint256.Int) xerrors.XError {
	vtr := v.FindVoter(addr)
	if vtr == nil {
		return xerrors.ErrNotRegisteredVoter
	}
	return vtr.AddBalance(amt)
}

var _ ctrlertypes.IVoterHandler = (*voterHandlerMock)(nil)

func makeTrxCtx(tx *ctrlertypes.Trx, height int64) *ctrlertypes.TrxContext {
	txbz, _ := tx.Encode()
	txctx, _ := ctrlertypes.NewTrxContext(txbz, height, func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
		_txctx.VoterHandler = voterHelper
		_txctx.ReserveHandler = reserveCtrler
		return nil
	})
	return txctx
}

func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := reserveCtrler.ValidateTrx(ctx); xerr != nil {
		return xerr
	}
	return reserveCtrler.ExecuteTrx(ctx)
}
