package voter

import (
	"github.com/holiman/uint256"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

type govHandlerMock struct {
	votingPeriodBlocks int64
	initialBalance     *uint256.Int
}

func (g *govHandlerMock) Version() int64 {
	return 1
}

func (g *govHandlerMock) VotingPeriodBlocks() int64 {
	return g.votingPeriodBlocks
}

func (g *govHandlerMock) InitialBalance() *uint256.Int {
	return g.initialBalance.Clone()
}

var _ ctrlertypes.IGovHandler = (*govHandlerMock)(nil)

func makeTrxCtx(tx *ctrlertypes.Trx, height int64) *ctrlertypes.TrxContext {
	txbz, _ := tx.Encode()
	txctx, _ := ctrlertypes.NewTrxContext(txbz, height, func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
		_txctx.GovHandler = govHelper
		_txctx.VoterHandler = voterCtrler
		return nil
	})
	return txctx
}

func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := voterCtrler.ValidateTrx(ctx); xerr != nil {
		return xerr
	}
	return voterCtrler.ExecuteTrx(ctx)
}
