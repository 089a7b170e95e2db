package state

import (
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// TrxExecutor runs a transaction in two phases: every handler validates
// first, nothing mutates until all validation has passed. A handler that
// does not own the trx type answers ErrUnknownTrxType and is skipped.
type TrxExecutor struct {
	logger tmlog.Logger
}

func NewTrxExecutor(logger tmlog.Logger) *TrxExecutor {
	return &TrxExecutor{
		logger: logger,
	}
}

func (txe *TrxExecutor) ExecuteSync(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := validateTrx(ctx); xerr != nil {
		return xerr
	}
	return runTrx(ctx)
}

func validateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := commonValidation(ctx); xerr != nil {
		return xerr
	}

	owned := false
	if xerr := ctx.TrxVoterHandler.ValidateTrx(ctx); xerr == nil {
		owned = true
	} else if xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	if xerr := ctx.TrxReserveHandler.ValidateTrx(ctx); xerr == nil {
		owned = true
	} else if xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	if xerr := ctx.TrxGovHandler.ValidateTrx(ctx); xerr == nil {
		owned = true
	} else if xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}

	if !owned {
		return xerrors.ErrUnknownTrxType
	}
	return nil
}

func commonValidation(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if ctx.Tx == nil || ctx.Tx.Payload == nil {
		return xerrors.ErrInvalidTrx
	}
	if len(ctx.Tx.From) != types.AddrSize {
		return xerrors.ErrInvalidTrx
	}
	if ctx.Tx.GetType() != ctx.Tx.Payload.Type() {
		return xerrors.ErrInvalidTrxPayloadType
	}
	return nil
}

func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := ctx.TrxVoterHandler.ExecuteTrx(ctx); xerr != nil && xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	if xerr := ctx.TrxReserveHandler.ExecuteTrx(ctx); xerr != nil && xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	if xerr := ctx.TrxGovHandler.ExecuteTrx(ctx); xerr != nil && xerr != xerrors.ErrUnknownTrxType {
		return xerr
	}
	return nil
}
