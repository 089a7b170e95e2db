package types

import (
	"github.com/quadrachain/quadra-go/types/crypto"
	bytes2 "github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

type TrxContext struct {
	Height int64
	TxHash bytes2.HexBytes
	Tx     *Trx

	// Events collects one record per applied operation; the host decides
	// how to transport or store them.
	Events []abcitypes.Event

	TrxVoterHandler   ITrxHandler
	TrxReserveHandler ITrxHandler
	TrxGovHandler     ITrxHandler

	GovHandler     IGovHandler
	VoterHandler   IVoterHandler
	ReserveHandler IReserveHandler
}

type ITrxHandler interface {
	ValidateTrx(*TrxContext) xerrors.XError
	ExecuteTrx(*TrxContext) xerrors.XError
}

type NewTrxContextCb func(*TrxContext) xerrors.XError

func NewTrxContext(txbz []byte, height int64, cbfns ...NewTrxContextCb) (*TrxContext, xerrors.XError) {
	tx := &Trx{}
	if xerr := tx.Decode(txbz); xerr != nil {
		return nil, xerr
	}

	txctx := &TrxContext{
		Tx:     tx,
		TxHash: crypto.DefaultHash(txbz),
		Height: height,
	}

	for _, fn := range cbfns {
		if xerr := fn(txctx); xerr != nil {
			return nil, xerr
		}
	}

	return txctx, nil
}

func (ctx *TrxContext) AppendEvent(evt abcitypes.Event) {
	ctx.Events = append(ctx.Events, evt)
}
