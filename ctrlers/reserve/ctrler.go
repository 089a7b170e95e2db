package reserve

import (
	"github.com/holiman/uint256"
	cfg "github.com/quadrachain/quadra-go/cmd/config"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/ledger"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

// ReserveCtrler owns the reservation pools. Reserving debits the voter's
// balance; unreserving credits back half of the released amount and burns
// the rest to discourage reserve/unreserve churn.
type ReserveCtrler struct {
	rsvLedger ledger.ILedger[*Reservation]

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewReserveCtrler(config *cfg.Config, logger tmlog.Logger) (*ReserveCtrler, xerrors.XError) {
	newReservationProvider := func() *Reservation { return &Reservation{} }

	rsvLedger, xerr := ledger.New[*Reservation]("reservations", config.DBDir(), 128, newReservationProvider)
	if xerr != nil {
		return nil, xerr
	}

	return &ReserveCtrler{
		rsvLedger: rsvLedger,
		logger:    logger.With("module", "quadra_ReserveCtrler"),
	}, nil
}

func (ctrler *ReserveCtrler) InitLedger(req interface{}) xerrors.XError {
	return nil
}

func (ctrler *ReserveCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_RESERVE:
		txpayload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadReserve)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if !ctx.VoterHandler.IsRegistered(ctx.Tx.From) {
			return xerrors.ErrNotRegisteredVoter
		}
		if txpayload.Amount == nil || txpayload.Amount.IsZero() {
			return xerrors.ErrInvalidTrxPayloadParams
		}

		vtr := ctx.VoterHandler.FindVoter(ctx.Tx.From)
		if vtr == nil {
			return xerrors.ErrNotRegisteredVoter
		}
		if xerr := vtr.CheckBalance(txpayload.Amount); xerr != nil {
			return xerr
		}

		// the pool itself must not overflow either
		pool := ctrler.reservedOf(ctx.Tx.From)
		if _, overflow := new(uint256.Int).AddOverflow(pool, txpayload.Amount); overflow {
			return xerrors.ErrNotEnoughReservedTokens
		}

	case ctrlertypes.TRX_UNRESERVE:
		txpayload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadUnreserve)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if !ctx.VoterHandler.IsRegistered(ctx.Tx.From) {
			return xerrors.ErrNotRegisteredVoter
		}
		if txpayload.Amount == nil || txpayload.Amount.IsZero() {
			return xerrors.ErrInvalidTrxPayloadParams
		}

		pool := ctrler.reservedOf(ctx.Tx.From)
		if txpayload.Amount.Cmp(pool) > 0 {
			return xerrors.ErrNotEnoughReservedTokens
		}
	default:
		return xerrors.ErrUnknownTrxType
	}

	return nil
}

func (ctrler *ReserveCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_RESERVE:
		return ctrler.execReserve(ctx)
	case ctrlertypes.TRX_UNRESERVE:
		return ctrler.execUnreserve(ctx)
	default:
		return xerrors.ErrUnknownTrxType
	}
}

func (ctrler *ReserveCtrler) execReserve(ctx *ctrlertypes.TrxContext) xerrors.XError {
	txpayload, _ := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadReserve)

	if xerr := ctx.VoterHandler.Debit(ctx.Tx.From, txpayload.Amount); xerr != nil {
		return xerr
	}

	rsv := ctrler.findOrNewReservation(ctx.Tx.From)
	if xerr := rsv.AddAmount(txpayload.Amount); xerr != nil {
		return xerr
	}
	if xerr := ctrler.rsvLedger.Set(rsv); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "tokens.reserved",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_VOTER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(txpayload.Amount.Dec()), Index: false},
		},
	})
	return nil
}

func (ctrler *ReserveCtrler) execUnreserve(ctx *ctrlertypes.TrxContext) xerrors.XError {
	txpayload, _ := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadUnreserve)

	rsv := ctrler.findReservation(ctx.Tx.From)
	if rsv == nil {
		return xerrors.ErrNotEnoughReservedTokens
	}
	if xerr := rsv.SubAmount(txpayload.Amount); xerr != nil {
		return xerr
	}

	// half of the released amount returns, the remainder is burned
	refund := new(uint256.Int).Div(txpayload.Amount, uint256.NewInt(2))
	if !refund.IsZero() {
		if xerr := ctx.VoterHandler.Credit(ctx.Tx.From, refund); xerr != nil {
			return xerr
		}
	}

	var xerr xerrors.XError
	if rsv.GetAmount().IsZero() {
		_, xerr = ctrler.rsvLedger.Del(rsv.Key())
	} else {
		xerr = ctrler.rsvLedger.Set(rsv)
	}
	if xerr != nil {
		return xerr
	}

	updated := ctx.VoterHandler.FindVoter(ctx.Tx.From).GetBalance()
	ctx.AppendEvent(abcitypes.Event{
		Type: "tokens.unreserved",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_VOTER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(txpayload.Amount.Dec()), Index: false},
			{Key: []byte(ctrlertypes.EVENT_ATTR_BALANCE), Value: []byte(updated.Dec()), Index: false},
		},
	})
	return nil
}

func (ctrler *ReserveCtrler) findReservation(addr types.Address) *Reservation {
	if rsv, xerr := ctrler.rsvLedger.Get(addr.Array32()); xerr != nil {
		return nil
	} else {
		return rsv
	}
}

func (ctrler *ReserveCtrler) findOrNewReservation(addr types.Address) *Reservation {
	if rsv := ctrler.findReservation(addr); rsv != nil {
		return rsv
	}
	return NewReservation(addr)
}

// ReservedOf returns the voter's currently unconsumed reserved amount.
func (ctrler *ReserveCtrler) ReservedOf(addr types.Address) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.reservedOf(addr)
}

func (ctrler *ReserveCtrler) reservedOf(addr types.Address) *uint256.Int {
	rsv := ctrler.findReservation(addr)
	if rsv == nil {
		return uint256.NewInt(0)
	}
	return rsv.GetAmount()
}

// Consume removes and returns the voter's entire reservation pool.
// A single vote always consumes the whole pool.
func (ctrler *ReserveCtrler) Consume(addr types.Address) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	rsv := ctrler.findReservation(addr)
	if rsv == nil || rsv.GetAmount().IsZero() {
		return nil, xerrors.ErrNotEnoughReservedTokens
	}

	amt := rsv.GetAmount()
	if _, xerr := ctrler.rsvLedger.Del(rsv.Key()); xerr != nil {
		return nil, xerr
	}
	return amt, nil
}

func (ctrler *ReserveCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.rsvLedger.Commit()
}

func (ctrler *ReserveCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.rsvLedger != nil {
		if xerr := ctrler.rsvLedger.Close(); xerr != nil {
			ctrler.logger.Error("rsvLedger.Close()", "error", xerr.Error())
		}
		ctrler.rsvLedger = nil
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*ReserveCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*ReserveCtrler)(nil)
var _ ctrlertypes.IReserveHandler = (*ReserveCtrler)(nil)
