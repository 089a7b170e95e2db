package voter

import (
	"github.com/holiman/uint256"
	cfg "github.com/quadrachain/quadra-go/cmd/config"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/genesis"
	"github.com/quadrachain/quadra-go/ledger"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

// VoterCtrler owns the voter registry: who is registered and how many
// tokens each voter holds. Other ctrlers touch balances only through
// Debit/Credit.
type VoterCtrler struct {
	voterLedger ledger.ILedger[*ctrlertypes.Voter]
	operator    types.Address

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewVoterCtrler(config *cfg.Config, logger tmlog.Logger) (*VoterCtrler, xerrors.XError) {
	newVoterProvider := func() *ctrlertypes.Voter { return &ctrlertypes.Voter{} }

	voterLedger, xerr := ledger.New[*ctrlertypes.Voter]("voters", config.DBDir(), 128, newVoterProvider)
	if xerr != nil {
		return nil, xerr
	}

	return &VoterCtrler{
		voterLedger: voterLedger,
		logger:      logger.With("module", "quadra_VoterCtrler"),
	}, nil
}

func (ctrler *VoterCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	gen, ok := req.(*genesis.Genesis)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: VoterCtrler::InitLedger requires *genesis.Genesis")
	}
	ctrler.operator = append(types.Address(nil), gen.Operator...)
	return nil
}

func (ctrler *VoterCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_REGISTER:
		txpayload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadRegister)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}

		// only the genesis operator may register voters
		if bytes.Compare(ctx.Tx.From, ctrler.operator) != 0 {
			return xerrors.ErrNoRight
		}
		if len(txpayload.Voter) != types.AddrSize {
			return xerrors.ErrInvalidTrxPayloadParams
		}
		if txpayload.Fee == nil || txpayload.Fee.IsZero() {
			return xerrors.ErrInsufficientFee
		}

		initialBalance := ctx.GovHandler.InitialBalance()
		if txpayload.Fee.Cmp(initialBalance) > 0 {
			return xerrors.ErrFeeExceedsInitialBalance
		}

		if ctrler.isRegistered(txpayload.Voter) {
			return xerrors.ErrAlreadyRegistered
		}
	default:
		return xerrors.ErrUnknownTrxType
	}

	return nil
}

func (ctrler *VoterCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_REGISTER:
		return ctrler.execRegister(ctx)
	default:
		return xerrors.ErrUnknownTrxType
	}
}

func (ctrler *VoterCtrler) execRegister(ctx *ctrlertypes.TrxContext) xerrors.XError {
	txpayload, _ := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadRegister)

	initialBalance := ctx.GovHandler.InitialBalance()
	balance := initialBalance.Sub(initialBalance, txpayload.Fee)

	vtr := ctrlertypes.NewVoter(txpayload.Voter, balance)
	if xerr := ctrler.voterLedger.Set(vtr); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "voter.registered",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_VOTER), Value: []byte(txpayload.Voter.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_BALANCE), Value: []byte(balance.Dec()), Index: false},
		},
	})

	ctrler.logger.Debug("Register voter", "voter", txpayload.Voter, "balance", balance.Dec())
	return nil
}

func (ctrler *VoterCtrler) FindVoter(addr types.Address) *ctrlertypes.Voter {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.findVoter(addr)
}

func (ctrler *VoterCtrler) findVoter(addr types.Address) *ctrlertypes.Voter {
	if vtr, xerr := ctrler.voterLedger.Get(addr.Array32()); xerr != nil {
		return nil
	} else {
		return vtr
	}
}

func (ctrler *VoterCtrler) IsRegistered(addr types.Address) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.isRegistered(addr)
}

func (ctrler *VoterCtrler) isRegistered(addr types.Address) bool {
	vtr := ctrler.findVoter(addr)
	return vtr != nil && vtr.Registered
}

// Debit moves tokens out of a voter's balance. It is the only way other
// ctrlers may decrease a balance.
func (ctrler *VoterCtrler) Debit(addr types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	vtr := ctrler.findVoter(addr)
	if vtr == nil || !vtr.Registered {
		return xerrors.ErrNotRegisteredVoter
	}
	if xerr := vtr.SubBalance(amt); xerr != nil {
		return xerr
	}
	return ctrler.voterLedger.Set(vtr)
}

func (ctrler *VoterCtrler) Credit(addr types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	vtr := ctrler.findVoter(addr)
	if vtr == nil || !vtr.Registered {
		return xerrors.ErrNotRegisteredVoter
	}
	if xerr := vtr.AddBalance(amt); xerr != nil {
		return xerr
	}
	return ctrler.voterLedger.Set(vtr)
}

func (ctrler *VoterCtrler) ReadVoter(addr types.Address) (*ctrlertypes.Voter, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if vtr, xerr := ctrler.voterLedger.Read(addr.Array32()); xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrNotRegisteredVoter
		}
		return nil, xerr
	} else {
		return vtr, nil
	}
}

func (ctrler *VoterCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.voterLedger.Commit()
}

func (ctrler *VoterCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.voterLedger != nil {
		if xerr := ctrler.voterLedger.Close(); xerr != nil {
			ctrler.logger.Error("voterLedger.Close()", "error", xerr.Error())
		}
		ctrler.voterLedger = nil
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*VoterCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*VoterCtrler)(nil)
var _ ctrlertypes.IVoterHandler = (*VoterCtrler)(nil)
