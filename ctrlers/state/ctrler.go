package state

import (
	"encoding/json"
	"sync"

	cfg "github.com/quadrachain/quadra-go/cmd/config"
	"github.com/quadrachain/quadra-go/ctrlers/gov"
	"github.com/quadrachain/quadra-go/ctrlers/reserve"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/ctrlers/voter"
	"github.com/quadrachain/quadra-go/genesis"
	"github.com/quadrachain/quadra-go/types/crypto"
	"github.com/quadrachain/quadra-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// StateCtrler is the root of the state machine. It owns the block clock
// and the sub ctrlers, routes transactions through the executor and
// combines the per-ledger commit hashes into one app hash.
type StateCtrler struct {
	config   *cfg.Config
	blockCtx *ctrlertypes.BlockContext

	govCtrler     *gov.GovCtrler
	voterCtrler   *voter.VoterCtrler
	reserveCtrler *reserve.ReserveCtrler
	trxExecutor   *TrxExecutor

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewStateCtrler(config *cfg.Config, logger tmlog.Logger) (*StateCtrler, xerrors.XError) {
	logger = logger.With("module", "quadra_StateCtrler")

	govCtrler, xerr := gov.NewGovCtrler(config, logger)
	if xerr != nil {
		return nil, xerr
	}
	voterCtrler, xerr := voter.NewVoterCtrler(config, logger)
	if xerr != nil {
		return nil, xerr
	}
	reserveCtrler, xerr := reserve.NewReserveCtrler(config, logger)
	if xerr != nil {
		return nil, xerr
	}

	return &StateCtrler{
		config:        config,
		blockCtx:      ctrlertypes.NewBlockContext(config.ChainID, 0),
		govCtrler:     govCtrler,
		voterCtrler:   voterCtrler,
		reserveCtrler: reserveCtrler,
		trxExecutor:   NewTrxExecutor(logger),
		logger:        logger,
	}, nil
}

func (ctrler *StateCtrler) InitChain(gen *genesis.Genesis) ([]byte, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if xerr := ctrler.govCtrler.InitLedger(gen); xerr != nil {
		return nil, xerr
	}
	if xerr := ctrler.voterCtrler.InitLedger(gen); xerr != nil {
		return nil, xerr
	}
	if xerr := ctrler.reserveCtrler.InitLedger(gen); xerr != nil {
		return nil, xerr
	}

	ctrler.blockCtx = ctrlertypes.NewBlockContext(gen.ChainID, 0)
	ctrler.logger.Info("Initialize chain", "chainId", gen.ChainID, "operator", gen.Operator)

	genHash, xerr := gen.Hash()
	if xerr != nil {
		return nil, xerr
	}
	return genHash, nil
}

// BeginBlock advances the clock. Heights must strictly increase.
func (ctrler *StateCtrler) BeginBlock(height int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if height <= ctrler.blockCtx.Height() {
		return xerrors.ErrBeginBlock.Wrapf("height must increase - current:%v, new:%v", ctrler.blockCtx.Height(), height)
	}
	ctrler.blockCtx.SetHeight(height)
	return nil
}

func (ctrler *StateCtrler) Height() int64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.blockCtx.Height()
}

// ExecuteTrx decodes, validates and applies one transaction at the
// current height. Nothing is mutated when an error is returned.
func (ctrler *StateCtrler) ExecuteTrx(txbz []byte) ([]abcitypes.Event, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	txctx, xerr := ctrlertypes.NewTrxContext(txbz, ctrler.blockCtx.Height(),
		func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
			_txctx.TrxGovHandler = ctrler.govCtrler
			_txctx.TrxVoterHandler = ctrler.voterCtrler
			_txctx.TrxReserveHandler = ctrler.reserveCtrler
			_txctx.GovHandler = ctrler.govCtrler
			_txctx.VoterHandler = ctrler.voterCtrler
			_txctx.ReserveHandler = ctrler.reserveCtrler
			return nil
		})
	if xerr != nil {
		return nil, xerr
	}

	if xerr := ctrler.trxExecutor.ExecuteSync(txctx); xerr != nil {
		ctrler.logger.Debug("Reject transaction",
			"txhash", txctx.TxHash, "type", txctx.Tx.TypeString(), "error", xerr.Error())
		return nil, xerr
	}
	return txctx.Events, nil
}

// Commit flushes all pending ledger writes and returns the combined
// app hash with the new ledger version.
func (ctrler *StateCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.govCtrler.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.voterCtrler.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h2, v2, xerr := ctrler.reserveCtrler.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}

	if v0 != v1 || v1 != v2 {
		return nil, -1, xerrors.ErrCommit.Wrapf("StateCtrler.Commit() has wrong version numbers - v0:%v, v1:%v, v2:%v", v0, v1, v2)
	}

	return crypto.DefaultHash(h0, h1, h2), v0, nil
}

func (ctrler *StateCtrler) Query(req ctrlertypes.QueryData) (json.RawMessage, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch req.Command {
	case ctrlertypes.QUERY_VOTER:
		return ctrler.voterCtrler.Query(req)
	case ctrlertypes.QUERY_RESERVATION:
		return ctrler.reserveCtrler.Query(req)
	case ctrlertypes.QUERY_PROPOSAL, ctrlertypes.QUERY_PROPOSALS, ctrlertypes.QUERY_PARAMS:
		return ctrler.govCtrler.Query(req)
	case ctrlertypes.QUERY_WINNER:
		winner, xerr := ctrler.govCtrler.ReadWinner(ctrler.blockCtx.Height())
		if xerr != nil {
			return nil, xerr
		}
		raw, err := json.Marshal(winner)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return raw, nil
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}

func (ctrler *StateCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.govCtrler != nil {
		_ = ctrler.govCtrler.Close()
	}
	if ctrler.voterCtrler != nil {
		_ = ctrler.voterCtrler.Close()
	}
	if ctrler.reserveCtrler != nil {
		_ = ctrler.reserveCtrler.Close()
	}
	return nil
}
