package gov

import (
	"strconv"
	"sync"

	"github.com/holiman/uint256"
	cfg "github.com/quadrachain/quadra-go/cmd/config"
	"github.com/quadrachain/quadra-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/genesis"
	"github.com/quadrachain/quadra-go/ledger"
	"github.com/quadrachain/quadra-go/types/crypto"
	"github.com/quadrachain/quadra-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type GovCtrler struct {
	*ctrlertypes.VotingParams

	paramsLedger   ledger.ILedger[*ctrlertypes.VotingParams]
	proposalLedger ledger.ILedger[*proposal.Proposal]
	nextIndex      uint32

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewGovCtrler(config *cfg.Config, logger tmlog.Logger) (*GovCtrler, xerrors.XError) {
	newVotingParamsProvider := func() *ctrlertypes.VotingParams { return &ctrlertypes.VotingParams{} }
	newProposalProvider := func() *proposal.Proposal { return &proposal.Proposal{} }

	paramsLedger, xerr := ledger.New[*ctrlertypes.VotingParams]("voting_params", config.DBDir(), 1, newVotingParamsProvider)
	if xerr != nil {
		return nil, xerr
	}

	params, xerr := paramsLedger.Get(ctrlertypes.DefaultVotingParams().Key())
	// `params` could be nil on a fresh chain
	if xerr != nil && xerr != xerrors.ErrNotFoundResult {
		return nil, xerr
	} else if params == nil {
		params = ctrlertypes.DefaultVotingParams()
	}

	proposalLedger, xerr := ledger.New[*proposal.Proposal]("proposals", config.DBDir(), 128, newProposalProvider)
	if xerr != nil {
		return nil, xerr
	}

	// indices are sequential from 1; resume after the highest stored one
	nextIndex := uint32(1)
	_ = proposalLedger.IterateAllItems(func(prop *proposal.Proposal) xerrors.XError {
		if prop.Index >= nextIndex {
			nextIndex = prop.Index + 1
		}
		return nil
	})

	return &GovCtrler{
		VotingParams:   params,
		paramsLedger:   paramsLedger,
		proposalLedger: proposalLedger,
		nextIndex:      nextIndex,
		logger:         logger.With("module", "quadra_GovCtrler"),
	}, nil
}

func (ctrler *GovCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	gen, ok := req.(*genesis.Genesis)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: GovCtrler::InitLedger requires *genesis.Genesis")
	}
	ctrler.VotingParams = gen.VotingParams
	return ctrler.paramsLedger.Set(ctrler.VotingParams)
}

func (ctrler *GovCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_PROPOSAL:
		txpayload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadProposal)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if !ctx.VoterHandler.IsRegistered(ctx.Tx.From) {
			return xerrors.ErrNotRegisteredVoter
		}
		if len(txpayload.ContentHash) != 32 {
			return xerrors.ErrInvalidTrxPayloadParams
		}

	case ctrlertypes.TRX_START:
		txpayload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadStart)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if !ctx.VoterHandler.IsRegistered(ctx.Tx.From) {
			return xerrors.ErrNotRegisteredVoter
		}
		prop, xerr := ctrler.getProposal(txpayload.ProposalIdx)
		if xerr != nil {
			return xerr
		}
		if txpayload.Fee == nil || txpayload.Fee.IsZero() {
			return xerrors.ErrInsufficientFee
		}
		if prop.Status != proposal.PROPOSAL_CREATED {
			return xerrors.ErrProposalAlreadyStarted
		}

		vtr := ctx.VoterHandler.FindVoter(ctx.Tx.From)
		if vtr == nil {
			return xerrors.ErrNotRegisteredVoter
		}
		if xerr := vtr.CheckBalance(txpayload.Fee); xerr != nil {
			return xerr
		}

	case ctrlertypes.TRX_VOTING:
		txpayload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadVoting)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if !ctx.VoterHandler.IsRegistered(ctx.Tx.From) {
			return xerrors.ErrNotRegisteredVoter
		}
		if !proposal.IsValidChoice(txpayload.Choice) {
			return xerrors.ErrInvalidTrxPayloadParams
		}

		prop, xerr := ctrler.getProposal(txpayload.ProposalIdx)
		if xerr != nil {
			return xerr
		}
		if !prop.IsStarted() {
			return xerrors.ErrProposalNotStarted
		}
		if prop.IsOpen(ctx.Height) {
			// the closed case is not an error: execution resolves the
			// current winner instead of tallying the vote
			reserved := ctx.ReserveHandler.ReservedOf(ctx.Tx.From)
			if reserved.IsZero() {
				return xerrors.ErrNotEnoughReservedTokens
			}
		}

	case ctrlertypes.TRX_VOTING_MULTI:
		txpayload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadVotingMulti)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if !ctx.VoterHandler.IsRegistered(ctx.Tx.From) {
			return xerrors.ErrNotRegisteredVoter
		}
		if len(txpayload.Entries) == 0 {
			return xerrors.ErrInvalidTrxPayloadParams
		}

		sum := uint256.NewInt(0)
		for _, entry := range txpayload.Entries {
			if !proposal.IsValidChoice(entry.Choice) {
				return xerrors.ErrInvalidTrxPayloadParams
			}
			if entry.Amount == nil || entry.Amount.IsZero() {
				return xerrors.ErrInvalidTrxPayloadParams
			}

			prop, xerr := ctrler.getProposal(entry.ProposalIdx)
			if xerr != nil {
				return xerr
			}
			if !prop.IsStarted() {
				return xerrors.ErrProposalNotStarted
			}
			if !prop.IsOpen(ctx.Height) {
				return xerrors.ErrProposalClosed
			}

			if _, overflow := sum.AddOverflow(sum, entry.Amount); overflow {
				return xerrors.ErrInvalidTrxPayloadParams
			}
		}

		vtr := ctx.VoterHandler.FindVoter(ctx.Tx.From)
		if vtr == nil {
			return xerrors.ErrNotRegisteredVoter
		}
		if xerr := vtr.CheckBalance(sum); xerr != nil {
			return xerr
		}
	default:
		return xerrors.ErrUnknownTrxType
	}

	return nil
}

func (ctrler *GovCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_PROPOSAL:
		return ctrler.execProposing(ctx)
	case ctrlertypes.TRX_START:
		return ctrler.execStart(ctx)
	case ctrlertypes.TRX_VOTING:
		return ctrler.execVoting(ctx)
	case ctrlertypes.TRX_VOTING_MULTI:
		return ctrler.execVotingMulti(ctx)
	default:
		return xerrors.ErrUnknownTrxType
	}
}

func (ctrler *GovCtrler) execProposing(ctx *ctrlertypes.TrxContext) xerrors.XError {
	txpayload, _ := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadProposal)

	prop := proposal.NewProposal(ctrler.nextIndex, txpayload.ContentHash, ctx.Tx.From)
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}
	ctrler.nextIndex++

	ctx.AppendEvent(abcitypes.Event{
		Type: "proposal.created",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_PROPOSAL), Value: []byte(strconv.FormatUint(uint64(prop.Index), 10)), Index: true},
		},
	})
	return nil
}

func (ctrler *GovCtrler) execStart(ctx *ctrlertypes.TrxContext) xerrors.XError {
	txpayload, _ := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadStart)

	prop, xerr := ctrler.getProposal(txpayload.ProposalIdx)
	if xerr != nil {
		return xerr
	}

	if xerr := ctx.VoterHandler.Debit(ctx.Tx.From, txpayload.Fee); xerr != nil {
		return xerr
	}
	if xerr := prop.Start(ctx.Height, ctrler.VotingPeriodBlocks()); xerr != nil {
		return xerr
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "proposal.started",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_PROPOSAL), Value: []byte(strconv.FormatUint(uint64(prop.Index), 10)), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_ENDBLOCK), Value: []byte(strconv.FormatInt(prop.EndHeight, 10)), Index: false},
		},
	})
	return nil
}

func (ctrler *GovCtrler) execVoting(ctx *ctrlertypes.TrxContext) xerrors.XError {
	txpayload, _ := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadVoting)

	prop, xerr := ctrler.getProposal(txpayload.ProposalIdx)
	if xerr != nil {
		return xerr
	}

	if !prop.IsOpen(ctx.Height) {
		// voting window has passed: resolve the winner instead of
		// tallying, without touching any balance or reservation
		return ctrler.resolveWinner(ctx)
	}

	reserved, xerr := ctx.ReserveHandler.Consume(ctx.Tx.From)
	if xerr != nil {
		return xerr
	}

	weight := ctrlertypes.QuadraticWeight(reserved)
	if xerr := prop.DoVote(ctx.Tx.From, txpayload.Choice, weight); xerr != nil {
		return xerr
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "proposal.voted",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_VOTER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_PROPOSAL), Value: []byte(strconv.FormatUint(uint64(prop.Index), 10)), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_CHOICE), Value: []byte(proposal.ChoiceString(txpayload.Choice)), Index: false},
			{Key: []byte(ctrlertypes.EVENT_ATTR_WEIGHT), Value: []byte(weight.Dec()), Index: false},
		},
	})
	return nil
}

func (ctrler *GovCtrler) execVotingMulti(ctx *ctrlertypes.TrxContext) xerrors.XError {
	txpayload, _ := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadVotingMulti)

	total := uint256.NewInt(0)
	for _, entry := range txpayload.Entries {
		prop, xerr := ctrler.getProposal(entry.ProposalIdx)
		if xerr != nil {
			return xerr
		}

		if xerr := ctx.VoterHandler.Debit(ctx.Tx.From, entry.Amount); xerr != nil {
			return xerr
		}

		weight := ctrlertypes.QuadraticWeight(entry.Amount)
		if xerr := prop.DoVote(ctx.Tx.From, entry.Choice, weight); xerr != nil {
			return xerr
		}
		if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
			return xerr
		}
		_ = total.Add(total, entry.Amount)
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "proposals.voted",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_VOTER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte("count"), Value: []byte(strconv.Itoa(len(txpayload.Entries))), Index: false},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(total.Dec()), Index: false},
		},
	})
	return nil
}

func (ctrler *GovCtrler) resolveWinner(ctx *ctrlertypes.TrxContext) xerrors.XError {
	var proposals []*proposal.Proposal
	if xerr := ctrler.proposalLedger.IterateAllItems(func(prop *proposal.Proposal) xerrors.XError {
		proposals = append(proposals, prop)
		return nil
	}); xerr != nil {
		return xerr
	}

	winner, xerr := proposal.Winner(proposals, ctx.Height)
	if xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "voting.ended",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_WINNER), Value: []byte(strconv.FormatUint(uint64(winner.Index), 10)), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_WEIGHT), Value: []byte(winner.GetAyeWeight().Dec()), Index: false},
		},
	})
	return nil
}

func (ctrler *GovCtrler) getProposal(idx uint32) (*proposal.Proposal, xerrors.XError) {
	prop, xerr := ctrler.proposalLedger.Get(ledger.ToLedgerKeyOfIndex(idx))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal
		}
		return nil, xerr
	}
	return prop, nil
}

func (ctrler *GovCtrler) ReadProposal(idx uint32) (*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.proposalLedger.Read(ledger.ToLedgerKeyOfIndex(idx))
	if xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal
		}
		return nil, xerr
	}
	return prop, nil
}

func (ctrler *GovCtrler) ReadAllProposals() ([]*proposal.Proposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	var proposals []*proposal.Proposal
	if xerr := ctrler.proposalLedger.IterateAllItems(func(prop *proposal.Proposal) xerrors.XError {
		proposals = append(proposals, prop)
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	return proposals, nil
}

// ReadWinner resolves the tally among closed proposals as of `height`.
func (ctrler *GovCtrler) ReadWinner(height int64) (*proposal.Proposal, xerrors.XError) {
	proposals, xerr := ctrler.ReadAllProposals()
	if xerr != nil {
		return nil, xerr
	}
	return proposal.Winner(proposals, height)
}

func (ctrler *GovCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.paramsLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.proposalLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}

	if v0 != v1 {
		return nil, -1, xerrors.ErrCommit.Wrapf("GovCtrler.Commit() has wrong version numbers - v0:%v, v1:%v", v0, v1)
	}
	return crypto.DefaultHash(h0, h1), v0, nil
}

func (ctrler *GovCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.paramsLedger != nil {
		if xerr := ctrler.paramsLedger.Close(); xerr != nil {
			ctrler.logger.Error("paramsLedger.Close()", "error", xerr.Error())
		}
		ctrler.paramsLedger = nil
	}
	if ctrler.proposalLedger != nil {
		if xerr := ctrler.proposalLedger.Close(); xerr != nil {
			ctrler.logger.Error("proposalLedger.Close()", "error", xerr.Error())
		}
		ctrler.proposalLedger = nil
	}
	return nil
}

var _ ctrlertypes.ILedgerHandler = (*GovCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*GovCtrler)(nil)
var _ ctrlertypes.IGovHandler = (*GovCtrler)(nil)
