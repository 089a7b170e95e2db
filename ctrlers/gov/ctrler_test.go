package gov

import (
	"strconv"
	"testing"

	"github.com/holiman/uint256"
	cfg "github.com/quadrachain/quadra-go/cmd/config"
	"github.com/quadrachain/quadra-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/genesis"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

const testVotingPeriod = int64(100)

var (
	config        = cfg.InMemConfig()
	govCtrler     *GovCtrler
	voterHelper   *voterHandlerMock
	reserveHelper *reserveHandlerMock
)

func init() {
	var xerr xerrors.XError
	if govCtrler, xerr = NewGovCtrler(config, tmlog.NewNopLogger()); xerr != nil {
		panic(xerr)
	}

	gen := genesis.DefaultGenesis("test-chain", types.RandAddress())
	gen.VotingParams = ctrlertypes.NewVotingParams(testVotingPeriod, uint256.NewInt(100))
	if xerr = govCtrler.InitLedger(gen); xerr != nil {
		panic(xerr)
	}

	voterHelper = newVoterHandlerMock()
	reserveHelper = newReserveHandlerMock()
}

func newProposalTrx(from types.Address) *ctrlertypes.Trx {
	return ctrlertypes.NewTrx(from, &ctrlertypes.TrxPayloadProposal{
		ContentHash: bytes.RandBytes(32),
	})
}

func newStartTrx(from types.Address, idx uint32, fee uint64) *ctrlertypes.Trx {
	return ctrlertypes.NewTrx(from, &ctrlertypes.TrxPayloadStart{
		ProposalIdx: idx,
		Fee:         uint256.NewInt(fee),
	})
}

func newVotingTrx(from types.Address, idx uint32, choice int32) *ctrlertypes.Trx {
	return ctrlertypes.NewTrx(from, &ctrlertypes.TrxPayloadVoting{
		ProposalIdx: idx,
		Choice:      choice,
	})
}

// createProposal runs a TRX_PROPOSAL and returns the allocated index.
func createProposal(t *testing.T, from types.Address) uint32 {
	txctx := makeTrxCtx(newProposalTrx(from), 1)
	require.NoError(t, runTrx(txctx))
	require.Len(t, txctx.Events, 1)
	require.Equal(t, "proposal.created", txctx.Events[0].Type)

	for _, attr := range txctx.Events[0].Attributes {
		if string(attr.Key) == ctrlertypes.EVENT_ATTR_PROPOSAL {
			idx, err := strconv.ParseUint(string(attr.Value), 10, 32)
			require.NoError(t, err)
			return uint32(idx)
		}
	}
	t.Fatal("proposal index attribute not found")
	return 0
}

func startProposal(t *testing.T, from types.Address, idx uint32, height int64) {
	require.NoError(t, runTrx(makeTrxCtx(newStartTrx(from, idx, 5), height)))
}

func TestCreateProposal(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)

	idx0 := createProposal(t, voterAddr)
	idx1 := createProposal(t, voterAddr)
	require.Equal(t, idx0+1, idx1)

	prop, xerr := govCtrler.getProposal(idx0)
	require.NoError(t, xerr)
	require.Equal(t, proposal.PROPOSAL_CREATED, prop.Status)
	require.True(t, prop.GetAyeWeight().IsZero())
}

func TestCreateProposalRequiresRegistration(t *testing.T) {
	xerr := runTrx(makeTrxCtx(newProposalTrx(types.RandAddress()), 1))
	require.Equal(t, xerrors.ErrNotRegisteredVoter, xerr)
}

func TestCreateProposalContentHashSize(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)

	tx := ctrlertypes.NewTrx(voterAddr, &ctrlertypes.TrxPayloadProposal{
		ContentHash: bytes.RandBytes(16),
	})
	xerr := runTrx(makeTrxCtx(tx, 1))
	require.Equal(t, xerrors.ErrInvalidTrxPayloadParams, xerr)
}

func TestStartProposal(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)
	idx := createProposal(t, voterAddr)

	txctx := makeTrxCtx(newStartTrx(voterAddr, idx, 5), 10)
	require.NoError(t, runTrx(txctx))

	// the start fee is debited and the end height is fixed
	require.Equal(t, uint256.NewInt(95), voterHelper.FindVoter(voterAddr).GetBalance())

	prop, xerr := govCtrler.getProposal(idx)
	require.NoError(t, xerr)
	require.Equal(t, proposal.PROPOSAL_STARTED, prop.Status)
	require.Equal(t, int64(10), prop.StartHeight)
	require.Equal(t, int64(10)+testVotingPeriod, prop.EndHeight)
}

func TestStartProposalRules(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)
	idx := createProposal(t, voterAddr)

	// fee must be positive
	xerr := runTrx(makeTrxCtx(newStartTrx(voterAddr, idx, 0), 1))
	require.Equal(t, xerrors.ErrInsufficientFee, xerr)

	// the proposal must exist
	xerr = runTrx(makeTrxCtx(newStartTrx(voterAddr, 9999, 5), 1))
	require.Equal(t, xerrors.ErrNotFoundProposal, xerr)

	// existence is checked before the fee
	xerr = runTrx(makeTrxCtx(newStartTrx(voterAddr, 9999, 0), 1))
	require.Equal(t, xerrors.ErrNotFoundProposal, xerr)

	// starting twice is rejected
	startProposal(t, voterAddr, idx, 1)
	xerr = runTrx(makeTrxCtx(newStartTrx(voterAddr, idx, 5), 2))
	require.Equal(t, xerrors.ErrProposalAlreadyStarted, xerr)
}

func TestStartProposalFeeOverBalance(t *testing.T) {
	poorAddr := types.RandAddress()
	voterHelper.register(poorAddr, 3)
	idx := createProposal(t, poorAddr)

	xerr := runTrx(makeTrxCtx(newStartTrx(poorAddr, idx, 5), 1))
	require.Equal(t, xerrors.ErrNotEnoughBalance.Code(), xerr.Code())
}

func TestVoteQuadraticWeight(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)
	idx := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idx, 1)

	reserveHelper.reserve(voterAddr, 100)
	txctx := makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_AYE), 2)
	require.NoError(t, runTrx(txctx))

	prop, _ := govCtrler.getProposal(idx)
	require.Equal(t, uint256.NewInt(10), prop.GetAyeWeight()) // floor(sqrt(100))
	require.Len(t, prop.Ballots, 1)

	// the whole pool is consumed by one vote
	require.True(t, reserveHelper.ReservedOf(voterAddr).IsZero())

	// a second vote needs a fresh reservation
	xerr := runTrx(makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_AYE), 3))
	require.Equal(t, xerrors.ErrNotEnoughReservedTokens, xerr)

	// 99 tokens yield weight 9, accumulated on the running sum
	reserveHelper.reserve(voterAddr, 99)
	require.NoError(t, runTrx(makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_AYE), 4)))
	prop, _ = govCtrler.getProposal(idx)
	require.Equal(t, uint256.NewInt(19), prop.GetAyeWeight())
}

func TestVoteNayAndAbstainNotTallied(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)
	idx := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idx, 1)

	reserveHelper.reserve(voterAddr, 49)
	require.NoError(t, runTrx(makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_NAY), 2)))

	reserveHelper.reserve(voterAddr, 49)
	require.NoError(t, runTrx(makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_ABSTAIN), 3)))

	prop, _ := govCtrler.getProposal(idx)
	require.True(t, prop.GetAyeWeight().IsZero())
	require.Len(t, prop.Ballots, 2) // recorded for audit even when not tallied
}

func TestVoteOnCreatedProposal(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)
	idx := createProposal(t, voterAddr)

	reserveHelper.reserve(voterAddr, 10)
	xerr := runTrx(makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_AYE), 2))
	require.Equal(t, xerrors.ErrProposalNotStarted, xerr)
}

func TestVoteOnClosedProposalResolvesWinner(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)
	idx := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idx, 1)

	reserveHelper.reserve(voterAddr, 100)
	require.NoError(t, runTrx(makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_AYE), 2)))

	// past the end height the vote becomes a lazy tally resolution
	closedHeight := 1 + testVotingPeriod + 1
	reserveHelper.reserve(voterAddr, 50)
	txctx := makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_AYE), closedHeight)
	require.NoError(t, runTrx(txctx))

	require.Len(t, txctx.Events, 1)
	require.Equal(t, "voting.ended", txctx.Events[0].Type)

	// nothing was mutated: the reservation survives and the tally is unchanged
	require.Equal(t, uint256.NewInt(50), reserveHelper.ReservedOf(voterAddr))
	prop, _ := govCtrler.getProposal(idx)
	require.Equal(t, uint256.NewInt(10), prop.GetAyeWeight())
	require.Len(t, prop.Ballots, 1)
}

func TestVoteAtEndHeightStillOpen(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 100)
	idx := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idx, 1)

	reserveHelper.reserve(voterAddr, 9)
	endHeight := 1 + testVotingPeriod
	require.NoError(t, runTrx(makeTrxCtx(newVotingTrx(voterAddr, idx, proposal.CHOICE_AYE), endHeight)))

	prop, _ := govCtrler.getProposal(idx)
	require.Equal(t, uint256.NewInt(3), prop.GetAyeWeight())
}

func TestVotingMulti(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 20)
	idx1 := createProposal(t, voterAddr)
	idx2 := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idx1, 1)
	startProposal(t, voterAddr, idx2, 1)
	require.NoError(t, voterHelper.Credit(voterAddr, uint256.NewInt(10))) // refund the start fees

	tx := ctrlertypes.NewTrx(voterAddr, &ctrlertypes.TrxPayloadVotingMulti{
		Entries: []*ctrlertypes.VotingEntry{
			{ProposalIdx: idx1, Amount: uint256.NewInt(10), Choice: proposal.CHOICE_AYE},
			{ProposalIdx: idx2, Amount: uint256.NewInt(5), Choice: proposal.CHOICE_AYE},
		},
	})
	txctx := makeTrxCtx(tx, 2)
	require.NoError(t, runTrx(txctx))

	// 15 debited in total, weights floor(sqrt(10))=3 and floor(sqrt(5))=2
	require.Equal(t, uint256.NewInt(5), voterHelper.FindVoter(voterAddr).GetBalance())

	prop1, _ := govCtrler.getProposal(idx1)
	prop2, _ := govCtrler.getProposal(idx2)
	require.Equal(t, uint256.NewInt(3), prop1.GetAyeWeight())
	require.Equal(t, uint256.NewInt(2), prop2.GetAyeWeight())

	require.Len(t, txctx.Events, 1)
	require.Equal(t, "proposals.voted", txctx.Events[0].Type)
}

func TestVotingMultiAllOrNothing(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 30)
	idxOpen := createProposal(t, voterAddr)
	idxClosed := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idxOpen, 50) // still open at closedHeight below
	startProposal(t, voterAddr, idxClosed, 1)
	require.NoError(t, voterHelper.Credit(voterAddr, uint256.NewInt(10))) // refund the start fees

	closedHeight := 1 + testVotingPeriod + 1
	tx := ctrlertypes.NewTrx(voterAddr, &ctrlertypes.TrxPayloadVotingMulti{
		Entries: []*ctrlertypes.VotingEntry{
			{ProposalIdx: idxOpen, Amount: uint256.NewInt(10), Choice: proposal.CHOICE_AYE},
			{ProposalIdx: idxClosed, Amount: uint256.NewInt(5), Choice: proposal.CHOICE_AYE},
		},
	})

	xerr := runTrx(makeTrxCtx(tx, closedHeight))
	require.Equal(t, xerrors.ErrProposalClosed, xerr)

	// the whole batch failed: no debit, no tally change
	require.Equal(t, uint256.NewInt(30), voterHelper.FindVoter(voterAddr).GetBalance())
	propOpen, _ := govCtrler.getProposal(idxOpen)
	require.True(t, propOpen.GetAyeWeight().IsZero())
}

func TestVotingMultiBalanceCoversSum(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 14)
	idx1 := createProposal(t, voterAddr)
	idx2 := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idx1, 1)
	startProposal(t, voterAddr, idx2, 1)
	require.NoError(t, voterHelper.Credit(voterAddr, uint256.NewInt(10))) // refund the start fees

	tx := ctrlertypes.NewTrx(voterAddr, &ctrlertypes.TrxPayloadVotingMulti{
		Entries: []*ctrlertypes.VotingEntry{
			{ProposalIdx: idx1, Amount: uint256.NewInt(10), Choice: proposal.CHOICE_AYE},
			{ProposalIdx: idx2, Amount: uint256.NewInt(5), Choice: proposal.CHOICE_AYE},
		},
	})
	xerr := runTrx(makeTrxCtx(tx, 2))
	require.Equal(t, xerrors.ErrNotEnoughBalance.Code(), xerr.Code())
	require.Equal(t, uint256.NewInt(14), voterHelper.FindVoter(voterAddr).GetBalance())
}

func TestReadWinnerTieBreak(t *testing.T) {
	voterAddr := types.RandAddress()
	voterHelper.register(voterAddr, 1000)

	idxA := createProposal(t, voterAddr)
	idxB := createProposal(t, voterAddr)
	startProposal(t, voterAddr, idxA, 1)
	startProposal(t, voterAddr, idxB, 1)

	// both end with aye weight 30, above anything earlier tests left behind
	reserveHelper.reserve(voterAddr, 900)
	require.NoError(t, runTrx(makeTrxCtx(newVotingTrx(voterAddr, idxA, proposal.CHOICE_AYE), 2)))
	reserveHelper.reserve(voterAddr, 900)
	require.NoError(t, runTrx(makeTrxCtx(newVotingTrx(voterAddr, idxB, proposal.CHOICE_AYE), 3)))

	closedHeight := 1 + testVotingPeriod + 1
	winner, xerr := govCtrler.ReadWinner(closedHeight)
	require.NoError(t, xerr)
	require.Equal(t, idxA, winner.Index) // lowest index wins ties
}
