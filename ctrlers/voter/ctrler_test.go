package voter

import (
	"testing"

	"github.com/holiman/uint256"
	cfg "github.com/quadrachain/quadra-go/cmd/config"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/genesis"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

var (
	config      = cfg.InMemConfig()
	voterCtrler *VoterCtrler
	govHelper   *govHandlerMock
	operator    = types.RandAddress()
)

func init() {
	var xerr xerrors.XError
	if voterCtrler, xerr = NewVoterCtrler(config, tmlog.NewNopLogger()); xerr != nil {
		panic(xerr)
	}
	if xerr = voterCtrler.InitLedger(genesis.DefaultGenesis("test-chain", operator)); xerr != nil {
		panic(xerr)
	}

	govHelper = &govHandlerMock{
		votingPeriodBlocks: 100,
		initialBalance:     uint256.NewInt(100),
	}
}

func newRegisterTrx(from, voterAddr types.Address, fee uint64) *ctrlertypes.Trx {
	return ctrlertypes.NewTrx(from, &ctrlertypes.TrxPayloadRegister{
		Voter: voterAddr,
		Fee:   uint256.NewInt(fee),
	})
}

func TestRegisterVoter(t *testing.T) {
	voterAddr := types.RandAddress()

	xerr := runTrx(makeTrxCtx(newRegisterTrx(operator, voterAddr, 10), 1))
	require.NoError(t, xerr)

	vtr := voterCtrler.FindVoter(voterAddr)
	require.NotNil(t, vtr)
	require.True(t, vtr.Registered)
	require.Equal(t, uint256.NewInt(90), vtr.GetBalance())
}

func TestRegisterOnlyOperator(t *testing.T) {
	notOperator := types.RandAddress()

	xerr := runTrx(makeTrxCtx(newRegisterTrx(notOperator, types.RandAddress(), 10), 1))
	require.Equal(t, xerrors.ErrNoRight, xerr)
}

func TestRegisterFeeRules(t *testing.T) {
	voterAddr := types.RandAddress()

	// fee must be positive
	xerr := runTrx(makeTrxCtx(newRegisterTrx(operator, voterAddr, 0), 1))
	require.Equal(t, xerrors.ErrInsufficientFee, xerr)

	// fee must not exceed the initial allocation
	xerr = runTrx(makeTrxCtx(newRegisterTrx(operator, voterAddr, 101), 1))
	require.Equal(t, xerrors.ErrFeeExceedsInitialBalance, xerr)

	// fee == initial allocation leaves a zero balance
	xerr = runTrx(makeTrxCtx(newRegisterTrx(operator, voterAddr, 100), 1))
	require.NoError(t, xerr)

	vtr := voterCtrler.FindVoter(voterAddr)
	require.NotNil(t, vtr)
	require.True(t, vtr.GetBalance().IsZero())
}

func TestRegisterDuplicate(t *testing.T) {
	voterAddr := types.RandAddress()

	require.NoError(t, runTrx(makeTrxCtx(newRegisterTrx(operator, voterAddr, 10), 1)))

	xerr := runTrx(makeTrxCtx(newRegisterTrx(operator, voterAddr, 10), 2))
	require.Equal(t, xerrors.ErrAlreadyRegistered, xerr)
}

func TestDebitCredit(t *testing.T) {
	voterAddr := types.RandAddress()
	require.NoError(t, runTrx(makeTrxCtx(newRegisterTrx(operator, voterAddr, 10), 1)))

	require.NoError(t, voterCtrler.Debit(voterAddr, uint256.NewInt(30)))
	require.Equal(t, uint256.NewInt(60), voterCtrler.FindVoter(voterAddr).GetBalance())

	xerr := voterCtrler.Debit(voterAddr, uint256.NewInt(61))
	require.Equal(t, xerrors.ErrNotEnoughBalance, xerr)

	require.NoError(t, voterCtrler.Credit(voterAddr, uint256.NewInt(5)))
	require.Equal(t, uint256.NewInt(65), voterCtrler.FindVoter(voterAddr).GetBalance())

	// unknown addresses have no balance to move
	xerr = voterCtrler.Debit(types.RandAddress(), uint256.NewInt(1))
	require.Equal(t, xerrors.ErrNotRegisteredVoter, xerr)
}

func TestRegisterEvent(t *testing.T) {
	voterAddr := types.RandAddress()
	txctx := makeTrxCtx(newRegisterTrx(operator, voterAddr, 25), 1)

	require.NoError(t, runTrx(txctx))
	require.Len(t, txctx.Events, 1)
	require.Equal(t, "voter.registered", txctx.Events[0].Type)
}
