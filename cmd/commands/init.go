package commands

import (
	"path/filepath"

	"github.com/holiman/uint256"
	cfg "github.com/quadrachain/quadra-go/cmd/config"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/genesis"
	"github.com/quadrachain/quadra-go/types"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var (
	chainID            = "quadra-chain"
	operatorHex        = ""
	votingPeriodBlocks = int64(28800)
	initialBalance     = uint64(100)
)

func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize genesis and config files",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&chainID,
		"chain_id",
		chainID,
		"the id of the chain to generate")
	cmd.Flags().StringVar(
		&operatorHex,
		"operator",
		operatorHex,
		"hex address of the operator allowed to register voters; random when empty")
	cmd.Flags().Int64Var(
		&votingPeriodBlocks,
		"voting_period",
		votingPeriodBlocks,
		"number of blocks a started proposal stays open for voting")
	cmd.Flags().Uint64Var(
		&initialBalance,
		"initial_balance",
		initialBalance,
		"token balance granted to a voter at registration, before the fee")
}

func initFiles(cmd *cobra.Command, args []string) error {
	return InitFilesWith(chainID, rootConfig)
}

func InitFilesWith(chainID string, config *cfg.Config) error {
	if err := tmos.EnsureDir(filepath.Join(config.RootDir, "config"), 0700); err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Join(config.RootDir, "data"), 0700); err != nil {
		return err
	}

	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	operator := types.RandAddress()
	if operatorHex != "" {
		addr, xerr := types.HexToAddress(operatorHex)
		if xerr != nil {
			return xerr
		}
		operator = addr
	}

	gen := genesis.DefaultGenesis(chainID, operator)
	gen.VotingParams = ctrlertypes.NewVotingParams(votingPeriodBlocks, uint256.NewInt(initialBalance))
	if xerr := gen.Save(genFile); xerr != nil {
		return xerr
	}

	logger.Info("Generated genesis file", "path", genFile, "operator", operator)
	return nil
}
