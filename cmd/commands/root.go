package commands

import (
	"os"

	cfg "github.com/quadrachain/quadra-go/cmd/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
	tmcli "github.com/tendermint/tendermint/libs/cli"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

var (
	rootConfig = cfg.DefaultConfig()
	logger     = tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stdout))
)

// RootCmd is the entry command. The home directory flag is bound by
// tendermint's cli executor.
var RootCmd = &cobra.Command{
	Use:   "quadra",
	Short: "quadratic voting governance ledger",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		home := viper.GetString(tmcli.HomeFlag)
		conf, err := cfg.LoadConfig(home)
		if err != nil {
			return err
		}
		rootConfig = conf

		logger, err = tmflags.ParseLogLevel(rootConfig.LogLevel, logger, tmcfg.DefaultLogLevel)
		if err != nil {
			return err
		}
		return nil
	},
}
