package main

import (
	"os"
	"path/filepath"

	"github.com/quadrachain/quadra-go/cmd/commands"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.VersionCmd,
	)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	executor := cli.PrepareBaseCmd(commands.RootCmd, "QUADRA", filepath.Join(home, ".quadra"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
