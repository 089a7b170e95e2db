package genesis

import (
	"encoding/json"
	ctrlertypes "github.com/quadrachain/quadra-go/ctrlers/types"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/crypto"
	"github.com/quadrachain/quadra-go/types/xerrors"
	tmos "github.com/tendermint/tendermint/libs/os"
	"os"
	"path/filepath"
)

// Genesis fixes the chain id, the operator identity allowed to register
// voters, and the voting parameters.
type Genesis struct {
	ChainID      string                    `json:"chainId"`
	Operator     types.Address             `json:"operator"`
	VotingParams *ctrlertypes.VotingParams `json:"votingParams"`
}

func DefaultGenesis(chainID string, operator types.Address) *Genesis {
	return &Genesis{
		ChainID:      chainID,
		Operator:     operator,
		VotingParams: ctrlertypes.DefaultVotingParams(),
	}
}

func (gen *Genesis) Hash() ([]byte, xerrors.XError) {
	bzParams, err := json.Marshal(gen.VotingParams)
	if err != nil {
		return nil, xerrors.From(err)
	}

	return crypto.DefaultHash([]byte(gen.ChainID), gen.Operator, bzParams), nil
}

func (gen *Genesis) Save(path string) xerrors.XError {
	bz, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return xerrors.From(err)
	}
	if err := tmos.EnsureDir(filepath.Dir(path), 0700); err != nil {
		return xerrors.From(err)
	}
	if err := os.WriteFile(path, bz, 0644); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func Load(path string) (*Genesis, xerrors.XError) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.From(err)
	}

	gen := &Genesis{}
	if err := json.Unmarshal(bz, gen); err != nil {
		return nil, xerrors.From(err)
	}
	if len(gen.Operator) != types.AddrSize {
		return nil, xerrors.ErrInitChain.Wrapf("wrong operator address length: %d", len(gen.Operator))
	}
	if gen.VotingParams == nil {
		gen.VotingParams = ctrlertypes.DefaultVotingParams()
	}
	return gen, nil
}
