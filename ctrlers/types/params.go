package types

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/ledger"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"sync"
)

// VotingParams are fixed at genesis and do not change per proposal.
type VotingParams struct {
	version            int64
	votingPeriodBlocks int64
	initialBalance     *uint256.Int

	mtx sync.RWMutex
}

func DefaultVotingParams() *VotingParams {
	return &VotingParams{
		version:            1,
		votingPeriodBlocks: 28800, // = 60 * 60 * 24 / 3 => 1 day with 3s interval
		initialBalance:     uint256.NewInt(100),
	}
}

func NewVotingParams(votingPeriodBlocks int64, initialBalance *uint256.Int) *VotingParams {
	return &VotingParams{
		version:            1,
		votingPeriodBlocks: votingPeriodBlocks,
		initialBalance:     initialBalance.Clone(),
	}
}

func (params *VotingParams) Version() int64 {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return params.version
}

func (params *VotingParams) VotingPeriodBlocks() int64 {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return params.votingPeriodBlocks
}

func (params *VotingParams) InitialBalance() *uint256.Int {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return new(uint256.Int).Set(params.initialBalance)
}

type votingParamsJSON struct {
	Version            int64  `json:"version"`
	VotingPeriodBlocks int64  `json:"votingPeriodBlocks"`
	InitialBalance     string `json:"initialBalance"`
}

func (params *VotingParams) MarshalJSON() ([]byte, error) {
	params.mtx.RLock()
	defer params.mtx.RUnlock()

	return json.Marshal(&votingParamsJSON{
		Version:            params.version,
		VotingPeriodBlocks: params.votingPeriodBlocks,
		InitialBalance:     params.initialBalance.Dec(),
	})
}

func (params *VotingParams) UnmarshalJSON(bz []byte) error {
	tmp := &votingParamsJSON{}
	if err := json.Unmarshal(bz, tmp); err != nil {
		return err
	}
	initialBalance, err := uint256.FromDecimal(tmp.InitialBalance)
	if err != nil {
		return err
	}

	params.mtx.Lock()
	defer params.mtx.Unlock()

	params.version = tmp.Version
	params.votingPeriodBlocks = tmp.VotingPeriodBlocks
	params.initialBalance = initialBalance
	return nil
}

func (params *VotingParams) String() string {
	if bz, err := json.Marshal(params); err != nil {
		return "unable to marshal VotingParams"
	} else {
		return string(bz)
	}
}

// The params ledger holds a single item under the zero key.
func (params *VotingParams) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(bytes.ZeroBytes(32))
}

func (params *VotingParams) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(params); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (params *VotingParams) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, params); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*VotingParams)(nil)
