package types

import (
	"encoding/json"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
}

type IGovHandler interface {
	Version() int64
	VotingPeriodBlocks() int64
	InitialBalance() *uint256.Int
}

// IVoterHandler is the balance-ledger collaborator. Every balance mutation
// from other components goes through Debit/Credit, never direct field writes.
type IVoterHandler interface {
	FindVoter(types.Address) *Voter
	IsRegistered(types.Address) bool
	Debit(types.Address, *uint256.Int) xerrors.XError
	Credit(types.Address, *uint256.Int) xerrors.XError
}

// IReserveHandler exposes the reservation pool to the voting engine.
type IReserveHandler interface {
	ReservedOf(types.Address) *uint256.Int
	Consume(types.Address) (*uint256.Int, xerrors.XError)
}

type IQueryHandler interface {
	Query(QueryData) (json.RawMessage, xerrors.XError)
}

const (
	QUERY_VOTER int32 = 1 + iota
	QUERY_RESERVATION
	QUERY_PROPOSAL
	QUERY_PROPOSALS
	QUERY_PARAMS
	QUERY_WINNER
)

type QueryData struct {
	Command int32  `json:"command"`
	Params  []byte `json:"params,omitempty"`
}
