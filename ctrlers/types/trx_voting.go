package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

// TrxPayloadVoting casts a vote on a single proposal, consuming the
// sender's whole reservation pool.
type TrxPayloadVoting struct {
	ProposalIdx uint32 `json:"proposalIdx"`
	Choice      int32  `json:"choice"`
}

var _ ITrxPayload = (*TrxPayloadVoting)(nil)

func (tx *TrxPayloadVoting) Type() int32 {
	return TRX_VOTING
}

type trxPayloadVotingRLP struct {
	ProposalIdx uint32
	Choice      uint32
}

func (tx *TrxPayloadVoting) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(&trxPayloadVotingRLP{
		ProposalIdx: tx.ProposalIdx,
		Choice:      uint32(tx.Choice),
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadVoting) Decode(bz []byte) xerrors.XError {
	pm := &trxPayloadVotingRLP{}
	if err := rlp.DecodeBytes(bz, pm); err != nil {
		return xerrors.From(err)
	}

	tx.ProposalIdx = pm.ProposalIdx
	tx.Choice = int32(pm.Choice)
	return nil
}

// VotingEntry is one (proposal, amount, choice) element of a batched vote.
type VotingEntry struct {
	ProposalIdx uint32       `json:"proposalIdx"`
	Amount      *uint256.Int `json:"amount"`
	Choice      int32        `json:"choice"`
}

// TrxPayloadVotingMulti reserves and votes atomically per entry,
// all-or-nothing across the batch.
type TrxPayloadVotingMulti struct {
	Entries []*VotingEntry `json:"entries"`
}

var _ ITrxPayload = (*TrxPayloadVotingMulti)(nil)

func (tx *TrxPayloadVotingMulti) Type() int32 {
	return TRX_VOTING_MULTI
}

type votingEntryRLP struct {
	ProposalIdx uint32
	Amount      bytes.HexBytes
	Choice      uint32
}

type trxPayloadVotingMultiRLP struct {
	Entries []*votingEntryRLP
}

func (tx *TrxPayloadVotingMulti) Encode() ([]byte, xerrors.XError) {
	pm := &trxPayloadVotingMultiRLP{}
	for _, entry := range tx.Entries {
		pm.Entries = append(pm.Entries, &votingEntryRLP{
			ProposalIdx: entry.ProposalIdx,
			Amount:      entry.Amount.Bytes(),
			Choice:      uint32(entry.Choice),
		})
	}

	bz, err := rlp.EncodeToBytes(pm)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadVotingMulti) Decode(bz []byte) xerrors.XError {
	pm := &trxPayloadVotingMultiRLP{}
	if err := rlp.DecodeBytes(bz, pm); err != nil {
		return xerrors.From(err)
	}

	tx.Entries = nil
	for _, entry := range pm.Entries {
		tx.Entries = append(tx.Entries, &VotingEntry{
			ProposalIdx: entry.ProposalIdx,
			Amount:      new(uint256.Int).SetBytes(entry.Amount),
			Choice:      int32(entry.Choice),
		})
	}
	return nil
}
