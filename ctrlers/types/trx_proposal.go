package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

// TrxPayloadProposal creates a proposal identified by the digest of its
// text; the full text is never stored.
type TrxPayloadProposal struct {
	ContentHash bytes.HexBytes `json:"contentHash"`
}

var _ ITrxPayload = (*TrxPayloadProposal)(nil)

func (tx *TrxPayloadProposal) Type() int32 {
	return TRX_PROPOSAL
}

type trxPayloadProposalRLP struct {
	ContentHash bytes.HexBytes
}

func (tx *TrxPayloadProposal) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(&trxPayloadProposalRLP{
		ContentHash: tx.ContentHash,
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadProposal) Decode(bz []byte) xerrors.XError {
	pm := &trxPayloadProposalRLP{}
	if err := rlp.DecodeBytes(bz, pm); err != nil {
		return xerrors.From(err)
	}

	tx.ContentHash = pm.ContentHash
	return nil
}

// TrxPayloadStart opens the voting window of a created proposal.
// The closing block is fixed here, not at creation.
type TrxPayloadStart struct {
	ProposalIdx uint32       `json:"proposalIdx"`
	Fee         *uint256.Int `json:"fee"`
}

var _ ITrxPayload = (*TrxPayloadStart)(nil)

func (tx *TrxPayloadStart) Type() int32 {
	return TRX_START
}

type trxPayloadStartRLP struct {
	ProposalIdx uint32
	Fee         bytes.HexBytes
}

func (tx *TrxPayloadStart) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(&trxPayloadStartRLP{
		ProposalIdx: tx.ProposalIdx,
		Fee:         tx.Fee.Bytes(),
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadStart) Decode(bz []byte) xerrors.XError {
	pm := &trxPayloadStartRLP{}
	if err := rlp.DecodeBytes(bz, pm); err != nil {
		return xerrors.From(err)
	}

	tx.ProposalIdx = pm.ProposalIdx
	tx.Fee = new(uint256.Int).SetBytes(pm.Fee)
	return nil
}
