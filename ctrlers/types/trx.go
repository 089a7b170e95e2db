package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"time"
)

const (
	TRX_REGISTER int32 = 1 + iota
	TRX_PROPOSAL
	TRX_START
	TRX_RESERVE
	TRX_UNRESERVE
	TRX_VOTING
	TRX_VOTING_MULTI
)

const (
	EVENT_ATTR_TXTYPE   = "type"
	EVENT_ATTR_TXSENDER = "sender"
	EVENT_ATTR_VOTER    = "voter"
	EVENT_ATTR_PROPOSAL = "proposal"
	EVENT_ATTR_AMOUNT   = "amount"
	EVENT_ATTR_BALANCE  = "balance"
	EVENT_ATTR_WEIGHT   = "weight"
	EVENT_ATTR_CHOICE   = "choice"
	EVENT_ATTR_WINNER   = "winner"
	EVENT_ATTR_ENDBLOCK = "endBlock"
)

type ITrxPayload interface {
	Type() int32
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type Trx struct {
	Version uint32        `json:"version,omitempty"`
	Time    int64         `json:"time"`
	From    types.Address `json:"from"`
	Type    int32         `json:"type"`
	Payload ITrxPayload   `json:"payload,omitempty"`
}

func NewTrx(from types.Address, payload ITrxPayload) *Trx {
	return &Trx{
		Version: 1,
		Time:    time.Now().UnixNano(),
		From:    from,
		Type:    payload.Type(),
		Payload: payload,
	}
}

func (tx *Trx) GetType() int32 {
	return tx.Type
}

func (tx *Trx) TypeString() string {
	switch tx.Type {
	case TRX_REGISTER:
		return "register"
	case TRX_PROPOSAL:
		return "proposal"
	case TRX_START:
		return "start"
	case TRX_RESERVE:
		return "reserve"
	case TRX_UNRESERVE:
		return "unreserve"
	case TRX_VOTING:
		return "voting"
	case TRX_VOTING_MULTI:
		return "voting_multi"
	}
	return "unknown"
}

type trxRLP struct {
	Version uint64
	Time    uint64
	From    types.Address
	Type    uint64
	Payload bytes.HexBytes
}

func (tx *Trx) Encode() ([]byte, xerrors.XError) {
	var payload bytes.HexBytes
	if tx.Payload != nil {
		bz, xerr := tx.Payload.Encode()
		if xerr != nil {
			return nil, xerr
		}
		payload = bz
	}

	bz, err := rlp.EncodeToBytes(&trxRLP{
		Version: uint64(tx.Version),
		Time:    uint64(tx.Time),
		From:    tx.From,
		Type:    uint64(tx.Type),
		Payload: payload,
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *Trx) Decode(bz []byte) xerrors.XError {
	rtx := &trxRLP{}
	if err := rlp.DecodeBytes(bz, rtx); err != nil {
		return xerrors.From(err)
	}

	var payload ITrxPayload
	switch int32(rtx.Type) {
	case TRX_REGISTER:
		payload = &TrxPayloadRegister{}
	case TRX_PROPOSAL:
		payload = &TrxPayloadProposal{}
	case TRX_START:
		payload = &TrxPayloadStart{}
	case TRX_RESERVE:
		payload = &TrxPayloadReserve{}
	case TRX_UNRESERVE:
		payload = &TrxPayloadUnreserve{}
	case TRX_VOTING:
		payload = &TrxPayloadVoting{}
	case TRX_VOTING_MULTI:
		payload = &TrxPayloadVotingMulti{}
	default:
		return xerrors.ErrUnknownTrxType
	}
	if len(rtx.Payload) > 0 {
		if xerr := payload.Decode(rtx.Payload); xerr != nil {
			return xerr
		}
	}

	tx.Version = uint32(rtx.Version)
	tx.Time = int64(rtx.Time)
	tx.From = rtx.From
	tx.Type = int32(rtx.Type)
	tx.Payload = payload
	return nil
}
