package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

// TrxPayloadReserve commits tokens from the sender's balance into its
// reservation pool. The pool is not bound to a proposal until vote time.
type TrxPayloadReserve struct {
	Amount *uint256.Int `json:"amount"`
}

var _ ITrxPayload = (*TrxPayloadReserve)(nil)

func (tx *TrxPayloadReserve) Type() int32 {
	return TRX_RESERVE
}

type trxPayloadAmountRLP struct {
	Amount bytes.HexBytes
}

func (tx *TrxPayloadReserve) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(&trxPayloadAmountRLP{Amount: tx.Amount.Bytes()})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadReserve) Decode(bz []byte) xerrors.XError {
	pm := &trxPayloadAmountRLP{}
	if err := rlp.DecodeBytes(bz, pm); err != nil {
		return xerrors.From(err)
	}

	tx.Amount = new(uint256.Int).SetBytes(pm.Amount)
	return nil
}

// TrxPayloadUnreserve releases unconsumed reserved tokens. Half of the
// released amount (rounded down) returns to the balance, the rest is burned.
type TrxPayloadUnreserve struct {
	Amount *uint256.Int `json:"amount"`
}

var _ ITrxPayload = (*TrxPayloadUnreserve)(nil)

func (tx *TrxPayloadUnreserve) Type() int32 {
	return TRX_UNRESERVE
}

func (tx *TrxPayloadUnreserve) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(&trxPayloadAmountRLP{Amount: tx.Amount.Bytes()})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadUnreserve) Decode(bz []byte) xerrors.XError {
	pm := &trxPayloadAmountRLP{}
	if err := rlp.DecodeBytes(bz, pm); err != nil {
		return xerrors.From(err)
	}

	tx.Amount = new(uint256.Int).SetBytes(pm.Amount)
	return nil
}
