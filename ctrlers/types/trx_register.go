package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/quadrachain/quadra-go/types"
	"github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
)

// TrxPayloadRegister registers a new voter. Only the genesis operator may
// submit it; the fee is deducted from the voter's initial allocation.
type TrxPayloadRegister struct {
	Voter types.Address `json:"voter"`
	Fee   *uint256.Int  `json:"fee"`
}

var _ ITrxPayload = (*TrxPayloadRegister)(nil)

func (tx *TrxPayloadRegister) Type() int32 {
	return TRX_REGISTER
}

type trxPayloadRegisterRLP struct {
	Voter types.Address
	Fee   bytes.HexBytes
}

func (tx *TrxPayloadRegister) Encode() ([]byte, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(&trxPayloadRegisterRLP{
		Voter: tx.Voter,
		Fee:   tx.Fee.Bytes(),
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadRegister) Decode(bz []byte) xerrors.XError {
	pm := &trxPayloadRegisterRLP{}
	if err := rlp.DecodeBytes(bz, pm); err != nil {
		return xerrors.From(err)
	}

	tx.Voter = pm.Voter
	tx.Fee = new(uint256.Int).SetBytes(pm.Fee)
	return nil
}
