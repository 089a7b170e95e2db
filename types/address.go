package types

import (
	"encoding/hex"
	abytes "github.com/quadrachain/quadra-go/types/bytes"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"strings"
)

const AddrSize = 20

// Address is the opaque identity of a participant. The core never verifies
// signatures; the host authenticates callers and hands their address in.
type Address = abytes.HexBytes

func RandAddress() Address {
	return abytes.RandBytes(AddrSize)
}

func ZeroAddress() Address {
	return abytes.ZeroBytes(AddrSize)
}

func HexToAddress(_hex string) (Address, xerrors.XError) {
	if strings.HasPrefix(_hex, "0x") {
		_hex = _hex[2:]
	}
	bzAddr, err := hex.DecodeString(_hex)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if len(bzAddr) != AddrSize {
		return nil, xerrors.NewOrdinary("error of address length: address length should be 20 bytes")
	}
	return bzAddr, nil
}
