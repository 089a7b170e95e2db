package bytes

import (
	"bytes"
	"encoding/hex"
	"fmt"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	"strings"
)

// HexBytes enables HEX-encoding for json/encoding.
type HexBytes tmbytes.HexBytes

func (hb HexBytes) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(hb))
	jbz := make([]byte, len(s)+2)
	jbz[0] = '"'
	copy(jbz[1:], s)
	jbz[len(jbz)-1] = '"'
	return jbz, nil
}

func (hb *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid hex string: %s", data)
	}

	str := strings.TrimPrefix(string(data[1:len(data)-1]), "0x")
	bz, err := hex.DecodeString(str)
	if err != nil {
		return err
	}
	*hb = bz
	return nil
}

func (hb HexBytes) Bytes() []byte {
	return hb
}

func (hb HexBytes) Compare(o HexBytes) int {
	return Compare(hb, o)
}

func Compare(h1, h2 HexBytes) int {
	return bytes.Compare(h1, h2)
}

func (hb HexBytes) IsEmpty() bool {
	return len(hb) == 0
}

func (hb HexBytes) Array32() [32]byte {
	var ret [32]byte
	n := len(ret)
	if len(hb) < n {
		n = len(hb)
	}
	copy(ret[:], hb[:n])
	return ret
}

func (hb HexBytes) String() string {
	return strings.ToUpper(hex.EncodeToString(hb))
}

func (hb HexBytes) Format(s fmt.State, verb rune) {
	switch verb {
	case 'p':
		s.Write([]byte(fmt.Sprintf("%p", hb)))
	default:
		s.Write([]byte(fmt.Sprintf("%X", []byte(hb))))
	}
}
