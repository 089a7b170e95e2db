package ledger

import (
	"bytes"
	"encoding/binary"
	"github.com/quadrachain/quadra-go/types/xerrors"
	"sort"
)

const LEDGERKEYSIZE = 32

type LedgerKey = [LEDGERKEYSIZE]byte

func ToLedgerKey(s []byte) LedgerKey {
	var ret LedgerKey
	n := len(s)
	if n > LEDGERKEYSIZE {
		n = LEDGERKEYSIZE
	}
	copy(ret[:], s[:n])
	return ret
}

// ToLedgerKeyOfIndex is used for items identified by a sequential index
// (e.g. proposals). Big-endian layout keeps tree iteration in index order.
func ToLedgerKeyOfIndex(idx uint32) LedgerKey {
	var ret LedgerKey
	binary.BigEndian.PutUint32(ret[LEDGERKEYSIZE-4:], idx)
	return ret
}

type LedgerKeyList []LedgerKey

func (a LedgerKeyList) Len() int {
	return len(a)
}
func (a LedgerKeyList) Less(i, j int) bool {
	return bytes.Compare(a[i][:], a[j][:]) < 0
}
func (a LedgerKeyList) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

var _ sort.Interface = LedgerKeyList(nil)

type ILedgerItem interface {
	Key() LedgerKey
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type ILedger[T ILedgerItem] interface {
	Set(T) xerrors.XError
	Get(LedgerKey) (T, xerrors.XError)
	Del(LedgerKey) (T, xerrors.XError)
	Read(LedgerKey) (T, xerrors.XError)
	IterateAllItems(func(T) xerrors.XError) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
}

// New returns a ledger backed by an IAVL tree under dbDir, or a pure
// in-memory ledger when dbDir is empty.
func New[T ILedgerItem](name, dbDir string, cacheSize int, newItem func() T) (ILedger[T], xerrors.XError) {
	if dbDir == "" {
		return NewMemLedger[T](name, newItem)
	}
	return NewSimpleLedger[T](name, dbDir, cacheSize, newItem)
}
