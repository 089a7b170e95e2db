package ledger

import (
	"fmt"
	"github.com/cosmos/iavl"
	"github.com/quadrachain/quadra-go/types/xerrors"
	tmdb "github.com/tendermint/tm-db"
	"sort"
	"sync"
)

// SimpleLedger persists items in an IAVL tree over goleveldb.
// Set/Del are collected in memory and applied at Commit, which saves a new
// tree version and returns its root hash.
type SimpleLedger[T ILedgerItem] struct {
	db          tmdb.DB
	tree        *iavl.MutableTree
	cachedItems *memItems[T]
	getNewItem  func() T

	mtx sync.RWMutex
}

func NewSimpleLedger[T ILedgerItem](name, dbDir string, cacheSize int, cb func() T) (*SimpleLedger[T], xerrors.XError) {
	if db, err := tmdb.NewDB(name, "goleveldb", dbDir); err != nil {
		return nil, xerrors.From(err)
	} else if tree, err := iavl.NewMutableTree(db, cacheSize, false); err != nil {
		_ = db.Close()
		return nil, xerrors.From(err)
	} else if _, err := tree.Load(); err != nil {
		_ = db.Close()
		return nil, xerrors.From(err)
	} else {
		return &SimpleLedger[T]{
			db:          db,
			tree:        tree,
			cachedItems: newMemItems[T](),
			getNewItem:  cb,
		}, nil
	}
}

func (ledger *SimpleLedger[T]) Set(item T) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	// setting again revives a key removed in the same window
	ledger.cachedItems.cancelRemovedKey(item.Key())
	ledger.cachedItems.setUpdatedItem(item)
	ledger.cachedItems.setGotItem(item)
	return nil
}

func (ledger *SimpleLedger[T]) Get(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.get(key)
}

func (ledger *SimpleLedger[T]) get(key LedgerKey) (T, xerrors.XError) {
	var emptyNil T
	if ledger.cachedItems.isRemovedKey(key) {
		return emptyNil, xerrors.ErrNotFoundResult
	}
	if item, ok := ledger.cachedItems.getGotItem(key); ok {
		return item, nil
	}

	if item, xerr := ledger.read(key); xerr != nil {
		return emptyNil, xerr
	} else {
		ledger.cachedItems.setGotItem(item)
		return item, nil
	}
}

func (ledger *SimpleLedger[T]) Del(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	var emptyNil T
	if item, xerr := ledger.get(key); xerr != nil {
		return emptyNil, xerr
	} else {
		ledger.cachedItems.delGotItem(key)
		ledger.cachedItems.delUpdatedItem(key)
		ledger.cachedItems.appendRemovedKey(key)
		return item, nil
	}
}

func (ledger *SimpleLedger[T]) Read(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.read(key)
}

func (ledger *SimpleLedger[T]) read(key LedgerKey) (T, xerrors.XError) {
	var emptyNil T
	item := ledger.getNewItem()

	if bz, err := ledger.tree.Get(key[:]); err != nil {
		return emptyNil, xerrors.From(err)
	} else if bz == nil {
		return emptyNil, xerrors.ErrNotFoundResult
	} else if xerr := item.Decode(bz); xerr != nil {
		return emptyNil, xerr
	} else if key != item.Key() {
		return emptyNil, xerrors.NewOrdinary("simple_ledger: the key is compromised - the requested key is not equal to the key encoded in value")
	} else {
		return item, nil
	}
}

// IterateAllItems visits committed items merged with pending updates,
// skipping pending removals.
func (ledger *SimpleLedger[T]) IterateAllItems(cb func(T) xerrors.XError) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	visited := make(map[LedgerKey]bool)
	for k, v := range ledger.cachedItems.updatedItems {
		visited[k] = true
		if xerr := cb(v); xerr != nil {
			return xerr
		}
	}

	var cbErr xerrors.XError
	stopped, err := ledger.tree.Iterate(func(key []byte, value []byte) bool {
		k := ToLedgerKey(key)
		if visited[k] || ledger.cachedItems.isRemovedKey(k) {
			return false
		}
		item := ledger.getNewItem()
		if xerr := item.Decode(value); xerr != nil {
			cbErr = xerr
			return true
		} else if item.Key() != k {
			cbErr = xerrors.NewOrdinary(fmt.Sprintf("wrong key - tree key:%X vs. item key:%X", key, item.Key()))
			return true
		} else if xerr := cb(item); xerr != nil {
			cbErr = xerr
			return true
		}
		return false
	})

	if err != nil {
		return xerrors.From(err)
	} else if stopped {
		return cbErr
	}
	return nil
}

func (ledger *SimpleLedger[T]) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	var keys LedgerKeyList
	for k := range ledger.cachedItems.updatedItems {
		keys = append(keys, k)
	}
	sort.Sort(keys)

	for _, k := range keys {
		item := ledger.cachedItems.updatedItems[k]
		// the tree keeps the key slice; each Set needs its own array
		vk := k
		if bz, xerr := item.Encode(); xerr != nil {
			return nil, -1, xerr
		} else if _, err := ledger.tree.Set(vk[:], bz); err != nil {
			return nil, -1, xerrors.From(err)
		}
	}

	for _, k := range ledger.cachedItems.removedKeys {
		var vk LedgerKey
		copy(vk[:], k[:])
		if _, _, err := ledger.tree.Remove(vk[:]); err != nil {
			return nil, -1, xerrors.From(err)
		}
	}

	if r1, r2, err := ledger.tree.SaveVersion(); err != nil {
		return r1, r2, xerrors.From(err)
	} else {
		ledger.cachedItems.reset()
		return r1, r2, nil
	}
}

func (ledger *SimpleLedger[T]) Close() xerrors.XError {
	if ledger.db != nil {
		if err := ledger.db.Close(); err != nil {
			return xerrors.From(err)
		}
	}

	ledger.db = nil
	ledger.tree = nil
	return nil
}

var _ ILedger[ILedgerItem] = (*SimpleLedger[ILedgerItem])(nil)
