package ledger

import (
	"github.com/quadrachain/quadra-go/types/xerrors"
	"sync"
)

// MemLedger keeps every item in memory. It is used when no database
// directory is configured and by tests; Commit has no hash and no version.
type MemLedger[T ILedgerItem] struct {
	memStorage  map[LedgerKey]T
	cachedItems *memItems[T]
	getNewItem  func() T

	mtx sync.RWMutex
}

func NewMemLedger[T ILedgerItem](name string, cb func() T) (*MemLedger[T], xerrors.XError) {
	return &MemLedger[T]{
		memStorage:  make(map[LedgerKey]T),
		cachedItems: newMemItems[T](),
		getNewItem:  cb,
	}, nil
}

func (ledger *MemLedger[T]) Set(item T) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	// setting again revives a key removed in the same window
	ledger.cachedItems.cancelRemovedKey(item.Key())
	ledger.cachedItems.setUpdatedItem(item)
	ledger.cachedItems.setGotItem(item)
	return nil
}

func (ledger *MemLedger[T]) Get(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.get(key)
}

func (ledger *MemLedger[T]) get(key LedgerKey) (T, xerrors.XError) {
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

func (ledger *MemLedger[T]) Del(key LedgerKey) (T, xerrors.XError) {
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

func (ledger *MemLedger[T]) Read(key LedgerKey) (T, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.read(key)
}

func (ledger *MemLedger[T]) read(key LedgerKey) (T, xerrors.XError) {
	var emptyNil T
	if item, ok := ledger.memStorage[key]; !ok {
		return emptyNil, xerrors.ErrNotFoundResult
	} else if key != item.Key() {
		return emptyNil, xerrors.NewOrdinary("mem_ledger: the key is compromised - the requested key is not equal to the key encoded in value")
	} else {
		return item, nil
	}
}

// IterateAllItems visits committed items merged with pending updates,
// skipping pending removals.
func (ledger *MemLedger[T]) IterateAllItems(cb func(T) xerrors.XError) xerrors.XError {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	visited := make(map[LedgerKey]bool)
	for k, v := range ledger.cachedItems.updatedItems {
		visited[k] = true
		if xerr := cb(v); xerr != nil {
			return xerr
		}
	}
	for k, v := range ledger.memStorage {
		if visited[k] || ledger.cachedItems.isRemovedKey(k) {
			continue
		}
		if xerr := cb(v); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ledger *MemLedger[T]) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	for key, item := range ledger.cachedItems.updatedItems {
		ledger.memStorage[key] = item
	}
	for _, key := range ledger.cachedItems.removedKeys {
		delete(ledger.memStorage, key)
	}

	ledger.cachedItems.reset()
	return nil, 0, nil
}

func (ledger *MemLedger[T]) Close() xerrors.XError {
	ledger.memStorage = nil
	ledger.cachedItems.reset()
	return nil
}

var _ ILedger[ILedgerItem] = (*MemLedger[ILedgerItem])(nil)
