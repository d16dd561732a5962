// Package snapstore persists assessment snapshots and serves them back as history.
package snapstore

import (
	"sync"

	"github.com/huangsam/mri/internal/contract"
)

// SnapshotStoreManager owns the snapshot store used by the commands.
type SnapshotStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	snapshots    contract.SnapshotStore
}

var _ contract.StoreManager = &SnapshotStoreManager{} // Compile-time check

// GetSnapshotStore returns the SnapshotStore.
func (mgr *SnapshotStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}
