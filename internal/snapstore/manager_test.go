package snapstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/mri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearStore_SQLite(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "clear.db")

	store, err := NewSnapshotStore(ctx, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearStore(ctx, schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing a missing file is fine
	assert.NoError(t, ClearStore(ctx, schema.SQLiteBackend, dbPath, ""))
}

func TestClearStore_Errors(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, ClearStore(ctx, schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearStore(ctx, schema.NoneBackend, "", ""))
	assert.Error(t, ClearStore(ctx, schema.DatabaseBackend("oracle"), "", ""))
}

func TestSnapshotStoreManager(t *testing.T) {
	mgr := &SnapshotStoreManager{}
	assert.Nil(t, mgr.GetSnapshotStore())

	store := &MockSnapshotStore{}
	mgr.snapshots = store
	assert.Same(t, store, mgr.GetSnapshotStore())
}

func TestMockStoreManager(t *testing.T) {
	store := &MockSnapshotStore{}
	mgr := &MockStoreManager{}
	mgr.On("GetSnapshotStore").Return(store)

	assert.Equal(t, store, mgr.GetSnapshotStore())
	mgr.AssertExpectations(t)
}

func TestPrintStoreStatus(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		var out bytes.Buffer
		PrintStoreStatus(&out, schema.StoreStatus{Backend: "none"})
		assert.Contains(t, out.String(), "Store Backend: none")
		assert.NotContains(t, out.String(), "Total Assessments")
	})

	t.Run("connected", func(t *testing.T) {
		var out bytes.Buffer
		PrintStoreStatus(&out, schema.StoreStatus{
			Backend:          "sqlite",
			Connected:        true,
			TotalAssessments: 2,
			TotalSites:       1,
			LastAssessmentID: "a-2",
			LastCreatedAt:    time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			OldestDate:       "2024-01-10",
			NewestDate:       "2024-02-10",
			TableSizes:       map[string]int64{roleScoresTable: 4, assessmentsTable: 2},
		})
		text := out.String()
		assert.Contains(t, text, "Total Assessments: 2")
		assert.Contains(t, text, "Last Saved: 2024-03-01 09:30:00")
		assert.Contains(t, text, "Date Range: 2024-01-10 to 2024-02-10")
		// Tables are listed in name order
		assert.Less(t, bytes.Index(out.Bytes(), []byte(assessmentsTable)), bytes.Index(out.Bytes(), []byte(roleScoresTable)))
	})
}
