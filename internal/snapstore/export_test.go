package snapstore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/mri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecuteSnapshotExport(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveAssessment(ctx, testReport("a-1", "acme", "hq", "2024-01-10", 50)))
	require.NoError(t, store.SaveAssessment(ctx, testReport("a-2", "acme", "hq", "2024-02-10", 55)))

	prefix := filepath.Join(t.TempDir(), "export")
	var out bytes.Buffer
	require.NoError(t, ExecuteSnapshotExport(ctx, &out, store, prefix))

	for _, table := range allTables {
		info, err := os.Stat(prefix + "." + table + ".parquet")
		require.NoError(t, err, table)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, out.String(), "Exported 2 assessments")
	assert.Contains(t, out.String(), "Exported 4 role scores")
}

func TestExecuteSnapshotExport_RequiresPrefix(t *testing.T) {
	err := ExecuteSnapshotExport(context.Background(), &bytes.Buffer{}, &MockSnapshotStore{}, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file")
}

func TestExecuteSnapshotExport_EmptyStore(t *testing.T) {
	store := &MockSnapshotStore{}
	store.On("GetStatus", mock.Anything).Return(schema.StoreStatus{Backend: "sqlite", Connected: true}, nil)

	err := ExecuteSnapshotExport(context.Background(), &bytes.Buffer{}, store, filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no assessment snapshots")
	store.AssertExpectations(t)
}

func TestExecuteSnapshotExport_StoreFailure(t *testing.T) {
	store := &MockSnapshotStore{}
	store.On("GetStatus", mock.Anything).Return(schema.StoreStatus{TotalAssessments: 1}, nil)
	store.On("GetAllAssessments", mock.Anything).Return(nil, errors.New("boom"))

	err := ExecuteSnapshotExport(context.Background(), &bytes.Buffer{}, store, filepath.Join(t.TempDir(), "x"))
	assert.ErrorContains(t, err, "failed to retrieve assessments")
}
