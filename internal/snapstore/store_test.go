package snapstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a file-backed SQLite store that is closed with the test.
func newTestStore(t *testing.T) *SnapshotStoreImpl {
	t.Helper()
	store, err := NewSnapshotStore(context.Background(), schema.SQLiteBackend, filepath.Join(t.TempDir(), "mri.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// testReport builds a report with two roles and two drivers.
func testReport(id, org, site, date string, overall float64) schema.AssessmentReport {
	top := schema.DriverSitting
	return schema.AssessmentReport{
		AssessmentID: id,
		OrgID:        org,
		SiteID:       site,
		Date:         date,
		Snapshot: schema.Snapshot{
			Overall: overall,
			Roles: []schema.RoleScore{
				{RoleID: "Office Worker", Raw: 0.4875, Percentage: 48.8},
				{RoleID: "Forklift Driver", Raw: 0.625, Percentage: 62.5},
			},
			Drivers: []schema.DriverScore{
				{Driver: schema.DriverSitting, Name: "Sitting", Mean: 3, Percentage: 75},
				{Driver: schema.DriverNeck, Name: "Neck", Mean: 2, Percentage: 50},
			},
			TopDriver: &top,
		},
		ScoredAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestSnapshotStore_NoneBackend(t *testing.T) {
	ctx := context.Background()
	store, err := NewSnapshotStore(ctx, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.SaveAssessment(ctx, testReport("a-1", "acme", "hq", "2024-01-01", 50)))

	_, found, err := store.PreviousAssessment(ctx, "acme", "hq", time.Now())
	assert.NoError(t, err)
	assert.False(t, found)

	_, err = store.GetAssessment(ctx, "a-1")
	assert.ErrorIs(t, err, contract.ErrAssessmentNotFound)

	records, err := store.ListAssessments(ctx, "acme", "hq", 0)
	assert.NoError(t, err)
	assert.Empty(t, records)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestSnapshotStore_UnsupportedBackend(t *testing.T) {
	_, err := NewSnapshotStore(context.Background(), schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestSnapshotStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	report := testReport("a-1", "acme", "hq", "2024-01-10", 55.7)
	report.Delta = &schema.Delta{BaselineAssessmentID: schema.StringPtr("a-0"), DeltaPoints: schema.FloatPtr(-4.5)}
	require.NoError(t, store.SaveAssessment(ctx, report))

	record, err := store.GetAssessment(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "acme", record.OrgID)
	assert.Equal(t, "hq", record.SiteID)
	assert.Equal(t, "2024-01-10", algo.FormatDate(record.Date))
	require.NotNil(t, record.Overall)
	assert.Equal(t, 55.7, *record.Overall)
	require.NotNil(t, record.TopDriver)
	assert.Equal(t, "sitting", *record.TopDriver)
	require.NotNil(t, record.BaselineID)
	assert.Equal(t, "a-0", *record.BaselineID)
	require.NotNil(t, record.DeltaPoints)
	assert.Equal(t, -4.5, *record.DeltaPoints)
	assert.Equal(t, report.ScoredAt, record.CreatedAt)
	assert.Greater(t, record.Seq, int64(0))

	roles, err := store.GetAllRoleScores(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Office Worker", roles[0].RoleID)
	assert.Equal(t, int32(0), roles[0].Position)
	assert.Equal(t, "Forklift Driver", roles[1].RoleID)
	assert.Equal(t, 62.5, roles[1].Percentage)

	drivers, err := store.GetAllDriverScores(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, "sitting", drivers[0].Driver)
	assert.Equal(t, 3.0, drivers[0].Mean)
}

func TestSnapshotStore_GetAssessmentNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetAssessment(context.Background(), "missing")
	assert.ErrorIs(t, err, contract.ErrAssessmentNotFound)
}

func TestSnapshotStore_DuplicateAssessment(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveAssessment(ctx, testReport("a-1", "acme", "hq", "2024-01-10", 50)))
	err := store.SaveAssessment(ctx, testReport("a-1", "acme", "hq", "2024-02-10", 40))
	assert.ErrorIs(t, err, contract.ErrAssessmentExists)

	// The first snapshot is untouched
	record, err := store.GetAssessment(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, *record.Overall)
}

func TestSnapshotStore_InvalidDate(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveAssessment(context.Background(), testReport("a-1", "acme", "hq", "10/01/2024", 50))
	assert.Error(t, err)
}

func TestSnapshotStore_PreviousAssessment(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveAssessment(ctx, testReport("jan", "acme", "hq", "2024-01-10", 60.2)))
	require.NoError(t, store.SaveAssessment(ctx, testReport("feb", "acme", "hq", "2024-02-10", 58.0)))
	require.NoError(t, store.SaveAssessment(ctx, testReport("other-site", "acme", "plant", "2024-02-20", 10)))
	require.NoError(t, store.SaveAssessment(ctx, testReport("other-org", "globex", "hq", "2024-02-20", 10)))

	t.Run("most recent earlier", func(t *testing.T) {
		base, found, err := store.PreviousAssessment(ctx, "acme", "hq", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "feb", base.AssessmentID)
		assert.Equal(t, 58.0, *base.Overall)
	})

	t.Run("same day is excluded", func(t *testing.T) {
		base, found, err := store.PreviousAssessment(ctx, "acme", "hq", time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "jan", base.AssessmentID)
	})

	t.Run("nothing earlier", func(t *testing.T) {
		_, found, err := store.PreviousAssessment(ctx, "acme", "hq", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("unknown site", func(t *testing.T) {
		_, found, err := store.PreviousAssessment(ctx, "acme", "warehouse", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestSnapshotStore_SameDayLatestInsertWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveAssessment(ctx, testReport("morning", "acme", "hq", "2024-01-10", 40)))
	require.NoError(t, store.SaveAssessment(ctx, testReport("afternoon", "acme", "hq", "2024-01-10", 45)))

	base, found, err := store.PreviousAssessment(ctx, "acme", "hq", time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "afternoon", base.AssessmentID)
}

func TestSnapshotStore_LookupFeedsComputeDelta(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveAssessment(ctx, testReport("jan", "acme", "hq", "2024-01-10", 60.2)))

	delta, err := algo.ComputeDelta(ctx, "acme", "hq", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 55.7, store)
	require.NoError(t, err)
	require.True(t, delta.HasBaseline())
	assert.Equal(t, "jan", *delta.BaselineAssessmentID)
	assert.Equal(t, -4.5, *delta.DeltaPoints)
}

func TestSnapshotStore_NullOverallBaseline(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SaveAssessment(ctx, testReport("jan", "acme", "hq", "2024-01-10", 60.2)))

	_, err := store.db.ExecContext(ctx, `UPDATE "mri_assessments" SET overall_score = NULL WHERE assessment_id = 'jan'`)
	require.NoError(t, err)

	base, found, err := store.PreviousAssessment(ctx, "acme", "hq", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, base.Overall)

	_, err = algo.ComputeDelta(ctx, "acme", "hq", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 55.7, store)
	var missing *algo.MissingBaselineScoreError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "jan", missing.BaselineAssessmentID)
}

func TestSnapshotStore_ListAssessments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 1; i <= 5; i++ {
		date := fmt.Sprintf("2024-0%d-01", i)
		require.NoError(t, store.SaveAssessment(ctx, testReport(fmt.Sprintf("a-%d", i), "acme", "hq", date, float64(i*10))))
	}
	require.NoError(t, store.SaveAssessment(ctx, testReport("elsewhere", "acme", "plant", "2024-06-01", 1)))

	all, err := store.ListAssessments(ctx, "acme", "hq", 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "a-5", all[0].AssessmentID, "newest first")
	assert.Equal(t, "a-1", all[4].AssessmentID)

	limited, err := store.ListAssessments(ctx, "acme", "hq", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "a-4", limited[1].AssessmentID)

	everything, err := store.GetAllAssessments(ctx)
	require.NoError(t, err)
	assert.Len(t, everything, 6)
	assert.Equal(t, "a-1", everything[0].AssessmentID, "insertion order")
}

func TestSnapshotStore_GetStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalAssessments)
	assert.Equal(t, int64(0), status.TableSizes[assessmentsTable])

	require.NoError(t, store.SaveAssessment(ctx, testReport("a-1", "acme", "hq", "2024-01-10", 50)))
	require.NoError(t, store.SaveAssessment(ctx, testReport("a-2", "acme", "plant", "2024-03-05", 50)))
	require.NoError(t, store.SaveAssessment(ctx, testReport("a-3", "acme", "hq", "2024-02-01", 50)))

	status, err = store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalAssessments)
	assert.Equal(t, 2, status.TotalSites)
	assert.Equal(t, "a-3", status.LastAssessmentID)
	assert.Equal(t, "2024-01-10", status.OldestDate)
	assert.Equal(t, "2024-03-05", status.NewestDate)
	assert.Equal(t, int64(3), status.TableSizes[assessmentsTable])
	assert.Equal(t, int64(6), status.TableSizes[roleScoresTable])
	assert.Equal(t, int64(6), status.TableSizes[driverScoresTable])
}

func TestSnapshotStore_ReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "mri.db")

	store, err := NewSnapshotStore(ctx, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SaveAssessment(ctx, testReport("a-1", "acme", "hq", "2024-01-10", 50)))
	require.NoError(t, store.Close())

	reopened, err := NewSnapshotStore(ctx, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	_, err = reopened.GetAssessment(ctx, "a-1")
	assert.NoError(t, err)
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, query, rebind(query, schema.SQLiteBackend))
	assert.Equal(t, query, rebind(query, schema.MySQLBackend))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", rebind(query, schema.PostgreSQLBackend))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`mri_assessments`", quoteTableName("mri_assessments", schema.MySQLBackend))
	assert.Equal(t, `"mri_assessments"`, quoteTableName("mri_assessments", schema.PostgreSQLBackend))
	assert.Equal(t, `"mri_assessments"`, quoteTableName("mri_assessments", schema.SQLiteBackend))
}
