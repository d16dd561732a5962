package snapstore

import (
	"context"
	"time"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSnapshotStore implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// PreviousAssessment implements the HistoryLookup interface.
func (m *MockSnapshotStore) PreviousAssessment(ctx context.Context, orgID, siteID string, before time.Time) (schema.BaselineRecord, bool, error) {
	args := m.Called(ctx, orgID, siteID, before)
	return args.Get(0).(schema.BaselineRecord), args.Bool(1), args.Error(2)
}

// SaveAssessment implements the SnapshotStore interface.
func (m *MockSnapshotStore) SaveAssessment(ctx context.Context, report schema.AssessmentReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// GetAssessment implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetAssessment(ctx context.Context, assessmentID string) (schema.AssessmentRecord, error) {
	args := m.Called(ctx, assessmentID)
	return args.Get(0).(schema.AssessmentRecord), args.Error(1)
}

// ListAssessments implements the SnapshotStore interface.
func (m *MockSnapshotStore) ListAssessments(ctx context.Context, orgID, siteID string, limit int) ([]schema.AssessmentRecord, error) {
	args := m.Called(ctx, orgID, siteID, limit)
	records, _ := args.Get(0).([]schema.AssessmentRecord)
	return records, args.Error(1)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// GetAllAssessments implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetAllAssessments(ctx context.Context) ([]schema.AssessmentRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.AssessmentRecord)
	return records, args.Error(1)
}

// GetAllRoleScores implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetAllRoleScores(ctx context.Context) ([]schema.RoleScoreRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.RoleScoreRecord)
	return records, args.Error(1)
}

// GetAllDriverScores implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetAllDriverScores(ctx context.Context) ([]schema.DriverScoreRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.DriverScoreRecord)
	return records, args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
