package snapstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
)

const assessmentColumns = `seq, assessment_id, org_id, site_id, assessment_date, overall_score,
	top_driver, baseline_id, delta_points, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAssessment reads one mri_assessments row selected with assessmentColumns.
func scanAssessment(row rowScanner) (schema.AssessmentRecord, error) {
	var (
		record    schema.AssessmentRecord
		dateStr   string
		overall   sql.NullFloat64
		top       sql.NullString
		baseline  sql.NullString
		delta     sql.NullFloat64
		createdAt int64
	)
	if err := row.Scan(&record.Seq, &record.AssessmentID, &record.OrgID, &record.SiteID, &dateStr,
		&overall, &top, &baseline, &delta, &createdAt); err != nil {
		return record, err
	}

	date, err := algo.ParseDate(dateStr)
	if err != nil {
		return record, err
	}
	record.Date = date
	record.CreatedAt = time.Unix(createdAt, 0).UTC()
	if overall.Valid {
		record.Overall = &overall.Float64
	}
	if top.Valid {
		record.TopDriver = &top.String
	}
	if baseline.Valid {
		record.BaselineID = &baseline.String
	}
	if delta.Valid {
		record.DeltaPoints = &delta.Float64
	}
	return record, nil
}

// SaveAssessment persists the snapshot and delta of a report in one transaction.
func (s *SnapshotStoreImpl) SaveAssessment(ctx context.Context, report schema.AssessmentReport) error {
	if s.disabled() {
		return nil
	}
	if _, err := algo.ParseDate(report.Date); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	existsQuery := rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE assessment_id = ?",
		quoteTableName(assessmentsTable, s.backend)), s.backend)
	if err := tx.QueryRowContext(ctx, existsQuery, report.AssessmentID).Scan(&existing); err != nil {
		return fmt.Errorf("failed to check assessment %s: %w", report.AssessmentID, err)
	}
	if existing > 0 {
		return fmt.Errorf("%w: %s", contract.ErrAssessmentExists, report.AssessmentID)
	}

	var topDriver, baselineID *string
	var deltaPoints *float64
	if report.Snapshot.TopDriver != nil {
		top := string(*report.Snapshot.TopDriver)
		topDriver = &top
	}
	if report.Delta != nil {
		baselineID = report.Delta.BaselineAssessmentID
		deltaPoints = report.Delta.DeltaPoints
	}
	createdAt := report.ScoredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	insertAssessment := rebind(fmt.Sprintf(`
		INSERT INTO %s (assessment_id, org_id, site_id, assessment_date, overall_score,
		                top_driver, baseline_id, delta_points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(assessmentsTable, s.backend)), s.backend)
	if _, err := tx.ExecContext(ctx, insertAssessment,
		report.AssessmentID, report.OrgID, report.SiteID, report.Date, report.Snapshot.Overall,
		topDriver, baselineID, deltaPoints, createdAt.Unix(),
	); err != nil {
		return fmt.Errorf("failed to insert assessment %s: %w", report.AssessmentID, err)
	}

	insertRole := rebind(fmt.Sprintf(`
		INSERT INTO %s (assessment_id, role_id, position, raw_score, percentage) VALUES (?, ?, ?, ?, ?)
	`, quoteTableName(roleScoresTable, s.backend)), s.backend)
	for i, r := range report.Snapshot.Roles {
		if _, err := tx.ExecContext(ctx, insertRole, report.AssessmentID, r.RoleID, i, r.Raw, r.Percentage); err != nil {
			return fmt.Errorf("failed to insert role score %s: %w", r.RoleID, err)
		}
	}

	insertDriver := rebind(fmt.Sprintf(`
		INSERT INTO %s (assessment_id, driver_key, position, mean_score, percentage) VALUES (?, ?, ?, ?, ?)
	`, quoteTableName(driverScoresTable, s.backend)), s.backend)
	for i, d := range report.Snapshot.Drivers {
		if _, err := tx.ExecContext(ctx, insertDriver, report.AssessmentID, string(d.Driver), i, d.Mean, d.Percentage); err != nil {
			return fmt.Errorf("failed to insert driver score %s: %w", d.Driver, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessment %s: %w", report.AssessmentID, err)
	}
	return nil
}

// PreviousAssessment returns the most recent assessment of the site dated
// strictly before the given day. Same-day assessments are ordered by
// insertion, so the latest insert of that day wins.
func (s *SnapshotStoreImpl) PreviousAssessment(ctx context.Context, orgID, siteID string, before time.Time) (schema.BaselineRecord, bool, error) {
	if s.disabled() {
		return schema.BaselineRecord{}, false, nil
	}

	query := rebind(fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE org_id = ? AND site_id = ? AND assessment_date < ?
		ORDER BY assessment_date DESC, seq DESC
		LIMIT 1
	`, assessmentColumns, quoteTableName(assessmentsTable, s.backend)), s.backend)

	record, err := scanAssessment(s.db.QueryRowContext(ctx, query, orgID, siteID, algo.FormatDate(before)))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.BaselineRecord{}, false, nil
	}
	if err != nil {
		return schema.BaselineRecord{}, false, fmt.Errorf("failed to query previous assessment: %w", err)
	}

	return schema.BaselineRecord{
		AssessmentID: record.AssessmentID,
		OrgID:        record.OrgID,
		SiteID:       record.SiteID,
		Date:         record.Date,
		Overall:      record.Overall,
	}, true, nil
}

// GetAssessment returns one persisted assessment.
func (s *SnapshotStoreImpl) GetAssessment(ctx context.Context, assessmentID string) (schema.AssessmentRecord, error) {
	if s.disabled() {
		return schema.AssessmentRecord{}, fmt.Errorf("%w: %s", contract.ErrAssessmentNotFound, assessmentID)
	}

	query := rebind(fmt.Sprintf("SELECT %s FROM %s WHERE assessment_id = ?",
		assessmentColumns, quoteTableName(assessmentsTable, s.backend)), s.backend)
	record, err := scanAssessment(s.db.QueryRowContext(ctx, query, assessmentID))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.AssessmentRecord{}, fmt.Errorf("%w: %s", contract.ErrAssessmentNotFound, assessmentID)
	}
	if err != nil {
		return schema.AssessmentRecord{}, fmt.Errorf("failed to query assessment %s: %w", assessmentID, err)
	}
	return record, nil
}

// ListAssessments returns the assessments of one site, newest first.
func (s *SnapshotStoreImpl) ListAssessments(ctx context.Context, orgID, siteID string, limit int) ([]schema.AssessmentRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE org_id = ? AND site_id = ?
		ORDER BY assessment_date DESC, seq DESC
	`, assessmentColumns, quoteTableName(assessmentsTable, s.backend))
	args := []any{orgID, siteID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return s.queryAssessments(ctx, rebind(query, s.backend), args...)
}

// GetAllAssessments retrieves every assessment in insertion order.
func (s *SnapshotStoreImpl) GetAllAssessments(ctx context.Context) ([]schema.AssessmentRecord, error) {
	if s.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY seq", assessmentColumns, quoteTableName(assessmentsTable, s.backend))
	return s.queryAssessments(ctx, query)
}

func (s *SnapshotStoreImpl) queryAssessments(ctx context.Context, query string, args ...any) ([]schema.AssessmentRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AssessmentRecord
	for rows.Next() {
		record, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessments: %w", err)
	}
	return results, nil
}

// GetAllRoleScores retrieves every role score row.
func (s *SnapshotStoreImpl) GetAllRoleScores(ctx context.Context) ([]schema.RoleScoreRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT assessment_id, role_id, position, raw_score, percentage
		FROM %s ORDER BY assessment_id, position`, quoteTableName(roleScoresTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query role scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RoleScoreRecord
	for rows.Next() {
		var record schema.RoleScoreRecord
		if err := rows.Scan(&record.AssessmentID, &record.RoleID, &record.Position, &record.Raw, &record.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan role score: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role scores: %w", err)
	}
	return results, nil
}

// GetAllDriverScores retrieves every driver score row.
func (s *SnapshotStoreImpl) GetAllDriverScores(ctx context.Context) ([]schema.DriverScoreRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT assessment_id, driver_key, position, mean_score, percentage
		FROM %s ORDER BY assessment_id, position`, quoteTableName(driverScoresTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query driver scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.DriverScoreRecord
	for rows.Next() {
		var record schema.DriverScoreRecord
		if err := rows.Scan(&record.AssessmentID, &record.Driver, &record.Position, &record.Mean, &record.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan driver score: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating driver scores: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the snapshot store.
func (s *SnapshotStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	assessments := quoteTableName(assessmentsTable, s.backend)

	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", assessments))
	if err := row.Scan(&status.TotalAssessments); err != nil {
		return status, fmt.Errorf("failed to get total assessments: %w", err)
	}

	if status.TotalAssessments > 0 {
		sitesQuery := fmt.Sprintf("SELECT COUNT(*) FROM (SELECT DISTINCT org_id, site_id FROM %s) sites", assessments)
		if err := s.db.QueryRowContext(ctx, sitesQuery).Scan(&status.TotalSites); err != nil {
			return status, fmt.Errorf("failed to get total sites: %w", err)
		}

		var createdAt int64
		lastQuery := fmt.Sprintf("SELECT assessment_id, created_at FROM %s ORDER BY seq DESC LIMIT 1", assessments)
		if err := s.db.QueryRowContext(ctx, lastQuery).Scan(&status.LastAssessmentID, &createdAt); err != nil {
			return status, fmt.Errorf("failed to get last assessment: %w", err)
		}
		status.LastCreatedAt = time.Unix(createdAt, 0).UTC()

		rangeQuery := fmt.Sprintf("SELECT MIN(assessment_date), MAX(assessment_date) FROM %s", assessments)
		if err := s.db.QueryRowContext(ctx, rangeQuery).Scan(&status.OldestDate, &status.NewestDate); err != nil {
			return status, fmt.Errorf("failed to get date range: %w", err)
		}
	}

	for _, table := range allTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}
