package jobstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/job-mail-triage/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the JobRepository interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite job store
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create tables if they don't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			company TEXT,
			position TEXT,
			platform TEXT,
			applied_at TIMESTAMP,
			status TEXT,
			notes TEXT,
			url TEXT,
			test_date TIMESTAMP,
			interview_date TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create jobs table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS job_emails (
			rowid_seq INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			email_id TEXT,
			stage TEXT,
			sentiment TEXT,
			confidence REAL,
			keywords TEXT,
			received_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create job_emails table: %w", err)
	}

	// Create index on job_id for faster history lookups
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_job_emails_job_id ON job_emails(job_id)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// ListJobs returns all tracked jobs
func (s *SQLiteStore) ListJobs(ctx context.Context) ([]core.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company, position, platform, applied_at, status, notes, url, test_date, interview_date
		FROM jobs
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []core.JobRecord
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// GetJob returns one job by id
func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*core.JobRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company, position, platform, applied_at, status, notes, url, test_date, interview_date
		FROM jobs
		WHERE id = ?
	`, id)

	job, err := scanJob(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// SaveJob inserts or replaces a job record
func (s *SQLiteStore) SaveJob(ctx context.Context, job *core.JobRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO jobs (id, company, position, platform, applied_at, status, notes, url, test_date, interview_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.ID, job.Company, job.Position, job.Platform,
		job.AppliedAt.Format(time.RFC3339), string(job.Status), job.Notes,
		nullString(job.URL), nullTime(job.TestDate), nullTime(job.InterviewDate))

	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// UpdateStatus sets a job's status
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status core.JobStatus) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ? WHERE id = ?
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendEmail records a classified email in a job's history
func (s *SQLiteStore) AppendEmail(ctx context.Context, jobID string, entry core.ClassifiedEmail) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_emails (job_id, email_id, stage, sentiment, confidence, keywords, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, jobID, entry.EmailID, string(entry.Classification.Stage),
		string(entry.Classification.Sentiment), entry.Classification.Confidence,
		strings.Join(entry.Classification.Keywords, ","), entry.Date.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to append email: %w", err)
	}
	return nil
}

// ListEmailsForJob returns a job's classified email history
func (s *SQLiteStore) ListEmailsForJob(ctx context.Context, jobID string) ([]core.ClassifiedEmail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email_id, stage, sentiment, confidence, keywords, received_at
		FROM job_emails
		WHERE job_id = ?
		ORDER BY received_at ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query email history: %w", err)
	}
	defer rows.Close()

	var history []core.ClassifiedEmail
	for rows.Next() {
		entry, err := scanEmail(rows.Scan)
		if err != nil {
			return nil, err
		}
		history = append(history, *entry)
	}
	return history, rows.Err()
}

// Stop closes the database connection
func (s *SQLiteStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}

func scanJob(scan func(dest ...any) error) (*core.JobRecord, error) {
	var job core.JobRecord
	var appliedAt, status string
	var url sql.NullString
	var testDate, interviewDate sql.NullString

	if err := scan(&job.ID, &job.Company, &job.Position, &job.Platform,
		&appliedAt, &status, &job.Notes, &url, &testDate, &interviewDate); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339, appliedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse applied_at timestamp: %w", err)
	}
	job.AppliedAt = parsed
	job.Status = core.JobStatus(status)
	if url.Valid {
		job.URL = &url.String
	}
	if t, ok := parseNullTime(testDate); ok {
		job.TestDate = t
	}
	if t, ok := parseNullTime(interviewDate); ok {
		job.InterviewDate = t
	}
	return &job, nil
}

func scanEmail(scan func(dest ...any) error) (*core.ClassifiedEmail, error) {
	var entry core.ClassifiedEmail
	var stage, sentiment, keywords, receivedAt string

	if err := scan(&entry.EmailID, &stage, &sentiment,
		&entry.Classification.Confidence, &keywords, &receivedAt); err != nil {
		return nil, err
	}

	entry.Classification.Stage = core.Stage(stage)
	entry.Classification.Sentiment = core.Sentiment(sentiment)
	if keywords != "" {
		entry.Classification.Keywords = strings.Split(keywords, ",")
	}
	parsed, err := time.Parse(time.RFC3339, receivedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse received_at timestamp: %w", err)
	}
	entry.Date = parsed
	return &entry, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseNullTime(s sql.NullString) (*time.Time, bool) {
	if !s.Valid || s.String == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, false
	}
	return &t, true
}
