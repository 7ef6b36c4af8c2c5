package jobstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/job-mail-triage/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the JobRepository interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL job store
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create tables if they don't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id VARCHAR(64) PRIMARY KEY,
			company VARCHAR(255),
			position VARCHAR(255),
			platform VARCHAR(64),
			applied_at VARCHAR(40),
			status VARCHAR(32),
			notes TEXT,
			url VARCHAR(512),
			test_date VARCHAR(40),
			interview_date VARCHAR(40)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create jobs table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS job_emails (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			job_id VARCHAR(64),
			email_id VARCHAR(128),
			stage VARCHAR(40),
			sentiment VARCHAR(16),
			confidence FLOAT,
			keywords TEXT,
			received_at VARCHAR(40),
			INDEX idx_job_emails_job_id (job_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create job_emails table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// ListJobs returns all tracked jobs
func (s *MySQLStore) ListJobs(ctx context.Context) ([]core.JobRecord, error) {
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
func (s *MySQLStore) GetJob(ctx context.Context, id string) (*core.JobRecord, error) {
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
func (s *MySQLStore) SaveJob(ctx context.Context, job *core.JobRecord) error {
	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO jobs (id, company, position, platform, applied_at, status, notes, url, test_date, interview_date)
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
func (s *MySQLStore) UpdateStatus(ctx context.Context, id string, status core.JobStatus) error {
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
func (s *MySQLStore) AppendEmail(ctx context.Context, jobID string, entry core.ClassifiedEmail) error {
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
func (s *MySQLStore) ListEmailsForJob(ctx context.Context, jobID string) ([]core.ClassifiedEmail, error) {
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
func (s *MySQLStore) Stop() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
