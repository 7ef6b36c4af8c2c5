package jobstore

import (
	"context"
	"errors"
	"sync"

	"github.com/mikey/job-mail-triage/internal/core"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a job does not exist
	ErrNotFound = errors.New("job not found")
)

// MemoryStore is an in-memory implementation of the JobRepository interface
type MemoryStore struct {
	jobs    map[string]*core.JobRecord
	history map[string][]core.ClassifiedEmail
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory job store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		jobs:    make(map[string]*core.JobRecord),
		history: make(map[string][]core.ClassifiedEmail),
		logger:  logger,
	}
}

// ListJobs returns all tracked jobs
func (s *MemoryStore) ListJobs(ctx context.Context) ([]core.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]core.JobRecord, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// GetJob returns one job by id
func (s *MemoryStore) GetJob(ctx context.Context, id string) (*core.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *job
	return &copied, nil
}

// SaveJob inserts or replaces a job record
func (s *MemoryStore) SaveJob(ctx context.Context, job *core.JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

// UpdateStatus sets a job's status
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status core.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Status = status
	return nil
}

// AppendEmail records a classified email in a job's history
func (s *MemoryStore) AppendEmail(ctx context.Context, jobID string, entry core.ClassifiedEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[jobID]; !ok {
		return ErrNotFound
	}
	s.history[jobID] = append(s.history[jobID], entry)
	return nil
}

// ListEmailsForJob returns a job's classified email history
func (s *MemoryStore) ListEmailsForJob(ctx context.Context, jobID string) ([]core.ClassifiedEmail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.history[jobID]
	out := make([]core.ClassifiedEmail, len(history))
	copy(out, history)
	return out, nil
}
