package ports

import (
	"context"

	"github.com/mikey/job-mail-triage/internal/core"
)

// EmailIntake defines an inbound surface that feeds emails into the triage
// pipeline.
type EmailIntake interface {
	// ProcessEmail triages a single email and returns the result
	ProcessEmail(ctx context.Context, email core.EmailRecord) (*core.EmailJobMatch, error)

	// Start starts the intake surface
	Start() error

	// Stop stops the intake surface
	Stop() error
}
