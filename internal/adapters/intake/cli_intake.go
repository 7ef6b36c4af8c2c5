package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/job-mail-triage/internal/core"
	"go.uber.org/zap"
)

// CliIntake triages a single email from the command line and prints the
// result for inspection. It never applies actions.
type CliIntake struct {
	service *core.TriageService
	logger  *zap.Logger
	verbose bool
}

// NewCliIntake creates a new CLI intake
func NewCliIntake(service *core.TriageService, logger *zap.Logger, verbose bool) (*CliIntake, error) {
	return &CliIntake{
		service: service,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// ProcessEmail triages an email and displays the results
func (f *CliIntake) ProcessEmail(ctx context.Context, email core.EmailRecord) (*core.EmailJobMatch, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.Sender))

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", email.Sender)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Date: %s\n", email.Date.Format(time.RFC1123Z))
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	if f.verbose {
		preview := email.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	fmt.Printf("\n=== Triage ===\n")
	startTime := time.Now()
	result, err := f.service.ProcessEmail(ctx, email)
	if err != nil {
		f.logger.Error("Failed to triage email", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	cls := result.Classification
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Stage: %s\n", cls.Stage)
	fmt.Printf("Sentiment: %s\n", cls.Sentiment)
	fmt.Printf("Confidence: %.4f\n", cls.Confidence)
	if len(cls.Keywords) > 0 {
		fmt.Printf("Matched phrases: %s\n", strings.Join(cls.Keywords, ", "))
	}
	if cls.Entities.Company != nil {
		fmt.Printf("Company: %s\n", *cls.Entities.Company)
	}
	if cls.Entities.Position != nil {
		fmt.Printf("Position: %s\n", *cls.Entities.Position)
	}
	if cls.Entities.Date != nil {
		fmt.Printf("Date mention: %s\n", cls.Entities.Date.Format("2006-01-02"))
	}
	if result.Match.Job != nil {
		fmt.Printf("Matched job: %s at %s (%.4f)\n",
			result.Match.Job.Position, result.Match.Job.Company, result.Match.Confidence)
	} else {
		fmt.Printf("Matched job: none (best score %.4f)\n", result.Match.Confidence)
	}
	fmt.Printf("Suggested action: %s\n", result.Action)
	if result.Advisory != nil {
		fmt.Printf("Advisory stage (%s): %s (%.4f)\n",
			result.Advisory.Model, result.Advisory.Stage, result.Advisory.Confidence)
	}
	fmt.Printf("Processing time: %v\n", duration)

	return result, nil
}

// Start is a no-op for the CLI intake
func (f *CliIntake) Start() error {
	return nil
}

// Stop is a no-op for the CLI intake
func (f *CliIntake) Stop() error {
	return nil
}
