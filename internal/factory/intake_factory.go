package factory

import (
	"fmt"

	"github.com/mikey/job-mail-triage/internal/adapters/intake"
	"github.com/mikey/job-mail-triage/internal/config"
	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/ports"
	"github.com/mikey/job-mail-triage/internal/utils"
	"go.uber.org/zap"
)

// IntakeFactory creates email intake surfaces
type IntakeFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewIntakeFactory creates a new intake factory
func NewIntakeFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *IntakeFactory {
	return &IntakeFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateEmailIntake creates an email intake based on the configuration
func (f *IntakeFactory) CreateEmailIntake(service *core.TriageService, repo core.JobRepository) (ports.EmailIntake, error) {
	intakeCfg := f.cfg.GetIntake()

	switch intakeCfg.Type {
	case "smtp":
		return intake.NewSMTPIntake(
			service,
			repo,
			f.logger,
			f.textProcessor,
			intakeCfg.ListenAddress,
			intakeCfg.MaxMessageBytes,
			intakeCfg.ApplyActions,
		), nil
	case "cli":
		return intake.NewCliIntake(service, f.logger, false)
	default:
		return nil, fmt.Errorf("unsupported intake type: %s", intakeCfg.Type)
	}
}
