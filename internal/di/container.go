package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/job-mail-triage/internal/config"
	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/factory"
	"github.com/mikey/job-mail-triage/internal/logging"
	"github.com/mikey/job-mail-triage/internal/ports"
	"github.com/mikey/job-mail-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSuggesterFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIntakeFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register job repository
	if err := container.Provide(func(f *factory.StoreFactory) (core.JobRepository, error) {
		return f.CreateJobRepository()
	}); err != nil {
		return nil, err
	}

	// Register advisory stage suggester (nil when disabled)
	if err := container.Provide(func(f *factory.SuggesterFactory) (core.StageSuggester, error) {
		return f.CreateStageSuggester()
	}); err != nil {
		return nil, err
	}

	// Register pipeline components
	if err := container.Provide(func() (*core.Classifier, error) {
		return core.NewClassifier(core.DefaultPatterns())
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewMatcher); err != nil {
		return nil, err
	}
	if err := container.Provide(func() (*core.TimelineEngine, error) {
		return core.NewTimelineEngine(core.DefaultPatterns())
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(func(
		classifier *core.Classifier,
		extractor *core.Extractor,
		matcher *core.Matcher,
		timeline *core.TimelineEngine,
		jobs core.JobRepository,
		suggester core.StageSuggester,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.TriageService {
		triageCfg := cfg.GetTriage()
		suggesterCfg := cfg.GetSuggester()
		return core.NewTriageService(
			classifier,
			extractor,
			matcher,
			timeline,
			jobs,
			suggester,
			logger,
			triageCfg.Workers,
			suggesterCfg.EscalateBelow,
		)
	}); err != nil {
		return nil, err
	}

	// Register email intake
	if err := container.Provide(func(
		f *factory.IntakeFactory,
		service *core.TriageService,
		repo core.JobRepository,
	) (ports.EmailIntake, error) {
		return f.CreateEmailIntake(service, repo)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
