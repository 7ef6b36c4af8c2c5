package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/job-mail-triage/internal/adapters/intake"
	"github.com/mikey/job-mail-triage/internal/adapters/jobstore"
	"github.com/mikey/job-mail-triage/internal/config"
	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/factory"
	"github.com/mikey/job-mail-triage/internal/logging"
	"github.com/mikey/job-mail-triage/internal/utils"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Suggester flags
	Suggester     bool
	Provider      string
	MaxTokens     int
	Temperature   float64
	TopP          float64
	MaxBodySize   int
	EscalateBelow float64

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Input flags
	InputFile  string
	JobsFile   string
	Apply      bool
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Suggester flags
	flag.BoolVar(&flags.Suggester, "suggester", false, "Enable the advisory stage suggester")
	flag.StringVar(&flags.Provider, "provider", "openai", "Suggester provider (bedrock, gemini, openai)")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for suggester response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for suggester generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for suggester generation")
	flag.IntVar(&flags.MaxBodySize, "max-body-size", 4096, "Maximum email body size to send to the suggester")
	flag.Float64Var(&flags.EscalateBelow, "escalate-below", 0.3, "Consult the suggester when rule confidence is below this value")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	flag.StringVar(&flags.JobsFile, "jobs", "", "JSON file of tracked job applications to match against")
	flag.BoolVar(&flags.Apply, "apply", false, "Apply the resolved action to the in-memory store and print the result")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(logger *zap.Logger) *utils.TextProcessor {
		return utils.NewTextProcessor(logger)
	}); err != nil {
		return nil, err
	}

	// Register in-memory job repository; the CLI never touches a database
	if err := container.Provide(func(logger *zap.Logger) core.JobRepository {
		return jobstore.NewMemoryStore(logger)
	}); err != nil {
		return nil, err
	}

	// Register advisory stage suggester (nil unless -suggester is set)
	if err := container.Provide(factory.NewSuggesterFactory); err != nil {
		return nil, err
	}
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
		flags *CLIFlags,
		logger *zap.Logger,
	) *core.TriageService {
		return core.NewTriageService(
			classifier,
			extractor,
			matcher,
			timeline,
			jobs,
			suggester,
			logger,
			1, // single message, single worker
			flags.EscalateBelow,
		)
	}); err != nil {
		return nil, err
	}

	// Register CLI intake
	if err := container.Provide(func(
		service *core.TriageService,
		flags *CLIFlags,
		logger *zap.Logger,
	) (*intake.CliIntake, error) {
		return intake.NewCliIntake(service, logger, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("intake.type", "cli")
	v.Set("store.type", "memory")

	v.Set("suggester.enabled", flags.Suggester)
	v.Set("suggester.provider", flags.Provider)
	v.Set("suggester.escalate_below", flags.EscalateBelow)

	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_body_size", flags.MaxBodySize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_body_size", flags.MaxBodySize)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_body_size", flags.MaxBodySize)
	}

	return config.NewFromViper(v)
}
