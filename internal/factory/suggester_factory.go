package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/mikey/job-mail-triage/internal/adapters/bedrock"
	"github.com/mikey/job-mail-triage/internal/adapters/gemini"
	"github.com/mikey/job-mail-triage/internal/adapters/openai"
	"github.com/mikey/job-mail-triage/internal/config"
	"github.com/mikey/job-mail-triage/internal/core"
	"github.com/mikey/job-mail-triage/internal/utils"
	"go.uber.org/zap"
)

// SuggesterFactory creates advisory stage suggesters
type SuggesterFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewSuggesterFactory creates a new suggester factory
func NewSuggesterFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *SuggesterFactory {
	return &SuggesterFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateStageSuggester creates a stage suggester based on the configuration.
// Returns nil when the suggester is disabled; the pipeline runs fine without one.
func (f *SuggesterFactory) CreateStageSuggester() (core.StageSuggester, error) {
	suggesterCfg := f.cfg.GetSuggester()
	if !suggesterCfg.Enabled {
		return nil, nil
	}

	switch suggesterCfg.Provider {
	case "bedrock":
		return f.createBedrockSuggester()
	case "gemini":
		return f.createGeminiSuggester()
	case "openai":
		return f.createOpenAISuggester()
	default:
		return nil, fmt.Errorf("unsupported suggester provider: %s", suggesterCfg.Provider)
	}
}

func (f *SuggesterFactory) createBedrockSuggester() (core.StageSuggester, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	client := bedrockruntime.NewFromConfig(awsCfg)

	return bedrock.NewBedrockSuggester(
		client,
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		bedrockCfg.TopP,
		bedrockCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}

func (f *SuggesterFactory) createGeminiSuggester() (core.StageSuggester, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return gemini.NewGeminiSuggester(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxBodySize,
		f.logger,
	)
}

func (f *SuggesterFactory) createOpenAISuggester() (core.StageSuggester, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := goopenai.NewClient(openaiCfg.APIKey)

	return openai.NewOpenAISuggester(
		client,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
