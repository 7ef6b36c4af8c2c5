package config

// TriageConfig represents the configuration for the triage pipeline
type TriageConfig struct {
	Workers int
}

// IntakeConfig represents the configuration for the email intake surface
type IntakeConfig struct {
	Type            string
	ListenAddress   string
	MaxMessageBytes int
	ApplyActions    bool
}

// StoreConfig represents the configuration for the job repository
type StoreConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// SuggesterConfig represents the configuration for the advisory stage suggester
type SuggesterConfig struct {
	Enabled       bool
	Provider      string
	EscalateBelow float64
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GetTriage returns the triage pipeline configuration
func (c *Config) GetTriage() TriageConfig {
	return TriageConfig{
		Workers: c.GetInt("triage.workers"),
	}
}

// GetIntake returns the intake configuration
func (c *Config) GetIntake() IntakeConfig {
	return IntakeConfig{
		Type:            c.GetString("intake.type"),
		ListenAddress:   c.GetString("intake.listen_address"),
		MaxMessageBytes: c.GetInt("intake.max_message_bytes"),
		ApplyActions:    c.GetBool("intake.apply_actions"),
	}
}

// GetStore returns the job store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
	}
}

// GetSuggester returns the stage suggester configuration
func (c *Config) GetSuggester() SuggesterConfig {
	return SuggesterConfig{
		Enabled:       c.GetBool("suggester.enabled"),
		Provider:      c.GetString("suggester.provider"),
		EscalateBelow: c.GetFloat64("suggester.escalate_below"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}
