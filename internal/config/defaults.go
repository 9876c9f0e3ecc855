package config

const (
	defaultDataDir   = "~/.local/share/medscribe/data"
	defaultOutputDir = "~/.local/share/medscribe/output"
	defaultLogDir    = "~/.local/share/medscribe/logs"

	defaultTranscriptionBaseURL = "http://127.0.0.1:9090"
	defaultTranscriptionTimeout = 120

	defaultGenerationBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	defaultGenerationModel   = "google/gemini-3-flash-preview"
	defaultGenerationTimeout = 60

	defaultOCRBaseURL = "http://127.0.0.1:9091"
	defaultOCRTimeout = 60

	defaultRenderTimeout = 30

	defaultRetentionDays = 30

	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Transcription: Transcription{
			BaseURL:        defaultTranscriptionBaseURL,
			TimeoutSeconds: defaultTranscriptionTimeout,
		},
		Generation: Generation{
			BaseURL:        defaultGenerationBaseURL,
			Model:          defaultGenerationModel,
			TimeoutSeconds: defaultGenerationTimeout,
		},
		OCR: OCR{
			BaseURL:        defaultOCRBaseURL,
			TimeoutSeconds: defaultOCRTimeout,
		},
		Render: Render{
			TimeoutSeconds: defaultRenderTimeout,
		},
		Retention: Retention{
			Days: defaultRetentionDays,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
