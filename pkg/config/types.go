// pkg/config/types.go
package config

import "time"

// Config is the root configuration structure for the Sentra application.
// It aggregates all other specific configuration structs.
type Config struct {
	Log    LogConfig    `description:"Logging configuration" koanf:"log"`
	Server ServerConfig `description:"Server configuration" koanf:"server"`
	Ollama OllamaConfig `description:"Ollama endpoint configuration" koanf:"ollama"`
	Chroma ChromaConfig `description:"Vector store configuration" koanf:"chroma"`
	Rules  RulesConfig  `description:"Technique rule set configuration" koanf:"rules"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (debug, info, warn, error)" koanf:"level"`
	Format string `description:"Log format: json | text" koanf:"format"`
}

// ServerConfig holds configuration for the Sentra server runtime.
type ServerConfig struct {
	Addr string `description:"Server listen address" koanf:"addr"`
	Port int    `description:"Server listen port" koanf:"port"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `description:"Allowed CORS origins" koanf:"cors_origins"`

	MetricsEnabled bool `description:"Expose Prometheus metrics on /metrics" koanf:"metrics_enabled"`

	ReadTimeout  time.Duration `description:"HTTP read timeout" koanf:"read_timeout"`
	WriteTimeout time.Duration `description:"HTTP write timeout" koanf:"write_timeout"`
}

// OllamaConfig holds the embedding/generation collaborator settings.
type OllamaConfig struct {
	Host          string        `description:"Ollama endpoint (host:port or URL)" koanf:"host"`
	EmbedModel    string        `description:"Embedding model name" koanf:"embed_model"`
	GenModel      string        `description:"Generation model name" koanf:"gen_model"`
	EmbedTimeout  time.Duration `description:"Per-call embedding timeout" koanf:"embed_timeout"`
	GenTimeout    time.Duration `description:"Per-call generation timeout" koanf:"gen_timeout"`
	MaxConcurrent int           `description:"Embedding fan-out bound during ingest" koanf:"max_concurrent"`
}

// ChromaConfig holds the vector store settings.
type ChromaConfig struct {
	Host                string `description:"Chroma endpoint (host:port or URL)" koanf:"host"`
	EvidenceCollection  string `description:"Evidence collection name" koanf:"evidence_collection"`
	TechniqueCollection string `description:"Technique rule collection name" koanf:"technique_collection"`
}

// RulesConfig holds the technique rule set settings.
type RulesConfig struct {
	// Path overrides the embedded default rule set when non-empty.
	Path string `description:"Technique rule file path (empty: embedded default set)" koanf:"path"`
}
