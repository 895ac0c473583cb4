// pkg/config/config.go
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a Manager with a fresh koanf instance.
func NewManager() *Manager {
	return &Manager{koanfInstance: koanf.New(".")}
}

// DefaultConfig returns a Config populated with hardcoded default values.
// These serve as the baseline if no other sources override them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: DefaultServerConfig(),
		Ollama: OllamaConfig{
			Host:          "ollama:11434",
			EmbedModel:    "nomic-embed-text",
			GenModel:      "mistral",
			EmbedTimeout:  60 * time.Second,
			GenTimeout:    2 * time.Minute,
			MaxConcurrent: 8,
		},
		Chroma: ChromaConfig{
			Host:                "chroma:8000",
			EvidenceCollection:  "ir_logs",
			TechniqueCollection: "mitre_mappings",
		},
		Rules: RulesConfig{Path: ""},
	}
}

// DefaultConfigAsMap flattens the defaults for the confmap provider.
func DefaultConfigAsMap() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"log.level":                   d.Log.Level,
		"log.format":                  d.Log.Format,
		"server.addr":                 d.Server.Addr,
		"server.port":                 d.Server.Port,
		"server.cors_origins":         d.Server.CORSOrigins,
		"server.metrics_enabled":      d.Server.MetricsEnabled,
		"server.read_timeout":         d.Server.ReadTimeout,
		"server.write_timeout":        d.Server.WriteTimeout,
		"ollama.host":                 d.Ollama.Host,
		"ollama.embed_model":          d.Ollama.EmbedModel,
		"ollama.gen_model":            d.Ollama.GenModel,
		"ollama.embed_timeout":        d.Ollama.EmbedTimeout,
		"ollama.gen_timeout":          d.Ollama.GenTimeout,
		"ollama.max_concurrent":       d.Ollama.MaxConcurrent,
		"chroma.host":                 d.Chroma.Host,
		"chroma.evidence_collection":  d.Chroma.EvidenceCollection,
		"chroma.technique_collection": d.Chroma.TechniqueCollection,
		"rules.path":                  d.Rules.Path,
	}
}

// Load loads configuration from the standard sources in priority order
// (defaults, file, environment, flags) and unmarshals the merged result.
func (m *Manager) Load(flags *pflag.FlagSet, configFilePath string) error {
	return m.LoadWithSources(DefaultSources(configFilePath, flags))
}

// LoadWithSources loads configuration from explicit sources, lowest priority
// first.
func (m *Manager) LoadWithSources(sources []Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, src := range sources {
		if err := src.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("load config source %s: %w", src.Name(), err)
		}
	}

	var cfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("unmarshal final config: %w", err)
	}
	m.currentConfig = cfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}
