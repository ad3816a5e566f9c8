package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the study assistant.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	RAG       RAGConfig       `yaml:"rag"`
	Storage   StorageConfig   `yaml:"storage"`
	Exam      ExamConfig      `yaml:"exam"`
	Debug     bool            `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LLMConfig holds completion API settings.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// EmbeddingConfig holds embedding API settings.
type EmbeddingConfig struct {
	Provider      string  `yaml:"provider"` // openai or ollama
	BaseURL       string  `yaml:"base_url"`
	Key           string  `yaml:"key"`
	Model         string  `yaml:"model"`
	Dimension     int     `yaml:"dimension"`
	RatePerSecond float64 `yaml:"rate_per_second"` // 0 disables rate limiting
}

// RAGConfig holds chunking and retrieval settings.
type RAGConfig struct {
	ChunkSize       int     `yaml:"chunk_size"`    // characters
	ChunkOverlap    int     `yaml:"chunk_overlap"` // characters
	TopK            int     `yaml:"top_k"`
	MaxContextChars int     `yaml:"max_context_chars"`
	HistoryTurns    int     `yaml:"history_turns"`
	MinChunkChars   int     `yaml:"min_chunk_chars"`
	MinAlphaRatio   float64 `yaml:"min_alpha_ratio"`
	MinScore        float64 `yaml:"min_score"`
	MaxFileSizeMB   int     `yaml:"max_file_size_mb"`
}

// StorageConfig selects and configures the vector store backend.
type StorageConfig struct {
	Backend       string         `yaml:"backend"` // chromem or postgres
	PersistDir    string         `yaml:"persist_dir"`
	Collection    string         `yaml:"collection"`
	InMemory      bool           `yaml:"in_memory"`
	EncryptionKey string         `yaml:"encryption_key"`
	Postgres      PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds settings for the pgvector backend.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// ExamConfig holds default question counts per type and difficulty.
type ExamConfig struct {
	MultipleChoice int    `yaml:"multiple_choice"`
	TrueFalse      int    `yaml:"true_false"`
	ShortAnswer    int    `yaml:"short_answer"`
	Essay          int    `yaml:"essay"`
	Difficulty     string `yaml:"difficulty"`
	ContextChars   int    `yaml:"context_chars"`
}

// Load reads the YAML config at path, applies defaults and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that have no sensible default.
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("embedding.provider must be openai or ollama, got %q", c.Embedding.Provider)
	}
	switch c.Storage.Backend {
	case "chromem":
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend must be chromem or postgres, got %q", c.Storage.Backend)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("rag.chunk_overlap (%d) must be smaller than rag.chunk_size (%d)",
			c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	return nil
}
