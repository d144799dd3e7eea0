package config

import "time"

// Config is the root configuration for the pipeline binaries.
type Config struct {
	Instance    InstanceConfig    `yaml:"instance"`
	Sources     SourcesConfig     `yaml:"sources"`
	Mongo       MongoConfig       `yaml:"mongo"`
	Database    DatabaseConfig    `yaml:"database"`
	Ingestion   IngestionConfig   `yaml:"ingestion"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Prices      PricesConfig      `yaml:"prices"`
	Instruments []InstrumentEntry `yaml:"instruments"`
}

// InstanceConfig identifies this pipeline instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// SourcesConfig holds the three content source configurations.
type SourcesConfig struct {
	Social        SocialSourceConfig `yaml:"social"`
	GeneralNews   SourceConfig       `yaml:"general_news"`
	FinancialNews SourceConfig       `yaml:"financial_news"`
}

// SourceConfig holds a single external content API.
type SourceConfig struct {
	BaseURL   string          `yaml:"base_url"`
	APIKey    string          `yaml:"api_key"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// SocialSourceConfig adds the community list to the common source settings.
type SocialSourceConfig struct {
	SourceConfig `yaml:",inline"`
	Communities  []string `yaml:"communities"`
}

// RateLimitConfig bounds calls per trailing window for one source.
type RateLimitConfig struct {
	Calls  int           `yaml:"calls"`
	Period time.Duration `yaml:"period"`
}

// MongoConfig holds the document store connection.
type MongoConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	Collection     string        `yaml:"collection"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// DatabaseConfig holds the relational store connection.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// IngestionConfig holds batch ingestion settings.
type IngestionConfig struct {
	LookbackDays int           `yaml:"lookback_days"`
	Concurrency  int           `yaml:"concurrency"`
	FetchLimit   int           `yaml:"fetch_limit"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ScoringConfig holds the external sentiment inference service.
type ScoringConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	BatchSize int           `yaml:"batch_size"`
}

// PricesConfig holds the external daily price feed.
type PricesConfig struct {
	BaseURL   string          `yaml:"base_url"`
	APIKey    string          `yaml:"api_key"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// InstrumentEntry is one basket member as configured.
type InstrumentEntry struct {
	Ticker          string `yaml:"ticker"`
	Name            string `yaml:"name"`
	AlternateTicker string `yaml:"alternate_ticker"`
}
