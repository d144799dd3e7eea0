package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
// Source API credentials are deliberately not required here: a source with
// no URL or key is skipped for the run with a single error, not a fatal
// config failure.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("mongo.database is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Ingestion.LookbackDays < 1 {
		return errors.New("ingestion.lookback_days must be >= 1")
	}
	if c.Ingestion.Concurrency < 1 {
		return errors.New("ingestion.concurrency must be >= 1")
	}
	if c.Ingestion.FetchLimit < 1 {
		return errors.New("ingestion.fetch_limit must be >= 1")
	}

	for _, rl := range []struct {
		name string
		cfg  RateLimitConfig
	}{
		{"sources.social.rate_limit", c.Sources.Social.RateLimit},
		{"sources.general_news.rate_limit", c.Sources.GeneralNews.RateLimit},
		{"sources.financial_news.rate_limit", c.Sources.FinancialNews.RateLimit},
		{"prices.rate_limit", c.Prices.RateLimit},
	} {
		if rl.cfg.Calls < 1 {
			return fmt.Errorf("%s.calls must be >= 1", rl.name)
		}
		if rl.cfg.Period <= 0 {
			return fmt.Errorf("%s.period must be positive", rl.name)
		}
	}

	for i, inst := range c.Instruments {
		if inst.Ticker == "" {
			return fmt.Errorf("instruments[%d].ticker is required", i)
		}
		if inst.Name == "" {
			return fmt.Errorf("instruments[%d].name is required", i)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
