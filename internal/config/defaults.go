package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultSocialURL        = "https://www.reddit.com"
	DefaultSourceTimeout    = 15 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultMongoCollection  = "news"
	DefaultMongoTimeout     = 5 * time.Second
	DefaultLookbackDays     = 30
	DefaultConcurrency      = 4
	DefaultFetchLimit       = 100
	DefaultIngestionTimeout = 15 * time.Second
	DefaultScoringTimeout   = 30 * time.Second
	DefaultScoringBatchSize = 200

	// Per-source admission limits. The general news tier resets daily, the
	// other two per minute.
	DefaultSocialCalls     = 100
	DefaultSocialPeriod    = time.Minute
	DefaultGeneralCalls    = 100
	DefaultGeneralPeriod   = 24 * time.Hour
	DefaultFinancialCalls  = 5
	DefaultFinancialPeriod = time.Minute
	DefaultPricesCalls     = 5
	DefaultPricesPeriod    = time.Minute
)

// DefaultCommunities is the discussion-forum search list used when the
// config file does not override it.
var DefaultCommunities = []string{
	// French communities
	"Bourse", "Investir", "FinanceFR", "Economie", "FranceFinance",
	// English/global communities
	"stocks", "investing", "StockMarket", "Economy", "FinancialNews",
	"ValueInvesting", "WallStreetBets", "Dividends", "GlobalMarkets",
	"Finance", "Business", "GlobalMarketNews", "StockMarketDiscussion",
	"StockMarketNews", "algotrading", "Robinhood", "Daytrading",
	"pennystocks", "interactivebrokers",
}

// DefaultInstruments is the CAC40 basket tracked when the config file does
// not provide its own.
var DefaultInstruments = []InstrumentEntry{
	{Ticker: "AIR.PA", Name: "Airbus", AlternateTicker: "EADSY"},
	{Ticker: "ALO.PA", Name: "Alstom", AlternateTicker: "ALSMY"},
	{Ticker: "MT.AS", Name: "ArcelorMittal", AlternateTicker: "MT"},
	{Ticker: "CS.PA", Name: "AXA", AlternateTicker: "AXAHY"},
	{Ticker: "BNP.PA", Name: "BNP Paribas", AlternateTicker: "BNPQY"},
	{Ticker: "EN.PA", Name: "Bouygues", AlternateTicker: "BOUYY"},
	{Ticker: "CAP.PA", Name: "Capgemini", AlternateTicker: "CGEMY"},
	{Ticker: "CA.PA", Name: "Carrefour", AlternateTicker: "CRRFY"},
	{Ticker: "ACA.PA", Name: "Crédit Agricole", AlternateTicker: "CRARY"},
	{Ticker: "BN.PA", Name: "Danone", AlternateTicker: "DANOY"},
	{Ticker: "DSY.PA", Name: "Dassault Systèmes", AlternateTicker: "DASTY"},
	{Ticker: "ENGI.PA", Name: "Engie", AlternateTicker: "ENGIY"},
	{Ticker: "EL.PA", Name: "EssilorLuxottica", AlternateTicker: "ESLOY"},
	{Ticker: "ERF.PA", Name: "Eramet", AlternateTicker: "ERMAY"},
	{Ticker: "RMS.PA", Name: "Hermès", AlternateTicker: "HESAY"},
	{Ticker: "KER.PA", Name: "Kering", AlternateTicker: "PPRUY"},
	{Ticker: "LR.PA", Name: "Legrand", AlternateTicker: "LGRDY"},
	{Ticker: "OR.PA", Name: "L'Oréal", AlternateTicker: "LRLCY"},
	{Ticker: "MC.PA", Name: "LVMH", AlternateTicker: "LVMUY"},
	{Ticker: "ML.PA", Name: "Michelin", AlternateTicker: "MGDDY"},
	{Ticker: "ORA.PA", Name: "Orange", AlternateTicker: "ORANY"},
	{Ticker: "RI.PA", Name: "Pernod Ricard", AlternateTicker: "PDRDY"},
	{Ticker: "PUB.PA", Name: "Publicis", AlternateTicker: "PUBGY"},
	{Ticker: "RNO.PA", Name: "Renault", AlternateTicker: "RNLSY"},
	{Ticker: "SAF.PA", Name: "Safran", AlternateTicker: "SAFRY"},
	{Ticker: "SGO.PA", Name: "Saint-Gobain", AlternateTicker: "CODYY"},
	{Ticker: "SAN.PA", Name: "Sanofi", AlternateTicker: "SNY"},
	{Ticker: "SU.PA", Name: "Schneider Electric", AlternateTicker: "SBGSY"},
	{Ticker: "GLE.PA", Name: "Société Générale", AlternateTicker: "SCGLY"},
	{Ticker: "STLAP.PA", Name: "Stellantis", AlternateTicker: "STLA"},
	{Ticker: "STMPA.PA", Name: "STMicroelectronics", AlternateTicker: "STM"},
	{Ticker: "TEP.PA", Name: "Teleperformance", AlternateTicker: "TLPFY"},
	{Ticker: "HO.PA", Name: "Thales", AlternateTicker: "THLLY"},
	{Ticker: "TTE.PA", Name: "TotalEnergies", AlternateTicker: "TTE"},
	{Ticker: "URW.PA", Name: "Unibail-Rodamco-Westfield", AlternateTicker: "URMCY"},
	{Ticker: "VIE.PA", Name: "Veolia", AlternateTicker: "VEOEY"},
	{Ticker: "DG.PA", Name: "Vinci", AlternateTicker: "VCISY"},
	{Ticker: "VIV.PA", Name: "Vivendi", AlternateTicker: "VIVHY"},
	{Ticker: "WLN.PA", Name: "Worldline", AlternateTicker: "WRDLY"},
}

func (c *Config) applyDefaults() {
	// Source defaults
	if c.Sources.Social.BaseURL == "" {
		c.Sources.Social.BaseURL = DefaultSocialURL
	}
	if len(c.Sources.Social.Communities) == 0 {
		c.Sources.Social.Communities = DefaultCommunities
	}
	applySourceDefaults(&c.Sources.Social.SourceConfig, DefaultSocialCalls, DefaultSocialPeriod)
	applySourceDefaults(&c.Sources.GeneralNews, DefaultGeneralCalls, DefaultGeneralPeriod)
	applySourceDefaults(&c.Sources.FinancialNews, DefaultFinancialCalls, DefaultFinancialPeriod)

	// Document store defaults
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = DefaultMongoCollection
	}
	if c.Mongo.ConnectTimeout == 0 {
		c.Mongo.ConnectTimeout = DefaultMongoTimeout
	}

	// Relational store defaults
	applyDBDefaults(&c.Database.Postgres)

	// Ingestion defaults
	if c.Ingestion.LookbackDays == 0 {
		c.Ingestion.LookbackDays = DefaultLookbackDays
	}
	if c.Ingestion.Concurrency == 0 {
		c.Ingestion.Concurrency = DefaultConcurrency
	}
	if c.Ingestion.FetchLimit == 0 {
		c.Ingestion.FetchLimit = DefaultFetchLimit
	}
	if c.Ingestion.Timeout == 0 {
		c.Ingestion.Timeout = DefaultIngestionTimeout
	}

	// Scoring defaults
	if c.Scoring.Timeout == 0 {
		c.Scoring.Timeout = DefaultScoringTimeout
	}
	if c.Scoring.BatchSize == 0 {
		c.Scoring.BatchSize = DefaultScoringBatchSize
	}

	// Price feed defaults
	if c.Prices.Timeout == 0 {
		c.Prices.Timeout = DefaultSourceTimeout
	}
	if c.Prices.RateLimit.Calls == 0 {
		c.Prices.RateLimit.Calls = DefaultPricesCalls
	}
	if c.Prices.RateLimit.Period == 0 {
		c.Prices.RateLimit.Period = DefaultPricesPeriod
	}

	// Basket default
	if len(c.Instruments) == 0 {
		c.Instruments = DefaultInstruments
	}
}

func applySourceDefaults(s *SourceConfig, calls int, period time.Duration) {
	if s.Timeout == 0 {
		s.Timeout = DefaultSourceTimeout
	}
	if s.RateLimit.Calls == 0 {
		s.RateLimit.Calls = calls
	}
	if s.RateLimit.Period == 0 {
		s.RateLimit.Period = period
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
