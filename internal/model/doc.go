// Package model defines shared data types for the sentiment pipeline.
//
// Conventions:
//   - Tickers: exchange-listed symbols (e.g., "TTE.PA")
//   - Dates: UTC calendar days stored at midnight
//   - Confidence: scalar in [-1, 1] semantics, positive minus negative probability
package model
