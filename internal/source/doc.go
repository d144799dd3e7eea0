// Package source implements the content source adapters.
//
// Three adapters share a common Fetch contract:
//   - Social: discussion-forum search, one query per configured community
//   - GeneralNews: boolean OR query over a general news index (30-day lookback cap)
//   - FinancialNews: ticker-keyed financial news with per-article insights
//
// Every outbound HTTP call is gated by the adapter's rate limiter, exactly
// once per call. Transport failures surface as errors for the coordinator
// to record; adapters never panic on bad responses.
package source
