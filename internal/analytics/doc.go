// Package analytics implements the two analysis passes over scored content:
//
//   - Aggregator: collapses scored records into one mean sentiment score per
//     (ticker, UTC calendar day).
//   - Engine: correlates day-over-day sentiment deltas with price returns
//     per ticker using Pearson's coefficient.
//
// Both passes read and write through small interfaces so they can be tested
// without a live store.
package analytics
