// Package ratelimit implements a sliding-window admission gate for
// external API calls. One Limiter instance is shared per source across
// all tickers; it bounds completed calls per trailing window rather than
// refilling tokens at a rate.
package ratelimit
