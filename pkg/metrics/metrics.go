// Package metrics holds instrument settings shared across the application.
package metrics

// DefaultBuckets are histogram boundaries in seconds sized for calls to
// external HTTP APIs, where a slow provider can take tens of seconds.
var DefaultBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30} //nolint: gochecknoglobals
