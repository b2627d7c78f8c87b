package main

import "time"

// CLI defaults
const (
	defaultAddr        = ":8080"
	defaultRingSeconds = 2.0
	percentScale       = 100
	progressInterval   = 10 // print progress every N%
)

// Output formatting
const (
	reportTopN = 5 // ranked results listed by optimize
)

// Trace exporter flush budget on exit.
const traceShutdownTimeout = 5 * time.Second
