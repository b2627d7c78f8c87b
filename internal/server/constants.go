package server

import "time"

// Request limits
const (
	maxBodyBytes       = 1 << 20
	DefaultMaxStarts   = 256
	maxValuesPerOctave = 1000
	maxEvaluations     = 20000
)

// HTTP server timeouts
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Cache namespaces
const (
	simulateNamespace = "simulate"
)

// Websocket message types
const (
	msgProgress = "progress"
	msgReport   = "report"
	msgError    = "error"
)
