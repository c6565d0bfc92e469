package api

import "time"

// network type constants
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

const (
	// DefaultBaseURL is the versioned root every endpoint path is appended to.
	DefaultBaseURL = "https://api.tatum.io/v3"

	// DefaultTimeout bounds a single request when no http.Client is supplied.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize is sent when a list query does not set one.
	DefaultPageSize = 10

	headerAPIKey      = "x-api-key"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)
