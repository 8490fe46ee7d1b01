package config

import "time"

// Default timing and sizing configurations used throughout the server
const (
	// DefaultResolverLimit is how many times the resolver polls operation statuses
	DefaultResolverLimit = 20

	// DefaultResolverDelay is the pause between two resolver polls
	DefaultResolverDelay = 100 * time.Millisecond

	// DefaultChunkSize is the maximum size of one upload chunk
	DefaultChunkSize = 10 * 1024 * 1024

	// DefaultSessionTTL is how long a transport session stays valid
	DefaultSessionTTL = 8 * time.Hour

	// DefaultSessionInterval is how often expired sessions are swept
	DefaultSessionInterval = time.Minute

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultKeepAliveInterval is the SSE keep-alive and streamable heartbeat period
	DefaultKeepAliveInterval = 25 * time.Second

	// DefaultRequestTimeout bounds a single DocSpace HTTP request
	DefaultRequestTimeout = 30 * time.Second
)
