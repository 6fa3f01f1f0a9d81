package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "detailbay"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = ""
	DefaultRedisDB   = 0

	DefaultPort = "8080"

	DefaultAdminSessionTTL = 12 * time.Hour

	// Operating window of the shop. The slot grid runs from opening through
	// closing inclusive at the configured interval: 09:00-17:00 at 30
	// minutes yields 17 bookable start times.
	DefaultOpeningTime     = "09:00"
	DefaultClosingTime     = "17:00"
	DefaultSlotIntervalMin = 30

	DefaultSlotLockTTL          = 10 * time.Second
	DefaultAvailabilityCacheTTL = 30 * time.Second

	DefaultSMTPPort = 587

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
