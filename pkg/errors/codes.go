package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalError represents a generic internal error.
	GeneralInternalError ErrorCode = "general_internal_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// ErrInvalidOrder represents an order that parsed but is semantically
	// invalid (non-positive price or quantity, empty id).
	ErrInvalidOrder ErrorCode = "invalid_order"
	// ErrDuplicateOrderID represents an incoming order whose id collides
	// with an order currently resting in the book.
	ErrDuplicateOrderID ErrorCode = "duplicate_order_id"
	// ErrMalformedInput represents an input record that cannot be parsed.
	ErrMalformedInput ErrorCode = "malformed_input"

	// SnapshotCorruptError represents persisted book state that is
	// unreadable or inconsistent.
	SnapshotCorruptError ErrorCode = "snapshot_corrupt"
	// SnapshotLoadError represents a failure reading the snapshot backend.
	SnapshotLoadError ErrorCode = "snapshot_load_error"
	// SnapshotStoreError represents a failure writing the snapshot backend.
	SnapshotStoreError ErrorCode = "snapshot_store_error"

	// FeedReadError represents a failure reading from the order feed.
	FeedReadError ErrorCode = "feed_read_error"
	// TradePublishError represents a failure publishing a trade confirmation.
	TradePublishError ErrorCode = "trade_publish_error"

	// RedisConfigError represents an invalid or nil Redis configuration.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisGetError represents an error getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisPingError represents an error pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
)
