package common

const (
	DefaultFollowersPageSize = 50
	DefaultAnalyzePageSize   = 100
	DefaultHistoryPageSize   = 20
	MaxPageSize              = 1000

	RequestIDHeader = "X-Request-ID"
)
