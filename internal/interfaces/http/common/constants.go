package common

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 64 << 10
	// MaxCommentRunes limits the free-text review comment.
	MaxCommentRunes = 2000
	// MaxCustomerFieldRunes limits customer name and email.
	MaxCustomerFieldRunes = 200
	// DefaultPageLimit applies when a list request has no limit.
	DefaultPageLimit = 50
	// MaxPageLimit caps list requests.
	MaxPageLimit = 200
)
