package middleware

// Response headers of POST /link. Logging and CORS read them back.
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderLinkageRows    = "X-Linkage-Rows"
	HeaderLinkageMatched = "X-Linkage-Matched"
)
