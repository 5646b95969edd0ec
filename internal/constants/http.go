package constants

// HTTP Header Names
const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderUserAgent     = "User-Agent"
	HeaderXRequestID    = "X-Request-ID"
	HeaderWWWAuth       = "WWW-Authenticate"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Envelope messages
const (
	MsgSuccess        = "success"
	MsgBadRequest     = "Invalid request"
	MsgInternalError  = "Internal Server Error"
	MsgNotFound       = "Not Found"
	MsgUnauthorized   = "Not authenticated"
	MsgTooManyRequest = "Too many requests"
)
