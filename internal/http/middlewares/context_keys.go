package middlewares

// gin.Context keys set by the middlewares in this package.
const (
	CtxRequestID = "request_id"
)
