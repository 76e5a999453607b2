package middlewares

// gin context keys, namespaced so handler-local Sets cannot collide
const (
	CtxRequestID = "request_id"

	ctxUIDKey   = "session.uid"
	ctxEmailKey = "session.email"
	ctxNameKey  = "session.name"
)
