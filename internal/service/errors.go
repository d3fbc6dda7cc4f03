package service

import "errors"

// Failure taxonomy for an upload. Handlers map these onto status codes; every
// one of them surfaces to the client as {"success":false,"error":...}.
var (
	ErrNoImage             = errors.New("no image uploaded")
	ErrContentBlocked      = errors.New("content blocked by safety settings")
	ErrMalformedResponse   = errors.New("invalid response format")
	ErrMissingFields       = errors.New("missing required nutritional fields")
	ErrUpstreamTimeout     = errors.New("nutrition estimate timed out")
	ErrUpstreamUnavailable = errors.New("nutrition service unavailable")
)
