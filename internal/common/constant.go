package common

// RequestIDHeaderName is the gRPC metadata key carrying the request id
// assigned (or propagated) by the server logging interceptor.
const RequestIDHeaderName = "x-request-id"

// Account field names used in validation errors and transport payloads.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldName     = "name"
	FieldLastName = "lastName"
	FieldEmail    = "email"
	FieldToken    = "token"
)
