package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeInvalidForm      = "INVALID_FORM"
	CodeUnknownAction    = "UNKNOWN_ACTION"
)
