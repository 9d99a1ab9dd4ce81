package server

const (
	// CodeOK for ok, protocol errors travel as error replies
	CodeOK int32 = iota
	// CodeInvalidRequest for invalid request
	CodeInvalidRequest
	// CodeInternalError for internal error
	CodeInternalError
)
