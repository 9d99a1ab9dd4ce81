package kvtable

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection when the transport cannot be established or is lost
	ErrConnection = errors.New("unable to establish connection")
	// ErrAuthentication when AUTH is rejected
	ErrAuthentication = errors.New("failed to authenticate")
	// ErrCommand when the store answers a command with an error
	ErrCommand = errors.New("command failed")
	// ErrUnsupportedValueShape when a composite reply nests another composite
	ErrUnsupportedValueShape = errors.New("nested array returns not yet supported")
	// ErrEncodingValidity when a string element is not valid UTF-8
	ErrEncodingValidity = errors.New("invalid byte sequence for encoding UTF8")
)

// CommandError carries the error reply of a command
type CommandError struct {
	Cmd string
	Msg string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Cmd, e.Msg)
}

// Unwrap makes errors.Is(err, ErrCommand) hold
func (e *CommandError) Unwrap() error {
	return ErrCommand
}

// CheckReply turns an error reply into a *CommandError
func CheckReply(cmd string, r *Reply) error {
	if r.Type == ReplyError {
		return &CommandError{Cmd: cmd, Msg: r.Str}
	}
	return nil
}
