package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the sentinel wrapped by every ConfigurationError.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotAQuestion is returned when an edge operation targets an answer node.
	ErrNotAQuestion = errors.New("node is not a question")

	// ErrNoTransition is returned by Node.Next when no edge accepts the value.
	ErrNoTransition = errors.New("no transition matches the answer")

	// ErrNoRoot is returned when a tree has no question to start from.
	ErrNoRoot = errors.New("tree has no root question")

	// ErrDuplicateNode is returned when a node id is registered twice.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrUnknownNode is returned when a connection references an unregistered id.
	ErrUnknownNode = errors.New("unknown node id")

	// ErrNotLoaded is returned by operations that need a loaded configuration.
	ErrNotLoaded = errors.New("no configuration loaded")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
)

// ConfigurationError reports a structural failure of a load attempt.
type ConfigurationError struct {
	Source string // path or label of the configuration
	Msg    string
	Err    error // optional cause
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	msg := ErrConfiguration.Error()
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Source)
	}
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is makes errors.Is(err, ErrConfiguration) hold for every ConfigurationError.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError is a shorthand for loaders.
func NewConfigurationError(source, msg string, cause error) *ConfigurationError {
	return &ConfigurationError{Source: source, Msg: msg, Err: cause}
}
