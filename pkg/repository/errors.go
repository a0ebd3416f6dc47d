package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLevel is returned for levels missing from the level table.
	ErrUnknownLevel = errors.New("repository: unknown level")
	// ErrNotFound is returned when a name or valid form does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrUnknownRepository is returned when searching a repository the
	// service does not serve.
	ErrUnknownRepository = errors.New("repository: unknown repository")
)

// ConfigErrorKind classifies configuration problems.
type ConfigErrorKind string

const (
	// UnknownLevel means the level table has no entry for the level.
	UnknownLevel ConfigErrorKind = "unknown-level"
	// ForcedRepositoryAbsent means the fixed repository is not part of the
	// catalog. It is still forced.
	ForcedRepositoryAbsent ConfigErrorKind = "forced-repository-absent"
	// EmptyCatalog means no repository is available at all.
	EmptyCatalog ConfigErrorKind = "empty-catalog"
)

// ConfigError reports a non fatal configuration problem. The widget keeps
// operating and exposes the error to the host as a flag plus message.
type ConfigError struct {
	Kind    ConfigErrorKind
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Kind, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err carries a ConfigError of the given kind.
// An empty kind matches any ConfigError.
func IsConfigError(err error, kind ConfigErrorKind) bool {
	var ce *ConfigError
	if !errors.As(err, &ce) {
		return false
	}
	return kind == "" || ce.Kind == kind
}
