package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryUnavailable means the configuration directory could not
	// be resolved. Fatal at startup.
	ErrDirectoryUnavailable = errors.New("configuration directory unavailable")

	// ErrDecodeFailure marks unreadable persisted content. Absorbed by the
	// recovery chain and only ever logged.
	ErrDecodeFailure = errors.New("configuration could not be decoded")

	// ErrBackupUnavailable marks a missing or unreadable backup. Absorbed
	// by falling back to the default configuration.
	ErrBackupUnavailable = errors.New("backup configuration unavailable")

	// ErrWriteFailure means a save did not commit. Always surfaced.
	ErrWriteFailure = errors.New("configuration could not be written")

	// ErrInvalidSourceURL rejects a sync URL that does not look like
	// https://<host>/<project>/<page>.
	ErrInvalidSourceURL = errors.New("invalid source page URL")

	// ErrSourceFetchFailure means the external page could not be fetched
	// or yielded no groups.
	ErrSourceFetchFailure = errors.New("source page fetch failed")

	ErrGroupNotFound = errors.New("group not found")
	ErrDuplicateID   = errors.New("duplicate group id")
	ErrInvalidGroup  = errors.New("invalid group")
	ErrInvalidItem   = errors.New("invalid item")
)

func duplicateIDf(id string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateID, id)
}

func invalidGroupf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGroup, fmt.Sprintf(format, args...))
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrGroupNotFound, id)
}
