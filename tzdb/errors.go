package tzdb

import (
	"errors"
	"fmt"
)

// ErrZoneNotFound is matched by the error returned for unknown zone ids.
var ErrZoneNotFound = errors.New("zone not found")

// ZoneNotFoundError reports a zone id that is neither a zone nor an alias.
type ZoneNotFoundError struct {
	ID string
}

func (e *ZoneNotFoundError) Error() string {
	return fmt.Sprintf("zone %q not found", e.ID)
}

func (e *ZoneNotFoundError) Is(target error) bool {
	return target == ErrZoneNotFound
}
