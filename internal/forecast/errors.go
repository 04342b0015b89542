package forecast

import (
	"errors"
	"fmt"
)

// ErrMalformedObservation is matched by every validation failure of Normalize.
var ErrMalformedObservation = errors.New("malformed observation")

// MalformedObservationError describes the first invalid observation in a sequence.
type MalformedObservationError struct {
	Index     int
	Timestamp int64
	Field     string
	Reason    string
}

func (e *MalformedObservationError) Error() string {
	return fmt.Sprintf("%s at index %d (dt=%d): %s %s", ErrMalformedObservation, e.Index, e.Timestamp, e.Field, e.Reason)
}

func (e *MalformedObservationError) Is(target error) bool {
	return target == ErrMalformedObservation
}
