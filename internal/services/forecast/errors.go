package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrDataNotFound means the price history could not be located or parsed.
	ErrDataNotFound = errors.New("data not found")
	// ErrInsufficientData means the history is too short to leave a test partition.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerateFit means least squares could not be solved on the training rows.
	ErrDegenerateFit = errors.New("degenerate fit")
)

// Error carries the company and source a pipeline run failed on.
type Error struct {
	Company string
	Source  string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("forecast %s (%s): %v", e.Company, e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Error classes returned by Kind.
const (
	KindOK               = "ok"
	KindDataNotFound     = "data_not_found"
	KindInsufficientData = "insufficient_data"
	KindError            = "error"
)

// Kind names the error class of err for metrics and events.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrDataNotFound):
		return KindDataNotFound
	case errors.Is(err, ErrInsufficientData):
		return KindInsufficientData
	default:
		return KindError
	}
}

// NotFoundf wraps ErrDataNotFound with context.
func NotFoundf(format string, a ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrDataNotFound)
}
