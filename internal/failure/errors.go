package failure

import (
	"errors"
	"fmt"
	"strings"

	"rrlfit/internal/batch"
	"rrlfit/internal/calibration"
	"rrlfit/internal/fittable"
	"rrlfit/internal/store"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrData          = errors.New("data error")
	ErrNotFound      = errors.New("not found")
	ErrBusy          = errors.New("busy")
	ErrInternal      = errors.New("internal error")
)

// Exit codes returned by ExitCode.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitData          = 3
	ExitNotFound      = 4
	ExitBusy          = 5
)

// Wrap builds an error message that includes stage context while tagging it
// with marker for exit code classification. marker should be one of the
// sentinels above; nil selects ErrInternal.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrConfiguration), errors.Is(err, store.ErrSchemaMismatch):
		return ExitConfiguration
	case errors.Is(err, ErrValidation), errors.Is(err, ErrData),
		errors.Is(err, calibration.ErrUnsupportedFrequencyRange),
		errors.Is(err, calibration.ErrUnsupportedTelescopeType),
		errors.Is(err, calibration.ErrDivisionFault),
		errors.Is(err, fittable.ErrMissingColumn):
		return ExitData
	case errors.Is(err, ErrNotFound), errors.Is(err, fittable.ErrFileNotFound):
		return ExitNotFound
	case errors.Is(err, ErrBusy), errors.Is(err, batch.ErrLocked):
		return ExitBusy
	default:
		return ExitFailure
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "rrlfit failure"
	}
	return strings.Join(parts, ": ")
}
