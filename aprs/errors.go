package aprs

import (
	"errors"
	"fmt"
)

// Fatal decode errors. Every error returned by Decode wraps exactly one of
// these.
var (
	ErrMalformedHeader        = errors.New("malformed header")
	ErrInvalidCallsign        = errors.New("invalid callsign")
	ErrInvalidCompressedField = errors.New("invalid compressed field")
	ErrInvalidMicEDestination = errors.New("invalid Mic-E destination")
	ErrInvalidTimestamp       = errors.New("invalid timestamp")
)

var fatalErrors = []error{
	ErrMalformedHeader,
	ErrInvalidCallsign,
	ErrInvalidCompressedField,
	ErrInvalidMicEDestination,
	ErrInvalidTimestamp,
}

// IsFatal reports whether err is one of the fatal decode errors.
func IsFatal(err error) bool {
	for _, target := range fatalErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errBody marks a body that does not follow the grammar of its type
// indicator. The dispatcher turns it into an Unsupported payload.
var errBody = errors.New("body does not match")

func bodyErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBody, fmt.Sprintf(format, args...))
}
