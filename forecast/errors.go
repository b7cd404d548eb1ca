package forecast

import "fmt"

// InsufficientDataError is returned when an algorithm cannot run on a series
// that is too short. The ensemble recovers from it locally with a flat-mean
// fallback; it never crosses the caller boundary.
type InsufficientDataError struct {
	Algorithm string
	Needed    int
	Got       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need at least %d points, got %d", e.Algorithm, e.Needed, e.Got)
}

// NumericInstabilityError is returned when a fit fails numerically, e.g. a
// singular regression matrix. Recovered the same way as insufficient data.
type NumericInstabilityError struct {
	Algorithm string
	Reason    string
	Err       error
}

func (e *NumericInstabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: numeric instability: %s: %v", e.Algorithm, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: numeric instability: %s", e.Algorithm, e.Reason)
}

func (e *NumericInstabilityError) Unwrap() error {
	return e.Err
}
