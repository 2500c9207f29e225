package kernel

import (
	"errors"
	"fmt"
	"time"

	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"
)

var ErrTimeWindowIsNotConstructed = errs.NewValueIsRequiredError(
	"time window must be created via NewTimeWindow")

// TimeWindow is a half-open [start, end) interval used for delivery windows,
// listing availability, pickup slots and storage bookings. Start is always before end.
type TimeWindow struct {
	start time.Time
	end   time.Time
	guard guard.ConstructorGuard
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	w := TimeWindow{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		validateInstant("start", start),
		validateInstant("end", end),
	); err != nil {
		return TimeWindow{}, err
	}

	if !start.Before(end) {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"time window is invalid",
			fmt.Errorf("start %s is not before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339)),
		)
	}

	w.start = start.UTC()
	w.end = end.UTC()
	return w, nil
}

// NewTimeWindowFrom builds a window of the given length starting at start.
func NewTimeWindowFrom(start time.Time, length time.Duration) (TimeWindow, error) {
	return NewTimeWindow(start, start.Add(length))
}

func (w TimeWindow) Validate() error {
	return w.guard.Validate(ErrTimeWindowIsNotConstructed)
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

// Contains reports whether t falls in [start, end).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// Overlaps reports whether the two windows share any instant.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// HasEnded reports whether the window is over at t.
func (w TimeWindow) HasEnded(t time.Time) bool {
	return !t.Before(w.end)
}

func (w TimeWindow) IsEqual(other TimeWindow) bool {
	return w.start.Equal(other.start) && w.end.Equal(other.end)
}

func validateInstant(name string, t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
