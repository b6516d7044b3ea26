package kernel

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

const (
	// MinutesPerDay bounds the minute-of-day values accepted by NewTimeInterval.
	MinutesPerDay = 24 * 60
)

var (
	// ErrTimeIntervalFormat is the cause attached when a string is not "HH:MM-HH:MM".
	ErrTimeIntervalFormat = errors.New("time interval must match HH:MM-HH:MM")

	// ErrTimeIntervalIsNotConstructed is returned when a TimeInterval was not created
	// through NewTimeInterval or ParseTimeInterval.
	ErrTimeIntervalIsNotConstructed = errors.New(
		"TimeInterval must be created via NewTimeInterval or ParseTimeInterval",
	)

	timeIntervalPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)-([01]\d|2[0-3]):([0-5]\d)$`)
)

// TimeInterval is a closed range [lower, upper] of minutes since midnight.
//
// No ordering is enforced between the bounds: "20:00-08:00" is a valid value whose
// lower bound is greater than its upper bound. Overlap checks apply the same formula
// to such values, which makes them overlap nothing that lies inside a single day.
//
// Example:
//
//	morning, _ := kernel.ParseTimeInterval("09:00-12:00")
//	lunch, _ := kernel.ParseTimeInterval("11:30-13:00")
//	morning.Overlaps(lunch) // true
type TimeInterval struct {
	lower int
	upper int
	guard guard.ConstructorGuard
}

// NewTimeInterval creates an interval from minute-of-day bounds.
//
// Parameters:
//   - lower: start of the interval in minutes since midnight (0..1439)
//   - upper: end of the interval in minutes since midnight (0..1439)
//
// Returns:
//   - TimeInterval: the interval
//   - error: ErrValueIsOutOfRange when a bound is outside of a day
func NewTimeInterval(lower, upper int) (TimeInterval, error) {
	if err := errors.Join(
		validateMinuteOfDay("lower", lower),
		validateMinuteOfDay("upper", upper),
	); err != nil {
		return TimeInterval{}, err
	}

	return TimeInterval{
		lower: lower,
		upper: upper,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// ParseTimeInterval parses the "HH:MM-HH:MM" representation.
//
// Returns:
//   - TimeInterval: the parsed interval
//   - error: ErrValueIsInvalid wrapping ErrTimeIntervalFormat when s does not match
//
// Example:
//
//	interval, err := kernel.ParseTimeInterval("09:00-18:00")
//	if errors.Is(err, errs.ErrValueIsInvalid) {
//	    // malformed input
//	}
func ParseTimeInterval(s string) (TimeInterval, error) {
	m := timeIntervalPattern.FindStringSubmatch(s)
	if m == nil {
		return TimeInterval{}, errs.NewValueIsInvalidErrorWithCause(
			fmt.Sprintf("time interval %q", s),
			ErrTimeIntervalFormat,
		)
	}

	return NewTimeInterval(
		clockMinutes(m[1], m[2]),
		clockMinutes(m[3], m[4]),
	)
}

// MustParseTimeInterval is ParseTimeInterval for literals known to be valid. It panics otherwise.
func MustParseTimeInterval(s string) TimeInterval {
	interval, err := ParseTimeInterval(s)
	if err != nil {
		panic(err)
	}
	return interval
}

// ParseTimeIntervals parses every value and joins the errors of the malformed ones.
func ParseTimeIntervals(values []string) ([]TimeInterval, error) {
	intervals := make([]TimeInterval, 0, len(values))
	var parseErrs []error

	for _, v := range values {
		interval, err := ParseTimeInterval(v)
		if err != nil {
			parseErrs = append(parseErrs, err)
			continue
		}
		intervals = append(intervals, interval)
	}

	if err := errors.Join(parseErrs...); err != nil {
		return nil, err
	}
	return intervals, nil
}

// FormatTimeIntervals renders intervals back to their "HH:MM-HH:MM" form.
func FormatTimeIntervals(intervals []TimeInterval) []string {
	out := make([]string, 0, len(intervals))
	for _, interval := range intervals {
		out = append(out, interval.String())
	}
	return out
}

// AnyOverlap reports whether at least one interval of a overlaps at least one interval of b.
func AnyOverlap(a, b []TimeInterval) bool {
	for _, x := range a {
		for _, y := range b {
			if x.Overlaps(y) {
				return true
			}
		}
	}
	return false
}

// Lower returns the start of the interval in minutes since midnight.
func (t TimeInterval) Lower() int {
	return t.lower
}

// Upper returns the end of the interval in minutes since midnight.
func (t TimeInterval) Upper() int {
	return t.upper
}

// Overlaps reports whether the two intervals share more than an endpoint:
// t.lower < other.upper && t.upper > other.lower. The relation is symmetric.
func (t TimeInterval) Overlaps(other TimeInterval) bool {
	return t.lower < other.upper && t.upper > other.lower
}

// IsEqual reports whether both bounds match.
func (t TimeInterval) IsEqual(other TimeInterval) bool {
	return t.lower == other.lower && t.upper == other.upper
}

// Validate ensures the interval was built through a constructor.
func (t TimeInterval) Validate() error {
	return t.guard.Validate(ErrTimeIntervalIsNotConstructed)
}

// String implements fmt.Stringer with the "HH:MM-HH:MM" form.
func (t TimeInterval) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", t.lower/60, t.lower%60, t.upper/60, t.upper%60)
}

func validateMinuteOfDay(name string, minute int) error {
	if minute < 0 || minute >= MinutesPerDay {
		return errs.NewValueIsOutOfRangeError(name, minute, 0, MinutesPerDay-1)
	}
	return nil
}

func clockMinutes(hours, minutes string) int {
	// the pattern guarantees two digits each
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	return h*60 + m
}
