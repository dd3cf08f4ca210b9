package timespec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts and format names accepted by Parse.
const (
	// DefaultLayout is the fixed numeric layout; a fractional second may follow.
	DefaultLayout = "2006-01-02 15:04:05"
	// ReportLayout is used for dry-run reports and logs.
	ReportLayout = "2006-01-02 15:04:05.000000"
	// FormatColon selects the [[[YYYY:]MM:]DD:]hh:mm:ss[.ffffff] grammar.
	FormatColon = "colon"
	// FormatUnix selects [@]SECONDS[.FRACTION] since the epoch.
	FormatUnix = "unix"

	colonLayout  = "2006:01:02:15:04:05"
	maxFracDigit = 9
	maxFields    = 6
)

// ErrInvalidTimestamp is wrapped by every parse failure.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Parse converts value to an instant. An empty format auto-detects: values
// with '-' or ' ' use DefaultLayout, values starting with '@' are epoch
// seconds, anything else uses the colon grammar. Fields the colon grammar
// leaves out, and the location, come from now.
func Parse(value, format string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	var (
		t   time.Time
		err error
	)

	switch format {
	case "":
		switch {
		case strings.HasPrefix(value, "@"):
			t, err = parseUnix(value, now.Location())
		case strings.ContainsAny(value, "- "):
			t, err = time.ParseInLocation(DefaultLayout, value, now.Location())
		default:
			t, err = parseColon(value, now)
		}
	case FormatColon:
		t, err = parseColon(value, now)
	case FormatUnix:
		t, err = parseUnix(value, now.Location())
	default:
		t, err = time.ParseInLocation(format, value, now.Location())
	}

	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidTimestamp, value, err)
	}

	return t, nil
}

// Format renders t with microseconds in its own location.
func Format(t time.Time) string {
	return t.Format(ReportLayout)
}

// FormatWith renders t so that Parse(FormatWith(t, format), format, ...)
// yields t again, to the microsecond.
func FormatWith(t time.Time, format string) string {
	switch format {
	case "":
		return t.Format(DefaultLayout) + fraction(t)
	case FormatColon:
		return t.Format(colonLayout) + fraction(t)
	case FormatUnix:
		return strconv.FormatInt(t.Unix(), 10) + fraction(t)
	default:
		return t.Format(format)
	}
}

func fraction(t time.Time) string {
	usec := t.Nanosecond() / int(time.Microsecond)
	if usec == 0 {
		return ""
	}

	return fmt.Sprintf(".%06d", usec)
}

// parseColon implements [[[YYYY:]MM:]DD:]hh:mm:ss[.ffffff]. Fields are
// consumed right to left, so "mm:ss" and "ss" alone are accepted too.
func parseColon(value string, now time.Time) (time.Time, error) {
	clock, frac, _ := strings.Cut(value, ".")

	fields := strings.Split(clock, ":")
	if len(fields) > maxFields {
		return time.Time{}, fmt.Errorf("too many fields (%d, at most %d)", len(fields), maxFields)
	}

	year, month, day := now.Date()
	hour, minute, second := now.Clock()
	monthNum := int(month)

	// Right to left: second, minute, hour, day, month, year.
	slots := []*int{&second, &minute, &hour, &day, &monthNum, &year}

	for i := range fields {
		n, err := parseField(fields[len(fields)-1-i])
		if err != nil {
			return time.Time{}, err
		}

		*slots[i] = n
	}

	nsec, err := parseFraction(frac)
	if err != nil {
		return time.Time{}, err
	}

	if err := validateCalendar(year, monthNum, day, hour, minute, second); err != nil {
		return time.Time{}, err
	}

	return time.Date(year, time.Month(monthNum), day, hour, minute, second, nsec, now.Location()), nil
}

func parseUnix(value string, loc *time.Location) (time.Time, error) {
	secText, frac, _ := strings.Cut(strings.TrimPrefix(value, "@"), ".")

	sec, err := strconv.ParseInt(secText, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("seconds %q: %w", secText, err)
	}

	nsec, err := parseFraction(frac)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(sec, int64(nsec)).In(loc), nil
}

func parseField(text string) (int, error) {
	if text == "" || strings.TrimLeft(text, "0123456789") != "" {
		return 0, fmt.Errorf("field %q is not a number", text)
	}

	return strconv.Atoi(text)
}

// parseFraction reads decimal fraction digits as nanoseconds: "5" is 500ms.
func parseFraction(text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	if len(text) > maxFracDigit {
		return 0, fmt.Errorf("fraction %q has more than %d digits", text, maxFracDigit)
	}

	n, err := parseField(text)
	if err != nil {
		return 0, err
	}

	for range maxFracDigit - len(text) {
		n *= 10
	}

	return n, nil
}

func validateCalendar(year, month, day, hour, minute, second int) error {
	switch {
	case year < 1 || year > 9999:
		return fmt.Errorf("year %d out of range", year)
	case month < 1 || month > 12:
		return fmt.Errorf("month %d out of range", month)
	case day < 1 || day > daysIn(year, time.Month(month)):
		return fmt.Errorf("day %d out of range for %04d-%02d", day, year, month)
	case hour > 23:
		return fmt.Errorf("hour %d out of range", hour)
	case minute > 59:
		return fmt.Errorf("minute %d out of range", minute)
	case second > 59:
		return fmt.Errorf("second %d out of range", second)
	default:
		return nil
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
