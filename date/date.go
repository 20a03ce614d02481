// Package date provides a calendar day type with no time of day, and the
// periods and ranges used to group ledger transactions.
package date

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

const readMonthFormat = "2006-1"

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// MonthFormat is the format used to represent a calendar month.
const MonthFormat = "2006-01"

// ErrParse is returned when a string cannot be read as a date, a month or a year.
var ErrParse = errors.New("parse error")

// Date represents a date with day-level granularity.
//
// The zero value is not a valid calendar day, see IsZero.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in the local time zone.
func Today() Date { return New(time.Now().Date()) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the date value formatted according to layout.
//
//	See the documentation for the [time.Format].
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// String format the date in its standard format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

var relativeDateRE = regexp.MustCompile(`^([+-]?)(\d+)([dwmy])$`)

// Parse parses a Date from a string.
//
// It accepts ISO dates and is lenient on padding ("2025-7-1"). Relative dates
// to today are also accepted: "0d" is today, "-1d" yesterday, "+2w" in two
// weeks, "-1m" a month ago and "-1y" a year ago.
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)

	if match := relativeDateRE.FindStringSubmatch(str); match != nil {
		num, err := strconv.Atoi(match[2])
		if err != nil {
			return Date{}, fmt.Errorf("%w: invalid number in relative date %q: %w", ErrParse, str, err)
		}
		if match[1] == "-" {
			num = -num
		}
		today := Today()
		switch match[3] {
		case "d":
			return today.Add(num), nil
		case "w":
			return today.Add(num * 7), nil
		case "m":
			return New(today.Year(), today.Month()+time.Month(num), today.Day()), nil
		case "y":
			return New(today.Year()+num, today.Month(), today.Day()), nil
		}
	}

	return ParseISO(str)
}

// ParseISO parses an absolute calendar day like "2025-07-01". Padding is
// optional ("2025-7-1") but relative dates are refused, so the result never
// depends on the current day.
func ParseISO(str string) (Date, error) {
	str = strings.TrimSpace(str)
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q want format %q: %w", ErrParse, str, DateFormat, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ParseMonth parses a "YYYY-MM" string and returns the first day of that month.
func ParseMonth(str string) (Date, error) {
	str = strings.TrimSpace(str)
	on, err := time.Parse(readMonthFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid month %q want format %q: %w", ErrParse, str, MonthFormat, err)
	}
	return New(on.Year(), on.Month(), 1), nil
}

// ParseYear parses a strictly positive year number.
func ParseYear(str string) (int, error) {
	str = strings.TrimSpace(str)
	y, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid year %q: %w", ErrParse, str, err)
	}
	if y <= 0 {
		return 0, fmt.Errorf("%w: invalid year %d: must be positive", ErrParse, y)
	}
	return y, nil
}

// UnmarshalJSON reads an absolute date from a json string, see ParseISO.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	day, err := ParseISO(str)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// MarshalJSON writes the date as an ISO-8601 json string.
func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
