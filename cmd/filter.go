package cmd

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/passbook"
	"github.com/etnz/passbook/date"
)

// txFilter holds the flags selecting transactions by date and by kind.
type txFilter struct {
	day    string
	month  string
	year   string
	period string
	from   string
	to     string
	kind   string
}

// relativeHelp describes the relative dates accepted by date.Parse.
const relativeHelp = `Relative dates are accepted: "0d" is today, "-1d" yesterday, "-2w" two weeks ago, "-1m" a month ago, "-1y" a year ago.`

func (d *txFilter) SetFlags(f *flag.FlagSet) {
	f.StringVar(&d.day, "day", "", "Exact day (YYYY-MM-DD). "+relativeHelp)
	f.StringVar(&d.month, "month", "", "Month (YYYY-MM).")
	f.StringVar(&d.year, "year", "", "Year (YYYY).")
	f.StringVar(&d.period, "period", "", "Period containing -day, or today: day, week, month, quarter or year.")
	f.StringVar(&d.from, "from", "", "First day of a custom range (YYYY-MM-DD or relative).")
	f.StringVar(&d.to, "to", "", "Last day of a custom range, defaults to today (YYYY-MM-DD or relative).")
	f.StringVar(&d.kind, "type", "", "Only deposits or only withdrawals: deposit or withdraw.")
}

// predicate returns the selected predicate and a human description of it.
// No flag at all selects every transaction.
func (d *txFilter) predicate(today date.Date) (passbook.Predicate, string, error) {
	r, ok, err := d.dateRange(today)
	if err != nil {
		return nil, "", err
	}

	p, description := passbook.Predicate(passbook.AcceptAll), ""
	if ok {
		p, description = passbook.Within(r), describe(r)
	}

	switch strings.ToLower(d.kind) {
	case "":
	case "deposit", "deposits":
		p = p.And(passbook.Deposits)
		description = strings.TrimSpace("deposits " + description)
	case "withdraw", "withdrawals":
		p = p.And(passbook.Withdrawals)
		description = strings.TrimSpace("withdrawals " + description)
	default:
		return nil, "", fmt.Errorf("unknown -type %q, want deposit or withdraw", d.kind)
	}
	return p, description, nil
}

// dateRange returns the range selected by the date flags, ok is false when
// none is set.
func (d *txFilter) dateRange(today date.Date) (r date.Range, ok bool, err error) {
	custom := d.from != "" || d.to != ""
	set := 0
	for _, v := range []bool{d.day != "" || d.period != "", d.month != "", d.year != "", custom} {
		if v {
			set++
		}
	}
	if set > 1 {
		return r, false, errors.New("-day/-period, -month, -year and -from/-to cannot be used together")
	}

	switch {
	case d.day != "" || d.period != "":
		day := today
		if d.day != "" {
			if day, err = date.Parse(d.day); err != nil {
				return r, false, err
			}
		}
		period := date.Daily
		if d.period != "" {
			if period, err = date.ParsePeriod(d.period); err != nil {
				return r, false, err
			}
		}
		return date.NewRange(day, period), true, nil
	case d.month != "":
		m, err := date.ParseMonth(d.month)
		if err != nil {
			return r, false, err
		}
		return date.Month(m.Year(), m.Month()), true, nil
	case d.year != "":
		y, err := date.ParseYear(d.year)
		if err != nil {
			return r, false, err
		}
		return date.Year(y), true, nil
	case custom:
		if d.from == "" {
			return r, false, errors.New("-to requires -from")
		}
		if r.From, err = date.Parse(d.from); err != nil {
			return r, false, err
		}
		r.To = today
		if d.to != "" {
			if r.To, err = date.Parse(d.to); err != nil {
				return r, false, err
			}
		}
		if r.To.Before(r.From) {
			return r, false, fmt.Errorf("-from %s is after -to %s", r.From, r.To)
		}
		return r, true, nil
	default:
		return r, false, nil
	}
}

// describe names a date range for report titles: "on 2024-01-05",
// "in 2024-Q1" or "from 2024-01-03 to 2024-02-10".
func describe(r date.Range) string {
	p, ok := r.Period()
	switch {
	case !ok:
		return fmt.Sprintf("from %s to %s", r.From, r.To)
	case p == date.Daily:
		return "on " + r.Identifier()
	default:
		return "in " + r.Identifier()
	}
}

// title appends the filter description to a title.
func title(base, description string) string {
	if description == "" {
		return base
	}
	return base + " " + description
}
