// Package compliance derives display labels for recurring compliance
// periods such as tax filings.
package compliance

import (
	"fmt"
	"time"

	"github.com/ledgerdesk/backend/internal/domain/shared"
)

// Frequency is how often a compliance obligation recurs
type Frequency string

const (
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencyHalfYearly Frequency = "half_yearly"
	FrequencyYearly     Frequency = "yearly"
	FrequencyOneTime    Frequency = "one_time"
)

// CodeInvalidFrequency is returned for values outside the Frequency enum
const CodeInvalidFrequency = "INVALID_FREQUENCY"

// Frequencies lists every supported frequency
func Frequencies() []Frequency {
	return []Frequency{
		FrequencyWeekly,
		FrequencyMonthly,
		FrequencyQuarterly,
		FrequencyHalfYearly,
		FrequencyYearly,
		FrequencyOneTime,
	}
}

// IsValid reports whether f is a supported frequency
func (f Frequency) IsValid() bool {
	for _, v := range Frequencies() {
		if v == f {
			return true
		}
	}
	return false
}

func invalidFrequency(f Frequency) error {
	return shared.NewDomainErrorf(CodeInvalidFrequency, "Unknown compliance frequency %q", string(f)).
		WithDetail("frequency", string(f))
}

// FormatPeriod returns the label of the period that starts at start, for
// example "Q2 2025" for a quarterly obligation starting in April 2025.
// Yearly periods that do not start in January are fiscal years and span
// two calendar years ("FY 2025-26").
func FormatPeriod(freq Frequency, start time.Time) (string, error) {
	switch freq {
	case FrequencyWeekly:
		year, week := start.ISOWeek()
		return fmt.Sprintf("W%02d %d", week, year), nil
	case FrequencyMonthly:
		return start.Format("Jan 2006"), nil
	case FrequencyQuarterly:
		return fmt.Sprintf("Q%d %d", (int(start.Month())-1)/3+1, start.Year()), nil
	case FrequencyHalfYearly:
		half := 1
		if start.Month() > time.June {
			half = 2
		}
		return fmt.Sprintf("H%d %d", half, start.Year()), nil
	case FrequencyYearly:
		if start.Month() == time.January {
			return fmt.Sprintf("%d", start.Year()), nil
		}
		return fmt.Sprintf("FY %d-%02d", start.Year(), (start.Year()+1)%100), nil
	case FrequencyOneTime:
		return start.Format("02 Jan 2006"), nil
	}
	return "", invalidFrequency(freq)
}

// PeriodEnd returns the exclusive end of the period starting at start. A
// one-time obligation covers a single day.
func PeriodEnd(freq Frequency, start time.Time) (time.Time, error) {
	switch freq {
	case FrequencyWeekly:
		return start.AddDate(0, 0, 7), nil
	case FrequencyMonthly:
		return start.AddDate(0, 1, 0), nil
	case FrequencyQuarterly:
		return start.AddDate(0, 3, 0), nil
	case FrequencyHalfYearly:
		return start.AddDate(0, 6, 0), nil
	case FrequencyYearly:
		return start.AddDate(1, 0, 0), nil
	case FrequencyOneTime:
		return start.AddDate(0, 0, 1), nil
	}
	return time.Time{}, invalidFrequency(freq)
}
