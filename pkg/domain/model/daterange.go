package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// DateLayout is the literal form of range bounds in queries and JSON
	DateLayout = "2006-01-02"

	// DefaultRangeDays is the trailing window used for a new session
	DefaultRangeDays = 14

	// MaxLookbackDays bounds how far back a range may start
	MaxLookbackDays = 365
)

// Preset is a quick-select trailing window
type Preset struct {
	Days  int    `json:"days"`
	Label string `json:"label"`
}

var presets = []Preset{
	{Days: 14, Label: "14 Days"},
	{Days: 30, Label: "30 Days"},
	{Days: 60, Label: "60 Days"},
	{Days: 90, Label: "90 Days"},
	{Days: 180, Label: "180 Days"},
	{Days: 365, Label: "365 Days"},
}

// Presets returns the quick-select windows in display order
func Presets() []Preset {
	result := make([]Preset, len(presets))
	copy(result, presets)
	return result
}

// LookupPreset returns the preset for the given number of days
func LookupPreset(days int) (Preset, error) {
	for _, p := range presets {
		if p.Days == days {
			return p, nil
		}
	}
	return Preset{}, goerr.Wrap(ErrUnknownPreset, "no preset for days", goerr.V("days", days))
}

// Range computes [today-Days, today] relative to now
func (p Preset) Range(now time.Time) DateRange {
	end := Date(now)
	return DateRange{
		Start: end.AddDate(0, 0, -p.Days),
		End:   end,
	}
}

// DateRange is the inclusive [Start, End] window every ranged query is bound to.
// Both bounds are calendar dates at UTC midnight.
type DateRange struct {
	Start time.Time `json:"start" firestore:"start"`
	End   time.Time `json:"end" firestore:"end"`
}

// Date truncates t to its calendar date at UTC midnight
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDateRange builds a range from two dates, truncating both to calendar dates
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Date(start), End: Date(end)}
}

// ParseDateRange parses YYYY-MM-DD bounds
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, goerr.Wrap(ErrInvalidDateRange, "malformed start date",
			goerr.V("start", start), goerr.V("cause", err.Error()))
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, goerr.Wrap(ErrInvalidDateRange, "malformed end date",
			goerr.V("end", end), goerr.V("cause", err.Error()))
	}
	return NewDateRange(s, e), nil
}

// DefaultDateRange returns the trailing 14-day window ending today
func DefaultDateRange(now time.Time) DateRange {
	return Preset{Days: DefaultRangeDays}.Range(now)
}

// Bounds returns the earliest and latest selectable dates relative to now
func Bounds(now time.Time) (time.Time, time.Time) {
	today := Date(now)
	return today.AddDate(0, 0, -MaxLookbackDays), today
}

// Validate checks Start <= End and that both lie within [today-365d, today]
func (r DateRange) Validate(now time.Time) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return goerr.Wrap(ErrInvalidDateRange, "range bounds are required")
	}
	if r.Start.After(r.End) {
		return goerr.Wrap(ErrInvalidDateRange, "start is after end",
			goerr.V("start", r.Start.Format(DateLayout)),
			goerr.V("end", r.End.Format(DateLayout)))
	}

	minDate, maxDate := Bounds(now)
	if r.Start.Before(minDate) || r.End.After(maxDate) {
		return goerr.Wrap(ErrInvalidDateRange, "range is outside the selectable window",
			goerr.V("start", r.Start.Format(DateLayout)),
			goerr.V("end", r.End.Format(DateLayout)),
			goerr.V("min", minDate.Format(DateLayout)),
			goerr.V("max", maxDate.Format(DateLayout)))
	}
	return nil
}

// Clamp pulls a previously valid range back inside the selectable window.
// Used for stored ranges that aged past the lookback limit.
func (r DateRange) Clamp(now time.Time) DateRange {
	minDate, maxDate := Bounds(now)
	if r.Start.Before(minDate) {
		r.Start = minDate
	}
	if r.End.After(maxDate) {
		r.End = maxDate
	}
	if r.End.Before(r.Start) {
		r.End = r.Start
	}
	return r
}

// Days returns the number of days between Start and End
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Args returns the bind values for a BETWEEN ? AND ? filter
func (r DateRange) Args() []any {
	return []any{r.Start.Format(DateLayout), r.End.Format(DateLayout)}
}

// String returns "start..end"
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Equal reports whether both bounds are the same dates
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

type dateRangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MarshalJSON encodes both bounds as YYYY-MM-DD
func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateRangeJSON{
		Start: r.Start.Format(DateLayout),
		End:   r.End.Format(DateLayout),
	})
}

// UnmarshalJSON decodes YYYY-MM-DD bounds
func (r *DateRange) UnmarshalJSON(data []byte) error {
	var v dateRangeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return goerr.Wrap(err, "failed to decode date range")
	}
	parsed, err := ParseDateRange(v.Start, v.End)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
