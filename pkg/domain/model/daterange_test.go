package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
)

var testNow = time.Date(2024, 6, 15, 13, 45, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPresetRange(t *testing.T) {
	testCases := []struct {
		days          int
		expectedStart time.Time
	}{
		// the window must match the label, not widen to 30 days
		{days: 14, expectedStart: date(2024, 6, 1)},
		{days: 30, expectedStart: date(2024, 5, 16)},
		{days: 60, expectedStart: date(2024, 4, 16)},
		{days: 90, expectedStart: date(2024, 3, 17)},
		{days: 180, expectedStart: date(2023, 12, 18)},
		{days: 365, expectedStart: date(2023, 6, 16)},
	}

	for _, tc := range testCases {
		t.Run(tc.expectedStart.Format(model.DateLayout), func(t *testing.T) {
			preset, err := model.LookupPreset(tc.days)
			gt.NoError(t, err).Required()

			r := preset.Range(testNow)
			gt.Equal(t, r.Start, tc.expectedStart)
			gt.Equal(t, r.End, date(2024, 6, 15))
			gt.Equal(t, r.Days(), tc.days)
			gt.NoError(t, r.Validate(testNow))
		})
	}
}

func TestLookupPreset_Unknown(t *testing.T) {
	_, err := model.LookupPreset(7)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrUnknownPreset))
}

func TestPresets_ReturnsCopy(t *testing.T) {
	p := model.Presets()
	gt.Equal(t, len(p), 6)
	p[0].Days = 999

	again := model.Presets()
	gt.Equal(t, again[0].Days, 14)
}

func TestDefaultDateRange(t *testing.T) {
	r := model.DefaultDateRange(testNow)
	gt.Equal(t, r.Start, date(2024, 6, 1))
	gt.Equal(t, r.End, date(2024, 6, 15))
}

func TestDateRangeValidate(t *testing.T) {
	testCases := []struct {
		name    string
		r       model.DateRange
		wantErr bool
	}{
		{
			name: "Single day",
			r:    model.NewDateRange(date(2024, 6, 15), date(2024, 6, 15)),
		},
		{
			name: "Full lookback window",
			r:    model.NewDateRange(date(2023, 6, 16), date(2024, 6, 15)),
		},
		{
			name:    "Start after end",
			r:       model.NewDateRange(date(2024, 6, 10), date(2024, 6, 1)),
			wantErr: true,
		},
		{
			name:    "Start before lookback",
			r:       model.NewDateRange(date(2023, 6, 15), date(2024, 6, 1)),
			wantErr: true,
		},
		{
			name:    "End in the future",
			r:       model.NewDateRange(date(2024, 6, 1), date(2024, 6, 16)),
			wantErr: true,
		},
		{
			name:    "Zero bounds",
			r:       model.DateRange{},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.r.Validate(testNow)
			if tc.wantErr {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, model.ErrInvalidDateRange))
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestParseDateRange(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r, err := model.ParseDateRange("2024-01-01", "2024-01-14")
		gt.NoError(t, err).Required()
		gt.Equal(t, r.Start, date(2024, 1, 1))
		gt.Equal(t, r.End, date(2024, 1, 14))
		gt.Equal(t, r.String(), "2024-01-01..2024-01-14")
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := model.ParseDateRange("2024/01/01", "2024-01-14")
		gt.True(t, errors.Is(err, model.ErrInvalidDateRange))

		_, err = model.ParseDateRange("2024-01-01", "yesterday")
		gt.True(t, errors.Is(err, model.ErrInvalidDateRange))
	})
}

func TestDateRangeArgs(t *testing.T) {
	r := model.NewDateRange(
		time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 1, 0, 0, time.UTC),
	)
	args := r.Args()
	gt.Equal(t, len(args), 2)
	gt.Equal(t, args[0], any("2024-01-01"))
	gt.Equal(t, args[1], any("2024-01-14"))
}

func TestDateRangeClamp(t *testing.T) {
	t.Run("Aged start is pulled forward", func(t *testing.T) {
		r := model.NewDateRange(date(2023, 1, 1), date(2024, 6, 1))
		clamped := r.Clamp(testNow)
		gt.Equal(t, clamped.Start, date(2023, 6, 16))
		gt.Equal(t, clamped.End, date(2024, 6, 1))
		gt.NoError(t, clamped.Validate(testNow))
	})

	t.Run("Entirely aged range collapses to earliest date", func(t *testing.T) {
		r := model.NewDateRange(date(2022, 1, 1), date(2022, 2, 1))
		clamped := r.Clamp(testNow)
		gt.Equal(t, clamped.Start, date(2023, 6, 16))
		gt.Equal(t, clamped.End, date(2023, 6, 16))
		gt.NoError(t, clamped.Validate(testNow))
	})

	t.Run("Valid range is unchanged", func(t *testing.T) {
		r := model.NewDateRange(date(2024, 1, 1), date(2024, 1, 14))
		gt.True(t, r.Clamp(testNow).Equal(r))
	})
}

func TestDateRangeJSON(t *testing.T) {
	r := model.Presets()[0].Range(testNow)

	raw, err := json.Marshal(r)
	gt.NoError(t, err).Required()
	gt.Equal(t, string(raw), `{"start":"2024-06-01","end":"2024-06-15"}`)

	var decoded model.DateRange
	gt.NoError(t, json.Unmarshal(raw, &decoded)).Required()
	gt.True(t, decoded.Equal(r))

	err = json.Unmarshal([]byte(`{"start":"06/01/2024","end":"2024-06-15"}`), &decoded)
	gt.True(t, errors.Is(err, model.ErrInvalidDateRange))
}
