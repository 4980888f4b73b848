package marketdata

import (
	"math"
	"sort"
	"strconv"
	"time"

	"chartwatch/pkg/errors"
)

// Sample is one observation in a price series.
type Sample struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an immutable price history ordered ascending by date.
// Ordering and de-duplication are established at construction, so indicator
// recurrences can walk oldest to newest without re-checking. Callers that
// need "most recent N" take from the descending view; both views are two
// sides of one reversal.
type PriceSeries struct {
	samples []Sample
}

// NewSeries builds a series from raw samples. Non-finite or negative closes
// and duplicate dates (first occurrence wins) are dropped rather than
// failing the whole series. An empty result fails with ErrInsufficientData.
func NewSeries(samples []Sample) (*PriceSeries, error) {
	clean := make([]Sample, 0, len(samples))
	seen := make(map[string]struct{}, len(samples))

	for _, s := range samples {
		if math.IsNaN(s.Close) || math.IsInf(s.Close, 0) || s.Close < 0 {
			continue
		}
		key := s.Date.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		clean = append(clean, s)
	}

	if len(clean) == 0 {
		return nil, errors.Wrap(errors.ErrInsufficientData, "price series is empty")
	}

	sort.SliceStable(clean, func(i, j int) bool {
		return clean[i].Date.Before(clean[j].Date)
	})

	return &PriceSeries{samples: clean}, nil
}

// NewSeriesFromDateMap builds a series from a provider-shaped date-keyed
// payload, reading the closing price from the given sub-field. Entries with
// an unparseable date or close are dropped, not fatal.
func NewSeriesFromDateMap(raw map[string]map[string]string, field, layout string) (*PriceSeries, error) {
	samples := make([]Sample, 0, len(raw))

	for dateStr, fields := range raw {
		date, err := time.Parse(layout, dateStr)
		if err != nil {
			continue
		}
		closeStr, ok := fields[field]
		if !ok {
			continue
		}
		close, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}
		samples = append(samples, Sample{Date: date, Close: close})
	}

	return NewSeries(samples)
}

// Len returns the number of samples.
func (p *PriceSeries) Len() int {
	return len(p.samples)
}

// At returns the sample at index i, oldest-first.
func (p *PriceSeries) At(i int) Sample {
	return p.samples[i]
}

// Last returns the most recent sample.
func (p *PriceSeries) Last() Sample {
	return p.samples[len(p.samples)-1]
}

// Closes returns closing prices in chronological order (oldest first).
func (p *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.samples))
	for i, s := range p.samples {
		closes[i] = s.Close
	}
	return closes
}

// ClosesDescending returns closing prices newest first.
func (p *PriceSeries) ClosesDescending() []float64 {
	closes := make([]float64, len(p.samples))
	for i, s := range p.samples {
		closes[len(p.samples)-1-i] = s.Close
	}
	return closes
}

// Dates returns sample dates in chronological order.
func (p *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(p.samples))
	for i, s := range p.samples {
		dates[i] = s.Date
	}
	return dates
}
