package source

import (
	"fmt"
	"math"
	"strings"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// rawBar is one textual row as exported by the usual finance sites.
type rawBar struct {
	Date   string `csv:"Date"`
	Open   string `csv:"Open"`
	High   string `csv:"High"`
	Low    string `csv:"Low"`
	Close  string `csv:"Close"`
	Volume string `csv:"Volume"`
}

// dateParser turns a date cell into a calendar day.
type dateParser func(string) (models.PriceBar, error)

func (r *rawBar) toBar(line int, parseDate dateParser) (models.PriceBar, error) {
	bar, err := parseDate(r.Date)
	if err != nil {
		return bar, fmt.Errorf("row %d: date: %w", line, err)
	}
	cells := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"Open", r.Open, &bar.Open},
		{"High", r.High, &bar.High},
		{"Low", r.Low, &bar.Low},
		{"Close", r.Close, &bar.Close},
	}
	for _, c := range cells {
		v, err := util.ParseFloat(c.raw)
		if err != nil {
			return bar, fmt.Errorf("row %d: %s %q: %w", line, c.name, c.raw, err)
		}
		*c.dst = v
	}
	vol, err := util.ParseFloat(r.Volume)
	if err != nil {
		return bar, fmt.Errorf("row %d: Volume %q: %w", line, r.Volume, err)
	}
	if math.IsNaN(vol) || math.IsInf(vol, 0) {
		return bar, fmt.Errorf("row %d: Volume %q is not finite", line, r.Volume)
	}
	vol = math.Round(vol)
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if vol >= math.MaxInt64 || vol < math.MinInt64 {
		return bar, fmt.Errorf("row %d: Volume %q is out of range", line, r.Volume)
	}
	bar.Volume = int64(vol)
	return bar, nil
}

func textDate(s string) (models.PriceBar, error) {
	d, err := util.ParseDate(s)
	return models.PriceBar{Date: d}, err
}

func toBars(rows []rawBar, parseDate dateParser) ([]models.PriceBar, error) {
	out := make([]models.PriceBar, 0, len(rows))
	for i := range rows {
		if isBlank(&rows[i]) {
			continue
		}
		// header is line 1
		b, err := rows[i].toBar(i+2, parseDate)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func isBlank(r *rawBar) bool {
	return strings.TrimSpace(r.Date+r.Open+r.High+r.Low+r.Close+r.Volume) == ""
}
