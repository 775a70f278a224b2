package source

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"

	"StockPulse/internal/domain/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeCSV(b []byte) ([]models.PriceBar, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if err := requireHeader(b); err != nil {
		return nil, err
	}
	var rows []rawBar
	if err := gocsv.Unmarshal(bytes.NewReader(b), &rows); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return toBars(rows, textDate)
}

// requireHeader rejects files whose first line lacks one of the OHLCV columns;
// gocsv would otherwise leave the missing column empty.
func requireHeader(b []byte) error {
	line := b
	if i := bytes.IndexAny(b, "\r\n"); i >= 0 {
		line = b[:i]
	}
	have := map[string]bool{}
	for _, f := range bytes.Split(line, []byte(",")) {
		have[string(bytes.Trim(bytes.TrimSpace(f), `"`))] = true
	}
	for _, col := range []string{"Date", "Open", "High", "Low", "Close", "Volume"} {
		if !have[col] {
			return fmt.Errorf("csv: missing column %q", col)
		}
	}
	return nil
}
