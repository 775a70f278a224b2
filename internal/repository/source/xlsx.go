package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// decodeXLSX reads the first sheet. Dates may be text or Excel serial numbers.
func decodeXLSX(r io.Reader) ([]models.PriceBar, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx open: %w", err)
	}
	defer closeQuietly(f)

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: no sheets")
	}
	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx rows: %w", err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("xlsx: empty sheet %s", sheets[0])
	}

	idx := map[string]int{}
	for i, h := range grid[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make([]int, 6)
	for i, name := range []string{"date", "open", "high", "low", "close", "volume"} {
		c, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("xlsx: missing column %q", name)
		}
		cols[i] = c
	}

	cell := func(row []string, c int) string {
		if c < len(row) {
			return row[c]
		}
		return ""
	}
	rows := make([]rawBar, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rows = append(rows, rawBar{
			Date:   cell(row, cols[0]),
			Open:   cell(row, cols[1]),
			High:   cell(row, cols[2]),
			Low:    cell(row, cols[3]),
			Close:  cell(row, cols[4]),
			Volume: cell(row, cols[5]),
		})
	}
	return toBars(rows, excelDate)
}

func excelDate(s string) (models.PriceBar, error) {
	if d, err := util.ParseDate(s); err == nil {
		return models.PriceBar{Date: d}, nil
	}
	serial, err := util.ParseFloat(s)
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("unrecognized date %q", s)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return models.PriceBar{}, err
	}
	return models.PriceBar{Date: util.Day(t)}, nil
}
