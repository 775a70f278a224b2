package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/forecast"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

const yahooCSV = "\xEF\xBB\xBFDate,Open,High,Low,Close,Adj Close,Volume\n" +
	"2024-01-03,10,12,9,11,11,1000\n" +
	"2024-01-02,9,10,8,9.5,9.5,\"1,500\"\n" +
	"\n"

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TSLA.csv", yahooCSV)

	s, err := NewResolver(dir).Load(context.Background(), "TSLA.csv")
	require.NoError(t, err)
	require.Len(t, s.Bars, 2)

	// order is left to the pipeline
	b := s.Bars[1]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), b.Date)
	assert.Equal(t, 9.0, b.Open)
	assert.Equal(t, 9.5, b.Close)
	assert.Equal(t, int64(1500), b.Volume)
}

func TestLoadXLSNamedCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Netflix.xls", "Date,Open,High,Low,Close,Volume\n1/2/2024,1,2,0.5,1.5,10\n")

	s, err := NewResolver(dir).Load(context.Background(), "Netflix.xls")
	require.NoError(t, err)
	require.Len(t, s.Bars, 1)
	assert.Equal(t, "2024-01-02", s.Bars[0].Date.Format("2006-01-02"))
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nocol.csv", "Date,Open,High,Low,Close\n2024-01-02,1,2,0,1\n")
	writeFile(t, dir, "badnum.csv", "Date,Open,High,Low,Close,Volume\n2024-01-02,1,two,0,1,5\n")
	writeFile(t, dir, "baddate.csv", "Date,Open,High,Low,Close,Volume\nsoon,1,2,0,1,5\n")
	writeFile(t, dir, "empty.csv", "Date,Open,High,Low,Close,Volume\n")
	writeFile(t, dir, "legacy.xls", "\xD0\xCF\x11\xE0binary workbook")
	writeFile(t, dir, "hugevol.csv", "Date,Open,High,Low,Close,Volume\n2024-01-02,1,2,0,1,1e19\n")
	writeFile(t, dir, "edgevol.csv", "Date,Open,High,Low,Close,Volume\n2024-01-02,1,2,0,1,9223372036854775808\n")

	for _, name := range []string{"missing.csv", "nocol.csv", "badnum.csv", "baddate.csv", "empty.csv", "legacy.xls", "hugevol.csv", "edgevol.csv", "../outside.csv", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := NewResolver(dir).Load(context.Background(), name)
			require.Error(t, err)
			assert.ErrorIs(t, err, forecast.ErrDataNotFound)
		})
	}
}

func TestLoadParquet(t *testing.T) {
	dir := t.TempDir()
	want := []models.PriceBar{
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200},
	}
	require.NoError(t, WriteParquet(filepath.Join(dir, "GOOGL.parquet"), want))

	s, err := NewResolver(dir).Load(context.Background(), "GOOGL.parquet")
	require.NoError(t, err)
	assert.Equal(t, want, s.Bars)
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Date", "Open", "High", "Low", "Close", "Volume"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{45306, 10.0, 11.0, 9.0, 10.5, 1200}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"2024-01-16", 10.5, 12.0, 10.0, 11.5, 1300}))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "Apple.xlsx")))
	require.NoError(t, f.Close())

	s, err := NewResolver(dir).Load(context.Background(), "Apple.xlsx")
	require.NoError(t, err)
	require.Len(t, s.Bars, 2)
	assert.Equal(t, "2024-01-15", s.Bars[0].Date.Format("2006-01-02"))
	assert.Equal(t, 10.5, s.Bars[0].Close)
	assert.Equal(t, int64(1300), s.Bars[1].Volume)
}

func TestLoadAbsolutePath(t *testing.T) {
	data, outside := t.TempDir(), t.TempDir()
	writeFile(t, data, "in.csv", yahooCSV)
	writeFile(t, outside, "out.csv", yahooCSV)

	s, err := NewResolver(data).Load(context.Background(), filepath.Join(data, "in.csv"))
	require.NoError(t, err)
	assert.Len(t, s.Bars, 2)

	_, err = NewResolver(data).Load(context.Background(), filepath.Join(outside, "out.csv"))
	assert.ErrorIs(t, err, forecast.ErrDataNotFound)
	_, err = NewResolver("").Load(context.Background(), filepath.Join(outside, "out.csv"))
	assert.ErrorIs(t, err, forecast.ErrDataNotFound)

	s, err = NewResolver(data, WithAbsolutePaths()).Load(context.Background(), filepath.Join(outside, "out.csv"))
	require.NoError(t, err)
	assert.Len(t, s.Bars, 2)
}

type fakeStore struct {
	bars map[string][]models.PriceBar
	err  error
	got  string
}

func (f *fakeStore) Bars(_ context.Context, symbol string) ([]models.PriceBar, error) {
	f.got = symbol
	return f.bars[symbol], f.err
}

func TestLoadClickHouse(t *testing.T) {
	store := &fakeStore{bars: map[string][]models.PriceBar{
		"TSLA": {{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 1}},
	}}
	r := NewResolver("", WithBarStore(store))

	s, err := r.Load(context.Background(), "clickhouse:tsla")
	require.NoError(t, err)
	assert.Equal(t, "TSLA", store.got)
	assert.Len(t, s.Bars, 1)

	_, err = r.Load(context.Background(), "clickhouse:AMZN")
	assert.ErrorIs(t, err, forecast.ErrDataNotFound)

	store.err = errors.New("dial tcp: refused")
	_, err = r.Load(context.Background(), "clickhouse:TSLA")
	require.Error(t, err)
	assert.NotErrorIs(t, err, forecast.ErrDataNotFound)

	_, err = NewResolver("").Load(context.Background(), "clickhouse:TSLA")
	assert.ErrorIs(t, err, forecast.ErrDataNotFound)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatParquet, Detect("x.csv", []byte("PAR1....")))
	assert.Equal(t, FormatXLSX, Detect("x.xls", []byte("PK\x03\x04....")))
	assert.Equal(t, FormatXLS, Detect("x.xls", []byte{0xD0, 0xCF, 0x11, 0xE0}))
	assert.Equal(t, FormatCSV, Detect("x.xls", []byte("Date,Open")))
	assert.Equal(t, FormatParquet, Detect("x.parquet", nil))
}

func TestLoadLongCSVFeedsPipeline(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	sb.WriteString("Date,Open,High,Low,Close,Volume\n")
	day := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		c := 100 + float64(i)
		fmt.Fprintf(&sb, "%s,%.2f,%.2f,%.2f,%.2f,%d\n", day.AddDate(0, 0, i).Format("2006-01-02"), c-0.5, c+1, c-1, c, 1000+i%7)
	}
	writeFile(t, dir, "long.csv", sb.String())

	res, err := forecast.NewPipeline(NewResolver(dir)).Run(context.Background(), "long.csv", "Long")
	require.NoError(t, err)
	assert.Equal(t, 30, res.FeatureLen)
	assert.Equal(t, 6, res.TestSize)
}
