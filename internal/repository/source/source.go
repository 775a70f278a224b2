package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/forecast"
	applogger "StockPulse/pkg/logger"
)

// ClickHousePrefix marks a source identifier served from the ClickHouse bar table.
const ClickHousePrefix = "clickhouse:"

// BarStore reads daily bars for a ticker from a database.
type BarStore interface {
	Bars(ctx context.Context, symbol string) ([]models.PriceBar, error)
}

// Format is the detected encoding of a price file.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
)

var (
	magicZip     = []byte("PK\x03\x04")
	magicParquet = []byte("PAR1")
	magicOLE     = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

// Resolver implements repository.PriceSource over a data directory and an optional BarStore.
// File sources are sniffed by content, so a ".xls" export that is really CSV text still loads.
type Resolver struct {
	dir        string
	store      BarStore
	absoluteOK bool
	l          *applogger.Logger
}

type Option func(*Resolver)

// WithBarStore enables "clickhouse:<SYMBOL>" sources.
func WithBarStore(s BarStore) Option {
	return func(r *Resolver) { r.store = s }
}

// WithAbsolutePaths lets absolute file sources outside the data directory load.
// Only the command line tool enables it, for operator-supplied --file paths.
func WithAbsolutePaths() Option {
	return func(r *Resolver) { r.absoluteOK = true }
}

func WithLogger(l *applogger.Logger) Option {
	return func(r *Resolver) { r.l = l }
}

func NewResolver(dir string, opts ...Option) *Resolver {
	r := &Resolver{dir: dir, l: applogger.Nop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Load reads the whole history behind source.
func (r *Resolver) Load(ctx context.Context, source string) (*models.PriceSeries, error) {
	start := time.Now()
	if sym, ok := strings.CutPrefix(source, ClickHousePrefix); ok {
		return r.loadStore(ctx, source, sym)
	}

	path, err := r.path(source)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, forecast.NotFoundf("no price file %s", source)
		}
		return nil, forecast.NotFoundf("read %s: %v", source, err)
	}

	format := Detect(path, b)
	var bars []models.PriceBar
	switch format {
	case FormatCSV:
		bars, err = decodeCSV(b)
	case FormatParquet:
		bars, err = decodeParquet(path)
	case FormatXLSX:
		bars, err = decodeXLSX(bytes.NewReader(b))
	default:
		err = fmt.Errorf("unsupported %s format", format)
	}
	if err != nil {
		r.l.Warn("price file rejected",
			applogger.String("source", source),
			applogger.String("format", string(format)),
			applogger.Error(err),
		)
		return nil, forecast.NotFoundf("parse %s: %v", source, err)
	}
	if len(bars) == 0 {
		return nil, forecast.NotFoundf("%s has no rows", source)
	}

	r.l.Debug("price file loaded",
		applogger.String("source", source),
		applogger.String("format", string(format)),
		applogger.Int("bars", len(bars)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return &models.PriceSeries{Source: source, Bars: bars}, nil
}

func (r *Resolver) loadStore(ctx context.Context, source, symbol string) (*models.PriceSeries, error) {
	if r.store == nil {
		return nil, forecast.NotFoundf("%s: clickhouse is not configured", source)
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, forecast.NotFoundf("%s: empty symbol", source)
	}
	bars, err := r.store.Bars(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", source, err)
	}
	if len(bars) == 0 {
		return nil, forecast.NotFoundf("no bars for %s", symbol)
	}
	return &models.PriceSeries{Source: source, Bars: bars}, nil
}

// path resolves a file source relative to the data directory and refuses to leave it.
func (r *Resolver) path(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", forecast.NotFoundf("empty source")
	}
	abs := filepath.IsAbs(source)
	if abs && r.absoluteOK {
		return filepath.Clean(source), nil
	}
	if r.dir == "" {
		return "", forecast.NotFoundf("%s: no data directory configured", source)
	}
	dir, err := filepath.Abs(r.dir)
	if err != nil {
		return "", forecast.NotFoundf("%s: data directory: %v", source, err)
	}
	p := filepath.Clean(source)
	if !abs {
		p = filepath.Join(dir, source)
	}
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", forecast.NotFoundf("%s escapes the data directory", source)
	}
	return p, nil
}

// Detect picks a decoder from the leading bytes, falling back to the extension.
func Detect(path string, head []byte) Format {
	switch {
	case bytes.HasPrefix(head, magicParquet):
		return FormatParquet
	case bytes.HasPrefix(head, magicZip):
		return FormatXLSX
	case bytes.HasPrefix(head, magicOLE):
		return FormatXLS
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet
	case ".xlsx":
		return FormatXLSX
	}
	return FormatCSV
}

func closeQuietly(c io.Closer) { _ = c.Close() }
