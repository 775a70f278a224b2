package source

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// parquetBar is the on-disk schema of a daily bar file.
type parquetBar struct {
	Date   string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Open   float64 `parquet:"name=open, type=DOUBLE, encoding=PLAIN"`
	High   float64 `parquet:"name=high, type=DOUBLE, encoding=PLAIN"`
	Low    float64 `parquet:"name=low, type=DOUBLE, encoding=PLAIN"`
	Close  float64 `parquet:"name=close, type=DOUBLE, encoding=PLAIN"`
	Volume int64   `parquet:"name=volume, type=INT64"`
}

func decodeParquet(path string) ([]models.PriceBar, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("parquet open: %w", err)
	}
	defer closeQuietly(fr)

	pr, err := reader.NewParquetReader(fr, new(parquetBar), 4)
	if err != nil {
		return nil, fmt.Errorf("parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]parquetBar, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("parquet read: %w", err)
	}

	out := make([]models.PriceBar, 0, len(rows))
	for i, r := range rows {
		d, err := util.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("parquet row %d: %w", i, err)
		}
		out = append(out, models.PriceBar{
			Date: d, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume,
		})
	}
	return out, nil
}

// WriteParquet stores bars in the schema decodeParquet reads.
func WriteParquet(path string, bars []models.PriceBar) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer closeQuietly(fw)

	pw, err := writer.NewParquetWriter(fw, new(parquetBar), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, b := range bars {
		rec := parquetBar{
			Date: util.FormatDate(b.Date), Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume,
		}
		if err := pw.Write(rec); err != nil {
			return fmt.Errorf("failed to write parquet data: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
