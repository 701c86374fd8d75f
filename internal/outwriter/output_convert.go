package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	"github.com/olekukonko/tablewriter"
)

// errNoParquet is returned by writers without a columnar layout.
var errNoParquet = errors.New("parquet output is only supported by render and ticks")

// PrintConvertResults outputs parsed time values, dispatching based on the output format configured.
func PrintConvertResults(results []schema.ConvertResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON conversions")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForConvert(w, results)
		}, "Wrote CSV conversions")
	case schema.ParquetOut:
		return errNoParquet
	default:
		return writeConvertTable(os.Stdout, results)
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

func writeCSVResultsForConvert(w io.Writer, results []schema.ConvertResult) error {
	header := []string{"input", "precision", "year", "minutes_since_epoch", "iso", "relative", "locale", "log"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range results {
			row := []string{
				r.Input, string(r.Precision), formatNumber(r.Year), formatNumber(r.Minutes),
				r.ISO, r.Relative, r.Locale, formatNumber(r.Log),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeConvertTable(w io.Writer, results []schema.ConvertResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Input", "Precision", "Year", "ISO", "Relative", "Locale"})

	var data [][]string
	for _, r := range results {
		data = append(data, []string{r.Input, string(r.Precision), formatNumber(r.Year), r.ISO, r.Relative, r.Locale})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintPixelResults outputs pixel lookups, dispatching based on the output format configured.
func PrintPixelResults(results []schema.PixelResult, cfg *contract.Config) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON pixel lookups")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"pixel", "time", "relative"}, func(csvWriter *csv.Writer) error {
				for _, r := range results {
					if err := csvWriter.Write([]string{fmtFloat(r.Pixel), r.Time.String(), r.Relative}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV pixel lookups")
	case schema.ParquetOut:
		return errNoParquet
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Pixel", "Time", "Relative"})
		var data [][]string
		for _, r := range results {
			data = append(data, []string{fmtFloat(r.Pixel), r.Time.String(), r.Relative})
		}
		if err := table.Bulk(data); err != nil {
			return fmt.Errorf("error writing pixel table output: %w", err)
		}
		return table.Render()
	}
}
