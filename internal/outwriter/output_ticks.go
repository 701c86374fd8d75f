package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/parquet"
	"github.com/huangsam/deeptime/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTicks outputs the axis ticks of a viewport, dispatching based on the output format configured.
func PrintTicks(result *schema.RenderResult, cfg *contract.Config) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result.Ticks)
		}, "Wrote JSON ticks"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForTicks(w, result.Ticks, fmtFloat)
		}, "Wrote CSV ticks"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteTicksParquet(parquet.ConvertTicks(result.Ticks), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet ticks to %s\n", cfg.OutputFile)
	default:
		if err := writeTicksTable(os.Stdout, result, fmtFloat); err != nil {
			return fmt.Errorf("error writing ticks table output: %w", err)
		}
	}
	return nil
}

func writeCSVResultsForTicks(w io.Writer, ticks []schema.Tick, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"position", "label", "date"}, func(csvWriter *csv.Writer) error {
		for _, t := range ticks {
			if err := csvWriter.Write([]string{fmtFloat(t.Position), t.Label, t.Time.String()}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeTicksTable(w io.Writer, result *schema.RenderResult, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Position", "Label", "Date"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, t := range result.Ticks {
		data = append(data, []string{fmtFloat(t.Position), t.Label, t.Time.String()})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d ticks across %s px\n", len(result.Ticks), fmtFloat(result.Width))
	return nil
}
