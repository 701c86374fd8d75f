package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/parquet"
	"github.com/huangsam/deeptime/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRenderResult outputs a rendered viewport, dispatching based on the output format configured.
func PrintRenderResult(result *schema.RenderResult, cfg *contract.Config) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON render results"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForEvents(w, result.Events, fmtFloat)
		}, "Wrote CSV render results"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetRender(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable axis and table
		if err := writeRenderText(os.Stdout, result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing render table output: %w", err)
		}
	}
	return nil
}

// TicksCompanionPath returns where the ticks of a Parquet render are written.
func TicksCompanionPath(outputFile string) string {
	return strings.TrimSuffix(outputFile, ".parquet") + ".ticks.parquet"
}

func writeParquetRender(result *schema.RenderResult, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	if err := parquet.WritePlacedEventsParquet(parquet.ConvertVisibleEvents(result.Events), outputFile); err != nil {
		return err
	}
	ticksFile := TicksCompanionPath(outputFile)
	if err := parquet.WriteTicksParquet(parquet.ConvertTicks(result.Ticks), ticksFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet render results to %s and %s\n", outputFile, ticksFile)
	return nil
}

// writeCSVResultsForEvents writes one row per visible event.
func writeCSVResultsForEvents(w io.Writer, events []schema.VisibleEvent, fmtFloat func(float64) string) error {
	header := []string{"x", "y", "name", "date", "significance", "categories"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, ve := range events {
			row := []string{
				fmtFloat(ve.X),
				fmtFloat(ve.Y),
				ve.Event.Name,
				ve.Event.Date.String(),
				fmt.Sprintf("%d", ve.Event.Significance),
				strings.Join(ve.Event.Categories, "|"),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRenderText prints the ASCII axis followed by the event table.
func writeRenderText(w io.Writer, result *schema.RenderResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	_, _ = fmt.Fprintf(w, "%s → %s (%s years)\n",
		result.Leftmost.LocaleString(cfg.Locale),
		result.Rightmost.LocaleString(cfg.Locale),
		formatYears(result.TimeSpanYears))
	for _, line := range RenderAxis(result, GetTerminalWidth(cfg)) {
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintln(w)

	if len(result.Events) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header([]string{"X", "Y", "Date", "Event", "Significance", "Categories"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})

		labelWidth := GetMaxTableLabelWidth(cfg)
		var data [][]string
		for _, ve := range result.Events {
			label := schema.GetSignificanceLabel(ve.Event.Significance)
			if cfg.UseColors {
				label = contract.GetColorLabel(ve.Event.Significance)
			}
			data = append(data, []string{
				fmtFloat(ve.X),
				fmtFloat(ve.Y),
				ve.Event.Date.RelativeString(result.Reference),
				contract.TruncateLabel(ve.Event.Name, labelWidth),
				label,
				strings.Join(ve.Event.Categories, ", "),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(w, "Showing %d events with %d ticks (%d pushed clusters). Events backend: %s\n",
		len(result.Events), len(result.Ticks), result.PushedClusters, cfg.EventsBackend)
	return nil
}

// formatYears prints a span of years compactly.
func formatYears(years float64) string {
	switch {
	case years >= 1e9:
		return fmt.Sprintf("%.2f billion", years/1e9)
	case years >= 1e6:
		return fmt.Sprintf("%.2f million", years/1e6)
	case years >= 1:
		return fmt.Sprintf("%.0f", years)
	default:
		return fmt.Sprintf("%.4g", years)
	}
}
