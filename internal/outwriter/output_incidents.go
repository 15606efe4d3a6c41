package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/internal/parquet"
	"github.com/pulsewatch/pulsewatch/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteIncidentResults outputs the classified incident table, dispatching
// based on the output format configured.
func WriteIncidentResults(incidents []schema.ClassifiedIncident, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForIncidents(w, incidents)
		}, "JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, schema.IncidentColumns, func(cw *csv.Writer) error {
				return writeCSVResultsForIncidents(cw, incidents, fmtFloat, intFmt)
			})
		}, "CSV")
	case schema.ParquetOut:
		if err := parquet.WriteIncidentsParquet(incidents, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Printf("Wrote parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeIncidentTable(incidents, cfg, fmtFloat, intFmt, duration, w)
		}, "table")
	}
}

// writeIncidentTable generates and writes the human-readable table plus the
// classification breakdown summary.
func writeIncidentTable(incidents []schema.ClassifiedIncident, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Start", "End", "Duration(s)", "Max BPM", "Avg BPM", "Samples", "Class", "Workout", "Overlap(s)"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	typeWidth := getMaxTableTypeWidth(cfg)
	var data [][]string
	for _, inc := range incidents {
		label := contract.GetPlainLabel(inc.Classification)
		if cfg.UseColors {
			label = contract.GetColorLabel(inc.Classification)
		}
		data = append(data, []string{
			strconv.Itoa(inc.ID),
			inc.Start.Format(contract.DateTimeFormat),
			inc.End.Format(contract.DateTimeFormat),
			fmtFloat(inc.DurationSeconds),
			fmtFloat(inc.MaxBPM),
			fmtFloat(inc.AvgBPM),
			fmt.Sprintf(intFmt, inc.SampleCount),
			label,
			truncateLabel(inc.WorkoutType, typeWidth),
			fmtFloat(inc.OverlapSeconds),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "%s\n", formatBreakdown(incidents, fmtFloat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Analysis completed in %v\n", duration)
	return err
}

// formatBreakdown renders the categorical classification summary.
func formatBreakdown(incidents []schema.ClassifiedIncident, fmtFloat func(float64) string) string {
	if len(incidents) == 0 {
		return "No incidents detected"
	}
	out := fmt.Sprintf("Found %d incidents:", len(incidents))
	for _, b := range schema.SummarizeClassifications(incidents) {
		out += fmt.Sprintf(" %s %d (%s%%)", b.Classification, b.Count, fmtFloat(b.Percent))
	}
	return out
}

// writeCSVResultsForIncidents writes the incident rows in the canonical
// column order.
func writeCSVResultsForIncidents(w *csv.Writer, incidents []schema.ClassifiedIncident, fmtFloat func(float64) string, intFmt string) error {
	for _, inc := range incidents {
		rec := []string{
			strconv.Itoa(inc.ID),
			inc.Start.Format(contract.DateTimeFormat),
			inc.End.Format(contract.DateTimeFormat),
			fmtFloat(inc.DurationSeconds),
			fmtFloat(inc.MaxBPM),
			fmtFloat(inc.AvgBPM),
			fmt.Sprintf(intFmt, inc.SampleCount),
			string(inc.Classification),
			string(inc.Confidence),
			inc.WorkoutType,
			fmtFloat(inc.OverlapSeconds),
			inc.Notes,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForIncidents writes the incident table plus the
// classification breakdown in JSON format.
func writeJSONResultsForIncidents(w io.Writer, incidents []schema.ClassifiedIncident) error {
	type JSONIncidentOutput struct {
		Incidents []schema.ClassifiedIncident `json:"incidents"`
		Breakdown []schema.ClassBreakdown     `json:"breakdown"`
	}
	if incidents == nil {
		incidents = []schema.ClassifiedIncident{}
	}
	return writeJSON(w, JSONIncidentOutput{
		Incidents: incidents,
		Breakdown: schema.SummarizeClassifications(incidents),
	})
}
