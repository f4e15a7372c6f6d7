package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/evac/core/harness"
	"github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/stats"
)

// TrialHeader lists the per-trial CSV columns.
var TrialHeader = []string{
	"trial", "offline_cost", "online_cost", "difference",
	"theoretical_max_ratio", "competitive_ratio", "normalized_ratio",
}

// SummaryHeader lists the summary CSV columns.
var SummaryHeader = []string{"metric", "count", "mean", "std_dev", "half_width", "lower", "upper"}

// WriteJSON writes the run report to w in JSON format.
func WriteJSON(w io.Writer, rep *harness.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteTrialsCSV writes one row per trial. Undefined ratios are empty cells.
func WriteTrialsCSV(w io.Writer, ts []model.Trial) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrialHeader); err != nil {
		return err
	}
	for _, t := range ts {
		rec := []string{
			strconv.Itoa(t.Index),
			formatFloat(t.OfflineCost),
			formatFloat(t.OnlineCost),
			formatFloat(t.Difference),
			formatOptional(t.TheoreticalMaxRatio),
			formatOptional(t.CompetitiveRatio),
			formatOptional(t.NormalizedRatio),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one row per aggregated metric of the report.
func WriteSummaryCSV(w io.Writer, rep *harness.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	rows := []struct {
		metric string
		s      stats.Summary
	}{
		{metrics.MetricCompetitiveRatio, rep.CompetitiveRatio},
		{metrics.MetricNormalizedRatio, rep.NormalizedRatio},
	}
	for _, r := range rows {
		rec := []string{
			r.metric,
			strconv.Itoa(r.s.Count),
			formatFloat(r.s.Mean),
			formatFloat(r.s.StdDev),
			formatFloat(r.s.HalfWidth),
			formatFloat(r.s.Lower),
			formatFloat(r.s.Upper),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
