package cmd

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kilianp07/evac/core/harness"
	"github.com/kilianp07/evac/core/metrics"
	"github.com/kilianp07/evac/core/model"
	"github.com/kilianp07/evac/core/solver"
	"github.com/kilianp07/evac/core/stats"
	"github.com/kilianp07/evac/core/trials"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func optional(f *float64) string {
	if f == nil {
		return mutedStyle.Render("n/a")
	}
	return strconv.FormatFloat(*f, 'f', 4, 64)
}

// renderAssignments shows both assignments day by day with the people still
// waiting after each day. marginals adds a column when non-nil.
func renderAssignments(in model.Instance, off, on solver.Result, marginals []float64) string {
	headers := []string{"day", "seats", "seat price", "hotel price"}
	if marginals != nil {
		headers = append(headers, "marginal")
	}
	headers = append(headers, "offline sent", "offline left", "online sent", "online left")
	t := newTable(headers...)

	offLeft, onLeft := in.Population, in.Population
	for i, d := range in.Days {
		offLeft -= off.Assignment[i]
		onLeft -= on.Assignment[i]
		row := []string{strconv.Itoa(i), strconv.Itoa(d.Seats), num(d.PricePerSeat), num(d.PricePerHotel)}
		if marginals != nil {
			row = append(row, num(marginals[i]))
		}
		row = append(row,
			strconv.Itoa(off.Assignment[i]), strconv.Itoa(offLeft),
			strconv.Itoa(on.Assignment[i]), strconv.Itoa(onLeft))
		t.Row(row...)
	}
	return titleStyle.Render("population "+strconv.Itoa(in.Population)) + "\n" + t.String()
}

func renderTrial(tr model.Trial) string {
	var b strings.Builder
	b.WriteString("offline cost " + num(tr.OfflineCost) + "\n")
	b.WriteString("online cost  " + num(tr.OnlineCost) + "\n")
	b.WriteString("difference   " + num(tr.Difference) + "\n")
	b.WriteString("competitive ratio     " + optional(tr.CompetitiveRatio) + "\n")
	b.WriteString("theoretical max ratio " + optional(tr.TheoreticalMaxRatio) + "\n")
	b.WriteString("normalized ratio      " + optional(tr.NormalizedRatio))
	return b.String()
}

func renderReport(rep *harness.Report) string {
	t := newTable("metric", "count", "mean", "std dev", "95% lower", "95% upper")
	rows := []struct {
		name string
		s    stats.Summary
	}{
		{metrics.MetricCompetitiveRatio, rep.CompetitiveRatio},
		{metrics.MetricNormalizedRatio, rep.NormalizedRatio},
	}
	for _, r := range rows {
		t.Row(r.name, strconv.Itoa(r.s.Count),
			strconv.FormatFloat(r.s.Mean, 'f', 4, 64),
			strconv.FormatFloat(r.s.StdDev, 'f', 4, 64),
			strconv.FormatFloat(r.s.Lower, 'f', 4, 64),
			strconv.FormatFloat(r.s.Upper, 'f', 4, 64))
	}
	head := titleStyle.Render("run "+rep.RunID) + "\n" +
		mutedStyle.Render(strconv.Itoa(len(rep.Trials))+" trials, "+strconv.Itoa(rep.Rejections)+" infeasible draws rejected")
	return head + "\n" + t.String()
}

func renderRecords(recs []trials.Record) string {
	if len(recs) == 0 {
		return mutedStyle.Render("no trials")
	}
	t := newTable("run", "trial", "days", "offline", "online", "cr", "wcr")
	for _, r := range recs {
		t.Row(r.RunID, strconv.Itoa(r.Trial.Index), strconv.Itoa(r.Days),
			num(r.Trial.OfflineCost), num(r.Trial.OnlineCost),
			optional(r.Trial.CompetitiveRatio), optional(r.Trial.NormalizedRatio))
	}
	return t.String()
}
