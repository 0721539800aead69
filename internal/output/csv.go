package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter writes one table per populated section, separated by a blank
// record. Each table starts with a header row.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	var tables [][][]string
	if r.Estimate != nil {
		e := r.Estimate
		tables = append(tables, [][]string{
			{"GrossCost", "RemainingDeductible", "CostAfterDeductible", "Coinsurance", "RemainingOutOfPocket", "PatientResponsibility", "InsurerPays"},
			{e.GrossCost.StringFixed(2), e.RemainingDeductible.StringFixed(2), e.CostAfterDeductible.StringFixed(2),
				e.CoinsuranceAmount.StringFixed(2), e.RemainingOutOfPocket.StringFixed(2),
				e.PatientResponsibility.StringFixed(2), e.InsurerPays.StringFixed(2)},
		})
	}
	if r.Range != nil {
		rg := r.Range
		tables = append(tables, [][]string{
			{"Procedure", "CPT", "BestCase", "Likely", "WorstCase"},
			{rg.Procedure.Name, rg.Procedure.CPTCode, rg.BestCase.StringFixed(2), rg.Likely.StringFixed(2), rg.WorstCase.StringFixed(2)},
		})
	}
	if len(r.Procedures) > 0 {
		t := [][]string{{"Procedure", "CPT", "Low", "Average", "High"}}
		for _, q := range r.Procedures {
			t = append(t, []string{q.Name, q.CPTCode, q.LowCost.StringFixed(2), q.AvgCost.StringFixed(2), q.HighCost.StringFixed(2)})
		}
		tables = append(tables, t)
	}
	if len(r.Providers) > 0 {
		t := [][]string{{"Provider", "QualityScore", "DistanceMiles", "EstimatedCost", "OutOfPocket"}}
		for _, p := range r.Providers {
			t = append(t, []string{p.Provider.Name, p.Provider.QualityScore.String(), p.Provider.DistanceMiles.String(),
				p.EstimatedCost.StringFixed(2), p.OutOfPocket.StringFixed(2)})
		}
		tables = append(tables, t)
	}
	if len(r.Bills) > 0 {
		t := [][]string{{"ID", "Provider", "Amount", "OriginalAmount", "Status", "ServiceDate", "DueDate"}}
		for _, b := range r.Bills {
			t = append(t, []string{b.ID, b.Provider, b.Amount.StringFixed(2), b.OriginalAmount.StringFixed(2),
				string(b.Status), formatDate(b.ServiceDate), formatDate(b.DueDate)})
		}
		tables = append(tables, t)
	}
	if r.Totals != nil {
		tables = append(tables, [][]string{
			{"Outstanding", "Savings", "Count"},
			{r.Totals.Outstanding.StringFixed(2), r.Totals.Savings.StringFixed(2), strconv.Itoa(r.Totals.Count)},
		})
	}
	if r.Plan != nil {
		t := [][]string{{"Installment", "DueDate", "Amount"}}
		for _, in := range r.Plan.Installments {
			t = append(t, []string{strconv.Itoa(in.Number), formatDate(in.DueDate), in.Amount.StringFixed(2)})
		}
		tables = append(tables, t)
	}
	if len(r.Programs) > 0 {
		t := [][]string{{"Program", "Eligibility", "Coverage", "Status"}}
		for _, p := range r.Programs {
			t = append(t, []string{p.Name, p.EligibilityCriteria, p.CoverageDescription, string(p.Status)})
		}
		tables = append(tables, t)
	}

	for i, t := range tables {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := w.WriteAll(t); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
