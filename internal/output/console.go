package output

import (
	"bytes"
	"fmt"
	"strings"
)

const lineWidth = 72

// ConsoleFormatter renders the report as plain text tables
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}

	if r.Title != "" {
		fmt.Fprintln(buf, strings.ToUpper(r.Title))
		fmt.Fprintln(buf, strings.Repeat("=", lineWidth))
	}

	if r.Benefits != nil {
		writeBenefits(buf, r)
	}
	if r.Estimate != nil {
		writeEstimate(buf, r)
	}
	if r.Range != nil {
		writeRange(buf, r)
	}
	if len(r.Procedures) > 0 {
		writeProcedures(buf, r)
	}
	if len(r.Providers) > 0 {
		writeProviders(buf, r)
	}
	if len(r.Bills) > 0 {
		writeBills(buf, r)
	}
	if r.Totals != nil {
		fmt.Fprintf(buf, "Total outstanding: %s (%d bills)\n", FormatCurrency(r.Totals.Outstanding), r.Totals.Count)
		if r.Totals.Savings.IsPositive() {
			fmt.Fprintf(buf, "Negotiated savings: %s\n", FormatCurrency(r.Totals.Savings))
		}
		fmt.Fprintln(buf)
	}
	if r.Plan != nil {
		writePlan(buf, r)
	}
	if len(r.Programs) > 0 {
		writePrograms(buf, r)
	}
	return buf.Bytes(), nil
}

func section(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("-", lineWidth))
}

func writeBenefits(buf *bytes.Buffer, r *Report) {
	b := r.Benefits
	section(buf, "BENEFITS")
	if b.Insurer != "" || b.PlanType != "" {
		fmt.Fprintf(buf, "Plan:            %s %s\n", b.Insurer, strings.ToUpper(string(b.PlanType)))
	}
	fmt.Fprintf(buf, "Deductible:      %s of %s met (%s)\n",
		FormatCurrency(b.DeductibleMet), FormatCurrency(b.Deductible), FormatPercentage(b.DeductibleProgress()))
	fmt.Fprintf(buf, "Out-of-pocket:   %s of %s met (%s)\n",
		FormatCurrency(b.OutOfPocketMet), FormatCurrency(b.OutOfPocketMax), FormatPercentage(b.OutOfPocketProgress()))
	fmt.Fprintf(buf, "Coinsurance:     %s%%\n", b.CoinsuranceRate.String())
	fmt.Fprintln(buf)
}

func writeEstimate(buf *bytes.Buffer, r *Report) {
	e := r.Estimate
	section(buf, "OUT-OF-POCKET ESTIMATE")
	fmt.Fprintf(buf, "Gross cost:              %12s\n", FormatCurrency(e.GrossCost))
	fmt.Fprintf(buf, "Remaining deductible:    %12s\n", FormatCurrency(e.RemainingDeductible))
	fmt.Fprintf(buf, "Cost after deductible:   %12s\n", FormatCurrency(e.CostAfterDeductible))
	fmt.Fprintf(buf, "Coinsurance:             %12s\n", FormatCurrency(e.CoinsuranceAmount))
	fmt.Fprintf(buf, "Out-of-pocket remaining: %12s\n", FormatCurrency(e.RemainingOutOfPocket))
	fmt.Fprintf(buf, "You pay:                 %12s\n", FormatCurrency(e.PatientResponsibility))
	fmt.Fprintf(buf, "Insurance pays:          %12s\n", FormatCurrency(e.InsurerPays))
	fmt.Fprintln(buf)
}

func writeRange(buf *bytes.Buffer, r *Report) {
	rg := r.Range
	section(buf, fmt.Sprintf("ESTIMATE RANGE: %s (CPT %s)", rg.Procedure.Name, rg.Procedure.CPTCode))
	fmt.Fprintf(buf, "%-12s %14s %14s\n", "", "Cost", "You pay")
	fmt.Fprintf(buf, "%-12s %14s %14s\n", "Best case", FormatCurrency(rg.Procedure.LowCost), FormatCurrency(rg.BestCase))
	fmt.Fprintf(buf, "%-12s %14s %14s\n", "Likely", FormatCurrency(rg.Procedure.AvgCost), FormatCurrency(rg.Likely))
	fmt.Fprintf(buf, "%-12s %14s %14s\n", "Worst case", FormatCurrency(rg.Procedure.HighCost), FormatCurrency(rg.WorstCase))
	fmt.Fprintln(buf)
}

func writeProcedures(buf *bytes.Buffer, r *Report) {
	section(buf, "PROCEDURES")
	fmt.Fprintf(buf, "%-22s %-8s %12s %12s %12s\n", "Procedure", "CPT", "Low", "Average", "High")
	for _, q := range r.Procedures {
		fmt.Fprintf(buf, "%-22s %-8s %12s %12s %12s\n", q.Name, q.CPTCode,
			FormatCurrency(q.LowCost), FormatCurrency(q.AvgCost), FormatCurrency(q.HighCost))
	}
	fmt.Fprintln(buf)
}

func writeProviders(buf *bytes.Buffer, r *Report) {
	section(buf, "PROVIDER COMPARISON")
	fmt.Fprintf(buf, "%-22s %8s %8s %14s %14s\n", "Provider", "Rating", "Miles", "Est. cost", "You pay")
	for _, p := range r.Providers {
		fmt.Fprintf(buf, "%-22s %8s %8s %14s %14s\n", p.Provider.Name,
			p.Provider.QualityScore.StringFixed(1), p.Provider.DistanceMiles.StringFixed(1),
			FormatCurrency(p.EstimatedCost), FormatCurrency(p.OutOfPocket))
	}
	fmt.Fprintln(buf)
}

func writeBills(buf *bytes.Buffer, r *Report) {
	section(buf, "BILLS")
	fmt.Fprintf(buf, "%-8s %-22s %12s %-12s %-10s %-10s\n", "ID", "Provider", "Amount", "Status", "Service", "Due")
	for _, b := range r.Bills {
		id := b.ID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(buf, "%-8s %-22s %12s %-12s %-10s %-10s\n", id, b.Provider,
			FormatCurrency(b.Amount), b.Status.Label(), formatDate(b.ServiceDate), formatDate(b.DueDate))
	}
	fmt.Fprintln(buf)
}

func writePlan(buf *bytes.Buffer, r *Report) {
	p := r.Plan
	section(buf, "PAYMENT PLAN")
	fmt.Fprintf(buf, "Total:           %s\n", FormatCurrency(p.Total))
	fmt.Fprintf(buf, "Term:            %d months\n", p.TermMonths)
	fmt.Fprintf(buf, "Monthly payment: %s\n", FormatCurrency(p.MonthlyPayment))
	if !p.FinalPayment().Equal(p.MonthlyPayment) {
		fmt.Fprintf(buf, "Final payment:   %s\n", FormatCurrency(p.FinalPayment()))
	}
	fmt.Fprintf(buf, "First due:       %s\n", formatDate(p.FirstDueDate))
	fmt.Fprintf(buf, "Interest rate:   %s\n", FormatPercentage(p.InterestRate))
	fmt.Fprintln(buf)
	for _, in := range p.Installments {
		fmt.Fprintf(buf, "  %3d  %s  %12s\n", in.Number, formatDate(in.DueDate), FormatCurrency(in.Amount))
	}
	fmt.Fprintln(buf)
}

func writePrograms(buf *bytes.Buffer, r *Report) {
	section(buf, "FINANCIAL ASSISTANCE")
	for _, p := range r.Programs {
		fmt.Fprintf(buf, "%s [%s]\n", p.Name, p.Status.Label())
		fmt.Fprintf(buf, "    Eligibility: %s\n", p.EligibilityCriteria)
		fmt.Fprintf(buf, "    Coverage:    %s\n", p.CoverageDescription)
	}
	fmt.Fprintln(buf)
}
