package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/config"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/rgehrsitz/hcnav/internal/output"
)

func billsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "List and manage medical bills in the profile",
	}

	cmd.AddCommand(billsListCmd())
	cmd.AddCommand(billActionCmd("negotiate", "Apply the negotiated reduction to a bill",
		func(e *calculation.Engine) billOp { return e.NegotiateBill }))
	cmd.AddCommand(billActionCmd("resolve", "Mark a bill as resolved",
		func(e *calculation.Engine) billOp { return e.Bills.MarkResolved }))
	cmd.AddCommand(billActionCmd("review", "Flag a bill for review",
		func(e *calculation.Engine) billOp { return e.Bills.MarkForReview }))
	return cmd
}

type billOp func(bills []domain.BillRecord, id string) ([]domain.BillRecord, error)

func billReport(title string, bills []domain.BillRecord) *output.Report {
	return &output.Report{
		Title: title,
		Bills: bills,
		Totals: &output.BillTotals{
			Outstanding: calculation.TotalOutstanding(bills),
			Savings:     calculation.TotalSavings(bills),
			Count:       len(bills),
		},
	}
}

func billsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills with outstanding and saved totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			bills := a.profile.Bills
			if s, _ := cmd.Flags().GetString("status"); s != "" {
				status := domain.BillStatus(s)
				if !status.Valid() {
					return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, s)
				}
				filtered := make([]domain.BillRecord, 0, len(bills))
				for _, b := range bills {
					if b.Status == status {
						filtered = append(filtered, b)
					}
				}
				bills = filtered
			}
			return a.write(cmd, billReport("Medical Bills", bills))
		},
	}
	cmd.Flags().String("status", "", "Only show bills with this status (pending, review, negotiating, resolved)")
	return cmd
}

// billActionCmd builds a subcommand that runs one lifecycle operation on a
// bill. With --save the updated bills are written back to the profile file.
func billActionCmd(use, short string, pick func(*calculation.Engine) billOp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <bill-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			updated, err := pick(a.engine)(a.profile.Bills, args[0])
			if err != nil {
				return err
			}
			a.profile.Bills = updated

			if save, _ := cmd.Flags().GetBool("save"); save {
				if a.profilePath == "" {
					return fmt.Errorf("%w: --save needs --profile", domain.ErrInvalidArgument)
				}
				if err := config.NewInputParser().SaveProfile(a.profilePath, a.profile); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", a.profilePath)
			}

			idx := a.profile.BillByID(args[0])
			return a.write(cmd, billReport("Bill "+args[0], updated[idx:idx+1]))
		},
	}
	cmd.Flags().Bool("save", false, "Write the updated bills back to the profile file")
	return cmd
}
