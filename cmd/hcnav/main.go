package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/config"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/rgehrsitz/hcnav/internal/logging"
	"github.com/rgehrsitz/hcnav/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is everything a command needs once flags and files are resolved.
type app struct {
	settings    *config.Settings
	profilePath string
	profile     *domain.Profile
	ref         *domain.ReferenceData
	engine      *calculation.Engine
	format      string
}

// loadApp reads settings, the profile and the reference file named by the
// persistent flags and builds the engine from them.
func loadApp(cmd *cobra.Command) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	settings, err := config.LoadSettings(envFile)
	if err != nil {
		return nil, err
	}

	parser := config.NewInputParser()
	a := &app{settings: settings}
	a.format, _ = cmd.Flags().GetString("format")

	a.profilePath, _ = cmd.Flags().GetString("profile")
	if a.profilePath == "" {
		a.profilePath = settings.ProfilePath
	}
	if a.profilePath != "" {
		if a.profile, err = parser.LoadProfile(a.profilePath); err != nil {
			return nil, err
		}
	} else {
		p := domain.DefaultProfile()
		a.profile = &p
	}

	refPath, _ := cmd.Flags().GetString("reference")
	if refPath == "" {
		refPath = settings.ReferencePath
	}
	if refPath != "" {
		if a.ref, err = parser.LoadReference(refPath); err != nil {
			return nil, err
		}
	} else {
		ref := domain.DefaultReferenceData()
		a.ref = &ref
	}

	cfg, err := settings.EngineConfig(a.profile, a.ref)
	if err != nil {
		return nil, err
	}
	if a.engine, err = calculation.NewEngineWithConfig(cfg); err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger := logging.New(cmd.ErrOrStderr(), settings.Env, "debug")
		a.engine.SetLogger(logging.NewAdapter(logger, "calculation"))
	}
	return a, nil
}

func (a *app) write(cmd *cobra.Command, r *output.Report) error {
	r.GeneratedAt = time.Now()
	return output.Write(cmd.OutOrStdout(), a.format, r)
}

func parseMoney(flag, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: --%s must be a number, got %q", domain.ErrInvalidArgument, flag, value)
	}
	return d, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hcnav",
		Short:         "Healthcare cost navigator CLI",
		Long:          "Estimate out-of-pocket costs, manage medical bills, plan payments and find financial assistance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("profile", "p", "", "Profile YAML file (benefits and bills); defaults to PROFILE_PATH or the sample profile")
	root.PersistentFlags().StringP("reference", "r", "", "Reference YAML file (procedures, providers, programs)")
	root.PersistentFlags().StringP("format", "f", "console", fmt.Sprintf("Output format: %v", output.AvailableFormatterNames()))
	root.PersistentFlags().String("env-file", ".env", "Settings file read before the environment")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log calculation steps to stderr")

	root.AddCommand(
		estimateCmd(),
		searchCmd(),
		compareCmd(),
		billsCmd(),
		planCmd(),
		assistanceCmd(),
		validateCmd(),
		serveCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hcnav %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func estimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the out-of-pocket cost of a service",
		Long:  "Estimate what the patient pays for a gross cost, or for a procedure's cost range with --cpt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			gross, _ := cmd.Flags().GetString("gross")
			cpt, _ := cmd.Flags().GetString("cpt")
			if gross == "" && cpt == "" {
				return fmt.Errorf("%w: one of --gross or --cpt is required", domain.ErrInvalidArgument)
			}

			acc := a.profile.Benefits
			r := &output.Report{Title: "Out-of-Pocket Estimate", Benefits: &acc}

			var grossCost decimal.Decimal
			if cpt != "" {
				quote, err := a.ref.FindProcedure(cpt)
				if err != nil {
					return err
				}
				rng, err := a.engine.CostSharing.EstimateRange(acc, quote)
				if err != nil {
					return err
				}
				r.Range = &rng
				grossCost = quote.AvgCost
			}
			if gross != "" {
				if grossCost, err = parseMoney("gross", gross); err != nil {
					return err
				}
			}

			b, err := a.engine.CostSharing.Breakdown(acc, grossCost)
			if err != nil {
				return err
			}
			r.Estimate = &b
			return a.write(cmd, r)
		},
	}
	cmd.Flags().String("gross", "", "Gross cost of the service")
	cmd.Flags().String("cpt", "", "CPT code of a reference procedure")
	return cmd
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search reference procedures by name or CPT code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			procedures := a.ref.Procedures
			if len(args) == 1 {
				procedures = calculation.SearchProcedures(a.ref.Procedures, args[0])
			}
			return a.write(cmd, &output.Report{Title: "Procedures", Procedures: procedures})
		},
	}
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <cpt-code>",
		Short: "Compare providers for a procedure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			quote, err := a.ref.FindProcedure(args[0])
			if err != nil {
				return err
			}
			rows, err := a.engine.CostSharing.CompareProviders(a.profile.Benefits, quote, a.ref.Providers)
			if err != nil {
				return err
			}
			return a.write(cmd, &output.Report{
				Title:      "Provider Comparison: " + quote.Name,
				Procedures: []domain.ProcedureQuote{quote},
				Providers:  rows,
			})
		},
	}
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate an interest-free payment plan",
		Long:  "Generate a payment plan for --total, or for the profile's outstanding balance when --total is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			total := a.engine.TotalOutstanding(a.profile.Bills)
			if s, _ := cmd.Flags().GetString("total"); s != "" {
				if total, err = parseMoney("total", s); err != nil {
					return err
				}
			}
			term := a.settings.DefaultTermMonths
			if cmd.Flags().Changed("term") {
				term, _ = cmd.Flags().GetInt("term")
			}

			plan, err := a.engine.GeneratePaymentPlan(total, term)
			if err != nil {
				return err
			}
			return a.write(cmd, &output.Report{Title: "Payment Plan", Plan: &plan})
		},
	}
	cmd.Flags().String("total", "", "Amount to finance (default: outstanding balance)")
	cmd.Flags().IntP("term", "t", 12, "Term in months (default: DEFAULT_TERM_MONTHS)")
	return cmd
}

func assistanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistance",
		Short: "List financial assistance programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			var applicant *domain.Applicant
			if cmd.Flags().Changed("income") || cmd.Flags().Changed("household") {
				applicant = &domain.Applicant{}
				if cmd.Flags().Changed("income") {
					s, _ := cmd.Flags().GetString("income")
					income, err := parseMoney("income", s)
					if err != nil {
						return err
					}
					applicant.AnnualIncome = &income
				}
				if cmd.Flags().Changed("household") {
					size, _ := cmd.Flags().GetInt("household")
					applicant.HouseholdSize = &size
				}
			}

			programs, err := a.engine.MatchAssistancePrograms(applicant)
			if err != nil {
				return err
			}
			return a.write(cmd, &output.Report{Title: "Assistance Programs", Programs: programs})
		},
	}
	cmd.Flags().String("income", "", "Annual household income")
	cmd.Flags().Int("household", 1, "Household size")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the profile, reference file and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			source := a.profilePath
			if source == "" {
				source = "built-in sample"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Profile %s is valid: %d bills, outstanding %s\n",
				source, len(a.profile.Bills), output.FormatCurrency(a.engine.TotalOutstanding(a.profile.Bills)))
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Reference data is valid: %d procedures, %d providers, %d programs\n",
				len(a.ref.Procedures), len(a.ref.Providers), len(a.ref.Programs))
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
