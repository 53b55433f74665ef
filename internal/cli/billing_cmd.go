package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/coachdesk/internal/billing"
	"github.com/alexanderramin/coachdesk/internal/cli/formatter"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newBillingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Track consulting, mentorship and follow-up payments",
	}

	cmd.AddCommand(
		newBillingShowCmd(app),
		newBillingTotalsCmd(app),
		newBillingConsultingCmd(app),
		newBillingPartCmd(app),
		newBillingMonthCmd(app),
		newBillingPlanCmd(app),
		newBillingFollowUpValueCmd(app),
		newBillingToolOnlyCmd(app),
	)

	return cmd
}

// printBilling re-renders the client's billing after a change.
func printBilling(cmd *cobra.Command, app *App, clientID string) error {
	v, err := app.Billing.View(cmd.Context(), clientID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBillingView(v))
	return nil
}

func newBillingShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <client>",
		Short: "Show a client's billing across all tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			return printBilling(cmd, app, c.ID)
		},
	}
}

func newBillingTotalsCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Sum paid and due amounts across clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.ClientStatus
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}
			totals, err := app.Billing.Totals(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTotals(totals))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only include clients in this status")
	return cmd
}

func newBillingConsultingCmd(app *App) *cobra.Command {
	var (
		baseValue   decimal.Decimal
		downPayment decimal.Decimal
		method      string
		hasDown     bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "consulting <client>",
		Short: "Configure the one-off consulting fee",
		Long: `Configure the one-off consulting fee. Changed flags are staged as a draft,
shown, and then saved in one write. With --dry-run the draft is discarded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := resolveClient(ctx, app, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			staged := []struct {
				flag  string
				field billing.DraftField
				value func() string
			}{
				{"base-value", billing.FieldBaseValue, baseValue.String},
				{"method", billing.FieldPaymentMethod, func() string { return method }},
				{"down-payment", billing.FieldHasDownPayment, func() string { return strconv.FormatBool(hasDown) }},
				{"down-payment-value", billing.FieldDownPaymentValue, downPayment.String},
			}
			changed := false
			for _, s := range staged {
				if !flags.Changed(s.flag) {
					continue
				}
				if _, err := app.Billing.SetDraftField(ctx, c.ID, s.field, s.value()); err != nil {
					app.Billing.DiscardDraft(c.ID)
					return err
				}
				changed = true
			}
			if !changed {
				return printBilling(cmd, app, c.ID)
			}

			if dryRun {
				err := printBilling(cmd, app, c.ID)
				app.Billing.DiscardDraft(c.ID)
				return err
			}
			if err := app.Billing.CommitDraft(ctx, c.ID); err != nil {
				return err
			}
			return printBilling(cmd, app, c.ID)
		},
	}

	cmd.Flags().Var(newMoneyValue(&baseValue), "base-value", "total consulting fee")
	cmd.Flags().StringVar(&method, "method", "", "payment method (single|installment)")
	cmd.Flags().BoolVar(&hasDown, "down-payment", false, "split installments into down payment and remainder")
	cmd.Flags().Var(newMoneyValue(&downPayment), "down-payment-value", "down payment amount")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without saving")
	return cmd
}

func newBillingPartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "part <client> <1|2>",
		Short: "Toggle the paid flag of a consulting payment part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := strconv.Atoi(args[1])
			if err != nil || (part != 1 && part != 2) {
				return fmt.Errorf("invalid part %q: must be 1 or 2", args[1])
			}
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Billing.TogglePart(cmd.Context(), c.ID, part); err != nil {
				return err
			}
			return printBilling(cmd, app, c.ID)
		},
	}
}

func newBillingMonthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Edit the month list of a recurring tier",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <client> <tier>",
			Short: "Append a month priced like the last one",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, tier, err := clientAndTier(cmd, app, args)
				if err != nil {
					return err
				}
				if err := app.Billing.AddMonth(cmd.Context(), c.ID, tier); err != nil {
					return err
				}
				return printBilling(cmd, app, c.ID)
			},
		},
		&cobra.Command{
			Use:   "remove <client> <tier>",
			Short: "Drop the last month (a tier always keeps one)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, tier, err := clientAndTier(cmd, app, args)
				if err != nil {
					return err
				}
				removed, err := app.Billing.RemoveMonth(cmd.Context(), c.ID, tier)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(formatter.TierLabel(tier)+" already has a single month; nothing removed."))
					return nil
				}
				return printBilling(cmd, app, c.ID)
			},
		},
		&cobra.Command{
			Use:   "toggle <client> <tier> <month>",
			Short: "Flip a month between paid and unpaid",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, tier, err := clientAndTier(cmd, app, args)
				if err != nil {
					return err
				}
				idx, err := parseMonth(args[2])
				if err != nil {
					return err
				}
				if err := app.Billing.ToggleMonth(cmd.Context(), c.ID, tier, idx); err != nil {
					return err
				}
				return printBilling(cmd, app, c.ID)
			},
		},
		&cobra.Command{
			Use:   "set <client> <tier> <month> <amount>",
			Short: "Set the value of one month",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, tier, err := clientAndTier(cmd, app, args)
				if err != nil {
					return err
				}
				idx, err := parseMonth(args[2])
				if err != nil {
					return err
				}
				value, err := billing.ParseAmount(args[3])
				if err != nil {
					return err
				}
				if err := app.Billing.SetMonthValue(cmd.Context(), c.ID, tier, idx, value); err != nil {
					return err
				}
				return printBilling(cmd, app, c.ID)
			},
		},
	)

	return cmd
}

func clientAndTier(cmd *cobra.Command, app *App, args []string) (*domain.Client, domain.Tier, error) {
	tier, err := parseTier(args[1])
	if err != nil {
		return nil, "", err
	}
	c, err := resolveClient(cmd.Context(), app, args[0])
	if err != nil {
		return nil, "", err
	}
	return c, tier, nil
}

func newBillingPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <client> <basic|standard|premium>",
		Short: "Choose the mentorship plan used to price new months",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Billing.SetMentorshipPlan(cmd.Context(), c.ID, domain.PlanID(args[1])); err != nil {
				return err
			}
			return printBilling(cmd, app, c.ID)
		},
	}
}

func newBillingFollowUpValueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "followup-value <client> <amount>",
		Short: "Set the monthly value used to price new follow-up months",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := billing.ParseAmount(args[1])
			if err != nil {
				return err
			}
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Billing.SetFollowUpMonthlyValue(cmd.Context(), c.ID, value); err != nil {
				return err
			}
			return printBilling(cmd, app, c.ID)
		},
	}
}

func newBillingToolOnlyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tool-only <client> <tier>",
		Short: "Freeze or unfreeze a recurring tier in tool-only mode",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, tier, err := clientAndTier(cmd, app, args)
			if err != nil {
				return err
			}
			if err := app.Billing.ToggleToolOnly(cmd.Context(), c.ID, tier); err != nil {
				return err
			}
			return printBilling(cmd, app, c.ID)
		},
	}
}
