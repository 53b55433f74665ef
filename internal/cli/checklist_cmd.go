package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/checklist"
	"github.com/alexanderramin/coachdesk/internal/cli/formatter"
	"github.com/alexanderramin/coachdesk/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newChecklistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Work through a client's improvement checklist",
	}

	cmd.AddCommand(
		newChecklistShowCmd(app),
		newChecklistToggleCmd(app),
		newChecklistNoteCmd(app),
		newChecklistLimitsCmd(app),
		newChecklistNegotiationCmd(app),
		newChecklistPhaseCmd(app),
		newChecklistEditCmd(app),
	)

	return cmd
}

func printChecklist(cmd *cobra.Command, app *App, clientID string) error {
	v, err := app.Checklist.View(cmd.Context(), clientID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChecklist(v))
	return nil
}

func newChecklistShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <client>",
		Short: "Show the checklist phases the client can see",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			return printChecklist(cmd, app, c.ID)
		},
	}
}

func newChecklistToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <client> <step> [sub-item]",
		Short: "Check or uncheck a sub-item, or a step that has none",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := parseStep(args[1])
			if err != nil {
				return err
			}
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if len(args) == 3 {
				err = app.Checklist.ToggleSubItem(cmd.Context(), c.ID, step, domain.SubItemID(args[2]))
			} else {
				err = app.Checklist.ToggleStep(cmd.Context(), c.ID, step)
			}
			if err != nil {
				return err
			}
			return printChecklist(cmd, app, c.ID)
		},
	}
}

func newChecklistNoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "note <client> <step> <sub-item> <text...>",
		Short: "Record the free-text answer of a sub-item",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := parseStep(args[1])
			if err != nil {
				return err
			}
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[3:], " ")
			if err := app.Checklist.SetSubItemValue(cmd.Context(), c.ID, step, domain.SubItemID(args[2]), text); err != nil {
				return err
			}
			// The process exits right after, so the debounced write runs now.
			if err := app.Checklist.Flush(cmd.Context(), c.ID); err != nil {
				return err
			}
			return printChecklist(cmd, app, c.ID)
		},
	}
}

// nestedTarget finds the catalog sub-item holding a kind of nested list.
func nestedTarget(kind checklist.NestedKind) (domain.StepID, domain.SubItemID, error) {
	for _, step := range checklist.Steps() {
		for _, sub := range step.SubItems {
			if sub.Nested == kind {
				return step.ID, sub.ID, nil
			}
		}
	}
	return 0, "", checklist.ErrNotNestedList
}

func newChecklistLimitsCmd(app *App) *cobra.Command {
	var (
		limits map[string]string
		reset  bool
	)

	cmd := &cobra.Command{
		Use:   "limits <client>",
		Short: "Set monthly spending limits per expense category",
		Example: `  coachdesk checklist limits ana --limit Food=800 --limit Transport=300
  coachdesk checklist limits ana --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := resolveClient(ctx, app, args[0])
			if err != nil {
				return err
			}
			step, sub, err := nestedTarget(checklist.NestedExpenseLimits)
			if err != nil {
				return err
			}

			merged := map[string]string{}
			if !reset {
				for _, l := range c.Checklist.SubItem(step, sub).ExpenseLimits {
					merged[l.Category] = l.Limit
				}
			}
			for category, limit := range limits {
				if strings.TrimSpace(limit) == "" {
					delete(merged, category)
					continue
				}
				merged[category] = limit
			}

			out := make([]domain.ExpenseLimit, 0, len(merged))
			for category, limit := range merged {
				out = append(out, domain.ExpenseLimit{Category: category, Limit: limit})
			}
			sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })

			if err := app.Checklist.SetExpenseLimits(ctx, c.ID, step, sub, out); err != nil {
				return err
			}
			return printChecklist(cmd, app, c.ID)
		},
	}

	cmd.Flags().StringToStringVar(&limits, "limit", nil, "category=amount; an empty amount removes the category")
	cmd.Flags().BoolVar(&reset, "clear", false, "drop existing limits first")
	return cmd
}

func newChecklistNegotiationCmd(app *App) *cobra.Command {
	var (
		neg    domain.DebtNegotiation
		remove bool
	)

	cmd := &cobra.Command{
		Use:   "negotiation <client>",
		Short: "Add, update or remove a debt negotiation target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if neg.DebtID == "" {
				return fmt.Errorf("--debt is required")
			}
			c, err := resolveClient(ctx, app, args[0])
			if err != nil {
				return err
			}
			step, sub, err := nestedTarget(checklist.NestedDebtNegotiations)
			if err != nil {
				return err
			}

			var out []domain.DebtNegotiation
			found := false
			for _, n := range c.Checklist.SubItem(step, sub).Negotiations {
				if n.DebtID != neg.DebtID {
					out = append(out, n)
					continue
				}
				found = true
				if remove {
					continue
				}
				out = append(out, mergeNegotiation(n, neg, cmd))
			}
			if !found && !remove {
				out = append(out, neg)
			}

			if err := app.Checklist.SetNegotiations(ctx, c.ID, step, sub, out); err != nil {
				return err
			}
			return printChecklist(cmd, app, c.ID)
		},
	}

	cmd.Flags().StringVar(&neg.DebtID, "debt", "", "debt map entry id")
	cmd.Flags().StringVar(&neg.Creditor, "creditor", "", "creditor name")
	cmd.Flags().StringVar(&neg.Proposal, "proposal", "", "proposed terms")
	cmd.Flags().StringVar(&neg.Status, "status", "", "negotiation status")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the negotiation for --debt")
	return cmd
}

// mergeNegotiation overlays only the flags the operator passed.
func mergeNegotiation(cur, in domain.DebtNegotiation, cmd *cobra.Command) domain.DebtNegotiation {
	flags := cmd.Flags()
	if flags.Changed("creditor") {
		cur.Creditor = in.Creditor
	}
	if flags.Changed("proposal") {
		cur.Proposal = in.Proposal
	}
	if flags.Changed("status") {
		cur.Status = in.Status
	}
	return cur
}

func newChecklistPhaseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "phase <client> <locked|phase1|phase1_and_2>",
		Short: "Set which checklist phases the client can see",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			access, err := parseAccess(args[1])
			if err != nil {
				return err
			}
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Checklist.SetPhase(cmd.Context(), c.ID, access); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s checklist: %s\n", formatter.Bold(c.Name), formatter.AccessBadge(access))
			return nil
		},
	}
}

func newChecklistEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <client>",
		Short: "Open the interactive checklist editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("checklist edit needs an interactive terminal; use toggle and note instead")
			}
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			return runChecklistEditor(cmd.Context(), app, c.ID)
		},
	}
}

func runChecklistEditor(ctx context.Context, app *App, clientID string) error {
	m, err := newChecklistEditor(ctx, app.Checklist, clientID)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	return app.Checklist.Flush(ctx, clientID)
}
