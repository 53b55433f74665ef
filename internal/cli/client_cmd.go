package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/coachdesk/internal/cli/formatter"
	"github.com/alexanderramin/coachdesk/internal/domain"
	"github.com/alexanderramin/coachdesk/internal/importer"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newClientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "client",
		Aliases: []string{"clients"},
		Short:   "Manage coaching clients",
	}

	cmd.AddCommand(
		newClientAddCmd(app),
		newClientListCmd(app),
		newClientShowCmd(app),
		newClientUpdateCmd(app),
		newClientStatusCmd(app),
		newClientRemoveCmd(app),
		newClientImportCmd(app),
	)

	return cmd
}

// resolveClient accepts a full id, an id prefix, or an exact name.
func resolveClient(ctx context.Context, app *App, ref string) (*domain.Client, error) {
	return app.Clients.Resolve(ctx, ref)
}

func newClientAddCmd(app *App) *cobra.Command {
	var in clientInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new client",
		Long:  "Register a new client. Without --name on a terminal, an intake form is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.name == "" && app.interactive() {
				if err := intakeForm(&in).Run(); err != nil {
					return err
				}
			}
			if strings.TrimSpace(in.name) == "" {
				return fmt.Errorf("--name is required")
			}

			c := &domain.Client{
				Name:   in.name,
				Email:  in.email,
				Phone:  in.phone,
				Role:   domain.Role(in.role),
				Status: domain.ClientStatus(in.status),
			}
			if err := app.Clients.Create(cmd.Context(), c); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added client %s %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(c.Name), formatter.TruncID(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "client full name")
	cmd.Flags().StringVar(&in.email, "email", "", "contact email")
	cmd.Flags().StringVar(&in.phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&in.role, "role", "", "role (admin|secretary|regular)")
	cmd.Flags().StringVar(&in.status, "status", "", "initial lifecycle status")

	return cmd
}

func newClientListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.ClientStatus
			if status != "" {
				s, err := parseStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}

			clients, err := app.Clients.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			saves := make(map[string]domain.SaveStatus, len(clients))
			for _, c := range clients {
				saves[c.ID] = app.Clients.SaveStatus(c.ID)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClientList(clients, saves))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only list clients in this status")
	return cmd
}

func newClientShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <client>",
		Short: "Show a client's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatClientDetail(c, app.Clients.SaveStatus(c.ID)))
			return nil
		},
	}
}

func newClientUpdateCmd(app *App) *cobra.Command {
	var in clientInput

	cmd := &cobra.Command{
		Use:   "update <client>",
		Short: "Edit a client's contact details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				c.Name = in.name
			}
			if flags.Changed("email") {
				c.Email = in.email
			}
			if flags.Changed("phone") {
				c.Phone = in.phone
			}
			if flags.Changed("role") {
				c.Role = domain.Role(in.role)
			}
			if err := app.Clients.UpdateProfile(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.Bold(c.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "client full name")
	cmd.Flags().StringVar(&in.email, "email", "", "contact email")
	cmd.Flags().StringVar(&in.phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&in.role, "role", "", "role (admin|secretary|regular)")
	return cmd
}

func newClientStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <client> <status>",
		Short: "Move a client through the lifecycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Clients.SetStatus(cmd.Context(), c.ID, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", formatter.Bold(c.Name), formatter.StatusPill(status))
			return nil
		},
	}
}

func newClientRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <client>",
		Aliases: []string{"rm"},
		Short:   "Delete a client with all checklist and billing data",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveClient(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if !force {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %s without --force", c.Name)
				}
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %s and all their data?", c.Name), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}
			if err := app.Clients.Delete(cmd.Context(), c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(c.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

// clientInput collects intake fields from flags or the intake form.
type clientInput struct {
	name   string
	email  string
	phone  string
	role   string
	status string
}

func intakeForm(in *clientInput) *huh.Form {
	if in.role == "" {
		in.role = string(domain.RoleRegular)
	}
	if in.status == "" {
		in.status = string(domain.StatusPreRegistration)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&in.name).
				Validate(validateRequired("name")),
			huh.NewInput().
				Title("Email (optional)").
				Placeholder("client@example.com").
				Value(&in.email).
				Validate(validateOptionalEmail),
			huh.NewInput().
				Title("Phone (optional)").
				Value(&in.phone),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Pre-registration", string(domain.StatusPreRegistration)),
					huh.NewOption("Active consulting", string(domain.StatusActiveConsulting)),
					huh.NewOption("Converted to mentorship", string(domain.StatusConvertedMentorship)),
					huh.NewOption("In follow-up", string(domain.StatusInFollowUp)),
				).
				Value(&in.status),
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("Regular", string(domain.RoleRegular)),
					huh.NewOption("Secretary", string(domain.RoleSecretary)),
					huh.NewOption("Admin", string(domain.RoleAdmin)),
				).
				Value(&in.role),
		),
	).WithTheme(coachdeskHuhTheme()).WithShowHelp(false)
}

func newClientImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Register clients in bulk from a JSON roster",
		Long: `Register clients in bulk from a JSON roster. The whole file is validated
before anything is written; every problem found is listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadImportSchema(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(out, "  %s %s\n", formatter.StyleRed.Render("✖"), e)
				}
				return fmt.Errorf("import file has %d validation error(s)", len(errs))
			}

			clients := importer.Convert(schema)
			if dryRun {
				fmt.Fprintf(out, "%d client(s) valid; nothing written.\n", len(clients))
				return nil
			}

			for i, c := range clients {
				if err := app.Clients.Create(cmd.Context(), c); err != nil {
					return fmt.Errorf("importing %s (%d of %d imported): %w", c.Name, i, len(clients), err)
				}
				fmt.Fprintf(out, "%s %s %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(c.Name), formatter.TruncID(c.ID))
			}
			fmt.Fprintf(out, "Imported %d client(s).\n", len(clients))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without writing")
	return cmd
}
