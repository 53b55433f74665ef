package cli

import (
	"github.com/alexanderramin/coachdesk/internal/service"
	"github.com/spf13/cobra"
)

// App holds the service interfaces CLI commands run against.
type App struct {
	Clients   service.ClientService
	Billing   service.BillingService
	Checklist service.ChecklistService

	// IsInteractive reports whether stdin is a terminal. Nil means never,
	// which keeps forms and the editor out of tests and pipelines.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "coachdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "coachdesk",
		Short:         "Back office for financial coaching: clients, checklist and billing",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(
		newClientCmd(app),
		newBillingCmd(app),
		newChecklistCmd(app),
	)

	return root
}
