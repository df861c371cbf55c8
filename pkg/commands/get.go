package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/commands/options"
	"tableflip.dev/liftlog/pkg/runner/get"
	"tableflip.dev/liftlog/pkg/store"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	var since string
	var movements bool

	cmd := &cobra.Command{
		Use:   "get [lift]",
		Short: "get lifts or the movement vocabulary",
		Long: `Get one lift by id or date, the whole log, or a recent window of it.

With no arguments every lift is listed, most recent first.`,
		Example: `
liftlog get
liftlog get today
liftlog get 2024-03-01
liftlog get --since 2w
liftlog get --movements
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:    io.ShowID,
				Lift:      strings.Join(args, " "),
				Since:     since,
				Movements: movements,
				Service:   &app.Service{Persistence: p},
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Limit to a lookback window such as 1w or 2w3d.")
	cmd.Flags().BoolVar(&movements, "movements", false, "List every movement name ever logged.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
