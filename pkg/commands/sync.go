package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/commands/options"
	syncrunner "tableflip.dev/liftlog/pkg/runner/sync"
	"tableflip.dev/liftlog/pkg/store"
)

func addSync(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "mirror the lift log to Charm Cloud",
		Long: `Push local lifts to your Charm Cloud key-value store and pull down lifts
logged on other machines. Runs at most every five minutes unless forced.`,
		Example: `
liftlog sync
liftlog sync --force
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Load(cfg)
			if err != nil {
				return err
			}
			s := syncrunner.Sync{
				Force:    force,
				StampDir: cfg.BasePath(),
				Service:  &app.Service{Persistence: p},
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Sync even inside the throttle window.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
