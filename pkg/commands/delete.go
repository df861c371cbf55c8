package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/commands/options"
	del "tableflip.dev/liftlog/pkg/runner/delete"
	"tableflip.dev/liftlog/pkg/store"
)

func addDelete(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "delete <lift>",
		Short: "delete a lift",
		Example: `
liftlog delete 2024-03-01
liftlog delete 1709312400000
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := del.Delete{
				Lift:    strings.Join(args, " "),
				Service: &app.Service{Persistence: p},
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
