package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/liftlog/pkg/runner/edit"
	"tableflip.dev/liftlog/pkg/store"
)

func addEdit(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "edit [lift]",
		Short: "edit a lift in the full-screen editor",
		Long: `Open the interactive editor. With no argument a fresh lift is started;
pass an id, a date, or 'today' to resume one.`,
		Example: `
liftlog edit
liftlog edit today
liftlog edit 2024-03-01
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := edit.Edit{
				Lift:        strings.Join(args, " "),
				Persistence: p,
			}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
