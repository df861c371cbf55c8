package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "liftlog",
		Short: base.Wrap80("Workout logging on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addEdit(topLevel)
	addGet(topLevel)
	addAdd(topLevel)
	addDelete(topLevel)
	addSync(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
}
