package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/commands/options"
	"tableflip.dev/liftlog/pkg/runner/add"
	"tableflip.dev/liftlog/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	lo := &options.LiftOptions{}
	oo := &options.OutputOptions{}
	var date, movement, weight, reps string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "add a lift or log a set",
		Long: `Add a new lift with a title, or log one set of a movement.

With --movement the set lands on the targeted lift (today's by default,
created if needed).`,
		Example: `
liftlog add "Push Day"
liftlog add "Leg Day" --date 2024-03-05
liftlog add --movement "Bench Press" --weight 135 --reps 5
liftlog add --lift 2024-03-01 --movement Squat --weight 225 --reps 3
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && strings.TrimSpace(movement) == "" {
				return errors.New("a title or --movement is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := add.Add{
				ShowID:   io.ShowID,
				Title:    strings.Join(args, " "),
				Date:     date,
				Lift:     lo.Lift,
				Movement: movement,
				Weight:   weight,
				Reps:     reps,
				Service:  &app.Service{Persistence: p},
			}
			return oo.HandleError(s.Do(context.Background()))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date for the new lift (YYYY-MM-DD); defaults to today.")
	cmd.Flags().StringVarP(&movement, "movement", "m", "", "Movement to log a set under.")
	cmd.Flags().StringVarP(&weight, "weight", "w", "", "Weight for the logged set.")
	cmd.Flags().StringVarP(&reps, "reps", "r", "", "Reps for the logged set.")
	options.AddLiftArgs(cmd, lo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
