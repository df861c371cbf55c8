package options

import (
	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of the lift.")
}

// LiftOptions selects a lift by id or date.
type LiftOptions struct {
	Lift string
}

func AddLiftArgs(cmd *cobra.Command, o *LiftOptions) {
	cmd.Flags().StringVarP(&o.Lift, "lift", "l", "",
		"Target lift by id or date (YYYY-MM-DD); 'today' picks the current date.")
}
