package get

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/printers"
	"tableflip.dev/liftlog/pkg/timeutil"
)

// Get prints one lift, the whole log, or a recent window of it.
type Get struct {
	ShowID bool

	// Lift selects a single lift by id or date; "today" resolves to the
	// current date.
	Lift string

	// Since limits the listing to a lookback window such as "1w" or "2w3d".
	Since string

	// Movements prints the movement vocabulary instead of lifts.
	Movements bool

	Service *app.Service
}

const layoutISO = "2006-01-02"

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no persistence")
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")

	if n.Movements {
		names, err := n.Service.MovementNames(ctx)
		if err != nil {
			return err
		}
		pp.Movements(names...)
		return nil
	}

	if n.Lift != "" {
		id := n.Lift
		if id == "today" {
			id = time.Now().Format(layoutISO)
		}
		l, err := n.Service.Get(ctx, id)
		if err != nil {
			return err
		}
		pp.Lift(l)
		return nil
	}

	if n.Since != "" {
		window, label, err := timeutil.ParseWindow(n.Since)
		if err != nil {
			return err
		}
		lifts, err := n.Service.LiftsSince(ctx, time.Now().Add(-window))
		if err != nil {
			return err
		}
		fmt.Printf("last %s\n", label)
		pp.Summary(lifts...)
		return nil
	}

	lifts, err := n.Service.Lifts(ctx)
	if err != nil {
		return err
	}
	pp.Summary(lifts...)
	return nil
}
