// Package edit launches the full-screen lift editor.
package edit

import (
	"context"
	"errors"
	"time"

	tuiapp "tableflip.dev/liftlog/pkg/tui/app"

	"tableflip.dev/liftlog/pkg/store"
)

const layoutISO = "2006-01-02"

// Edit opens the Bubble Tea editor on a lift. An empty Lift starts a fresh
// one; "today" resolves to the current date.
type Edit struct {
	Lift string

	Persistence store.Persistence
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not edit, no persistence")
	}
	id := n.Lift
	if id == "today" {
		id = time.Now().Format(layoutISO)
	}
	return tuiapp.Run(ctx, n.Persistence, id)
}
