package delete

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/liftlog/pkg/app"
)

// Delete removes a lift by id or date.
type Delete struct {
	Lift string

	Service *app.Service
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no persistence")
	}
	if n.Lift == "" {
		return errors.New("a lift id or date is required")
	}
	if err := n.Service.Delete(ctx, n.Lift); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", n.Lift)
	return nil
}
