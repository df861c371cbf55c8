package add

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"time"

	"tableflip.dev/liftlog/pkg/app"
	"tableflip.dev/liftlog/pkg/printers"
)

const layoutISO = "2006-01-02"

func today() string {
	return time.Now().Format(layoutISO)
}

// Add creates a lift, or logs a set when a movement is given. With no
// target lift the set lands on today's lift, creating it as needed.
type Add struct {
	ShowID bool

	Title string
	Date  string
	Lift  string

	Movement string
	Weight   string
	Reps     string

	Service *app.Service
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no persistence")
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")

	if strings.TrimSpace(n.Movement) == "" {
		l, err := n.Service.Create(ctx, n.Title, n.Date)
		if err != nil {
			return err
		}
		pp.Lift(l)
		return nil
	}

	target := strings.TrimSpace(n.Lift)
	if target == "" {
		target = today()
	}

	l, err := n.Service.Get(ctx, target)
	if errors.Is(err, app.ErrNotFound) && n.Lift == "" {
		title := n.Title
		if strings.TrimSpace(title) == "" {
			title = n.Movement
		}
		l, err = n.Service.Create(ctx, title, target)
	}
	if err != nil {
		return err
	}

	l, err = n.Service.LogSet(ctx, l.ID, n.Movement, n.Weight, n.Reps)
	if err != nil {
		return err
	}
	pp.Lift(l)
	return nil
}
