package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/liftlog/pkg/lift"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("1709312400000  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

// Lift prints one lift: a dated title line followed by each movement and
// its sets.
func (pp *PrettyPrint) Lift(l lift.Lift) {
	t := color.New(color.Bold, color.Underline)
	d := color.New(color.Faint)

	if pp.ShowID {
		y := color.New(color.FgHiYellow, color.Italic, color.Faint)
		_, _ = y.Print(l.ID)
		_, _ = y.Print(strings.Repeat(" ", max(1, len(spacing)-len(l.ID))))
	}
	_, _ = t.Print(l.Title)
	_, _ = d.Printf("  %s\n", l.Date)

	if len(l.Movements) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" no movements\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, m := range l.Movements {
		tbl.AddRow(m.Name, formatSets(m.Sets))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	fmt.Println("")
}

// Summary prints a one-line-per-lift listing, most useful for `get` over a
// time window.
func (pp *PrettyPrint) Summary(lifts ...lift.Lift) {
	if len(lifts) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, l := range lifts {
		names := make([]string, 0, len(l.Movements))
		for _, m := range l.Movements {
			names = append(names, m.Name)
		}
		if pp.ShowID {
			tbl.AddRow(l.ID, l.Date, l.Title, strings.Join(names, ", "))
		} else {
			tbl.AddRow(l.Date, l.Title, strings.Join(names, ", "))
		}
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Movements prints the known movement vocabulary.
func (pp *PrettyPrint) Movements(names ...string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println("Movements")
	for _, n := range names {
		fmt.Printf("  %s\n", n)
	}
}

func formatSets(sets []lift.Set) string {
	if len(sets) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		parts = append(parts, fmt.Sprintf("%sx%s", s.Weight, s.Reps))
	}
	return strings.Join(parts, "  ")
}
