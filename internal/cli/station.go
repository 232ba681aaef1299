package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"kitchenlog/internal/models"
)

// StationCmd runs an interactive station on the terminal.
type StationCmd struct {
	Staff string `help:"Select a staff member before the prompt opens."`
}

const stationHelp = `Commands:
  staff NAME         select the staff member
  new FOOD           add a cook
  start N | end N    start or end cook N
  temp N VALUE       set core temperature (°C)
  trays N VALUE      set tray count
  save N             save cook N to the log
  cancel N           drop cook N without saving
  list               show active cooks
  recent             show the last saved cooks
  help | quit`

var errQuit = errors.New("quit")

func (c *StationCmd) Run(ctx *Context) error {
	if c.Staff != "" {
		if err := ctx.exec("staff " + c.Staff); err != nil {
			return err
		}
	}
	fmt.Fprintln(ctx.Out, "Deep fry station. Type 'help' for commands.")

	sc := bufio.NewScanner(ctx.In)
	for {
		fmt.Fprint(ctx.Out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(ctx.Out)
			return sc.Err()
		}
		err := ctx.exec(sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(ctx.Out, "error: %v\n", err)
		}
	}
}

func (ctx *Context) exec(line string) error {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	st := ctx.Services.Station

	switch strings.ToLower(verb) {
	case "":
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(ctx.Out, stationHelp)
	case "staff":
		name, err := st.SetStaff(rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "Staff: %s\n", name)
	case "new":
		v, err := st.Create(rest)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "Added #%d %s\n", len(st.Active()), v.Food)
	case "start", "end":
		id, _, err := ctx.pick(rest)
		if err != nil {
			return err
		}
		op := st.Start
		if verb == "end" {
			op = st.End
		}
		v, err := op(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "%s: %s\n", v.Food, v.Display)
	case "temp", "trays":
		id, value, err := ctx.pick(rest)
		if err != nil {
			return err
		}
		op := st.SetTemp
		if verb == "trays" {
			op = st.SetTrays
		}
		if _, err := op(id, value); err != nil {
			return err
		}
	case "save":
		id, _, err := ctx.pick(rest)
		if err != nil {
			return err
		}
		row, err := st.Save(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "Saved %s (%s min, %s°C, %s trays)\n", row.Food, row.Duration, row.Temp, row.Trays)
	case "cancel":
		id, _, err := ctx.pick(rest)
		if err != nil {
			return err
		}
		if err := st.Cancel(id); err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, "Cancelled")
	case "list", "ls":
		ctx.list(st.Active())
	case "recent":
		return (&RecentCmd{Limit: 8}).Run(ctx)
	default:
		return fmt.Errorf("unknown command %q, type 'help'", verb)
	}
	return nil
}

// pick resolves "N [value]" where N is the 1-based position from 'list'.
func (ctx *Context) pick(args string) (int64, string, error) {
	n, value, _ := strings.Cut(args, " ")
	pos, err := strconv.Atoi(n)
	active := ctx.Services.Active()
	if err != nil || pos < 1 || pos > len(active) {
		return 0, "", fmt.Errorf("no cook #%s", n)
	}
	return active[pos-1].ID, strings.TrimSpace(value), nil
}

func (ctx *Context) list(cooks []models.CookView) {
	if len(cooks) == 0 {
		fmt.Fprintln(ctx.Out, "No active cooks")
		return
	}
	tw := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFOOD\tTIMER\tTEMP\tTRAYS")
	for i, c := range cooks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, c.Food, c.Display, c.Temp, c.Trays)
	}
	_ = tw.Flush()
}
