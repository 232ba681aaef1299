package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"kitchenlog/internal/service"
)

type RecentCmd struct {
	Limit int `help:"Number of rows to show." default:"8"`
	FilterFlags `embed:""`
}

func (c *RecentCmd) Run(ctx *Context) error {
	if c.Limit < 1 {
		c.Limit = service.DefaultRecentLimit
	}
	rows, err := ctx.Services.Recent(context.Background(), c.Limit, c.Filter())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(ctx.Out, "No cooks recorded")
		return nil
	}
	tw := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FOOD\tSTART\tEND\tMIN\tTEMP\tSTAFF\tTRAYS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s %s\t%s %s\t%s\t%s\t%s\t%s\n",
			r.Food, r.StartDate, r.StartTime, r.EndDate, r.EndTime, r.Duration, r.Temp, r.Staff, r.Trays)
	}
	return tw.Flush()
}
