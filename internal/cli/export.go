package cli

import (
	"context"
	"fmt"
	"os"

	"kitchenlog/internal/service"
)

type ExportCmd struct {
	Output string `short:"o" help:"File to write." default:"deep_fry_cooking_log.csv" type:"path"`
	Format string `help:"Export format." enum:"csv,pdf" default:"csv"`
	Raw    bool   `help:"Copy the durable log verbatim instead of rebuilding it."`
	FilterFlags `embed:""`
}

func (c *ExportCmd) Run(ctx *Context) error {
	var (
		art service.Artifact
		err error
	)
	if c.Raw {
		art, err = ctx.Services.RawLog(context.Background())
	} else {
		art, err = ctx.Services.Artifact(context.Background(), c.Filter(), service.Format(c.Format))
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Output, art.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	fmt.Fprintf(ctx.Out, "Wrote %d bytes to %s\n", len(art.Data), c.Output)
	return nil
}
