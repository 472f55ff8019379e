package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

const schemaFormatFlag = "format"

func schemaCmd() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the fields expected by the prediction endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  schemaFormatFlag,
				Usage: "Output format [yaml, json]",
				Value: formatYAML,
			},
		},
		Action: cmdSchema,
	}
}

func healthCmd() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the service is alive",
		Action: cmdHealth,
	}
}

func cmdSchema(ctx context.Context, cmd *cli.Command) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := withTimeout(ctx, cmd)
	defer cancel()

	schema, err := c.Schema(ctx)
	if err != nil {
		return fmt.Errorf("fetching schema: %w", err)
	}
	return encode(cmd.Root().Writer, cmd.String(schemaFormatFlag), schema)
}

func cmdHealth(ctx context.Context, cmd *cli.Command) error {
	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := withTimeout(ctx, cmd)
	defer cancel()

	status, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, status)
	return err
}
