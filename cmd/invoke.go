package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lambda-feedback/appshim/adapter"
	"github.com/lambda-feedback/appshim/app"
)

var (
	invokeCmdDescription = `The invoke command handles a single raw invocation event and
prints the response as JSON. The event is read from the file
given by --event, or from stdin if no file is given.

The wrapped application is started and stopped exactly as
for the lambda and serve commands, which makes the command
useful to test a deployment locally.`
	invokeCmd = &cli.Command{
		Name:        "invoke",
		Usage:       "Handle a single event and print the response.",
		Description: invokeCmdDescription,
		Action:      invokeAction,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:     "event",
				Aliases:  []string{"e"},
				Usage:    "the file to read the event from. Defaults to stdin.",
				Category: "invoke",
			},
		},
	}
)

func invokeAction(ctx *cli.Context) error {
	data, err := readEvent(ctx)
	if err != nil {
		return err
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	var a *adapter.Adapter

	return app.Once(ctx.Context, func(runCtx context.Context) error {
		res := a.HandleEvent(runCtx, data)

		enc := json.NewEncoder(ctx.App.Writer)
		enc.SetIndent("", "  ")

		return enc.Encode(res)
	}, fx.Populate(&a))
}

func readEvent(ctx *cli.Context) ([]byte, error) {
	name := ctx.Path("event")
	if name == "" || name == "-" {
		return io.ReadAll(os.Stdin)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}

	return data, nil
}

func init() {
	rootApp.Commands = append(rootApp.Commands, invokeCmd)
}
