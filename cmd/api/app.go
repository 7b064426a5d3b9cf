package main

import (
	"errors"

	"github.com/urfave/cli/v2"
)

// Runners lets tests swap what each command does.
type Runners struct {
	Serve   func(c *cli.Context) error
	Migrate func(c *cli.Context) error
}

func buildApp(r Runners) *cli.App {
	return &cli.App{
		Name:  "topic-tasks",
		Usage: "turn learning topics into task checklists",
		Action: func(c *cli.Context) error {
			return run(r.Serve, c)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP API",
				Action: func(c *cli.Context) error {
					return run(r.Serve, c)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update the tasks table and exit",
				Action: func(c *cli.Context) error {
					return run(r.Migrate, c)
				},
			},
		},
	}
}

func run(fn func(*cli.Context) error, c *cli.Context) error {
	if fn == nil {
		return errors.New("command runner is not configured")
	}
	return fn(c)
}
