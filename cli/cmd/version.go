package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/formwire/types"
)

// VersionCommand returns the version command.
// All components (CLI, manifest frame contract, library) share a single
// version.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "formwire %s (commit: %s)\n", types.Version, commit)
			return nil
		},
	}
}
