package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newNodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "node",
		Short: "Serve as a build worker node (started by a controller)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.ServeNode(cmd.Context())
		},
	}
}
