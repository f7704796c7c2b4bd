package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Browse the tag hierarchy interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := c.loadDefault()
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewExploreModel(eng), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
