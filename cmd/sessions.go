package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/recast/internal/discover"
)

var sessionsAll bool

var (
	sessionTimeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	sessionProjectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	sessionDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List discovered session transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := discover.Root(GetConfig().SessionDir)
		if err != nil {
			return err
		}
		sessions, err := discover.List(root)
		if err != nil {
			return err
		}
		if !sessionsAll && len(sessions) > 20 {
			sessions = sessions[:20]
		}
		discover.LoadTitles(sessions)

		for _, s := range sessions {
			title := s.Title
			if title == "" {
				title = sessionDimStyle.Render(s.ID)
			}
			fmt.Printf("%s  %s  %s\n",
				sessionTimeStyle.Render(s.Modified.Format("2006-01-02 15:04")),
				sessionProjectStyle.Render(s.Project),
				title)
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().BoolVar(&sessionsAll, "all", false, "list every session, not just the 20 newest")
	rootCmd.AddCommand(sessionsCmd)
}
