package main

import (
	"fmt"
	"os"

	"store-rating/cmd/storetui/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func main() {
	var baseURL string
	cmd := &cobra.Command{
		Use:          "storetui",
		Short:        "Terminal client for browsing and rating stores",
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			_, err := tea.NewProgram(ui.NewRootModel(baseURL), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&baseURL, "api", envOr("STORE_RATING_API", "http://127.0.0.1:5000"), "base URL of the store rating API")
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
