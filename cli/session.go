package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/domain"
	"storefront/tui"
)

func themeName(dark bool) string {
	if dark {
		return domain.ThemeDark
	}
	return domain.ThemeLight
}

func init() {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the color theme",
	}
	rootCmd.AddCommand(themeCmd)

	themeCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), themeName(appState.DarkMode()))
			return nil
		},
	})

	themeCmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between dark and light",
		RunE: func(cmd *cobra.Command, args []string) error {
			appState.ToggleDarkMode()
			fmt.Fprintln(cmd.OutOrStdout(), themeName(appState.DarkMode()))
			return nil
		},
	})

	// browse
	rootCmd.AddCommand(&cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), tui.Config{
				Store:    appState,
				Fetcher:  fetcher,
				Insight:  insights,
				Currency: currency,
			}, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})
}
