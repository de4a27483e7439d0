package main

import (
	"github.com/spf13/cobra"
)

func newPrefsCmd(a *app) *cobra.Command {
	var lang, theme string

	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change language and theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			p := st.LoadPreferences()
			changed := false
			if cmd.Flags().Changed("lang") {
				p.Lang, changed = lang, true
			}
			if cmd.Flags().Changed("theme") {
				p.Theme, changed = theme, true
			}
			if changed {
				if err := st.SavePreferences(p); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "ru, kk or en")
	cmd.Flags().StringVar(&theme, "theme", "", "dark or light")
	return cmd
}
