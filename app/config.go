package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/staffpanel/staffpanel/internal/audit"
	"github.com/staffpanel/staffpanel/internal/config"
	"github.com/staffpanel/staffpanel/internal/ladder"
)

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the config as JSON instead of TOML")

	rootCmd.AddCommand(configCmd)
}

var (
	jsonOutput bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Validate and print the configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err //nolint:wrapcheck
			}

			table := ladder.NewTable(c.Roles)
			if err = table.Validate(); err != nil {
				return err //nolint:wrapcheck
			}

			c = config.Redacted(c)

			var out string
			if jsonOutput {
				out, err = config.DumpConfigJSON(&c)
			} else {
				out, err = config.DumpConfig(&c)
			}

			if err != nil {
				return err //nolint:wrapcheck
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, out)
			_, _ = fmt.Fprintln(w, categoryTable(table))

			return nil
		},
	}
)

// categoryTable renders the resolved role mapping of every category.
func categoryTable(t *ladder.Table) string {
	var b strings.Builder

	b.WriteString("# categories\n")

	for _, c := range ladder.Categories() {
		fmt.Fprintf(&b, "%-12s %-7s %-14s", c, c.Kind(), audit.DisplayName(c))

		switch c.Kind() {
		case ladder.KindLadder:
			fmt.Fprintf(&b, " tiers=%s", strings.Join(t.Ladder(c), ","))
		case ladder.KindMarker:
			if m, ok := t.Marker(c); ok {
				fmt.Fprintf(&b, " role=%s reapply=%t", m.Role, m.Reapply)
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}
