package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"portfolio-cms/internal/app"
	"portfolio-cms/internal/rbac/presets"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Print the role registry and permission table",
	Long: `Loads ROLE_REGISTRY_FILE (or the built-in registry) and prints every member
with its view/edit/admin flags, followed by the role permission table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		predicates, err := presets.NewPredicates(cfg.Auth.RoleRegistryFile)
		if err != nil {
			return fmt.Errorf("failed to load role registry: %w", err)
		}
		return printRoleReport(cmd.OutOrStdout(), app.BuildRoleReport(predicates))
	},
}

func printRoleReport(out io.Writer, report *app.RoleReport) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tVIEW\tEDIT\tADMIN")
	for _, m := range report.Members {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%t\n",
			m.Member.Email, m.Member.DisplayName, m.Member.Role, m.CanView, m.CanEdit, m.IsAdmin)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)

	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tRESOURCE\tACTIONS")
	for _, g := range report.Grants {
		actions := make([]string, 0, len(g.Actions))
		for _, a := range g.Actions {
			actions = append(actions, string(a))
		}
		if len(actions) == 0 {
			actions = append(actions, "-")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", g.Role, g.Resource, strings.Join(actions, ","))
	}
	return w.Flush()
}
