package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/livefir/imovel/views"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func viewsCmd(g *globals) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "views",
		Short: "List the deferred views",
		Long:  "List the deferred views. With --check every view is loaded once and its final state reported.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			registry := views.Default(views.WithLogger(log.Named("views")))

			var failed int
			if check {
				for _, name := range registry.Names() {
					if _, err := registry.Load(cmd.Context(), name); err != nil {
						failed++
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Views"))
			for _, e := range registry.Entries() {
				state := e.State.String()
				if e.State == views.Failed {
					state = failedStyle.Render(state)
				}
				fmt.Fprintf(out, "  %s  %s  %s  %s\n",
					nameStyle.Render(e.Name),
					displayName(e.Name),
					faintStyle.Render("module="+e.Module),
					state,
				)
			}

			manifests, err := registry.Modules()
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, titleStyle.Render("Modules"))
			for _, m := range manifests {
				fmt.Fprintf(out, "  %s  %s  %s  %s\n",
					nameStyle.Render(m.Name),
					"v"+m.Version,
					faintStyle.Render(string(m.Category)),
					m.Description,
				)
			}

			if failed > 0 {
				return fmt.Errorf("%d view(s) failed to load", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "load every view and report failures")
	return cmd
}

var titleCaser = cases.Title(language.BrazilianPortuguese)

// displayName turns "charts-section" into "Charts Section"
func displayName(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "-", " "))
}
