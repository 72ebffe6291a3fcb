// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/config"
	"github.com/recipekit/recipekit/internal/lightning"
	"github.com/recipekit/recipekit/pkg/recipe"
)

func newInfoCommand(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe the recipe",
		Long: `Describe the recipe: its versions, variants, dependencies and patches.

With --cue the recipe source is printed as-is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return fail(cmd, app, err)
			}
			if raw {
				src, err := recipeSource(s.recipe)
				if err != nil {
					return fail(cmd, app, err)
				}
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}

			out, err := renderMarkdown(recipeMarkdown(s.recipe), s.cfg.UI.ColorScheme)
			if err != nil {
				return fail(cmd, app, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "cue", false, "print the recipe source")
	return cmd
}

func recipeSource(r *recipe.Recipe) ([]byte, error) {
	if r.FilePath == "" {
		return lightning.Descriptor(), nil
	}
	return os.ReadFile(r.FilePath)
}

// renderMarkdown renders md for the terminal in the configured color scheme.
func renderMarkdown(md string, scheme config.ColorScheme) (string, error) {
	opt := glamour.WithAutoStyle()
	if scheme == config.ColorSchemeDark || scheme == config.ColorSchemeLight {
		opt = glamour.WithStandardStyle(string(scheme))
	}
	renderer, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

// recipeMarkdown describes r as a Markdown document.
func recipeMarkdown(r *recipe.Recipe) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Name)
	for _, field := range []struct{ label, value string }{
		{"Homepage", r.Homepage},
		{"Source", r.URL},
		{"Git", r.Git},
		{"Extends", r.Extends},
		{"Maintainers", strings.Join(r.Maintainers, ", ")},
	} {
		if field.value != "" {
			fmt.Fprintf(&sb, "- **%s:** %s\n", field.label, field.value)
		}
	}

	preferred := r.PreferredVersion().ID
	sb.WriteString("\n## Versions\n\n| Version | Source | Notes |\n|---|---|---|\n")
	for _, v := range r.Versions {
		source := "sha256 `" + short(v.SHA256) + "`"
		if v.IsBranch() {
			source = "branch `" + v.Branch + "`"
		}
		var notes []string
		if v.ID == preferred {
			notes = append(notes, "preferred")
		}
		if v.Deprecated {
			notes = append(notes, "deprecated")
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", v.ID, source, strings.Join(notes, ", "))
	}

	if len(r.Variants) > 0 {
		sb.WriteString("\n## Variants\n\n| Variant | Default | Values | Description |\n|---|---|---|---|\n")
		for _, v := range r.Variants {
			values := "true, false"
			if !v.IsBool() {
				values = strings.Join(v.Values, ", ")
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", v.Name, v.DefaultValue(), values, v.Description)
		}
	}

	if len(r.Dependencies) > 0 {
		sb.WriteString("\n## Dependencies\n\n| Package | Constraint | Types | When |\n|---|---|---|---|\n")
		for _, d := range r.Dependencies {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", d.Name, orAny(d.Constraint), d.TypeString(), orAlways(d.When))
		}
	}

	if len(r.Patches) > 0 {
		sb.WriteString("\n## Patches\n\n| File | When | SHA256 |\n|---|---|---|\n")
		for _, p := range r.Patches {
			fmt.Fprintf(&sb, "| %s | %s | `%s` |\n", p.File, orAlways(p.When), short(p.SHA256))
		}
	}

	return sb.String()
}

func short(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return "`" + s + "`"
}

func orAlways(s string) string {
	if s == "" {
		return "always"
	}
	return "`" + s + "`"
}
