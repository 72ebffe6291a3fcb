// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/recipekit/recipekit/internal/config"
	"github.com/recipekit/recipekit/internal/issue"
)

// newConfigCommand creates the `recipekit config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage recipekit configuration",
		Long: `Manage recipekit configuration.

Configuration is stored in:
  - Linux: ~/.config/recipekit/config.cue
  - macOS: ~/Library/Application Support/recipekit/config.cue
  - Windows: %APPDATA%\recipekit\config.cue

Every key can be overridden from the environment with the RECIPEKIT_
prefix, e.g. RECIPEKIT_JOBS=8 or RECIPEKIT_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, app, initConfig(cmd.OutOrStdout()))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, app, showConfigPath(cmd.OutOrStdout()))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.loadConfig(cmd.Context())
			if err != nil {
				return fail(cmd, app, err)
			}

			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, stdout, stderr io.Writer) error {
	cfg, cfgPath, err := app.loadConfig(ctx)
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(stderr, rendered)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	line := func(indent, key, value string) {
		fmt.Fprintf(stdout, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(value))
	}

	fmt.Fprintln(stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(stdout)
	if cfgPath != "" {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(stdout)

	line("", "python", cfg.Python)
	line("", "cmake", cfg.CMake)
	line("", "generator", string(cfg.Generator))
	line("", "build_dir", cfg.BuildDir)
	jobs := strconv.Itoa(int(cfg.Jobs))
	if cfg.Jobs == 0 {
		jobs += " (tool default)"
	}
	line("", "jobs", jobs)
	line("", "run_tests", strconv.FormatBool(cfg.RunTests))

	stageRoot, err := cfg.ResolveStageRoot()
	if err == nil {
		line("", "stage_root", stageRoot)
	}
	patchDir, err := cfg.ResolvePatchDir()
	if err == nil {
		line("", "patch_dir", patchDir)
	}
	if cfg.MetricsFile != "" {
		line("", "metrics_file", cfg.MetricsFile)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("dependencies"))
	if len(cfg.Dependencies) == 0 {
		fmt.Fprintf(stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.Dependencies)) {
		dep := cfg.Dependencies[name]
		value := dep.Prefix
		if dep.Version != "" {
			value += " @" + dep.Version
		}
		line("  ", name, value)
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("ui"))
	line("  ", "verbose", strconv.FormatBool(cfg.UI.Verbose))
	line("  ", "color_scheme", string(cfg.UI.ColorScheme))
	fmt.Fprintf(stdout, "%s:\n", keyStyle.Render("log"))
	line("  ", "level", string(cfg.Log.Level))

	return nil
}

func initConfig(w io.Writer) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(w, "%s Configuration already exists at %s\n", warningIcon, path)
		return nil
	}

	fmt.Fprintf(w, "%s Created default configuration at %s\n", successIcon, path)
	return nil
}

func showConfigPath(w io.Writer) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	fmt.Fprintf(w, "Patch directory: %s\n", filepath.Join(cfgDir, config.PatchDirName))

	if cacheDir, err := config.CacheDir(); err == nil {
		fmt.Fprintf(w, "Stage directory: %s\n", filepath.Join(cacheDir, "stage"))
	}
	return nil
}
