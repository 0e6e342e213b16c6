// Package cli is the blueprint command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"blueprint/config"
	"blueprint/export"
	"blueprint/logging"
	"blueprint/palette"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

func statusIcon(ok bool) string {
	if ok {
		return good.Sprint("✓")
	}
	return bad.Sprint("✗")
}

type configKey struct{}

// configFrom returns the configuration loaded by the root command.
func configFrom(cmd *cobra.Command) *config.Loaded {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Loaded); ok {
		return cfg
	}
	return &config.Loaded{Config: &config.Config{}}
}

// NewRootCmd builds the command tree. Running it without a subcommand opens
// the editor.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "blueprint",
		Short: "Terminal node-graph editor",
		Long: `blueprint edits node graphs in the terminal: nodes with typed input and
output pins, links dragged between them, context menus and a live info panel.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
		RunE:          runEdit,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("blueprint {{ .Version }}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	pf.String("palette", "", "node palette file (.yaml, .yml, .json, .toml)")
	pf.Bool("watch", true, "reload the palette file when it changes")
	pf.Bool("ascii", false, "draw with ASCII line glyphs")
	pf.Bool("show-ordinals", false, "show node display names in headers")
	pf.Int("fps", 0, "editor frame rate")
	pf.Float64("panel-ratio", 0, "share of the screen used by the info panel")
	pf.Float64("touch-duration", 0, "seconds a touched node stays highlighted")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (console|json)")
	pf.String("log-file", "", "log file; the editor discards logs without one")
	pf.StringP("format", "f", "", "export format (mermaid|dot|d2)")
	pf.StringP("output", "o", "", "export file, - for stdout")

	_ = root.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, f := range export.GetAvailableFormats() {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	addEditFlags(root)
	root.AddCommand(
		newEditCmd(),
		newPaletteCmd(),
		newExportCmd(),
		newCheckCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// batchLogger logs to the configured file, or to stderr when none is set.
func batchLogger(cfg *config.Loaded) (*zap.Logger, error) {
	path := cfg.Log.File
	if path == "" {
		path = logging.Stderr
	}
	return logging.New(cfg.Log.Level, cfg.Log.Format, path)
}

// loadPalette returns the built-in palette overlaid with the configured file.
func loadPalette(cfg *config.Loaded) (*palette.Palette, error) {
	pal := palette.Builtin()
	if cfg.Palette.Path == "" {
		return pal, nil
	}
	file, err := palette.Load(cfg.Palette.Path)
	if err != nil {
		return nil, err
	}
	return pal.Merge(file), nil
}

func newExporter(cfg *config.Loaded) (export.Exporter, error) {
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}
	return export.NewExporter(format)
}
