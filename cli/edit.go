package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"blueprint/logging"
	"blueprint/palette"
	"blueprint/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("empty", false, "start with an empty canvas instead of the sample graph")
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the editor (default)",
		Long: `Open the interactive editor.

Mouse: drag nodes, drag from a pin to another pin to link them, right-click
for context menus. Keys: Del deletes the selection, f frames every node,
. frames the selection, arrows pan, s/r save and restore node state,
o toggles display names, x exports, q quits.`,
		Args: cobra.NoArgs,
		RunE: runEdit,
	}
	addEditFlags(cmd)
	return cmd
}

func runEdit(cmd *cobra.Command, _ []string) error {
	cfg := configFrom(cmd)
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pal, err := loadPalette(cfg)
	if err != nil {
		return err
	}
	exporter, err := newExporter(cfg)
	if err != nil {
		return err
	}
	empty, _ := cmd.Flags().GetBool("empty")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := terminal.Options{
		Palette:       pal,
		FPS:           cfg.FPS,
		PanelRatio:    cfg.PanelRatio,
		TouchDuration: cfg.Touch(),
		ShowOrdinals:  cfg.ShowOrdinals,
		ASCII:         cfg.ASCII,
		Demo:          !empty,
		Exporter:      exporter,
		ExportPath:    cfg.Export.Path,
		Logger:        log,
	}
	if cfg.Palette.Path != "" && cfg.Palette.Watch {
		updates, err := palette.Watch(ctx, cfg.Palette.Path, log)
		if err != nil {
			return err
		}
		opts.PaletteUpdates = overlay(ctx, palette.Builtin(), updates)
	}

	log.Info("editor starting",
		zap.String("config", cfg.File),
		zap.Int("types", pal.Len()),
		zap.Bool("demo", opts.Demo))
	return terminal.Run(ctx, opts)
}

// overlay merges every reloaded palette file over base.
func overlay(ctx context.Context, base *palette.Palette, in <-chan *palette.Palette) <-chan *palette.Palette {
	out := make(chan *palette.Palette, 1)
	go func() {
		defer close(out)
		for p := range in {
			select {
			case out <- base.Merge(p):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
