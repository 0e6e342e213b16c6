package cli

import (
	"fmt"
	"os"

	"blueprint/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// headlessSize is the screen the batch commands render on.
const (
	headlessWidth  = 160
	headlessHeight = 40
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the sample graph as Mermaid, Graphviz or D2",
		Long: `Build the sample graph from the palette and print it in the chosen
format. Output goes to stdout unless --output names a file.`,
		Example: `  blueprint export -f dot
  blueprint export -f mermaid -o graph.mmd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			log, err := batchLogger(cfg)
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
			app, screen, err := terminal.Headless(headlessWidth, headlessHeight, terminal.Options{
				Palette: pal,
				Demo:    true,
				Logger:  log,
			})
			if err != nil {
				return err
			}
			defer screen.Fini()

			out, err := exporter.Export(app.Session().Snapshot())
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}

			path := ""
			if cmd.Flags().Changed("output") {
				path = cfg.Export.Path
			}
			if path == "" || path == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			log.Info("graph exported", zap.String("format", exporter.GetFormatName()), zap.String("path", path))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s exported %s to %s\n", statusIcon(true), exporter.GetFormatName(), path)
			return nil
		},
	}
}
