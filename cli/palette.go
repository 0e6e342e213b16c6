package cli

import (
	"fmt"
	"os"
	"strings"

	"blueprint/graph"
	"blueprint/palette"
	"github.com/spf13/cobra"
)

func newPaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "palette",
		Aliases: []string{"pal"},
		Short:   "List the node types the editor can create",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pal, err := loadPalette(configFrom(cmd))
			if err != nil {
				return err
			}
			printPalette(cmd, pal)
			return nil
		},
	}
	cmd.AddCommand(newPaletteDumpCmd(), newPaletteInitCmd())
	return cmd
}

func printPalette(cmd *cobra.Command, pal *palette.Palette) {
	w := cmd.OutOrStdout()
	source := pal.Source
	if source == "" {
		source = "built-in"
	}
	fmt.Fprintf(w, "%s %s\n\n", brand.Sprint("palette"), subtle.Sprintf("(%s, %d types)", source, pal.Len()))
	for _, d := range pal.Descs() {
		fmt.Fprintf(w, "  %-14s %s\n", d.Type, subtle.Sprint(d.Color))
		for _, p := range d.Inputs {
			fmt.Fprintf(w, "    in  %-8s %s\n", p.Type, pinLabel(p))
		}
		for _, p := range d.Outputs {
			fmt.Fprintf(w, "    out %-8s %s\n", p.Type, pinLabel(p))
		}
		var props []string
		for _, e := range d.Props.Entries() {
			props = append(props, e.Key+"="+graph.FormatValue(e.Value))
		}
		if len(props) > 0 {
			fmt.Fprintf(w, "    %s\n", subtle.Sprint(strings.Join(props, " ")))
		}
	}
}

func pinLabel(p graph.PinDesc) string {
	if p.Label == "" {
		return subtle.Sprint("-")
	}
	return p.Label
}

func newPaletteDumpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the palette as a descriptor file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pal, err := loadPalette(configFrom(cmd))
			if err != nil {
				return err
			}
			return pal.Encode(cmd.OutOrStdout(), palette.Format(format))
		},
	}
	cmd.Flags().StringVar(&format, "as", string(palette.FormatYAML), "descriptor format (yaml|json|toml)")
	return cmd
}

func newPaletteInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write the built-in palette to a descriptor file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := palette.FormatFor(path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := palette.Builtin().Encode(f, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", statusIcon(true), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
