package cli

import (
	"fmt"

	"blueprint/terminal"
	"blueprint/validation"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the palette, render the sample graph and validate it",
		Long: `Load the configured palette, build the sample graph on an off-screen
terminal, then check the session's object map against its collections and
check that every line glyph on the rendered canvas joins up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			w := cmd.OutOrStdout()
			log, err := batchLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			pal, err := loadPalette(cfg)
			fmt.Fprintf(w, "  %s palette", statusIcon(err == nil))
			if err != nil {
				fmt.Fprintf(w, ": %v\n", err)
				return fmt.Errorf("check failed")
			}
			fmt.Fprintf(w, " %s\n", subtle.Sprintf("(%d types)", pal.Len()))

			app, screen, err := terminal.Headless(headlessWidth, headlessHeight, terminal.Options{
				Palette: pal,
				Demo:    true,
				ASCII:   cfg.ASCII,
				Logger:  log,
			})
			if err != nil {
				return err
			}
			defer screen.Fini()
			app.Frame(0)

			problems := 0
			violations := validation.CheckSession(app.Session())
			fmt.Fprintf(w, "  %s session %s\n", statusIcon(len(violations) == 0),
				subtle.Sprintf("(%d nodes, %d links)", len(app.Session().Nodes()), len(app.Session().Links())))
			for _, v := range violations {
				fmt.Fprintf(w, "      %s\n", bad.Sprint(v.String()))
			}
			problems += len(violations)

			lines := validation.NewLineValidator()
			lines.SetAllowASCII(cfg.ASCII)
			cells := lines.ValidateGrid(terminal.CanvasRunes(screen, app.Engine().Viewport()))
			fmt.Fprintf(w, "  %s canvas\n", statusIcon(len(cells) == 0))
			for _, c := range cells {
				fmt.Fprintf(w, "      %s\n", bad.Sprint(c.String()))
			}
			problems += len(cells)

			if problems > 0 {
				return fmt.Errorf("check failed: %d problem(s)", problems)
			}
			return nil
		},
	}
}
