package terminal

import (
	"context"
	"fmt"
	"os"
	"time"

	"blueprint/bridge"
	"blueprint/export"
	"blueprint/graph"
	"blueprint/palette"
	"blueprint/session"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultFPS        = 30
	DefaultPanelRatio = 0.33
	panMove           = 4
)

// Options configures the interactive editor.
type Options struct {
	Palette        *palette.Palette
	PaletteUpdates <-chan *palette.Palette
	FPS            int
	PanelRatio     float64
	TouchDuration  time.Duration
	ShowOrdinals   bool
	ASCII          bool
	Demo           bool
	Exporter       export.Exporter
	ExportPath     string
	Logger         *zap.Logger
}

// App wires a session, a bridge and the tcell engine to one screen.
type App struct {
	screen tcell.Screen
	opts   Options
	log    *zap.Logger
	eng    *Engine
	sess   *session.Session
	br     *bridge.Bridge
	panel  *Panel
	quit   bool
	held   bool // left button down over the panel
}

// NewApp builds the editor on an initialised screen.
func NewApp(screen tcell.Screen, opts Options) (*App, error) {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	if opts.PanelRatio <= 0 || opts.PanelRatio >= 1 {
		opts.PanelRatio = DefaultPanelRatio
	}
	if opts.TouchDuration <= 0 {
		opts.TouchDuration = session.DefaultTouchDuration
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	glyphs := RoundedGlyphs
	if opts.ASCII {
		glyphs = ASCIIGlyphs
	}
	a := &App{screen: screen, opts: opts, log: log}
	a.eng = NewEngine(screen, WithGlyphs(glyphs), WithEngineLogger(log))
	a.sess = session.New(a.eng, session.WithLogger(log), session.WithTouchDuration(opts.TouchDuration))
	a.br = bridge.New(a.sess, a.eng, opts.Palette, bridge.WithLogger(log), bridge.WithOrdinals(opts.ShowOrdinals))
	a.panel = NewPanel(screen, a.br)
	a.Layout()

	if opts.Demo {
		if _, err := a.br.Demo(); err != nil {
			return nil, fmt.Errorf("failed to build demo graph: %w", err)
		}
	}
	return a, nil
}

// Engine returns the layout engine.
func (a *App) Engine() *Engine { return a.eng }

// Session returns the editor session.
func (a *App) Session() *session.Session { return a.sess }

// Bridge returns the render bridge.
func (a *App) Bridge() *bridge.Bridge { return a.br }

// Panel returns the info panel.
func (a *App) Panel() *Panel { return a.panel }

// Layout splits the screen between the canvas and the panel.
func (a *App) Layout() {
	w, h := a.screen.Size()
	pw := int(float64(w) * a.opts.PanelRatio)
	split := w - pw
	a.eng.SetViewport(graph.Rect{Max: graph.Point{X: split, Y: h}})
	a.panel.SetRect(graph.Rect{Min: graph.Point{X: split}, Max: graph.Point{X: w, Y: h}})
}

// Frame runs one editor frame and shows it.
func (a *App) Frame(dt time.Duration) {
	a.br.Frame(dt)
	a.panel.Draw()
	a.screen.Show()
}

func (a *App) setStatus(format string, args ...any) {
	a.panel.SetStatus(fmt.Sprintf(format, args...))
}

// HandleEvent applies one terminal event. It reports whether the editor should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.Layout()
		a.eng.HandleEvent(ev)
		return a.quit
	case *tcell.EventMouse:
		if a.eng.HandleEvent(ev) {
			return a.quit
		}
		x, y := ev.Position()
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !a.held {
			a.panel.Click(graph.Point{X: x, Y: y}, ev.Modifiers()&tcell.ModCtrl != 0)
		}
		a.held = down
		return a.quit
	case *tcell.EventKey:
		if a.eng.HandleEvent(ev) {
			return a.quit
		}
		a.handleKey(ev)
	}
	return a.quit
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.br.DeleteSelected()
	case tcell.KeyEscape:
		a.sess.ClearSelection()
	case tcell.KeyLeft:
		a.eng.Pan(graph.Point{X: -panMove})
	case tcell.KeyRight:
		a.eng.Pan(graph.Point{X: panMove})
	case tcell.KeyUp:
		a.eng.Pan(graph.Point{Y: -panMove / 2})
	case tcell.KeyDown:
		a.eng.Pan(graph.Point{Y: panMove / 2})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.quit = true
		case 'f':
			a.eng.NavigateToContent()
		case '.':
			a.sess.NavigateToSelection()
		case 's':
			a.setStatus("saved %d node(s)", a.br.SaveSelected())
		case 'r':
			a.setStatus("restored %d node(s)", a.br.RestoreSelected())
		case 'o':
			a.br.ShowOrdinals = !a.br.ShowOrdinals
		case 'x':
			if err := a.Export(); err != nil {
				a.log.Error("export failed", zap.Error(err))
				a.setStatus("export failed: %v", err)
			}
		}
	}
}

// Export writes the current graph with the configured exporter.
func (a *App) Export() error {
	if a.opts.Exporter == nil || a.opts.ExportPath == "" {
		return fmt.Errorf("no export target configured")
	}
	out, err := a.opts.Exporter.Export(a.sess.Snapshot())
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.opts.ExportPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	a.log.Info("graph exported",
		zap.String("format", a.opts.Exporter.GetFormatName()),
		zap.String("path", a.opts.ExportPath))
	a.setStatus("exported %s to %s", a.opts.Exporter.GetFormatName(), a.opts.ExportPath)
	return nil
}

// SetPalette swaps the create-menu palette.
func (a *App) SetPalette(p *palette.Palette) {
	a.br.SetPalette(p)
	a.setStatus("palette reloaded: %d types", p.Len())
}

// Run drives the editor until ctx is done or the user quits. Events are read
// on their own goroutine; everything else happens on the calling one.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go a.screen.ChannelEvents(events, stop)

	ticker := time.NewTicker(time.Second / time.Duration(a.opts.FPS))
	defer ticker.Stop()

	last := time.Now()
	a.Frame(0)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.HandleEvent(ev) {
				return nil
			}
		case p, ok := <-a.opts.PaletteUpdates:
			if !ok {
				a.opts.PaletteUpdates = nil
				continue
			}
			a.SetPalette(p)
		case now := <-ticker.C:
			a.Frame(now.Sub(last))
			last = now
		}
	}
}

// Run opens the terminal and runs the editor on it.
func Run(ctx context.Context, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseDragEvents)
	screen.HideCursor()

	app, err := NewApp(screen, opts)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// Headless builds the editor on an in-memory screen of the given size, for
// commands that render without a terminal.
func Headless(width, height int, opts Options) (*App, tcell.SimulationScreen, error) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialise screen: %w", err)
	}
	screen.SetSize(width, height)
	app, err := NewApp(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, nil, err
	}
	return app, screen, nil
}

// CanvasRunes reads back the runes drawn in r.
func CanvasRunes(screen tcell.Screen, r graph.Rect) [][]rune {
	grid := make([][]rune, 0, r.Height())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := make([]rune, 0, r.Width())
		for x := r.Min.X; x < r.Max.X; x++ {
			ch, _, _, _ := screen.GetContent(x, y)
			if ch == 0 {
				ch = ' '
			}
			row = append(row, ch)
		}
		grid = append(grid, row)
	}
	return grid
}
