package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/chrisuehlinger/turbo/config"
	"github.com/chrisuehlinger/turbo/dom"
	"github.com/chrisuehlinger/turbo/event"
	"github.com/chrisuehlinger/turbo/geom"
	"github.com/chrisuehlinger/turbo/script"
	"github.com/chrisuehlinger/turbo/turbo"
	"github.com/chrisuehlinger/turbo/ui"
)

const (
	cell      = 60
	boardSize = 8 * cell
	barHeight = 40
)

func main() {
	defaultConfig, _ := config.DefaultPath()
	var (
		configPath = flag.String("config", defaultConfig, "path to the TOML configuration")
		scriptPath = flag.String("script", "", "JavaScript file to run against the board")
		headless   = flag.Bool("headless", false, "build the board and run the script without opening a window")
		verbose    = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	turbo.SetLogger(logger)

	if err := run(logger, *configPath, *scriptPath, *headless); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, scriptPath string, headless bool) error {
	cfg := &config.Config{}
	if configPath != "" {
		var err error
		if cfg, err = config.LoadOrDefault(configPath); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	doc := dom.NewHTMLDocument()
	doc.Body().SetBoundingRect(geom.RectXYWH(0, 0, boardSize, boardSize+barHeight))

	opts := append(cfg.Options(), event.WithLogger(logger))
	var a fyne.App
	if !headless {
		a = app.NewWithID("com.github.chrisuehlinger.turbo")
		opts = append(opts, event.WithScheduler(ui.NewScheduler()))
	}
	m := event.New(doc, opts...)
	defer m.Destroy()
	m.OnError(func(err error) { logger.Error("turbo: handler failed", "err", err) })
	event.SetDefault(m)

	if err := buildBoard(doc, m); err != nil {
		return err
	}
	cfg.Apply(m)

	if scriptPath != "" {
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return err
		}
		rt := script.New(m, script.WithLogger(logger))
		if err := rt.ExecuteScript(string(src), scriptPath); err != nil {
			return fmt.Errorf("running %s: %w", scriptPath, err)
		}
	}

	if headless {
		pieces := turbo.Wrap(doc.AsNode(), m).FindAll(".piece")
		logger.Info("board ready", "pieces", len(pieces), "tools", m.ToolNames(), "tool", m.CurrentTool(event.ClickLeft))
		return nil
	}

	w := a.NewWindow("Turbo")
	w.SetContent(ui.NewSurface(doc, m))
	w.Resize(fyne.NewSize(boardSize, boardSize+barHeight))
	w.ShowAndRun()
	return nil
}

// buildBoard lays out a tool bar and a board of draggable pieces. The move
// tool drags pieces, the mark tool toggles their selection.
func buildBoard(doc *dom.Document, m *event.Manager) error {
	body := turbo.WrapElement(doc.Body(), m)

	bar, err := turbo.Create(doc, "div", m)
	if err != nil {
		return err
	}
	bar.AddClass("toolbar")
	bar.Element().SetBoundingRect(geom.RectXYWH(0, 0, boardSize, barHeight))
	body.AddChild(bar)

	for i, t := range []struct{ name, key string }{{"move", "m"}, {"mark", "k"}} {
		btn, err := turbo.Create(doc, "div", m)
		if err != nil {
			return err
		}
		btn.AddClass("tool").SetAttribute("data-tool", t.name).SetText(t.name)
		btn.Element().SetBoundingRect(geom.RectXYWH(float64(i)*100+4, 4, 92, barHeight-8))
		bar.AddChild(btn)
		btn.AddTool(t.name, t.key)
		btn.OnToolActivate(func(event.ToolActivation) { btn.AddClass("active") })
		btn.OnToolDeactivate(func(event.ToolActivation) { btn.RemoveClass("active") })
		name := t.name
		btn.On(event.KindClick, func(*event.Event, *dom.Node) event.Result {
			m.SetTool(name, event.ClickLeft)
			return event.Handled
		})
	}

	board, err := turbo.Create(doc, "div", m)
	if err != nil {
		return err
	}
	board.AddClass("board")
	board.Element().SetBoundingRect(geom.RectXYWH(0, barHeight, boardSize, boardSize))
	body.AddChild(board)

	for i, label := range []string{"rook", "knight", "bishop", "queen", "king", "bishop", "knight", "rook"} {
		piece, err := turbo.Create(doc, "div", m)
		if err != nil {
			return err
		}
		piece.AddClass("piece").SetText(label)
		piece.Element().SetBoundingRect(geom.RectXYWH(float64(i)*cell+5, barHeight+5, cell-10, cell-10))
		board.AddChild(piece)
	}
	// pieces move, the board stays put
	board.IgnoreTool("move", true)

	body.AddToolBehavior("move", event.KindDrag, func(ev *event.Event, target *dom.Node, _ event.BehaviorContext) event.Result {
		el, ok := target.AsElement()
		if !ok || !el.ClassList().Contains("piece") {
			return event.NotHandled
		}
		if r, ok := el.BoundingRect(); ok {
			el.SetBoundingRect(r.Add(ev.DeltaPosition()))
		}
		return event.Handled
	})
	body.AddToolBehavior("mark", event.KindClick, func(_ *event.Event, target *dom.Node, _ event.BehaviorContext) event.Result {
		el, ok := target.AsElement()
		if !ok || !el.ClassList().Contains("piece") {
			return event.NotHandled
		}
		turbo.WrapElement(el, m).ToggleClass("selected")
		return event.Handled
	})

	m.SetTool("move", event.ClickLeft)
	return nil
}
