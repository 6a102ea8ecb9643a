package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"loadingview/internal/demo"
	"loadingview/internal/trace"
	"loadingview/ui"
)

// colorFlag implements flag.Value for hex colors with an optional alpha.
type colorFlag struct {
	color ui.Color
	set   bool
}

func (c *colorFlag) String() string {
	if !c.set {
		return ""
	}
	return c.color.RGB.Hex()
}

func (c *colorFlag) Set(v string) error {
	col, err := ui.ParseHex(v)
	if err != nil {
		return err
	}
	c.color, c.set = col, true
	return nil
}

// config holds the parsed CLI configuration for a demo run.
type config struct {
	message      string
	spinnerColor colorFlag
	textColor    colorFlag
	background   colorFlag
	bgOpacity    float64
	diameter     float64
	stroke       float64
	radius       float64
	fade         time.Duration
	loading      bool
}

func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	d := ui.DefaultOptions()

	fs.StringVar(&cfg.message, "message", d.Message, "text under the spinner (empty hides the label)")
	fs.Var(&cfg.spinnerColor, "spinner-color", "spinner ring color as #rrggbb (default white)")
	fs.Var(&cfg.textColor, "text-color", "message color as #rrggbb (default white)")
	fs.Var(&cfg.background, "background", "backdrop color as #rrggbb (default black)")
	fs.Float64Var(&cfg.bgOpacity, "background-opacity", d.BackgroundColor.A, "backdrop opacity in [0, 1]")
	fs.Float64Var(&cfg.diameter, "diameter", d.Diameter, "spinner diameter in braille dots")
	fs.Float64Var(&cfg.stroke, "stroke", d.StrokeWidth, "spinner stroke width in braille dots")
	fs.Float64Var(&cfg.radius, "radius", d.CornerRadius, "panel corner radius (0 for square corners)")
	fs.DurationVar(&cfg.fade, "fade", d.FadeDuration, "overlay fade duration")
	fs.BoolVar(&cfg.loading, "loading", false, "show the overlay on launch")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: loadingdemo [flags]\n\n")
		fmt.Fprintf(fs.Output(), "loadingdemo runs a job list; running a job covers it with a\n")
		fmt.Fprintf(fs.Output(), "blocking loading overlay until the job finishes.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if math.IsNaN(cfg.bgOpacity) || cfg.bgOpacity < 0 || cfg.bgOpacity > 1 {
		return cfg, fmt.Errorf("background-opacity %v out of range [0, 1]", cfg.bgOpacity)
	}
	for _, f := range []struct {
		name  string
		value float64
		min   float64
	}{
		{"diameter", cfg.diameter, math.SmallestNonzeroFloat64},
		{"stroke", cfg.stroke, math.SmallestNonzeroFloat64},
		{"radius", cfg.radius, 0},
	} {
		if math.IsNaN(f.value) || f.value < f.min || f.value > ui.MaxDiameter {
			return cfg, fmt.Errorf("%s %v out of range, max %d", f.name, f.value, ui.MaxDiameter)
		}
	}
	if cfg.fade < 0 {
		return cfg, fmt.Errorf("fade must not be negative")
	}
	return cfg, nil
}

// options converts the flags into overlay options.
func (c config) options() []ui.Option {
	opts := []ui.Option{
		ui.WithMessage(c.message),
		ui.WithDiameter(c.diameter),
		ui.WithStroke(c.stroke),
		ui.WithCornerRadius(c.radius),
		ui.WithFadeDuration(c.fade),
	}
	if c.spinnerColor.set {
		opts = append(opts, ui.WithSpinner(c.spinnerColor.color))
	}
	if c.textColor.set {
		opts = append(opts, ui.WithMessageColor(c.textColor.color))
	}
	bg := ui.Black
	if c.background.set {
		bg = c.background.color
	}
	return append(opts, ui.WithBackground(bg.Opacity(c.bgOpacity)))
}

func run(cfg config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdin and stdout must be a terminal")
	}

	// The TUI owns stdout and stderr; logs go to a file or nowhere.
	if path := os.Getenv("LOADINGVIEW_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "loadingdemo")
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx := context.Background()
	exporter, err := trace.NewOTLPExporter(ctx)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := exporter.Shutdown(ctx); err != nil {
			log.Printf("trace shutdown: %v", err)
		}
	}()

	app := demo.NewApp(demo.Config{
		Options:      cfg.options(),
		Exporter:     exporter,
		StartLoading: cfg.loading,
	})
	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "loadingdemo: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "loadingdemo: %v\n", err)
		os.Exit(1)
	}
}
