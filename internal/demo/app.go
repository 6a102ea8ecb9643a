package demo

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"loadingview/internal/trace"
	"loadingview/ui"
)

// Config configures the demo app.
type Config struct {
	Jobs         []Job
	Options      []ui.Option
	Exporter     *trace.OTLPExporter // nil disables span export
	StartLoading bool                // present the overlay on launch
}

// jobDoneMsg reports that the job started as run seq has finished.
type jobDoneMsg struct {
	seq   int
	index int
}

// App is the demo root. It owns the loading flag; the overlay only reads it.
type App struct {
	Loading  bool
	Jobs     *JobsView
	Loader   *ui.Modifier
	Recorder *trace.Recorder

	keys    keyMap
	seq     int // bumped per run so a toggled-off run cannot clear a newer one
	running int // index of the running job, -1 when idle
}

// NewApp creates the demo app.
func NewApp(cfg Config) *App {
	jobs := cfg.Jobs
	if jobs == nil {
		jobs = DefaultJobs()
	}
	a := &App{
		Loading: cfg.StartLoading,
		Jobs:    NewJobsView(jobs),
		keys:    defaultKeyMap(),
		running: -1,
	}
	a.Loader = ui.Wrap(a.Jobs, ui.BindBool(&a.Loading), cfg.Options...)
	a.Recorder = trace.NewRecorder(cfg.Exporter, a.Loader.Options().Message, 0)
	a.Loader.OnChange = a.observe
	a.Recorder.SetOnChange(func() { a.Jobs.SetStatus(a.status()) })
	a.Jobs.SetStatus(a.status())
	return a
}

// observe logs flag changes and forwards them to the recorder, which
// refreshes the status line.
func (a *App) observe(from, to bool) {
	log.Printf("loading: %v -> %v", from, to)
	a.Recorder.Observe(from, to)
}

func (a *App) status() string {
	switch {
	case a.Loading && a.running >= 0:
		return "running " + a.Jobs.Jobs[a.running].Name
	case a.Loading:
		return "loading"
	}
	recent := a.Recorder.Recent()
	if len(recent) == 0 {
		return "idle"
	}
	return fmt.Sprintf("idle, last load took %s", recent[0].Duration.Round(10*time.Millisecond))
}

// AsTeaModel returns a tea.Model driving the app.
func (a *App) AsTeaModel() tea.Model {
	return &appModelAdapter{App: a}
}

// Ensure App can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps App to implement tea.Model.
type appModelAdapter struct {
	*App
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	if a.Loading {
		a.observe(false, true)
	}
	return a.Loader.Init()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// App-level keys work whether or not the overlay blocks the list.
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.Recorder.Close()
			return a, tea.Quit
		case key.Matches(msg, a.keys.Toggle):
			a.Loading = !a.Loading
			if !a.Loading {
				a.running = -1
			}
		}
	case StartJobMsg:
		cmd = a.startJob(msg.Index)
	case jobDoneMsg:
		a.finishJob(msg)
	}

	_, loaderCmd := a.Loader.Update(msg)
	return a, tea.Batch(cmd, loaderCmd)
}

// startJob presents the overlay and schedules the job's completion.
func (a *appModelAdapter) startJob(i int) tea.Cmd {
	if i < 0 || i >= len(a.Jobs.Jobs) {
		return nil
	}
	a.seq++
	a.running = i
	a.Loading = true
	seq, d := a.seq, a.Jobs.Jobs[i].Duration
	return tea.Tick(d, func(time.Time) tea.Msg {
		return jobDoneMsg{seq: seq, index: i}
	})
}

func (a *appModelAdapter) finishJob(msg jobDoneMsg) {
	if msg.seq != a.seq || a.running != msg.index {
		return
	}
	a.Jobs.RecordRun(msg.index)
	a.running = -1
	a.Loading = false
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	return a.Loader.View()
}
