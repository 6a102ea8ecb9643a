package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"loadingview/ui"
)

// Job is a simulated unit of work. Running it presents the loading overlay
// for Duration.
type Job struct {
	Name     string
	Duration time.Duration
	Runs     int
}

// DefaultJobs is the job list shown when none is configured.
func DefaultJobs() []Job {
	return []Job{
		{Name: "Fetch package index", Duration: 1500 * time.Millisecond},
		{Name: "Build assets", Duration: 3 * time.Second},
		{Name: "Run migrations", Duration: 2 * time.Second},
		{Name: "Sync mirrors", Duration: 4 * time.Second},
	}
}

// StartJobMsg asks the app to run the job at Index.
type StartJobMsg struct {
	Index int
}

// jobItem implements list.Item for Job.
type jobItem struct {
	Job
}

func (j jobItem) FilterValue() string { return j.Name }
func (j jobItem) Title() string {
	line := fmt.Sprintf("%s  %s", j.Name, j.Duration)
	if j.Runs > 0 {
		line += fmt.Sprintf(", %d runs", j.Runs)
	}
	return line
}
func (j jobItem) Description() string { return "" }

// defaultWidth is the list width before the terminal size is known.
const defaultWidth = 80

// JobsView lists jobs and is the content the overlay covers.
type JobsView struct {
	list   list.Model
	Jobs   []Job
	keys   keyMap
	help   help.Model
	status string
}

// Ensure JobsView implements View.
var _ ui.View = (*JobsView)(nil)

// NewJobsView creates a job list.
func NewJobsView(jobs []Job) *JobsView {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = Styles.Selected
	delegate.Styles.NormalTitle = Styles.Normal

	// Sized to show every job until the first WindowSizeMsg arrives.
	l := list.New(nil, delegate, defaultWidth, max(len(jobs), 1))
	l.Title = "Jobs"
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	v := &JobsView{
		list: l,
		Jobs: jobs,
		keys: defaultKeyMap(),
		help: newHelp(),
	}
	v.updateJobs()
	return v
}

// Selected returns the index of the highlighted job.
func (v *JobsView) Selected() int {
	return v.list.Index()
}

// SetStatus sets the line shown under the list.
func (v *JobsView) SetStatus(s string) {
	v.status = s
}

// RecordRun bumps the run count of the job at i.
func (v *JobsView) RecordRun(i int) {
	if i < 0 || i >= len(v.Jobs) {
		return
	}
	v.Jobs[i].Runs++
	v.updateJobs()
}

// Init implements View.
func (v *JobsView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *JobsView) Update(msg tea.Msg) (ui.View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.list.SetWidth(msg.Width)
		v.list.SetHeight(max(msg.Height-5, 1)) // title, blank, status, blank, help
		v.help.Width = msg.Width
		return v, nil
	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Start) && len(v.Jobs) > 0 {
			i := v.list.Index()
			return v, func() tea.Msg { return StartJobMsg{Index: i} }
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View implements View.
func (v *JobsView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Jobs (%d)", len(v.Jobs))) + "\n\n")
	b.WriteString(v.list.View() + "\n")
	b.WriteString(Styles.Status.Render(v.status) + "\n\n")
	b.WriteString(v.help.View(v.keys))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

// updateJobs updates the list items from the Jobs slice.
func (v *JobsView) updateJobs() {
	items := make([]list.Item, len(v.Jobs))
	for i, j := range v.Jobs {
		items[i] = jobItem{Job: j}
	}
	v.list.SetItems(items)
}
