package ui

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"
)

// Layer IDs used by Modifier.
const (
	ContentLayerID = "content"
	OverlayLayerID = "loading"
)

// Z-indexes used by Modifier. The overlay sits above anything the host can
// declare; the host is pushed below zero while the overlay is shown.
const (
	OverlayZIndex       = math.MaxInt
	ContentZIndex       = 0
	ContentBehindZIndex = -1
)

// Phase is the modifier's visibility state.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseShown
	PhaseHiding // flag cleared, overlay fading out
)

func (p Phase) String() string {
	switch p {
	case PhaseHidden:
		return "Hidden"
	case PhaseShown:
		return "Shown"
	case PhaseHiding:
		return "Hiding"
	default:
		return "Unknown"
	}
}

// Modifier wraps host content and stacks a LoadingView above it while the
// bound flag is set. The overlay is mounted when the flag turns true and
// removed from the layer stack once it has faded out after the flag turns
// false. While the flag is set, key and mouse input stops at the overlay.
type Modifier struct {
	content     View
	isPresented Binding
	opts        Options
	overlay     *LoadingView
	shown       bool
	width       int
	height      int

	// OnChange is called once per observed flag change.
	OnChange func(from, to bool)
}

// Ensure Modifier implements View.
var _ View = (*Modifier)(nil)

// Wrap returns content with a loading overlay driven by isPresented.
func Wrap(content View, isPresented Binding, opts ...Option) *Modifier {
	return &Modifier{
		content:     content,
		isPresented: isPresented,
		opts:        buildOptions(opts),
	}
}

// Content returns the wrapped host view.
func (m *Modifier) Content() View { return m.content }

// Options returns the options each mounted overlay is built with.
func (m *Modifier) Options() Options { return m.opts }

// Overlay returns the mounted overlay, or nil when it is not in the tree.
func (m *Modifier) Overlay() *LoadingView { return m.overlay }

// Phase reports the current visibility state.
func (m *Modifier) Phase() Phase {
	switch {
	case m.shown:
		return PhaseShown
	case m.overlay != nil:
		return PhaseHiding
	default:
		return PhaseHidden
	}
}

// Init implements View.
func (m *Modifier) Init() tea.Cmd {
	cmds := []tea.Cmd{m.content.Init()}
	m.shown = m.isPresented.Value()
	if m.shown {
		cmds = append(cmds, m.mount())
	}
	return tea.Batch(cmds...)
}

// Update implements View.
func (m *Modifier) Update(msg tea.Msg) (View, tea.Cmd) {
	cmds := []tea.Cmd{m.sync()}

	switch msg := msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		if m.shown {
			// Blocking: the host never sees input while loading.
			cmds = append(cmds, m.updateOverlay(msg))
		} else {
			cmds = append(cmds, m.updateContent(msg))
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cmds = append(cmds, m.updateContent(msg), m.updateOverlay(msg))
	default:
		cmds = append(cmds, m.updateContent(msg), m.updateOverlay(msg))
	}

	// The host may have flipped the flag while handling msg.
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

func (m *Modifier) updateContent(msg tea.Msg) tea.Cmd {
	v, cmd := m.content.Update(msg)
	if v != nil {
		m.content = v
	}
	return cmd
}

func (m *Modifier) updateOverlay(msg tea.Msg) tea.Cmd {
	if m.overlay == nil {
		return nil
	}
	_, cmd := m.overlay.Update(msg)
	m.reap()
	return cmd
}

// sync reacts to a flag change: mounts the overlay when shown, lets the
// mounted overlay retarget its fade otherwise.
func (m *Modifier) sync() tea.Cmd {
	v := m.isPresented.Value()
	if v == m.shown {
		return nil
	}
	from := m.shown
	m.shown = v
	if m.OnChange != nil {
		m.OnChange(from, v)
	}
	if v && m.overlay == nil {
		return m.mount()
	}
	if m.overlay == nil {
		return nil
	}
	cmd := m.overlay.sync()
	m.reap()
	return cmd
}

func (m *Modifier) mount() tea.Cmd {
	m.overlay = newLoadingView(m.isPresented, m.opts)
	m.overlay.SetSize(m.width, m.height)
	return m.overlay.Init()
}

// reap removes an overlay that finished fading out.
func (m *Modifier) reap() {
	if m.overlay == nil || m.shown || !m.overlay.Settled() {
		return
	}
	m.overlay.Unmount()
	m.overlay = nil
}

// Layers returns the current render tree, bottom to top.
func (m *Modifier) Layers() []Layer {
	var s ZStack
	z := ContentZIndex
	if m.shown {
		z = ContentBehindZIndex
	}
	s.Push(Layer{ID: ContentLayerID, ZIndex: z, Painter: ViewPainter{View: m.content}})
	if m.overlay != nil {
		s.Push(Layer{ID: OverlayLayerID, ZIndex: OverlayZIndex, Painter: m.overlay})
	}
	return s.Sorted()
}

// View implements View.
func (m *Modifier) View() string {
	s := ZStack{Layers: m.Layers()}
	return s.Paint(m.width, m.height)
}

// Paint implements Painter, so a Modifier can itself be a layer.
func (m *Modifier) Paint(_ string, _, _ int) string {
	return m.View()
}
