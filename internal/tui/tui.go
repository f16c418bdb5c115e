// Package tui provides a Bubble Tea terminal user interface for cover-mosaic.
package tui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/handiism/cover-mosaic/internal/catalog"
	"github.com/handiism/cover-mosaic/internal/config"
	mosaicerr "github.com/handiism/cover-mosaic/internal/errors"
	ioutils "github.com/handiism/cover-mosaic/internal/io"
	"github.com/handiism/cover-mosaic/internal/mosaic"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StatePreparing
	StateBuilding
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   mosaic.ProgressLevel
}

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Build context
	ctx    context.Context
	cancel context.CancelFunc

	// events carries builder progress into the update loop.
	events chan mosaic.ProgressEvent

	builder *mosaic.Builder
	result  *mosaic.Result
	output  string

	resolved int32
	total    int32

	// Options
	sortMethod config.SortMethod
	overflow   config.Overflow
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings provides every option the
// screen does not toggle; nil means defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "albums.csv"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	sortMethod, _ := config.ParseSortMethod(settings.Mosaic.SortMethod)
	overflow, _ := config.ParseOverflow(settings.Mosaic.Overflow)

	return Model{
		state:      StateInput,
		textInput:  ti,
		spinner:    sp,
		progress:   prog,
		settings:   settings,
		logs:       make([]LogEntry, 0),
		ctx:        ctx,
		cancel:     cancel,
		events:     make(chan mosaic.ProgressEvent, 64),
		sortMethod: sortMethod,
		overflow:   overflow,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when the builder reports progress.
	ProgressMsg struct {
		Event mosaic.ProgressEvent

		source chan mosaic.ProgressEvent
	}

	// PreparedMsg is sent once the album list is read and the
	// configuration validated.
	PreparedMsg struct {
		Builder *mosaic.Builder
		Records []catalog.Record
		Output  string
		Closer  io.Closer
		Err     error
	}

	// BuildDoneMsg is sent when the mosaic is written.
	BuildDoneMsg struct {
		Result *mosaic.Result
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateBuilding || m.state == StatePreparing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StatePreparing
				return m, tea.Batch(m.prepareBuild(), m.spinner.Tick)
			}

		case "tab":
			if m.state == StateInput {
				if m.sortMethod == config.SortColor {
					m.sortMethod = config.SortDate
				} else {
					m.sortMethod = config.SortColor
				}
				return m, nil
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.overflow = (m.overflow + 1) % 3
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new mosaic
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.builder = nil
				m.result = nil
				m.resolved, m.total = 0, 0
				m.events = make(chan mosaic.ProgressEvent, 64)
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Events from a build abandoned by a reset are drained, not shown.
		if msg.source == m.events && (msg.Event.Level != mosaic.LevelVerbose || m.verbose) {
			m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		cmds = append(cmds, waitForEvent(msg.source))

	case PreparedMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.state == StatePreparing {
			m.builder = msg.Builder
			m.output = msg.Output
			m.total = int32(len(msg.Records))
			m.state = StateBuilding
			cmds = append(cmds, m.startBuild(msg.Records, msg.Closer), m.tickProgress(), waitForEvent(m.events))
		} else if msg.Closer != nil {
			msg.Closer.Close()
		}

	case BuildDoneMsg:
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.result = msg.Result
			m.state = StateComplete
		}

	case TickMsg:
		if m.builder != nil && m.state == StateBuilding {
			m.resolved, m.total = m.builder.GetProgress()

			var percent float64
			if m.total > 0 {
				percent = float64(m.resolved) / float64(m.total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next builder progress event. It returns no
// message once the build has finished and closed the channel.
func waitForEvent(events chan mosaic.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: e, source: events}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▦ Cover Mosaic"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Arrange album covers into a single image"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StatePreparing:
		b.WriteString(m.viewPreparing())
	case StateBuilding:
		b.WriteString(m.viewBuilding())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Album list (CSV of artist,title):"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Sort by: %s (tab)\n", m.sortMethod))
	b.WriteString(fmt.Sprintf("  Non-square catalogs: %s (ctrl+o)\n", m.overflow))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Providers: %s", strings.Join(m.settings.Artwork.Providers, ", "))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewPreparing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading album list..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewBuilding() string {
	var b strings.Builder

	var percent float64
	if m.total > 0 {
		percent = float64(m.resolved) / float64(m.total)
	}

	if m.resolved < m.total {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Fetching artwork..."))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Arranging by %s...", m.sortMethod)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Albums: %d/%d", m.resolved, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	res := m.result
	box := boxStyle.Render(fmt.Sprintf(
		"✨ Mosaic Complete!\n\n"+
			"Grid: %dx%d (%d px)\n"+
			"Placeholders: %d\n"+
			"Dropped: %d\n"+
			"Saved to: %s",
		res.Side, res.Side, res.Side*res.CellSize,
		res.Placeholders(),
		res.Dropped,
		m.output,
	))
	return box
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", mosaicerr.UserMessage(m.err)))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, entry := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch entry.Level {
		case mosaic.LevelError:
			style = errorStyle
			prefix = "✗"
		case mosaic.LevelWarning:
			style = warningStyle
			prefix = "!"
		case mosaic.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case mosaic.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: sort • ctrl+o: overflow • ctrl+v: verbose • esc: quit"
	case StatePreparing, StateBuilding:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new mosaic • q: quit"
	}
	return ""
}

// prepareBuild reads the album list, validates the settings and wires the
// builder.
func (m Model) prepareBuild() tea.Cmd {
	path := strings.TrimSpace(m.textInput.Value())
	settings := *m.settings
	settings.Mosaic.SortMethod = m.sortMethod.String()
	settings.Mosaic.Overflow = m.overflow.String()
	events := m.events

	return func() tea.Msg {
		cfg, err := config.New(&settings)
		if err != nil {
			return PreparedMsg{Err: err}
		}

		records, err := catalog.ReadFile(path)
		if err != nil {
			return PreparedMsg{Err: err}
		}

		// The screen is the log; keep charm output off the alt screen.
		logger := log.New(io.Discard)
		provider, closer, err := mosaic.NewProvider(cfg, logger)
		if err != nil {
			return PreparedMsg{Err: err}
		}

		builder := mosaic.NewBuilder(cfg, provider,
			mosaic.WithLogger(logger),
			mosaic.WithProgress(func(e mosaic.ProgressEvent) {
				select {
				case events <- e:
				default:
				}
			}),
		)

		output := cfg.Output()
		if output == "" || output == config.DefaultSettings().Mosaic.Output {
			ext := ".png"
			if cfg.Format() == config.FormatJPEG {
				ext = ".jpg"
			}
			output = ioutils.DefaultOutputPath(path, ext)
		}

		return PreparedMsg{
			Builder: builder,
			Records: records,
			Output:  filepath.Clean(output),
			Closer:  closer,
		}
	}
}

// startBuild runs the build in the background and saves the result.
func (m Model) startBuild(records []catalog.Record, closer io.Closer) tea.Cmd {
	ctx, builder, output, events := m.ctx, m.builder, m.output, m.events

	return func() tea.Msg {
		defer close(events)
		defer closer.Close()

		res, err := builder.Build(ctx, records)
		if err != nil {
			return BuildDoneMsg{Err: err}
		}
		if err := builder.Save(ctx, res, output); err != nil {
			return BuildDoneMsg{Err: err}
		}
		return BuildDoneMsg{Result: res}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
