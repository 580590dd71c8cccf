// Package tui provides a Bubble Tea terminal user interface for course-mirror.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/course-mirror/internal/auth"
	"github.com/handiism/course-mirror/internal/config"
	"github.com/handiism/course-mirror/internal/download"
	"github.com/handiism/course-mirror/internal/http"
	"github.com/handiism/course-mirror/internal/model"
	"github.com/handiism/course-mirror/internal/ui"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
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

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateReady State = iota
	StateRunning
	StateLogin
	StateRetry
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	sources  []model.Source
	logs     []LogEntry
	err      error

	// Login form
	userInput textinput.Model
	passInput textinput.Model
	login     *LoginRequestMsg

	// Pending reconnect question
	retry *RetryRequestMsg

	ctx    context.Context
	cancel context.CancelFunc
	bridge *bridge

	// Current transfer
	source  string
	file    string
	written int64
	total   int64

	summary download.Summary

	// Options
	force   bool
	verbose bool
	strict  bool

	width  int
	height int
}

// NewModel creates a new TUI model running sources with settings.
func NewModel(settings *config.Settings, sources []model.Source, b *bridge) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	user := textinput.New()
	user.Placeholder = "login"
	user.CharLimit = 100
	user.Width = 40

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 200
	pass.Width = 40

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateReady,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		sources:   sources,
		userInput: user,
		passInput: pass,
		ctx:       ctx,
		cancel:    cancel,
		bridge:    b,
		force:     settings.ForceRedownload,
		verbose:   settings.VerboseSkipReporting,
		strict:    settings.Strict,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// ProgressMsg carries an engine event.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// LoginRequestMsg asks the operator for credentials.
	LoginRequestMsg struct {
		User  string
		reply chan<- loginReply
	}

	// RetryRequestMsg asks whether an unreachable page should be retried.
	RetryRequestMsg struct {
		Source string
		Err    error
		reply  chan<- bool
	}

	// RunDoneMsg is sent when the run ends.
	RunDoneMsg struct {
		Summary download.Summary
		Err     error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.answerPending()
			m.cancel()
			return m, tea.Quit
		}
		switch m.state {
		case StateLogin:
			return m.updateLogin(msg)
		case StateRetry:
			return m.updateRetry(msg)
		}
		return m.updateKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.handleEvent(msg.Event))

	case LoginRequestMsg:
		m.login = &msg
		m.state = StateLogin
		m.userInput.SetValue(msg.User)
		m.passInput.SetValue("")
		if msg.User == "" {
			m.passInput.Blur()
			cmds = append(cmds, m.userInput.Focus())
		} else {
			m.userInput.Blur()
			cmds = append(cmds, m.passInput.Focus())
		}

	case RetryRequestMsg:
		m.retry = &msg
		m.state = StateRetry

	case RunDoneMsg:
		m.summary = msg.Summary
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.state == StateReady {
			return m, tea.Quit
		}
		if m.state == StateRunning {
			m.cancel()
		}

	case "enter":
		if m.state == StateReady {
			m.state = StateRunning
			return m, tea.Batch(m.startRun(), m.spinner.Tick)
		}

	case "f":
		if m.state == StateReady {
			m.force = !m.force
		}

	case "v":
		if m.state == StateReady {
			m.verbose = !m.verbose
		}

	case "s":
		if m.state == StateReady {
			m.strict = !m.strict
		}

	case "q":
		if m.state == StateReady || m.state == StateComplete || m.state == StateError {
			return m, tea.Quit
		}

	case "r":
		if m.state == StateComplete || m.state == StateError {
			m.state = StateReady
			m.logs = nil
			m.err = nil
			m.summary = download.Summary{}
			m.file, m.source = "", ""
			m.written, m.total = 0, 0
			m.cancel()
			m.ctx, m.cancel = context.WithCancel(context.Background())
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.replyLogin(model.Credentials{}, errLoginCancelled)
		return m, nil

	case "enter", "tab":
		if m.userInput.Focused() {
			if strings.TrimSpace(m.userInput.Value()) == "" {
				return m, nil
			}
			m.userInput.Blur()
			return m, m.passInput.Focus()
		}
		if msg.String() == "enter" {
			m.replyLogin(model.Credentials{
				Username: strings.TrimSpace(m.userInput.Value()),
				Password: m.passInput.Value(),
			}, nil)
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.userInput.Focused() {
		m.userInput, cmd = m.userInput.Update(msg)
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) replyLogin(creds model.Credentials, err error) {
	if m.login != nil {
		m.login.reply <- loginReply{creds: creds, err: err}
		m.login = nil
	}
	m.passInput.SetValue("")
	m.userInput.Blur()
	m.passInput.Blur()
	m.state = StateRunning
}

func (m Model) updateRetry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.replyRetry(true)
	case "q", "esc":
		m.replyRetry(false)
	}
	return m, nil
}

func (m *Model) replyRetry(retry bool) {
	if m.retry != nil {
		m.retry.reply <- retry
		m.retry = nil
	}
	m.state = StateRunning
}

// answerPending unblocks the engine if it waits on a question.
func (m *Model) answerPending() {
	if m.login != nil {
		m.replyLogin(model.Credentials{}, errLoginCancelled)
	}
	if m.retry != nil {
		m.replyRetry(false)
	}
}

func (m *Model) handleEvent(e download.ProgressEvent) tea.Cmd {
	switch e.Level {
	case download.LevelSource:
		m.source = e.Message
		m.file = ""
		m.written, m.total = 0, 0
		return nil

	case download.LevelTransfer, download.LevelFileDone:
		m.file = e.File
		m.written, m.total = e.Written, e.Total
		if e.Level == download.LevelFileDone {
			m.addLog(LogEntry{Message: e.Message, Level: download.LevelVerbose})
		}
		if e.Total > 0 {
			return m.progress.SetPercent(float64(e.Written) / float64(e.Total))
		}
		return nil

	case download.LevelVerbose:
		if !m.verbose {
			return nil
		}
	}

	m.addLog(LogEntry{Message: e.Message, Level: e.Level})
	return nil
}

func (m *Model) addLog(entry LogEntry) {
	if entry.Level == download.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, entry)
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Course Mirror"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Mirror exercise sheets, solutions and slides"))
	b.WriteString("\n\n")

	switch m.state {
	case StateReady:
		b.WriteString(m.viewReady())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateLogin:
		b.WriteString(m.viewLogin())
	case StateRetry:
		b.WriteString(m.viewRetry())
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

func check(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewReady() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%d source(s) to mirror:", len(m.sources))))
	b.WriteString("\n")
	for _, src := range m.sources {
		line := fmt.Sprintf("  • %s → %s", src.Name, src.BaseDir)
		if src.RequiresAuth {
			line += " (login)"
		}
		b.WriteString(sourceStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Re-download existing files (f)\n", check(m.force)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", check(m.verbose)))
	b.WriteString(fmt.Sprintf("  %s Stop on first error (s)\n", check(m.strict)))

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.source != "" {
		b.WriteString(subtitleStyle.Render(m.source))
	} else {
		b.WriteString(subtitleStyle.Render("Starting..."))
	}
	b.WriteString("\n\n")

	if m.file != "" {
		b.WriteString(sourceStyle.Render(m.file))
		b.WriteString("\n")
		if m.total > 0 {
			b.WriteString(m.progress.View())
			b.WriteString("\n")
			b.WriteString(infoStyle.Render(fmt.Sprintf("%s / %s", ui.FormatBytes(m.written), ui.FormatBytes(m.total))))
		} else {
			b.WriteString(infoStyle.Render(fmt.Sprintf("%s (size unknown)", ui.FormatBytes(m.written))))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Login required"))
	b.WriteString("\n\n")
	b.WriteString(m.userInput.View())
	b.WriteString("\n")
	b.WriteString(m.passInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRetry() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("No internet connection"))
	b.WriteString("\n\n")
	if m.retry != nil {
		b.WriteString(fmt.Sprintf("  %s: %v\n\n", m.retry.Source, m.retry.Err))
	}
	b.WriteString("Connect to the internet and press enter to try again.\n")

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"All done.\n\n"+
			"Sources: %d\n"+
			"Downloaded: %d (%s)\n"+
			"Skipped: %d\n"+
			"Failed: %d",
		m.summary.Sources,
		m.summary.Completed,
		ui.FormatBytes(m.summary.Bytes),
		m.summary.Skipped,
		m.summary.Failed,
	))
	b.WriteString(box)
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Run stopped:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning, download.LevelSkipped:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateReady:
		return "enter: start • f: force • v: verbose • s: strict • q: quit"
	case StateRunning:
		return "esc: cancel"
	case StateLogin:
		return "enter: next/submit • esc: cancel login"
	case StateRetry:
		return "enter: retry • q: give up"
	case StateComplete, StateError:
		return "r: run again • q: quit"
	}
	return ""
}

// startRun runs the pipeline in the background.
func (m Model) startRun() tea.Cmd {
	ctx := m.ctx
	b := m.bridge
	settings := m.settings
	sources := m.sources
	opts := settings.Options()
	opts.ForceRedownload = m.force
	opts.VerboseSkipReporting = m.verbose
	opts.Strict = m.strict

	return func() tea.Msg {
		client := http.NewClient(settings.UserAgent, settings.Timeout())
		store := auth.NewStore(b, settings.Username)

		var policy download.FailurePolicy = b
		if settings.Unattended {
			policy = download.Unattended{}
		}

		manager := download.NewManager(client, opts, store, policy, func(event download.ProgressEvent) {
			b.send(ProgressMsg{Event: event})
		})

		summary, err := manager.Run(ctx, sources)
		return RunDoneMsg{Summary: summary, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, sources []model.Source) error {
	b := &bridge{}
	p := tea.NewProgram(NewModel(settings, sources, b), tea.WithAltScreen())
	b.program = p

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
