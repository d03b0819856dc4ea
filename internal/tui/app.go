// internal/tui/app.go
//
// The terminal front-end, following The Elm Architecture bubbletea uses:
// model -> update -> view. Every network call runs as a tea.Cmd in its own
// goroutine and reports back through a typed message; Update is the only
// place UI state changes.
//
// Screens: dashboard (project list) -> wizard (create project) -> editor
// (per-section generate/refine/comment/export).

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nexwrit/scribe/internal/config"
	"github.com/nexwrit/scribe/internal/document"
	"github.com/nexwrit/scribe/internal/logging"
	"github.com/nexwrit/scribe/internal/tracker"
	"github.com/nexwrit/scribe/internal/workflow"
)

// appState represents which screen we're on.
type appState int

const (
	stateDashboard appState = iota
	stateWizard
	stateEditor
)

const noticeTTL = 4 * time.Second

// Exporter saves a rendered document locally. *export.Saver satisfies it.
type Exporter interface {
	Save(ctx context.Context, projectID, fallback string) (string, error)
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.SugaredLogger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// App is the main application model holding all UI state.
type App struct {
	state    appState
	config   *config.Config
	backend  workflow.Backend
	exporter Exporter
	orch     *workflow.Orchestrator
	logger   *zap.SugaredLogger

	dashboard *dashboardView
	wizard    *wizardView
	editor    *editorView

	width  int
	height int

	// Transient status line, the toast equivalent. noticeSeq guards
	// against an old expiry clearing a newer notice.
	notice    string
	noticeErr bool
	noticeSeq int
}

type clearNoticeMsg struct {
	seq int
}

// NewApp wires the three screens to their collaborators.
func NewApp(cfg *config.Config, backend workflow.Backend, exporter Exporter, opts ...AppOption) *App {
	app := &App{
		state:    stateDashboard,
		config:   cfg,
		backend:  backend,
		exporter: exporter,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.orch = workflow.NewOrchestrator(backend, document.NewStore(), tracker.New(),
		workflow.WithLogger(app.logger))
	app.dashboard = newDashboardView(app)
	app.wizard = newWizardView(app)
	app.editor = newEditorView(app)
	return app
}

// Init kicks off the first project-list fetch.
func (a *App) Init() tea.Cmd {
	return a.dashboard.load()
}

// Update routes messages to the active screen after handling the few
// app-global concerns.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.setSize(msg.Width, msg.Height)
		return a, nil

	case clearNoticeMsg:
		if msg.seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	switch a.state {
	case stateDashboard:
		return a, a.dashboard.update(msg)
	case stateWizard:
		return a, a.wizard.update(msg)
	case stateEditor:
		return a, a.editor.update(msg)
	}
	return a, nil
}

// View renders the active screen plus the shared status line.
func (a *App) View() string {
	var body string
	switch a.state {
	case stateDashboard:
		body = a.dashboard.view()
	case stateWizard:
		body = a.wizard.view()
	case stateEditor:
		body = a.editor.view()
	}
	if a.notice == "" {
		return body
	}
	style := successStyle
	if a.noticeErr {
		style = errorStyle
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, style.Render(a.notice))
}

// showNotice surfaces a transient message on the status line.
func (a *App) showNotice(text string, isErr bool) tea.Cmd {
	a.notice = text
	a.noticeErr = isErr
	a.noticeSeq++
	seq := a.noticeSeq
	if isErr {
		a.logger.Warnw("notice", "text", text)
	}
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// gotoDashboard leaves the current screen and refreshes the project list.
// Any still-running editor operation completes against a cleared store.
func (a *App) gotoDashboard() tea.Cmd {
	a.state = stateDashboard
	a.orch.Close()
	return a.dashboard.load()
}

// gotoWizard starts a fresh project draft.
func (a *App) gotoWizard() tea.Cmd {
	a.state = stateWizard
	a.wizard.reset()
	return nil
}

// gotoEditor opens a project, loading metadata and sections together.
func (a *App) gotoEditor(projectID string) tea.Cmd {
	a.state = stateEditor
	return a.editor.open(projectID)
}

func (a *App) contentWidth() int {
	if a.width <= 0 {
		return 80
	}
	return a.width
}
