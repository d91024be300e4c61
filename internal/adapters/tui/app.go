package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"filerename/internal/adapters/tui/views"
	"filerename/internal/application/commands"
)

// ViewState represents the current view
type ViewState int

const (
	ViewPreview ViewState = iota
	ViewHelp
)

// Runner executes the configured rename tasks, as a dry run or for real
type Runner func(ctx context.Context, dryRun bool) ([]*commands.TaskResult, error)

// App is the main TUI application model
type App struct {
	ctx context.Context
	run Runner

	state   ViewState
	preview *views.PreviewModel
	help    *views.HelpModel
	applied bool

	width  int
	height int
}

// NewApp creates a TUI that previews the renames before applying them
func NewApp(ctx context.Context, run Runner, copyMode bool) *App {
	return &App{
		ctx:     ctx,
		run:     run,
		state:   ViewPreview,
		preview: views.NewPreviewModel(copyMode),
		help:    views.NewHelpModel(),
	}
}

// Init starts the dry run
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.preview.Init(), a.execute(true))
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.preview.Update(msg)
		a.help.Update(msg)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToPreviewMsg:
		a.state = ViewPreview
		return a, nil

	case views.ApplyRequestedMsg:
		a.applied = true
		return a, tea.Batch(a.preview.StartApply(), a.execute(false))
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	default:
		_, cmd = a.preview.Update(msg)
	}
	return a, cmd
}

func (a *App) execute(dryRun bool) tea.Cmd {
	return func() tea.Msg {
		results, err := a.run(a.ctx, dryRun)
		if dryRun {
			return views.PreviewLoadedMsg{Results: results, Err: err}
		}
		return views.ApplyFinishedMsg{Results: results, Err: err}
	}
}

// View renders the current view
func (a *App) View() string {
	if a.state == ViewHelp {
		return a.help.View()
	}
	return a.preview.View()
}

// Applied reports whether the user confirmed and the real run started
func (a *App) Applied() bool {
	return a.applied
}

// Results returns the results of the last run, dry or real
func (a *App) Results() []*commands.TaskResult {
	return a.preview.Results()
}

// Err returns the error of the last run
func (a *App) Err() error {
	return a.preview.Err()
}

// Preview exposes the preview screen
func (a *App) Preview() *views.PreviewModel {
	return a.preview
}
