package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"filerename/internal/adapters/tui/styles"
	"filerename/internal/application"
	"filerename/internal/application/commands"
)

// PreviewState is the phase the preview screen is in
type PreviewState int

const (
	PreviewLoading PreviewState = iota
	PreviewList
	PreviewConfirm
	PreviewRunning
	PreviewDone
	PreviewError
)

// Messages exchanged with the App
type (
	// PreviewLoadedMsg carries the dry-run results
	PreviewLoadedMsg struct {
		Results []*commands.TaskResult
		Err     error
	}

	// ApplyRequestedMsg asks the App to run the tasks for real
	ApplyRequestedMsg struct{}

	// ApplyFinishedMsg carries the results of the real run
	ApplyFinishedMsg struct {
		Results []*commands.TaskResult
		Err     error
	}

	// SwitchToHelpMsg opens the help screen
	SwitchToHelpMsg struct{}

	// SwitchToPreviewMsg returns from the help screen
	SwitchToPreviewMsg struct{}

	confirmCancelledMsg struct{}
)

// PreviewKeyMap defines key bindings for the preview list
type PreviewKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Apply    key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var PreviewKeys = PreviewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right", "l", "pgdown"),
		key.WithHelp("→/l", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left", "h", "pgup"),
		key.WithHelp("←/h", "prev page"),
	),
	Apply: key.NewBinding(
		key.WithKeys("enter", "a"),
		key.WithHelp("enter/a", "apply"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy mapping"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Row is one file in the preview list
type Row struct {
	TaskID    string
	Source    string
	Target    string
	Status    application.JobStatus
	Unchanged bool
	Err       error
}

// Pending reports whether applying the plan would touch this file
func (r Row) Pending() bool {
	return r.Err == nil && !r.Unchanged && r.Target != ""
}

// RowsFrom flattens task results into list rows
func RowsFrom(results []*commands.TaskResult) []Row {
	var rows []Row
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, j := range res.Jobs {
			rows = append(rows, Row{
				TaskID:    res.TaskID,
				Source:    j.Source,
				Target:    j.Target,
				Status:    j.Status,
				Unchanged: j.Unchanged,
				Err:       j.Err,
			})
		}
	}
	return rows
}

// Mapping renders "source<TAB>target" lines for every pending row
func Mapping(rows []Row) string {
	var b strings.Builder
	for _, r := range rows {
		if !r.Pending() {
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\n", r.Source, r.Target)
	}
	return b.String()
}

const previewPageSize = 15

// PreviewModel lists the planned renames and drives the confirm step
type PreviewModel struct {
	ViewState
	state     PreviewState
	spinner   spinner.Model
	paginator *Paginator
	confirm   ConfirmationModel
	copyMode  bool

	rows    []Row
	results []*commands.TaskResult
	err     error

	// WriteClipboard defaults to the system clipboard
	WriteClipboard func(string) error
}

// NewPreviewModel creates a preview screen waiting for dry-run results
func NewPreviewModel(copyMode bool) *PreviewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Success
	return &PreviewModel{
		state:          PreviewLoading,
		spinner:        s,
		paginator:      NewPaginator(previewPageSize),
		confirm:        NewConfirmationModel(),
		copyMode:       copyMode,
		WriteClipboard: clipboard.WriteAll,
	}
}

// Init starts the spinner
func (m *PreviewModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// State returns the current phase
func (m *PreviewModel) State() PreviewState {
	return m.state
}

// Rows returns the rows currently listed
func (m *PreviewModel) Rows() []Row {
	return m.rows
}

// Results returns the latest task results
func (m *PreviewModel) Results() []*commands.TaskResult {
	return m.results
}

// Err returns the error of the latest run, if any
func (m *PreviewModel) Err() error {
	return m.err
}

// Cursor returns the selected row index
func (m *PreviewModel) Cursor() int {
	return m.paginator.Cursor()
}

// StartApply switches to the running phase
func (m *PreviewModel) StartApply() tea.Cmd {
	m.state = PreviewRunning
	m.ClearMessage()
	return m.spinner.Tick
}

// Update handles messages for the preview view
func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.resizePage()
		return m, nil

	case spinner.TickMsg:
		if m.state == PreviewLoading || m.state == PreviewRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case PreviewLoadedMsg:
		m.load(msg.Results, msg.Err)
		if m.state == PreviewList && m.pending() == 0 {
			m.SetMessage("Nothing to rename", false)
		}
		return m, nil

	case ApplyFinishedMsg:
		m.load(msg.Results, msg.Err)
		if m.state != PreviewError {
			m.state = PreviewDone
			line := summaryLine(msg.Results)
			if msg.Err != nil {
				line += ": " + msg.Err.Error()
			}
			m.SetMessage(line, msg.Err != nil || failed(msg.Results) > 0)
		}
		return m, nil

	case confirmCancelledMsg:
		m.state = PreviewList
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// resizePage fits the list between the per-task header and the footer
func (m *PreviewModel) resizePage() {
	rows := m.Height - 10 - 2*len(m.results)
	m.paginator.SetPageSize(max(rows, 5))
}

func (m *PreviewModel) load(results []*commands.TaskResult, err error) {
	m.results = results
	m.err = err
	m.rows = RowsFrom(results)
	m.paginator.SetTotal(len(m.rows))
	if m.Height > 0 {
		m.resizePage()
	}
	if err != nil && len(m.rows) == 0 {
		m.state = PreviewError
		m.SetMessage(err.Error(), true)
		return
	}
	m.state = PreviewList
	if err != nil {
		m.SetMessage(err.Error(), true)
	}
}

func (m *PreviewModel) pending() int {
	n := 0
	for _, r := range m.rows {
		if r.Pending() {
			n++
		}
	}
	return n
}

func (m *PreviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.state {
	case PreviewList:
		return m.handleListKey(msg)
	case PreviewConfirm:
		_, cmd := m.confirm.HandleKeyMsg(msg,
			func() tea.Msg { return ApplyRequestedMsg{} },
			func() tea.Msg { return confirmCancelledMsg{} },
		)
		return m, cmd
	case PreviewDone, PreviewError:
		if key.Matches(msg, PreviewKeys.Quit) || msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *PreviewModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, PreviewKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, PreviewKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(msg, PreviewKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(msg, PreviewKeys.NextPage):
		m.paginator.NextPage()
	case key.Matches(msg, PreviewKeys.PrevPage):
		m.paginator.PrevPage()
	case key.Matches(msg, PreviewKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }
	case key.Matches(msg, PreviewKeys.Copy):
		m.copyMapping()
	case key.Matches(msg, PreviewKeys.Apply):
		n := m.pending()
		if n == 0 {
			m.SetMessage("Nothing to rename", false)
			return m, nil
		}
		m.confirm.Pending = n
		m.confirm.Copy = m.copyMode
		m.state = PreviewConfirm
		m.ClearMessage()
	}
	return m, nil
}

func (m *PreviewModel) copyMapping() {
	text := Mapping(m.rows)
	if text == "" {
		m.SetMessage("Nothing to copy", false)
		return
	}
	if err := m.WriteClipboard(text); err != nil {
		m.SetMessage("Clipboard: "+err.Error(), true)
		return
	}
	m.SetMessage(fmt.Sprintf("Copied %d mapping(s) to clipboard", m.pending()), false)
}

// View renders the preview screen
func (m *PreviewModel) View() string {
	v := NewViewBuilder()

	switch m.state {
	case PreviewLoading:
		v.Title("Rename preview").
			Line(m.spinner.View() + " Matching files...")
		return v.String()
	case PreviewError:
		v.Title("Rename preview").
			Message(m.Message, true).
			Help(PreviewKeys.Quit)
		return v.String()
	}

	title := "Rename preview"
	switch m.state {
	case PreviewRunning:
		title = "Renaming"
	case PreviewDone:
		title = "Rename finished"
	}
	v.Title(title)
	for _, res := range m.results {
		if res == nil {
			continue
		}
		v.Line(RenderLabelValue("Root", res.Root))
		v.Line(RenderLabelValue("Templates", res.InputTemplate+styles.Arrow.String()+res.OutputTemplate))
	}
	if m.state == PreviewList && m.numbersAssignedAtRun() {
		v.Muted(enumerationNote)
	}
	v.BlankLine()

	if len(m.rows) == 0 {
		v.Muted("No files matched")
	} else {
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderRow(m.rows[i], i == m.paginator.Cursor()))
		}
		if m.paginator.TotalPages() > 1 {
			v.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
		}
	}
	v.BlankLine()

	switch m.state {
	case PreviewConfirm:
		v.Line(RenderConfirmPrompt(m.confirm.Question()))
	case PreviewRunning:
		v.Line(m.spinner.View() + " Working...")
	case PreviewDone:
		v.Message(m.Message, m.MessageErr).
			Help(PreviewKeys.Quit)
	default:
		v.Message(m.Message, m.MessageErr).
			Help(PreviewKeys.Up, PreviewKeys.Down, PreviewKeys.Apply, PreviewKeys.Copy, PreviewKeys.Help, PreviewKeys.Quit)
	}
	return v.String()
}

const enumerationNote = "<<E>> numbers are assigned when the renames are applied and may differ from this preview"

func (m *PreviewModel) numbersAssignedAtRun() bool {
	for _, res := range m.results {
		if res != nil && application.AssignsNumbersAtRun(res.OutputTemplate) {
			return true
		}
	}
	return false
}

func (m *PreviewModel) renderRow(r Row, selected bool) string {
	src := filepath.Base(r.Source)
	var line string
	switch {
	case r.Err != nil:
		line = styles.RowSource.Render(src) + styles.Arrow.String() + styles.RowFailed.Render(r.Err.Error())
	case r.Unchanged:
		line = styles.RowUnchanged.Render(src + " (unchanged)")
	default:
		line = styles.RowSource.Render(src) + styles.Arrow.String() + styles.RowTarget.Render(filepath.Base(r.Target))
	}
	if m.state == PreviewDone {
		line += " " + RenderMuted(r.Status.String())
	}
	if selected {
		return styles.RowSelected.Render("›") + " " + line
	}
	return "  " + line
}

func failed(results []*commands.TaskResult) int {
	n := 0
	for _, r := range results {
		if r != nil {
			n += r.Count(application.JobFailed)
		}
	}
	return n
}

func summaryLine(results []*commands.TaskResult) string {
	ok := 0
	for _, r := range results {
		if r != nil {
			ok += r.Count(application.JobSuccess)
		}
	}
	return fmt.Sprintf("%d succeeded, %d failed", ok, failed(results))
}
