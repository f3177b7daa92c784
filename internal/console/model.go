package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goliatone/go-cms-admin/internal/datagrid"
	"github.com/goliatone/go-cms-admin/internal/logging"
	"github.com/goliatone/go-cms-admin/internal/resources"
	"github.com/goliatone/go-cms-admin/pkg/interfaces"
)

// --- Messages ---

type loadedMsg struct{ err error }
type mutatedMsg struct{ result datagrid.Result }
type handoffMsg struct{ attempt int }

// --- View States ---

type consoleView int

const (
	viewList consoleView = iota
	viewSearch
	viewDialog
	viewConfirm
)

const (
	handoffPoll     = 10 * time.Millisecond
	handoffAttempts = 50
	tableHeight     = 12
)

// Option configures a Model.
type Option func(*options)

type options struct {
	remote  bool
	handoff time.Duration
	logger  interfaces.Logger
	ctx     context.Context
}

// WithRemoteSearch sends searches to the server instead of filtering the
// loaded page.
func WithRemoteSearch(remote bool) Option {
	return func(o *options) {
		o.remote = remote
	}
}

// WithHandoffDelay matches the engine's view-to-edit delay.
func WithHandoffDelay(delay time.Duration) Option {
	return func(o *options) {
		o.handoff = delay
	}
}

// WithLogger sets the console logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithContext sets the context network calls run under.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// Model is the bubbletea program state for one entity engine.
type Model[E any] struct {
	engine  *datagrid.Engine[E]
	columns []resources.Column[E]
	opts    options
	logger  interfaces.Logger

	table  table.Model
	search textinput.Model
	input  textinput.Model
	rows   []E

	view    consoleView
	fields  []string
	focus   int
	status  string
	errText string
	width   int
	uploadPath string
}

// New builds a console model over engine.
func New[E any](engine *datagrid.Engine[E], columns []resources.Column[E], opts ...Option) Model[E] {
	cfg := options{ctx: context.Background()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	tableColumns := make([]table.Column, len(columns))
	for i, column := range columns {
		tableColumns[i] = table.Column{Title: column.Title, Width: column.Width}
	}
	grid := table.New(
		table.WithColumns(tableColumns),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
	)

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "name=value lang=EN"

	input := textinput.New()
	input.Prompt = "> "

	return Model[E]{
		engine:  engine,
		columns: columns,
		opts:    cfg,
		logger:  logging.WithFields(logging.EnsureLogger(cfg.logger), map[string]any{"resource": engine.Resource()}),
		table:   grid,
		search:  search,
		input:   input,
		view:    viewList,
	}
}

// Run starts an interactive program over model.
func Run(ctx context.Context, model tea.Model, opts ...tea.ProgramOption) error {
	opts = append(opts, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := tea.NewProgram(model, opts...).Run()
	return err
}

// HandoffDelay reports how long the view dialog waits before reopening in
// edit mode.
func (m Model[E]) HandoffDelay() time.Duration {
	return m.opts.handoff
}

func (m Model[E]) Init() tea.Cmd {
	return m.mount()
}

func (m Model[E]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.errText = m.engine.State().Error
			m.logger.Warn("console.load.failed", "error", msg.err)
		} else {
			m.errText = ""
		}
		m.syncRows()
		return m, nil

	case mutatedMsg:
		m.report(msg.result)
		m.syncRows()
		m.syncView()
		return m, nil

	case handoffMsg:
		if state := m.engine.Dialog.State(); state.Open {
			m.enterDialog()
			return m, nil
		}
		if msg.attempt >= handoffAttempts {
			return m, nil
		}
		next := msg.attempt + 1
		return m, tea.Tick(handoffPoll, func(time.Time) tea.Msg { return handoffMsg{attempt: next} })

	case tea.KeyMsg:
		if isKey(msg, "ctrl+c") {
			return m, tea.Quit
		}
		switch m.view {
		case viewSearch:
			return m.handleSearchKeys(msg)
		case viewDialog:
			return m.handleDialogKeys(msg)
		case viewConfirm:
			return m.handleConfirmKeys(msg)
		default:
			return m.handleListKeys(msg)
		}
	}
	return m, nil
}

// --- List View ---

func (m Model[E]) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isQuit(msg):
		return m, tea.Quit
	case isKey(msg, "/"):
		m.view = viewSearch
		m.search.SetValue(formatDraft(m.engine.Filters.Draft()))
		return m, m.search.Focus()
	case isKey(msg, "c"):
		m.engine.Filters.Clear()
		m.status = "Filters cleared"
		if m.opts.remote {
			return m, m.run(func(ctx context.Context) error { return m.engine.Filters.ApplyRemote(ctx) })
		}
		m.syncRows()
	case isKey(msg, "n"):
		if m.engine.ReadOnly() {
			m.status = "This view is read-only"
			return m, nil
		}
		m.engine.Dialog.OpenCreate()
		m.enterDialog()
	case isEnter(msg):
		if entity, ok := m.selected(); ok {
			m.engine.Dialog.OpenView(entity)
			m.enterDialog()
		}
	case isKey(msg, "e"):
		if entity, ok := m.selected(); ok && !m.engine.ReadOnly() {
			m.engine.Dialog.OpenEdit(entity)
			m.enterDialog()
		}
	case isKey(msg, "d"):
		if entity, ok := m.selected(); ok && !m.engine.ReadOnly() {
			m.engine.Dialog.ConfirmDelete(entity)
			m.view = viewConfirm
		}
	case isKey(msg, "]"):
		return m, m.run(m.engine.Loader.NextPage)
	case isKey(msg, "["):
		return m, m.run(m.engine.Loader.PrevPage)
	case isKey(msg, "r"):
		return m, m.run(m.engine.Loader.Reload)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// --- Search ---

func (m Model[E]) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		m.search.Blur()
		m.view = viewList
		return m, nil
	case isEnter(msg):
		m.search.Blur()
		m.view = viewList
		draft := parseDraft(m.search.Value(), m.defaultSearchField())
		for _, field := range m.engine.Filters.Fields() {
			m.engine.Filters.Set(field.Name, draft[field.Name])
		}
		for name, value := range draft {
			m.engine.Filters.Set(name, value)
		}
		if m.opts.remote {
			return m, m.run(func(ctx context.Context) error { return m.engine.Filters.ApplyRemote(ctx) })
		}
		m.engine.Filters.Apply()
		m.syncRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model[E]) defaultSearchField() string {
	for _, field := range m.engine.Filters.Fields() {
		if field.Kind == datagrid.FieldText {
			return field.Name
		}
	}
	return ""
}

// --- Dialog ---

func (m Model[E]) handleDialogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.engine.Dialog.State()
	if state.Action == datagrid.ActionView {
		switch {
		case isBack(msg), isQuit(msg):
			m.engine.Dialog.Close()
			m.view = viewList
		case isKey(msg, "e"):
			if m.engine.ReadOnly() || state.Selected == nil {
				return m, nil
			}
			m.engine.Dialog.RequestEdit(*state.Selected)
			m.view = viewList
			return m, tea.Tick(m.opts.handoff, func(time.Time) tea.Msg { return handoffMsg{} })
		case isKey(msg, "d"):
			if m.engine.ReadOnly() || state.Selected == nil {
				return m, nil
			}
			m.engine.Dialog.ConfirmDelete(*state.Selected)
			m.view = viewConfirm
		case isKey(msg, "down", "tab"):
			m.moveFocus(1)
		case isKey(msg, "up", "shift+tab"):
			m.moveFocus(-1)
		}
		return m, nil
	}

	switch {
	case isBack(msg):
		m.uploadPath = ""
		m.engine.Dialog.Close()
		m.input.Blur()
		m.view = viewList
		return m, nil
	case isKey(msg, "down", "tab"):
		m.commitInput()
		m.moveFocus(1)
		return m, m.input.Focus()
	case isKey(msg, "up", "shift+tab"):
		m.commitInput()
		m.moveFocus(-1)
		return m, m.input.Focus()
	case isKey(msg, "ctrl+s"):
		m.commitInput()
		if state.Submitting {
			return m, nil
		}
		file, err := m.attachUpload()
		if err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.status = "Saving..."
		engine, ctx := m.engine, m.opts.ctx
		return m, func() tea.Msg {
			if file != nil {
				defer file.Close()
			}
			return mutatedMsg{result: engine.Submit(ctx)}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// --- Confirm ---

func (m Model[E]) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		m.status = "Deleting..."
		engine, ctx := m.engine, m.opts.ctx
		return m, func() tea.Msg {
			return mutatedMsg{result: engine.ConfirmDelete(ctx)}
		}
	case isKey(msg, "n"), isBack(msg):
		m.engine.Dialog.CancelDelete()
		m.syncView()
	}
	return m, nil
}

// --- Helpers ---

func (m Model[E]) mount() tea.Cmd {
	return m.run(m.engine.Mount)
}

func (m Model[E]) run(fn func(context.Context) error) tea.Cmd {
	ctx := m.opts.ctx
	return func() tea.Msg {
		return loadedMsg{err: fn(ctx)}
	}
}

func (m *Model[E]) syncRows() {
	m.rows = m.engine.State().Filtered
	rows := make([]table.Row, len(m.rows))
	for i, entity := range m.rows {
		row := make(table.Row, len(m.columns))
		for j, column := range m.columns {
			row[j] = column.Value(entity)
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// syncView follows the dialog state after a mutation or cancel.
func (m *Model[E]) syncView() {
	state := m.engine.Dialog.State()
	switch {
	case state.DeleteOpen:
		m.view = viewConfirm
	case state.Open && m.view == viewDialog:
		m.loadInput()
	case state.Open:
		m.enterDialog()
	default:
		m.uploadPath = ""
		m.input.Blur()
		m.view = viewList
	}
}

func (m *Model[E]) selected() (E, bool) {
	var zero E
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return zero, false
	}
	return m.rows[cursor], true
}

func (m *Model[E]) enterDialog() {
	state := m.engine.Dialog.State()
	m.fields = formFields(state.Form)
	if state.Action == datagrid.ActionCreate {
		if _, ok := state.Form[datagrid.MethodField]; ok {
			m.fields = append(m.fields, datagrid.FileField)
		}
	}
	if m.focus >= len(m.fields) || state.Action == datagrid.ActionCreate || state.Action == datagrid.ActionView {
		m.focus = 0
	}
	m.view = viewDialog
	m.loadInput()
}

func (m *Model[E]) moveFocus(delta int) {
	if len(m.fields) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	m.loadInput()
}

func (m *Model[E]) loadInput() {
	if len(m.fields) == 0 {
		return
	}
	form := m.engine.Dialog.Form()
	m.input.SetValue(formatValue(form[m.fields[m.focus]]))
	m.input.CursorEnd()
	if m.engine.Dialog.State().Action != datagrid.ActionView {
		m.input.Focus()
	}
}

func (m *Model[E]) commitInput() {
	if len(m.fields) == 0 {
		return
	}
	name := m.fields[m.focus]
	form := m.engine.Dialog.Form()
	raw := m.input.Value()
	if raw == formatValue(form[name]) {
		return
	}
	if name == datagrid.FileField {
		m.selectUpload(raw)
		return
	}
	m.engine.Dialog.SetField(name, form.Coerce(name, raw))
}

// selectUpload remembers the upload path. The file itself is opened per
// submit so a rejected upload can be sent again.
func (m *Model[E]) selectUpload(raw string) {
	path := strings.TrimSpace(raw)
	if path == "" {
		m.uploadPath = ""
		m.engine.Dialog.SetField(datagrid.FileField, nil)
		return
	}
	if _, err := os.Stat(path); err != nil {
		m.errText = fmt.Sprintf("open upload: %v", err)
		return
	}
	m.uploadPath = path
	m.engine.Dialog.SetField(datagrid.FileField, &interfaces.Upload{Field: datagrid.FileField, FileName: filepath.Base(path)})
}

// attachUpload opens the selected file for one submit. The caller closes it
// once the submit returns.
func (m *Model[E]) attachUpload() (*os.File, error) {
	if m.uploadPath == "" || m.engine.Dialog.State().Action != datagrid.ActionCreate {
		return nil, nil
	}
	file, err := os.Open(m.uploadPath)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	m.engine.Dialog.SetField(datagrid.FileField, &interfaces.Upload{
		Field:    datagrid.FileField,
		FileName: filepath.Base(m.uploadPath),
		Reader:   file,
	})
	return file, nil
}

func (m *Model[E]) report(result datagrid.Result) {
	switch result.Outcome {
	case datagrid.OutcomeSuccess:
		m.status = SuccessStyle.Render(result.Message)
		m.errText = ""
	case datagrid.OutcomeNoop:
		m.status = MutedStyle.Render("No changes")
	case datagrid.OutcomeInvalid:
		m.status = ""
		m.errText = "Please fix the highlighted fields"
	default:
		m.status = ""
		m.errText = result.Message
	}
}

// --- Views ---

func (m Model[E]) View() string {
	var b strings.Builder
	state := m.engine.State()
	title := fmt.Sprintf("%s  page %d/%d  (%d items)", m.engine.Resource(), state.Page+1, max(state.TotalPages, 1), len(state.Filtered))
	b.WriteString(TitleStyle.Render(title))
	if state.Loading {
		b.WriteString(MutedStyle.Render("  loading..."))
	}
	b.WriteString("\n\n")

	switch m.view {
	case viewSearch:
		b.WriteString(m.table.View())
		b.WriteString("\n")
		b.WriteString(m.search.View())
	case viewDialog:
		b.WriteString(m.renderDialog())
	case viewConfirm:
		b.WriteString(m.renderConfirm())
	default:
		b.WriteString(m.table.View())
	}

	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(ErrorStyle.Render(m.errText))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render(m.help()))
	return b.String()
}

func (m Model[E]) renderDialog() string {
	state := m.engine.Dialog.State()
	lines := []string{TitleStyle.Render(dialogTitle(state.Action))}
	for i, name := range m.fields {
		value := formatValue(state.Form[name])
		if i == m.focus && state.Action != datagrid.ActionView {
			value = m.input.View()
		}
		label := LabelStyle.Render(name)
		if i == m.focus {
			label = FocusStyle.Width(16).Render(name)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, label, value)
		if errs := state.Errors[name]; len(errs) > 0 {
			line += "  " + ErrorStyle.Render(strings.Join(errs, "; "))
		}
		lines = append(lines, line)
	}
	if state.Submitting {
		lines = append(lines, MutedStyle.Render("Saving..."))
	}
	return DialogStyle.Render(strings.Join(lines, "\n"))
}

func (m Model[E]) renderConfirm() string {
	state := m.engine.Dialog.State()
	target := ""
	if state.DeleteTarget != nil {
		target = m.engine.ID(*state.DeleteTarget)
	}
	text := fmt.Sprintf("Delete %s %s? (y/n)", m.engine.Resource(), target)
	if state.Deleting {
		text = "Deleting..."
	}
	return DialogStyle.Render(text)
}

func (m Model[E]) help() string {
	switch m.view {
	case viewSearch:
		return "enter apply • esc cancel"
	case viewDialog:
		if m.engine.Dialog.State().Action == datagrid.ActionView {
			return "e edit • d delete • esc close"
		}
		return "tab/↓ next • ↑ prev • ctrl+s save • esc cancel"
	case viewConfirm:
		return "y confirm • n cancel"
	}
	if m.engine.ReadOnly() {
		return "/ search • c clear • enter view • [ ] page • r refresh • q quit"
	}
	return "/ search • c clear • n new • enter view • e edit • d delete • [ ] page • r refresh • q quit"
}

func dialogTitle(action datagrid.Action) string {
	switch action {
	case datagrid.ActionCreate:
		return "Create"
	case datagrid.ActionEdit:
		return "Edit"
	default:
		return "Details"
	}
}

// formFields orders form keys with the upload method first.
func formFields(form datagrid.Form) []string {
	fields := make([]string, 0, len(form))
	for key := range form {
		if key == datagrid.MethodField || key == datagrid.FileField {
			continue
		}
		fields = append(fields, key)
	}
	sort.Strings(fields)
	if _, ok := form[datagrid.MethodField]; ok {
		fields = append([]string{datagrid.MethodField}, fields...)
	}
	return fields
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case *interfaces.Upload:
		if typed == nil {
			return ""
		}
		return typed.FileName
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

// parseDraft reads "field=value" tokens. A bare token searches
// fallbackField.
func parseDraft(input, fallbackField string) datagrid.SearchDraft {
	draft := datagrid.SearchDraft{}
	var loose []string
	for _, token := range strings.Fields(input) {
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			loose = append(loose, token)
			continue
		}
		draft[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	if len(loose) > 0 && fallbackField != "" {
		draft[fallbackField] = strings.Join(loose, " ")
	}
	return draft
}

func formatDraft(draft datagrid.SearchDraft) string {
	keys := make([]string, 0, len(draft))
	for key, value := range draft {
		if strings.TrimSpace(value) != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = key + "=" + draft[key]
	}
	return strings.Join(parts, " ")
}
