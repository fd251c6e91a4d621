package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/pdxmph/tasks-tui/internal/mascot"
	"github.com/pdxmph/tasks-tui/internal/tasks"
)

// Model represents the main application state
type Model struct {
	store    *tasks.Store
	log      zerolog.Logger
	visible  []tasks.Task
	selected int
	width    int
	height   int

	// Status filter
	currentFilter  string
	filterMode     bool
	filterSelected int

	// Search
	searchMode bool
	search     textinput.Model

	// Create / edit form
	formMode      bool
	formField     int
	formInputs    []textinput.Model
	formStatusIdx int
	editingTaskID string

	// Blocking notification, dismissed by any key
	notice string

	mascot     mascot.Mascot
	showMascot bool
	timeFormat string
}

// Options configures a new Model
type Options struct {
	Logger        zerolog.Logger
	DefaultFilter string
	TimeFormat    string
	Mascot        bool
}

// FilterOptions are the filter controls, in display order
var FilterOptions = []string{
	tasks.FilterAll,
	string(tasks.StatusTodo),
	string(tasks.StatusInProgress),
	string(tasks.StatusDone),
	string(tasks.StatusBlocked),
}

// Form field indices
const (
	FormFieldTitle = iota
	FormFieldDescription
	FormFieldStatus
	FormFieldCount // Total number of fields
)

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	activeFilterStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230")).
				Padding(0, 1)

	inactiveFilterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// statusColors maps the store's color names to terminal colors
var statusColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("33"),
	"orange": lipgloss.Color("214"),
	"green":  lipgloss.Color("42"),
	"red":    lipgloss.Color("196"),
}

func statusColor(s tasks.Status) lipgloss.Color {
	if c, ok := statusColors[s.Color()]; ok {
		return c
	}
	return lipgloss.Color("245")
}

// New creates a new application model
func New(store *tasks.Store, opts Options) (*Model, error) {
	filter := opts.DefaultFilter
	if filter == "" {
		filter = tasks.FilterAll
	}
	if filterIndex(filter) < 0 {
		return nil, fmt.Errorf("unknown default filter %q", filter)
	}

	timeFormat := opts.TimeFormat
	if timeFormat == "" {
		timeFormat = "Mon Jan 2 2006 15:04"
	}

	// Setup search input
	ti := textinput.New()
	ti.Placeholder = "Search tasks..."
	ti.Width = 30
	ti.CharLimit = 100
	ti.Prompt = "/ "
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	// Setup form inputs; the status field is a selector, not a text input
	formInputs := make([]textinput.Model, FormFieldCount)
	for i := range formInputs {
		formInputs[i] = textinput.New()
		formInputs[i].Width = 40
		formInputs[i].CharLimit = 200

		switch i {
		case FormFieldTitle:
			formInputs[i].Placeholder = "Title"
		case FormFieldDescription:
			formInputs[i].Placeholder = "Description (optional)"
			formInputs[i].CharLimit = 500
		}
	}

	m := &Model{
		store:         store,
		log:           opts.Logger,
		currentFilter: filter,
		search:        ti,
		formInputs:    formInputs,
		showMascot:    opts.Mascot,
		timeFormat:    timeFormat,
	}
	m.render(store.FilterByStatus(filter))
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 0 {
			m.search.Width = m.width - 10
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// A blocking notification swallows the key that dismisses it
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}

		// Any key also counts as a click somewhere on the page
		if m.mascot.MessageVisible() {
			m.mascot.Dismiss()
		}

		switch {
		case m.filterMode:
			return m.updateFilterMode(msg)
		case m.formMode:
			return m.updateFormMode(msg)
		case m.searchMode:
			return m.updateSearchMode(msg)
		}
		return m.updateNormalMode(msg)
	}

	return m, nil
}

// updateFilterMode handles the filter selection overlay
func (m Model) updateFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterMode = false
		return m, nil
	case "enter":
		m.filterMode = false
		m.applyFilter(FilterOptions[m.filterSelected])
		return m, nil
	case "j", "down":
		if m.filterSelected < len(FilterOptions)-1 {
			m.filterSelected++
		}
	case "k", "up":
		if m.filterSelected > 0 {
			m.filterSelected--
		}
	}
	return m, nil
}

// updateFormMode handles the create/edit form
func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel without touching the store
		m.closeForm()
		return m, nil

	case "enter":
		m.submitForm()
		return m, nil

	case "tab", "down":
		if m.formField < FormFieldCount-1 {
			m.formInputs[m.formField].Blur()
			m.formField++
			if m.formField != FormFieldStatus {
				m.formInputs[m.formField].Focus()
			}
		}
		return m, textinput.Blink

	case "shift+tab", "up":
		if m.formField > 0 {
			if m.formField != FormFieldStatus {
				m.formInputs[m.formField].Blur()
			}
			m.formField--
			m.formInputs[m.formField].Focus()
		}
		return m, textinput.Blink

	case "left", "right":
		if m.formField == FormFieldStatus {
			n := len(tasks.Statuses)
			if msg.String() == "left" {
				m.formStatusIdx = (m.formStatusIdx + n - 1) % n
			} else {
				m.formStatusIdx = (m.formStatusIdx + 1) % n
			}
			return m, nil
		}
	}

	// Update the active text input
	if m.formField != FormFieldStatus {
		var cmd tea.Cmd
		m.formInputs[m.formField], cmd = m.formInputs[m.formField].Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateSearchMode handles typing in the search field
func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clearSearch()
		return m, nil
	case "enter":
		// Keep the results, leave the input
		m.searchMode = false
		m.search.Blur()
		return m, nil
	case "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	// Re-render on every change, over the whole collection
	if m.search.Value() != before {
		m.render(m.store.SearchByText(m.search.Value()))
	}
	return m, cmd
}

// updateNormalMode handles list navigation and actions
func (m Model) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "n", "a":
		cmd := m.openForm(nil)
		return m, cmd

	case "e":
		if task, ok := m.selectedTask(); ok {
			cmd := m.openForm(&task)
			return m, cmd
		}

	case "x", "delete":
		if task, ok := m.selectedTask(); ok {
			if err := m.store.Remove(task.ID); err != nil {
				m.fail("deleting task", err)
				return m, nil
			}
			m.log.Info().Str("id", task.ID).Msg("task deleted")
			m.search.Reset()
			m.render(m.store.FilterByStatus(m.currentFilter))
		}

	case "f":
		m.filterMode = true
		m.filterSelected = filterIndex(m.currentFilter)

	case "0", "1", "2", "3", "4":
		idx, _ := strconv.Atoi(msg.String())
		m.applyFilter(FilterOptions[idx])

	case "/":
		m.searchMode = true
		m.search.Focus()
		return m, textinput.Blink

	case "esc":
		// Drop search results and return to the filtered list
		if m.search.Value() != "" {
			m.clearSearch()
		}

	case "d":
		if m.showMascot {
			state := m.mascot.Click()
			m.log.Debug().Stringer("state", state).Int("clicks", m.mascot.Clicks()).Msg("mascot clicked")
		}
	}

	return m, nil
}

// openForm shows the form, empty for a new task or filled from task
func (m *Model) openForm(task *tasks.Task) tea.Cmd {
	m.resetForm()
	m.formMode = true

	if task != nil {
		m.editingTaskID = task.ID
		m.formInputs[FormFieldTitle].SetValue(task.Title)
		m.formInputs[FormFieldDescription].SetValue(task.Description)
		m.formStatusIdx = statusIndex(task.Status)
	}

	// Set width for inputs based on screen
	if m.width > 0 {
		for i := range m.formInputs {
			m.formInputs[i].Width = min(60, m.width-30)
		}
	}

	m.formInputs[FormFieldTitle].Focus()
	return textinput.Blink
}

// submitForm sends the form through the store's create or update path
func (m *Model) submitForm() {
	fields := tasks.Fields{
		Title:       m.formInputs[FormFieldTitle].Value(),
		Description: m.formInputs[FormFieldDescription].Value(),
		Status:      string(tasks.Statuses[m.formStatusIdx]),
	}

	var (
		task tasks.Task
		err  error
	)
	if m.editingTaskID != "" {
		task, err = m.store.Update(m.editingTaskID, fields)
	} else {
		task, err = m.store.Create(fields.Title, fields.Description, fields.Status)
	}
	if err != nil {
		// Leave the form open with its contents so the user can fix it
		m.fail("saving task", err)
		return
	}

	m.log.Info().Str("id", task.ID).Str("status", task.Status.String()).
		Bool("update", m.editingTaskID != "").Msg("task saved")

	m.closeForm()
	m.search.Reset()
	m.render(m.store.FilterByStatus(m.currentFilter))
}

// closeForm hides the form and clears it, leaving edit mode
func (m *Model) closeForm() {
	m.formMode = false
	m.resetForm()
}

func (m *Model) resetForm() {
	for i := range m.formInputs {
		m.formInputs[i].Reset()
		m.formInputs[i].Blur()
	}
	m.formField = FormFieldTitle
	m.formStatusIdx = 0
	m.editingTaskID = ""
}

// applyFilter switches the active filter control and re-renders, dropping
// any kept search results
func (m *Model) applyFilter(filter string) {
	m.currentFilter = filter
	m.search.Reset()
	m.render(m.store.FilterByStatus(filter))
}

// clearSearch empties the search field and shows the filtered list again
func (m *Model) clearSearch() {
	m.searchMode = false
	m.search.Reset()
	m.search.Blur()
	m.render(m.store.FilterByStatus(m.currentFilter))
}

// render replaces the visible list
func (m *Model) render(list []tasks.Task) {
	m.visible = list
	m.selected = m.ensureValidSelection()
}

// fail surfaces err as a blocking notification
func (m *Model) fail(action string, err error) {
	if tasks.IsValidationError(err) {
		m.log.Debug().Err(err).Msg(action)
	} else {
		m.log.Error().Err(err).Msg(action)
	}
	m.notice = "Error: " + err.Error()
}

// selectedTask returns the task under the cursor
func (m Model) selectedTask() (tasks.Task, bool) {
	if len(m.visible) == 0 || m.selected >= len(m.visible) {
		return tasks.Task{}, false
	}
	return m.visible[m.selected], true
}

// ensureValidSelection ensures the current selection is within bounds
func (m Model) ensureValidSelection() int {
	if len(m.visible) == 0 {
		return 0
	}
	if m.selected >= len(m.visible) {
		return len(m.visible) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}

func filterIndex(filter string) int {
	for i, f := range FilterOptions {
		if f == filter {
			return i
		}
	}
	return -1
}

func statusIndex(status tasks.Status) int {
	for i, s := range tasks.Statuses {
		if s == status {
			return i
		}
	}
	return 0
}
