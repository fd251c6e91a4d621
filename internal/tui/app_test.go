package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/tasks-tui/internal/mascot"
	"github.com/pdxmph/tasks-tui/internal/storage"
	"github.com/pdxmph/tasks-tui/internal/tasks"
)

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"ctrl+c":    tea.KeyCtrlC,
}

func keyMsg(s string) tea.KeyMsg {
	if kt, ok := namedKeys[s]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds each key to the model in turn
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newTestModel(t *testing.T, backend storage.Backend) (Model, *tasks.Store) {
	t.Helper()
	store, err := tasks.NewStore(backend, "")
	require.NoError(t, err)

	m, err := New(store, Options{Logger: zerolog.Nop(), Mascot: true})
	require.NoError(t, err)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), store
}

func titles(list []tasks.Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.Title
	}
	return out
}

func TestNew_RejectsUnknownDefaultFilter(t *testing.T) {
	store, err := tasks.NewStore(storage.NewMemoryBackend(), "")
	require.NoError(t, err)

	_, err = New(store, Options{DefaultFilter: "someday"})
	assert.Error(t, err)
}

func TestNew_StartsWithDefaultFilter(t *testing.T) {
	backend := storage.NewMemoryBackend()
	store, err := tasks.NewStore(backend, "")
	require.NoError(t, err)
	_, _ = store.Create("A", "", "to-do")
	_, _ = store.Create("B", "", "blocked")

	m, err := New(store, Options{DefaultFilter: "blocked"})
	require.NoError(t, err)
	assert.Equal(t, "blocked", m.currentFilter)
	assert.Equal(t, []string{"B"}, titles(m.visible))
}

func TestCreateThroughForm(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())

	m = press(t, m, "n")
	require.True(t, m.formMode)
	assert.Equal(t, "Add", m.SubmitLabel())

	m = press(t, m, "Buy milk", "tab", "two bottles", "tab", "right", "enter")

	assert.False(t, m.formMode)
	assert.Empty(t, m.notice)
	require.Equal(t, 1, store.Len())
	task := store.Tasks()[0]
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "two bottles", task.Description)
	assert.Equal(t, tasks.StatusInProgress, task.Status)
	assert.Equal(t, []string{"Buy milk"}, titles(m.visible))

	// the form is cleared for next time
	m = press(t, m, "n")
	assert.Equal(t, "", m.formInputs[FormFieldTitle].Value())
	assert.Equal(t, 0, m.formStatusIdx)
}

func TestFormValidationShowsNotice(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())

	m = press(t, m, "n", "   ", "enter")

	assert.Equal(t, 0, store.Len())
	assert.Contains(t, m.notice, "title is required")
	assert.True(t, m.formMode, "form stays open with its contents")
	assert.Contains(t, m.View(), "title is required")

	// any key dismisses the notice and is swallowed
	m = press(t, m, "z")
	assert.Empty(t, m.notice)
	assert.Equal(t, "   ", m.formInputs[FormFieldTitle].Value())

	m = press(t, m, "esc")
	assert.False(t, m.formMode)
	assert.Equal(t, 0, store.Len())
}

func TestEditThroughForm(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m, "n", "Deploy", "enter")
	created := store.Tasks()[0]

	m = press(t, m, "e")
	require.True(t, m.formMode)
	assert.Equal(t, created.ID, m.editingTaskID)
	assert.Equal(t, "Update", m.SubmitLabel())
	assert.Equal(t, "Deploy", m.formInputs[FormFieldTitle].Value())

	m = press(t, m, " v2", "tab", "tab", "left", "enter")

	assert.False(t, m.formMode)
	assert.Empty(t, m.editingTaskID)
	assert.Equal(t, "Add", m.SubmitLabel())
	require.Equal(t, 1, store.Len())
	updated := store.Tasks()[0]
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Deploy v2", updated.Title)
	assert.Equal(t, tasks.StatusBlocked, updated.Status)
	assert.Equal(t, "red", updated.Color())
}

func TestEditCancelLeavesTaskAlone(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m, "n", "Deploy", "enter")

	m = press(t, m, "e", "changed", "esc")

	assert.False(t, m.formMode)
	assert.Empty(t, m.editingTaskID)
	assert.Equal(t, "Deploy", store.Tasks()[0].Title)
}

func TestDelete(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m, "n", "A", "enter", "n", "B", "enter", "n", "C", "enter")
	require.Equal(t, []string{"A", "B", "C"}, titles(m.visible))

	m = press(t, m, "j", "x")

	assert.Equal(t, []string{"A", "C"}, titles(m.visible))
	assert.Equal(t, []string{"A", "C"}, titles(store.Tasks()))
	assert.Equal(t, 1, m.selected)

	m = press(t, m, "x", "x")
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), EmptyMessage)

	// nothing selected, nothing happens
	m = press(t, m, "x", "e")
	assert.False(t, m.formMode)
}

func TestFilterControls(t *testing.T) {
	m, _ := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m,
		"n", "Buy milk", "enter",
		"n", "Deploy", "tab", "tab", "right", "enter",
		"n", "Report", "tab", "tab", "right", "right", "enter",
	)

	m = press(t, m, "1")
	assert.Equal(t, "to-do", m.currentFilter)
	assert.Equal(t, []string{"Buy milk"}, titles(m.visible))

	m = press(t, m, "f")
	require.True(t, m.filterMode)
	assert.Equal(t, 1, m.filterSelected, "overlay opens on the active control")
	m = press(t, m, "j", "enter")
	assert.False(t, m.filterMode)
	assert.Equal(t, "in-progress", m.currentFilter)
	assert.Equal(t, []string{"Deploy"}, titles(m.visible))

	m = press(t, m, "f", "k", "k", "esc")
	assert.Equal(t, "in-progress", m.currentFilter, "esc keeps the old filter")

	m = press(t, m, "4")
	assert.Empty(t, m.visible)

	m = press(t, m, "0")
	assert.Equal(t, []string{"Buy milk", "Deploy", "Report"}, titles(m.visible))
}

func TestNewTaskOutsideFilterIsHidden(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m, "3")

	m = press(t, m, "n", "Buy milk", "enter")

	assert.Equal(t, 1, store.Len())
	assert.Empty(t, m.visible, "re-render uses the current filter")
}

func TestSearchIgnoresStatusFilter(t *testing.T) {
	m, _ := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m,
		"n", "Buy milk", "enter",
		"n", "Deploy", "tab", "release notes", "tab", "right", "enter",
	)
	m = press(t, m, "1")
	require.Equal(t, []string{"Buy milk"}, titles(m.visible))

	m = press(t, m, "/", "DEP")
	assert.True(t, m.searchMode)
	assert.Equal(t, []string{"Deploy"}, titles(m.visible))

	// every change re-renders
	m = press(t, m, "x")
	assert.Empty(t, m.visible)

	m = press(t, m, "esc")
	assert.False(t, m.searchMode)
	assert.Equal(t, "", m.search.Value())
	assert.Equal(t, []string{"Buy milk"}, titles(m.visible))
}

func TestSearchEnterKeepsResults(t *testing.T) {
	m, _ := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m, "n", "Buy milk", "enter", "n", "Deploy", "enter")

	m = press(t, m, "/", "milk", "enter")
	assert.False(t, m.searchMode)
	assert.Equal(t, []string{"Buy milk"}, titles(m.visible))
	assert.Contains(t, m.renderHelp(), "Esc: clear search")

	m = press(t, m, "esc")
	assert.Equal(t, []string{"Buy milk", "Deploy"}, titles(m.visible))
}

func TestFilterChangeDropsKeptSearch(t *testing.T) {
	m, _ := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m, "n", "Buy milk", "enter", "n", "Deploy", "enter")

	m = press(t, m, "/", "milk", "enter")
	require.Equal(t, "milk", m.search.Value())

	m = press(t, m, "1")
	assert.Equal(t, "", m.search.Value())
	assert.NotContains(t, m.renderHelp(), "Esc: clear search")
	assert.Equal(t, []string{"Buy milk", "Deploy"}, titles(m.visible))
}

func TestDeleteDropsKeptSearch(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())
	m = press(t, m, "n", "Buy milk", "enter", "n", "Deploy", "enter")

	m = press(t, m, "/", "milk", "enter", "x")

	assert.Equal(t, "", m.search.Value())
	assert.Equal(t, []string{"Deploy"}, titles(store.Tasks()))
	assert.Equal(t, []string{"Deploy"}, titles(m.visible))
}

func TestListScrollsTallCardsIntoView(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())
	description := strings.TrimSpace(strings.Repeat("lorem ipsum dolor ", 14))
	for i := 0; i < 8; i++ {
		_, err := store.Create(fmt.Sprintf("Task %d", i), description, "to-do")
		require.NoError(t, err)
	}
	m = press(t, m, "0")
	require.Len(t, m.visible, 8)

	view := m.View()
	assert.Contains(t, view, "Task 0")
	assert.NotContains(t, view, "Task 7")

	for i := 0; i < 7; i++ {
		m = press(t, m, "j")
		view = m.View()
		assert.Contains(t, view, fmt.Sprintf("Task %d", m.selected), "selected card is on screen")
	}

	assert.Equal(t, 7, m.selected)
	assert.Contains(t, view, "Task 7")
	assert.NotContains(t, view, "Task 0")
	assert.LessOrEqual(t, lipgloss.Height(view), 40)
}

func TestEndToEndScenario(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())

	m = press(t, m, "n", "Buy milk", "enter")
	m = press(t, m, "n", "Deploy", "tab", "tab", "right", "enter")

	m = press(t, m, "1")
	assert.Equal(t, []string{"Buy milk"}, titles(m.visible))

	m = press(t, m, "/", "deploy", "enter")
	assert.Equal(t, []string{"Deploy"}, titles(m.visible))

	m = press(t, m, "esc", "1", "x", "0")
	assert.Equal(t, []string{"Deploy"}, titles(m.visible))
	assert.Equal(t, []string{"Deploy"}, titles(store.FilterByStatus(tasks.FilterAll)))
}

type brokenBackend struct {
	*storage.MemoryBackend
	fail bool
}

func (b *brokenBackend) Save(key, value string) error {
	if b.fail {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Save(key, value)
}

func TestPersistenceFailureShowsNotice(t *testing.T) {
	backend := &brokenBackend{MemoryBackend: storage.NewMemoryBackend()}
	m, store := newTestModel(t, backend)
	m = press(t, m, "n", "A", "enter")

	backend.fail = true
	m = press(t, m, "x")
	assert.Contains(t, m.notice, "disk full")
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []string{"A"}, titles(m.visible))

	m = press(t, m, "z", "n", "B", "enter")
	assert.Contains(t, m.notice, "disk full")
	assert.Equal(t, 1, store.Len())
}

func TestMascot(t *testing.T) {
	m, store := newTestModel(t, storage.NewMemoryBackend())

	m = press(t, m, "d")
	assert.Equal(t, mascot.Dancing, m.mascot.State())
	m = press(t, m, "d")
	assert.Equal(t, mascot.Idle, m.mascot.State())

	m = press(t, m, "d", "d", "d")
	assert.Equal(t, mascot.Departed, m.mascot.State())
	assert.True(t, m.mascot.MessageVisible())
	assert.Contains(t, m.View(), mascot.Farewell)

	// the next key hides the message and still does its job
	m = press(t, m, "n")
	assert.False(t, m.mascot.MessageVisible())
	assert.True(t, m.formMode)
	assert.Equal(t, 0, store.Len())
}

func TestMascotDisabled(t *testing.T) {
	store, err := tasks.NewStore(storage.NewMemoryBackend(), "")
	require.NoError(t, err)
	model, err := New(store, Options{})
	require.NoError(t, err)

	m := press(t, *model, "d")
	assert.Equal(t, mascot.Idle, m.mascot.State())
	assert.NotContains(t, m.renderHelp(), "d: dog")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, storage.NewMemoryBackend())

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// q is just a letter inside the form
	m = press(t, m, "n", "q")
	assert.Equal(t, "q", m.formInputs[FormFieldTitle].Value())
}
