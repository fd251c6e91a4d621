package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/tasks-tui/internal/mascot"
	"github.com/pdxmph/tasks-tui/internal/tasks"
)

// EmptyMessage replaces the list when there is nothing to show
const EmptyMessage = "No tasks yet!"

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlays take the whole screen
	if m.notice != "" {
		return m.renderNotice()
	}
	if m.filterMode {
		return m.renderFilterSelection()
	}
	if m.formMode {
		return m.renderForm()
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderFilterBar())
	if m.searchMode || m.search.Value() != "" {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, strings.Repeat("─", max(m.width-2, 1)))

	used := lipgloss.Height(strings.Join(sections, "\n")) + 1 // help line
	sections = append(sections, m.renderList(m.width, m.height-used))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	content = lipgloss.NewStyle().Height(m.height - 1).MaxHeight(m.height - 1).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelp())
}

// renderHeader renders the title line with the mascot on the right
func (m Model) renderHeader() string {
	header := fmt.Sprintf("Tasks (%d of %d)", len(m.visible), m.store.Len())
	if m.editingTaskID != "" {
		header += " [editing]"
	}

	if !m.showMascot {
		return header
	}

	dog := m.mascot.Frame()
	if m.mascot.MessageVisible() {
		dog = mutedStyle.Render(mascot.Farewell)
	}
	gap := m.width - lipgloss.Width(header) - lipgloss.Width(dog) - 1
	if gap < 1 {
		gap = 1
	}
	return header + strings.Repeat(" ", gap) + dog
}

// renderFilterBar renders the filter controls with the active one highlighted
func (m Model) renderFilterBar() string {
	var controls []string
	for i, f := range FilterOptions {
		label := fmt.Sprintf("%d %s", i, f)
		if f == m.currentFilter {
			controls = append(controls, activeFilterStyle.Render(label))
		} else {
			controls = append(controls, inactiveFilterStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, controls...)
}

// renderList renders the visible tasks as cards
func (m Model) renderList(width, height int) string {
	if len(m.visible) == 0 {
		return mutedStyle.Render(EmptyMessage)
	}

	cards := make([]string, len(m.visible))
	for i, t := range m.visible {
		cards[i] = m.renderCard(t, i == m.selected, width)
	}

	// Cards vary in height, so the window is measured in lines: walk back
	// from the selection while earlier cards fit, then fill the rest below
	start, end := m.selected, m.selected+1
	used := lipgloss.Height(cards[m.selected])
	for start > 0 && used+lipgloss.Height(cards[start-1]) <= height {
		start--
		used += lipgloss.Height(cards[start])
	}
	for end < len(cards) && used+lipgloss.Height(cards[end]) <= height {
		used += lipgloss.Height(cards[end])
		end++
	}

	return strings.Join(cards[start:end], "\n")
}

// renderCard renders one task, colored by its status
func (m Model) renderCard(t tasks.Task, selected bool, width int) string {
	color := statusColor(t.Status)

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(color).Render(t.Title))
	if t.Description != "" {
		lines = append(lines, t.Description)
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%s • %s",
		t.Status, t.CreatedAt.Local().Format(m.timeFormat))))
	if selected {
		lines = append(lines, mutedStyle.Render("e: edit • x: delete"))
	}

	border := lipgloss.NormalBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}

	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Padding(0, 1).
		Width(max(width-4, 10)).
		Render(strings.Join(lines, "\n"))
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	if m.filterMode {
		return " j/k: navigate • Enter: select • Esc: cancel"
	}

	if m.formMode {
		return " Tab/↓: next • Shift+Tab/↑: prev • ←/→: status • Enter: save • Esc: cancel"
	}

	if m.searchMode {
		return " Type to search • ↑/↓: navigate • Enter: keep results • Esc: clear"
	}

	help := " j/k: navigate • n: new • e: edit • x: delete • f/0-4: filter • /: search"

	if m.search.Value() != "" {
		help += " • Esc: clear search"
	}

	if m.showMascot {
		help += " • d: dog"
	}

	help += " • q: quit"

	return help
}

// renderNotice renders the blocking notification
func (m Model) renderNotice() string {
	content := noticeStyle.Render(m.notice) + "\n\n" + mutedStyle.Render("Press any key to continue")
	return m.centered(borderStyle.Padding(1).Render(content))
}

// renderFilterSelection renders the filter selection overlay
func (m Model) renderFilterSelection() string {
	var lines []string
	lines = append(lines, "Show tasks with status:")
	lines = append(lines, "")

	for i, f := range FilterOptions {
		line := fmt.Sprintf("  %s", f)
		if f == m.currentFilter {
			line += " (active)"
		}
		if i == m.filterSelected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Press Enter to confirm, Esc to cancel")

	box := borderStyle.
		Padding(1).
		Background(lipgloss.Color("235")).
		Render(strings.Join(lines, "\n"))
	return m.centered(box)
}

// renderForm renders the create/edit form overlay
func (m Model) renderForm() string {
	title := "New Task"
	if m.editingTaskID != "" {
		title = "Edit Task"
	}

	var lines []string
	lines = append(lines, title)
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	fieldLabels := []string{
		"Title:        ",
		"Description:  ",
		"Status:       ",
	}

	for i, label := range fieldLabels {
		var fieldView string

		if i == FormFieldStatus {
			status := tasks.Statuses[m.formStatusIdx]
			styled := lipgloss.NewStyle().Foreground(statusColor(status)).Render(status.String())
			if i == m.formField {
				fieldView = label + selectedStyle.Render("<") + " " + styled + " " + selectedStyle.Render(">")
			} else {
				fieldView = label + "  " + styled
			}
		} else if i == m.formField {
			fieldView = label + m.formInputs[i].View()
		} else {
			value := m.formInputs[i].Value()
			if value == "" {
				value = mutedStyle.Render(m.formInputs[i].Placeholder)
			}
			fieldView = label + value
		}

		lines = append(lines, fieldView)
		lines = append(lines, "")
	}

	lines = append(lines, selectedStyle.Render(" "+m.SubmitLabel()+" ")+mutedStyle.Render("  Enter"))
	lines = append(lines, "")
	lines = append(lines, mutedStyle.Render("Tab/↓: next field • Shift+Tab/↑: previous • Esc: cancel"))

	box := borderStyle.
		Padding(1).
		Width(min(70, max(m.width-4, 20))).
		Background(lipgloss.Color("235")).
		Render(strings.Join(lines, "\n"))
	return m.centered(box)
}

// centered places box in the middle of the screen
func (m Model) centered(box string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

// SubmitLabel returns the label of the form's submit control
func (m Model) SubmitLabel() string {
	if m.editingTaskID != "" {
		return "Update"
	}
	return "Add"
}
