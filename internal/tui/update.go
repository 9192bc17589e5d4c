package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/colorpick/internal/loader"
	"github.com/alexisbeaulieu97/colorpick/internal/picker"
)

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if m.pending == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case modelLoadedMsg:
		return m.handleModelLoaded(msg), nil

	case ErrorMsg:
		m.showError = true
		m.errorMsg = msg.Message
		return m, nil
	}

	return m, nil
}

func (m Model) handleModelLoaded(msg modelLoadedMsg) Model {
	if msg.Ref == m.pending {
		m.pending = ""
	}

	switch {
	case errors.Is(msg.Err, loader.ErrStaleLoad):
		return m
	case msg.Err != nil:
		m.logger.Warn(m.ctx, "model load failed", "ref", msg.Ref, "error", msg.Err)
		m.showError = true
		m.errorMsg = fmt.Sprintf("Could not load %s: %v", msg.Ref, msg.Err)
		if m.pending == "" {
			_, ref := m.svc.Active()
			if _, idx, ok := m.modelByRef(ref); ok {
				m.modelIdx = idx
			}
		}
		return m
	}

	if mod, _, ok := m.modelByRef(msg.Ref); ok {
		st := m.svc.State()
		m.status = fmt.Sprintf("%s: %d shapes, %d slots", mod.DisplayName(), st.ShapeCount, st.Capacity)
	}
	return m
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Dismiss):
		m.showError = false
		m.errorMsg = ""
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.NextModel):
		return m.selectModel(m.modelIdx + 1)
	case key.Matches(msg, m.keys.PrevModel):
		return m.selectModel(m.modelIdx - 1)
	case key.Matches(msg, m.keys.Toggle):
		return m.toggleCurrent(), nil
	}
	return m, nil
}

func (m Model) selectModel(idx int) (tea.Model, tea.Cmd) {
	n := len(m.catalog.Models)
	if n == 0 {
		return m, nil
	}
	idx = (idx%n + n) % n
	m.modelIdx = idx
	m.pending = m.catalog.Models[idx].Ref
	m.status = ""
	return m, tea.Batch(selectModelCmd(m.ctx, m.svc, m.pending), m.spinner.Tick)
}

func (m Model) toggleCurrent() Model {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return m
	}
	it := m.items[m.cursor]

	switch it.kind {
	case itemFormat:
		m.format = it.id
		m.status = fmt.Sprintf("Format %s", it.label)
	case itemOption:
		m.options[it.id] = !m.options[it.id]
	case itemColor:
		_, held := m.svc.SlotOf(it.id)
		outcome, err := m.svc.Toggle(m.ctx, it.id, it.value, !held)
		if err != nil {
			m.showError = true
			m.errorMsg = err.Error()
			return m
		}
		m.status = m.describe(it, outcome)
	}
	return m
}

func (m Model) describe(it item, outcome picker.Outcome) string {
	switch outcome {
	case picker.OutcomeAssigned:
		idx, _ := m.svc.SlotOf(it.id)
		return fmt.Sprintf("%s → slot %d", it.label, idx+1)
	case picker.OutcomeReleased:
		return fmt.Sprintf("%s removed", it.label)
	case picker.OutcomeRejected:
		return fmt.Sprintf("All %d slots are taken, remove a colour first", m.svc.State().Capacity)
	case picker.OutcomeSkipped:
		return fmt.Sprintf("%s has no colour value", it.label)
	default:
		return ""
	}
}
