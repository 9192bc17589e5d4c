package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/colorpick/internal/picker"
	"github.com/alexisbeaulieu97/colorpick/internal/swatch"
)

const logTail = 3

// View renders the picker.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.svc.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.catalog.Name))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.showError {
		b.WriteString(errorBannerStyle.Render(m.errorMsg))
		b.WriteString("\n")
	}

	left := m.renderItems(st)
	right := m.renderSlots(st)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
	b.WriteString("\n")

	q := m.Quote()
	b.WriteString(totalStyle.Render("Total " + m.calc.Format(q.Total)))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.logs != nil {
		for _, e := range m.logs.Tail(logTail) {
			b.WriteString(logStyle.Render(e.String()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.catalog.Models))
	for i, mod := range m.catalog.Models {
		label := mod.DisplayName()
		if mod.Ref == m.pending {
			label = m.spinner.View() + " " + label
		}
		if i == m.modelIdx {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderItems(st picker.State) string {
	available := make(map[string]bool, len(st.Controls))
	selected := make(map[string]bool, len(st.Controls))
	for _, c := range st.Controls {
		available[c.ID] = c.Available
		selected[c.ID] = c.Selected
	}

	var b strings.Builder
	var section itemKind = -1
	for i, it := range m.items {
		if it.kind != section {
			section = it.kind
			b.WriteString(sectionStyle.Render(sectionTitle(it.kind)))
			b.WriteString("\n")
		}

		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}

		var line string
		switch it.kind {
		case itemColor:
			line = fmt.Sprintf("%s %s %s", checkbox(selected[it.id]), swatchBlock(swatch.Hex(it.value)), it.label)
			if !available[it.id] {
				line = disabledStyle.Render(line)
			}
		case itemFormat:
			line = fmt.Sprintf("%s %s %s", radio(it.id == m.format), it.label, mutedStyle.Render(m.calc.Format(it.price)))
		case itemOption:
			line = fmt.Sprintf("%s %s %s", checkbox(m.options[it.id]), it.label, mutedStyle.Render("+"+m.calc.Format(it.price)))
		}

		b.WriteString(pointer)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return itemStyle.Render(b.String())
}

func (m Model) renderSlots(st picker.State) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Slots %d/%d", filled(st), st.ShapeCount)))
	b.WriteString("\n")

	for _, s := range st.Slots {
		label := mutedStyle.Render("empty")
		block := swatchBlock(swatch.Hex("white"))
		if s.Filled {
			block = swatchBlock(swatch.Hex(s.Color))
			label = s.ControlID
			if c, ok := m.catalog.Color(s.ControlID); ok {
				label = c.DisplayName()
			}
		}
		line := fmt.Sprintf("%d %s %s", s.Index+1, block, label)
		if !s.Visible {
			line = disabledStyle.Render(line + " (kept)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if st.Complete {
		b.WriteString(completeStyle.Render("✓ every shape coloured"))
		b.WriteString("\n")
	}
	return b.String()
}

func filled(st picker.State) int {
	n := 0
	for _, s := range st.Slots {
		if s.Filled && s.Visible {
			n++
		}
	}
	return n
}

func sectionTitle(kind itemKind) string {
	switch kind {
	case itemFormat:
		return "Format"
	case itemOption:
		return "Options"
	default:
		return "Colours"
	}
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func radio(on bool) string {
	if on {
		return "(•)"
	}
	return "( )"
}
