package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"
)

// SlotColor is one filled slot in a Selection.
type SlotColor struct {
	Slot    int    `yaml:"slot"`
	Color   string `yaml:"color"`
	Value   string `yaml:"value"`
	Visible bool   `yaml:"visible"`
}

// Selection is what the user picked, as written by `colorpick pick --out`.
type Selection struct {
	Model    string      `yaml:"model,omitempty"`
	Ref      string      `yaml:"ref,omitempty"`
	Complete bool        `yaml:"complete"`
	Colors   []SlotColor `yaml:"colors"`
	Format   string      `yaml:"format,omitempty"`
	Options  []string    `yaml:"options,omitempty"`
	Total    int         `yaml:"total"`
	Price    string      `yaml:"price"`
}

// Selection summarises the current choices.
func (m Model) Selection() Selection {
	st := m.svc.State()
	q := m.Quote()
	sel := Selection{
		Ref:      st.ActiveRef,
		Complete: st.Complete,
		Colors:   []SlotColor{},
		Format:   q.Format,
		Options:  q.Options,
		Total:    q.Total,
		Price:    m.calc.Format(q.Total),
	}
	if mod, _, ok := m.modelByRef(st.ActiveRef); ok {
		sel.Model = mod.ID
	}
	for _, s := range st.Slots {
		if !s.Filled {
			continue
		}
		sel.Colors = append(sel.Colors, SlotColor{Slot: s.Index + 1, Color: s.ControlID, Value: s.Color, Visible: s.Visible})
	}
	return sel
}

// YAML encodes the selection.
func (s Selection) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// Run starts the interactive picker and blocks until the user quits. It
// returns the final selection.
func Run(ctx context.Context, deps Deps, opts ...tea.ProgramOption) (Selection, error) {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewModel(ctx, deps), opts...).Run()
	if err != nil {
		return Selection{}, fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Selection{}, fmt.Errorf("run picker: unexpected model %T", final)
	}
	return m.Selection(), nil
}
