package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/colorpick/internal/picker"
)

// selectModelCmd switches the illustration off the UI goroutine.
func selectModelCmd(ctx context.Context, svc *picker.Service, ref string) tea.Cmd {
	return func() tea.Msg {
		return modelLoadedMsg{Ref: ref, Err: svc.SelectModel(ctx, ref)}
	}
}
