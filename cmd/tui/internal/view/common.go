package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const apiTimeout = 10 * time.Second

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// ReqCtx returns a context with a standard timeout for API calls.
func ReqCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}
