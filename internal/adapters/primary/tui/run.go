package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kopachlager/xmasavatar/internal/usecases/avatar"
)

type programCelebrator struct {
	p *tea.Program
}

func (c programCelebrator) Celebrate(context.Context) {
	c.p.Send(CelebrateMsg{})
}

// Run открывает студию и блокируется до выхода пользователя
func Run(ctx context.Context, svc *avatar.Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithContext(ctx), tea.WithAltScreen())

	svc.Celebrator = programCelebrator{p: p}
	svc.Rotator = &avatar.TickerRotator{
		Messages: svc.Catalog.LoadingMessages(),
		Interval: avatar.DefaultRotationInterval,
		OnMessage: func(message string) {
			p.Send(LoadingMsg(message))
		},
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui failed: %w", err)
	}
	return nil
}
