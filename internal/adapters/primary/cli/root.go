package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/usecases/avatar"
)

// TUIRunner запускает интерактивный режим поверх того же оркестратора
type TUIRunner func(ctx context.Context, svc *avatar.Service) error

// Commands CLI генератора аватаров
type Commands struct {
	Avatar *avatar.Service
	Out    io.Writer // результат команды
	ErrOut io.Writer // сообщения ожидания и ошибки
	RunTUI TUIRunner
}

// NewRootCommand собирает дерево команд
func (c *Commands) NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "xmas-avatar",
		Short:         "Turn a profile picture into a festive holiday avatar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.Out)
	root.SetErr(c.ErrOut)

	root.AddCommand(
		c.themesCommand(),
		c.quotaCommand(),
		c.generateCommand(),
	)
	if c.RunTUI != nil {
		root.AddCommand(c.tuiCommand())
	}

	return root
}

// Execute выполняет команду и возвращает код выхода.
// Для бизнес-ошибок печатается текст из сессии, для остальных сама ошибка
func (c *Commands) Execute(ctx context.Context, args []string) int {
	root := c.NewRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	if domain.IsBusinessError(err) {
		if msg := c.Avatar.Snapshot().Error; msg != "" {
			fmt.Fprintln(c.ErrOut, msg)
			return 1
		}
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(c.ErrOut, "interrupted")
		return 130
	}

	fmt.Fprintln(c.ErrOut, "error:", err)
	return 1
}

func (c *Commands) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal studio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.RunTUI(cmd.Context(), c.Avatar)
		},
	}
}
