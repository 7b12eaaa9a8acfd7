package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/usecases/avatar"
)

type focus int

const (
	focusHandle focus = iota
	focusFile
)

// LoadingMsg очередное сообщение ожидания от ротатора
type LoadingMsg string

// CelebrateMsg успешная генерация
type CelebrateMsg struct{}

type fetchDoneMsg struct{ err error }

type uploadDoneMsg struct{ err error }

type generateDoneMsg struct{ err error }

type quotaMsg struct{ remaining int }

type savedMsg struct {
	path string
	err  error
}

// Model экран студии поверх оркестратора. Состояние сессии живёт в avatar.Service
type Model struct {
	ctx context.Context
	svc *avatar.Service

	handle  textinput.Model
	file    textinput.Model
	spinner spinner.Model
	focus   focus

	themes     []domain.Theme
	themeIndex int

	loadingMsg string
	notice     string
	celebrate  bool
	remaining  int
	quitting   bool
}

// New создаёт модель с фокусом на поле handle
func New(ctx context.Context, svc *avatar.Service) Model {
	handle := textinput.New()
	handle.Placeholder = "handle, e.g. @alice"
	handle.Prompt = "@ "
	handle.CharLimit = 64
	handle.Focus()

	file := textinput.New()
	file.Placeholder = "path/to/photo.jpg"
	file.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		svc:     svc,
		handle:  handle,
		file:    file,
		spinner: sp,
		themes:  svc.Themes(),
	}

	selected := svc.Snapshot().SelectedTheme
	for i, t := range m.themes {
		if t.ID == selected {
			m.themeIndex = i
		}
	}
	m.remaining = svc.Remaining(ctx)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case LoadingMsg:
		m.loadingMsg = string(msg)
		return m, nil

	case CelebrateMsg:
		m.celebrate = true
		return m, nil

	case fetchDoneMsg, uploadDoneMsg:
		return m, m.quotaCmd()

	case generateDoneMsg:
		m.loadingMsg = ""
		if msg.err != nil {
			m.celebrate = false
		}
		return m, m.quotaCmd()

	case quotaMsg:
		m.remaining = msg.remaining
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else {
			m.notice = "saved " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil

	case "enter":
		if m.focus == focusHandle {
			m.svc.SetHandle(m.handle.Value())
			return m, m.fetchCmd()
		}
		return m, m.uploadCmd(strings.TrimSpace(m.file.Value()))

	case "ctrl+left", "ctrl+right":
		m.cycleTheme(msg.String() == "ctrl+right")
		return m, nil

	case "ctrl+g":
		m.notice = ""
		m.celebrate = false
		return m, m.generateCmd()

	case "ctrl+s":
		return m, m.saveCmd()

	case "ctrl+r":
		if err := m.svc.ResetResult(); err == nil {
			m.celebrate = false
			m.notice = ""
		}
		return m, nil

	case "ctrl+x":
		if err := m.svc.ClearAll(); err == nil {
			m.handle.SetValue("")
			m.file.SetValue("")
			m.celebrate = false
			m.notice = ""
			return m, m.quotaCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusHandle {
		m.handle, cmd = m.handle.Update(msg)
		m.svc.SetHandle(m.handle.Value())
	} else {
		m.file, cmd = m.file.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == focusHandle {
		m.focus = focusFile
		m.handle.Blur()
		m.file.Focus()
		return
	}
	m.focus = focusHandle
	m.file.Blur()
	m.handle.Focus()
}

func (m *Model) cycleTheme(forward bool) {
	if len(m.themes) == 0 {
		return
	}
	if forward {
		m.themeIndex = (m.themeIndex + 1) % len(m.themes)
	} else {
		m.themeIndex = (m.themeIndex - 1 + len(m.themes)) % len(m.themes)
	}
	_ = m.svc.SelectTheme(m.themes[m.themeIndex].ID)
}

// quotaCmd читает журнал вне Update: хранилище может быть сетевым
func (m Model) quotaCmd() tea.Cmd {
	return func() tea.Msg {
		return quotaMsg{remaining: m.svc.Remaining(m.ctx)}
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{err: m.svc.FetchProfile(m.ctx)}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return uploadDoneMsg{err: m.svc.UploadFile(path)}
	}
}

func (m Model) generateCmd() tea.Cmd {
	return func() tea.Msg {
		return generateDoneMsg{err: m.svc.Generate(m.ctx, "")}
	}
}

func (m Model) saveCmd() tea.Cmd {
	return func() tea.Msg {
		snapshot := m.svc.Snapshot()
		if snapshot.ProducedImage.IsEmpty() {
			return savedMsg{err: fmt.Errorf("nothing to save yet")}
		}
		path := avatar.ResultFileName(snapshot.Handle)
		if err := os.WriteFile(path, snapshot.ProducedImage.Data, 0o644); err != nil {
			return savedMsg{err: fmt.Errorf("failed to save %s: %w", path, err)}
		}
		return savedMsg{path: path}
	}
}
