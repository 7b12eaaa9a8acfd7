package tui

import (
	"fmt"
	"strings"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

const helpLine = "enter: fetch/upload  tab: switch field  ctrl+←/→: style  ctrl+g: generate  ctrl+s: save  ctrl+r: reset  ctrl+x: clear  esc: quit"

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.svc.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("X-Mas Avatar Studio"))
	b.WriteString("\n\n")

	b.WriteString("Handle\n")
	b.WriteString(m.handle.View())
	b.WriteString("\n\nPhoto\n")
	b.WriteString(m.file.View())
	b.WriteString("\n\n")

	theme := dimStyle.Render("none")
	if len(m.themes) > 0 {
		t := m.themes[m.themeIndex]
		theme = selectedStyle.Render(t.Label) + dimStyle.Render(fmt.Sprintf(" (%s, %d/%d)", t.ID, m.themeIndex+1, len(m.themes)))
	}
	fmt.Fprintf(&b, "Style: %s\n", theme)
	fmt.Fprintf(&b, "Generations left: %d of %d\n", m.remaining, domain.GenerationLimit)

	source := dimStyle.Render("no photo yet")
	if !s.SourceImage.IsEmpty() {
		source = fmt.Sprintf("%s, %d bytes", s.SourceImage.MIMEType, len(s.SourceImage.Data))
	}
	fmt.Fprintf(&b, "Source: %s\n\n", source)

	switch {
	case s.IsLoading && s.Status == domain.StatusFetching:
		fmt.Fprintf(&b, "%s fetching profile picture...\n", m.spinner.View())
	case s.IsLoading:
		msg := m.loadingMsg
		if msg == "" {
			msg = "working..."
		}
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), msg)
	case s.HasError():
		b.WriteString(errorStyle.Render(s.Error))
		b.WriteString("\n")
	case !s.ProducedImage.IsEmpty():
		if m.celebrate {
			b.WriteString(bannerStyle.Render("Merry Christmas!"))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Result ready: %d bytes, ctrl+s saves it\n", len(s.ProducedImage.Data))
	}

	if m.notice != "" {
		b.WriteString(dimStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(helpLine))
	b.WriteString("\n")
	return b.String()
}
