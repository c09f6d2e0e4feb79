package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/couchcryptid/flood-risk-viewer/internal/domain"
)

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width)),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Flood Risk Viewer · CoastalDEM"))
	b.WriteString("\n\n")
	b.WriteString(m.sliderView())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.mapView(), " ", m.statsView()))
	if m.view.Notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render("! " + m.view.Notice))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.view.Address))

	main := b.String()
	help := m.helpView()
	if !m.view.Chat.Open {
		return main + "\n\n" + help
	}

	chat := m.chatView()
	if m.width > 0 {
		pad := max(0, m.width-lipgloss.Width(main)-lipgloss.Width(chat))
		return lipgloss.JoinHorizontal(lipgloss.Top, main, strings.Repeat(" ", pad), chat) + "\n" + help
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, " ", chat) + "\n" + help
}

func (m Model) sliderView() string {
	var track strings.Builder
	for i, level := range domain.Levels() {
		if i > 0 {
			track.WriteString(trackStyle.Render("──"))
		}
		if level == m.slider {
			track.WriteString(knobStyle.Render("●"))
		} else {
			track.WriteString(trackStyle.Render("┼"))
		}
	}

	line := fmt.Sprintf("%s %s %s   %s %s m",
		mutedStyle.Render(domain.MinLevel.String()),
		track.String(),
		mutedStyle.Render(domain.MaxLevel.String()),
		labelStyle.Render("Flood level:"),
		m.view.Label,
	)
	if m.inFlight > 0 {
		line += " " + m.spinner.View()
	}
	return line
}

func (m Model) mapView() string {
	if m.view.Frame == nil {
		return panelStyle.Render(mutedStyle.Render("No map loaded"))
	}
	f := m.view.Frame
	return panelStyle.Render(strings.Join([]string{
		labelStyle.Render("Map"),
		f.Src,
		fmt.Sprintf("level %s m, mounted %s", f.Level, f.MountedAt.Format("15:04:05")),
	}, "\n"))
}

func (m Model) statsView() string {
	if m.view.Statistics == nil {
		return panelStyle.Render(mutedStyle.Render("Statistics unavailable"))
	}
	s := m.view.Statistics
	lines := []string{
		labelStyle.Render("Impact at " + domain.FloodLevel(s.FloodLevel).String() + " m"),
		fmt.Sprintf("Affected area       %10.1f km²", s.Statistics.AffectedAreaKm2),
		fmt.Sprintf("Population at risk  %10.0f", s.Statistics.PopulationAtRisk),
		fmt.Sprintf("Infrastructure      %10.1f", s.Statistics.InfrastructureAffected),
	}
	if s.Status == domain.StatusWarning {
		note := "estimated"
		if s.Message != "" {
			note += ": " + s.Message
		}
		lines = append(lines, noticeStyle.Render(note))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) chatView() string {
	cw := m.chatWidth()
	body := []string{
		labelStyle.Render("Dataset assistant") + mutedStyle.Render(" ("+m.view.Chat.Mode+")"),
		m.viewport.View(),
	}
	if m.view.Chat.Pending != "" {
		body = append(body, m.spinner.View()+" "+mutedStyle.Render(m.view.Chat.Pending))
	}
	body = append(body, m.input.View())
	return chatPanelStyle.Width(cw - 2).Render(strings.Join(body, "\n"))
}

// transcript renders the chat messages for the viewport. Bot replies are
// rendered as markdown once and cached by message id.
func (m *Model) transcript() string {
	var b strings.Builder
	for i, msg := range m.view.Chat.Transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		if msg.Role == domain.RoleUser {
			b.WriteString(userStyle.Render("You: "))
			b.WriteString(msg.Text)
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderBot(msg))
	}
	return b.String()
}

func (m *Model) renderBot(msg domain.ChatMessage) string {
	if out, ok := m.rendered[msg.ID]; ok {
		return out
	}
	out := msg.Text + "\n"
	if m.markdown != nil {
		if md, err := m.markdown.Render(msg.Text); err == nil {
			out = strings.Trim(md, "\n") + "\n"
		}
	}
	m.rendered[msg.ID] = out
	return out
}

func (m Model) helpView() string {
	bindings := m.keys.viewerHelp()
	if m.view.Chat.Open {
		bindings = m.keys.chatHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, helpEntry(b))
	}
	return mutedStyle.Render(strings.Join(parts, "  •  "))
}

func helpEntry(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
