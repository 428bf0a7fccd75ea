package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/RobertRaul/storefront-notify/internal/domain"
	"github.com/RobertRaul/storefront-notify/internal/errors"
	"github.com/RobertRaul/storefront-notify/internal/tray"
)

const headerFooterLines = 4

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	unreadStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	toastStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	errorStatusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
)

// View renders the panel.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	for _, toast := range m.toasts {
		b.WriteString(renderToast(toast))
		b.WriteString("\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render(emptyMessage(m.filter)))
		b.WriteString("\n")
	} else {
		visible := m.height - headerFooterLines - len(m.toasts)
		if visible < 1 {
			visible = 1
		}
		start := 0
		if m.cursor >= visible {
			start = m.cursor - visible + 1
		}
		end := start + visible
		if end > len(m.rows) {
			end = len(m.rows)
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	badge := tray.Badge{Unread: m.store.UnreadCount(), State: m.streamState}
	title := headerStyle.Render("Notifications")
	filterLabel := dimStyle.Render(fmt.Sprintf("[%s]", m.filter))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge.Render(), " ", filterLabel)
}

func (m *Model) renderRow(i int) string {
	n := m.rows[i]

	marker := "  "
	if i == m.cursor {
		marker = cursorStyle.Render("> ")
	}

	bullet := dimStyle.Render("·")
	if !n.Read {
		bullet = unreadStyle.Render("•")
	}

	title := n.Title
	if title == "" {
		title = n.Message
	}
	switch {
	case !n.Read && n.Priority == domain.PriorityUrgent:
		title = urgentStyle.Render(title)
	case !n.Read && n.Priority == domain.PriorityHigh:
		title = highStyle.Render(title)
	case !n.Read:
		title = unreadStyle.Render(title)
	default:
		title = dimStyle.Render(title)
	}

	age := dimStyle.Render(relativeAge(n.CreatedAt, time.Now()))
	return fmt.Sprintf("%s%s %s %s %s", marker, bullet, n.Category.Icon(), title, age)
}

func (m *Model) renderFooter() string {
	help := dimStyle.Render("enter: read · d: dismiss · a: read all · f: filter · q: quit")
	if !m.hasStatusMessage {
		return help
	}
	status := m.statusMessage
	switch m.statusMessageType {
	case errors.MessageTypeError:
		status = errorStatusStyle.Render(status)
	case errors.MessageTypeSuccess:
		status = successStatusStyle.Render(status)
	default:
		status = dimStyle.Render(status)
	}
	return status + "\n" + help
}

func renderToast(t tray.Toast) string {
	n := t.Notification
	title := n.Title
	if title == "" {
		title = n.Message
	}
	return toastStyle.Render(fmt.Sprintf("%s %s", n.Category.Icon(), title))
}

func emptyMessage(filter domain.ReadFilter) string {
	switch filter {
	case domain.ReadFilterUnread:
		return "No unread notifications."
	case domain.ReadFilterRead:
		return "No read notifications."
	default:
		return "No notifications yet."
	}
}

// relativeAge renders a compact age like "3m" or "2d".
func relativeAge(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
