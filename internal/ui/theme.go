package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"habitforge/internal/engine"
)

// HabitForge theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconSword   = "⚔️"
	IconSkull   = "💀"
	IconHeart   = "❤️"
	IconCoin    = "🪙"
	IconFire    = "🔥"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconLoop    = "🔁"
	IconScroll  = "📜"
	IconTarget  = "🎯"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp  = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
	BadgeCritical = lipgloss.NewStyle().Bold(true).Foreground(cBad).Render("CRITICAL")
	BadgeDefeated = lipgloss.NewStyle().Bold(true).Foreground(cGood).Render("DEFEATED")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(status engine.Status) string {
	switch status {
	case engine.StatusCompleted:
		return Good.Render("completed")
	case engine.StatusInProgress:
		return H2.Render("in progress")
	case engine.StatusAvailable:
		return Warn.Render("available")
	case engine.StatusFailed, engine.StatusExpired:
		return Bad.Render(string(status))
	default:
		return Muted.Render(string(status))
	}
}

// Bar renders a fixed-width progress bar, ratio clamped to [0,1].
func Bar(ratio float64, width int, style lipgloss.Style) string {
	if width <= 0 {
		width = 10
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return style.Render(bar)
}

// HPBar colors the bar by how much health remains.
func HPBar(ratio float64, width int) string {
	style := Good
	switch {
	case ratio <= 0.25:
		style = Bad
	case ratio <= 0.5:
		style = Warn
	}
	return Bar(ratio, width, style)
}

func TrackingIcon(k engine.TrackingKind) string {
	switch k {
	case engine.TrackSteps:
		return IconBolt
	case engine.TrackScreenTime:
		return IconInfo
	case engine.TrackLocation:
		return IconTarget
	default:
		return IconQuest
	}
}
