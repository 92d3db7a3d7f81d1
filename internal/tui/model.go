package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"habitforge/internal/engine"
	"habitforge/internal/ui"
)

type boardModel struct {
	coord *engine.Coordinator

	width  int
	height int

	player engine.Player
	quests []engine.Quest
	bosses []engine.BossFight

	expanded map[uuid.UUID]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	player engine.Player
	quests []engine.Quest
	bosses []engine.BossFight
}

type questDoneMsg struct {
	title  string
	reward *engine.RewardSummary
	err    error
}

type taskDoneMsg struct {
	title  string
	result *engine.DamageResult
	err    error
}

func newBoardModel(coord *engine.Coordinator) boardModel {
	return boardModel{
		coord:    coord,
		expanded: map[uuid.UUID]bool{},
		loading:  true,
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{
			player: m.coord.PlayerView(),
			quests: m.coord.QuestList(),
			bosses: m.coord.BossList(),
		}
	}
}

func (m boardModel) completeQuestCmd(id uuid.UUID, title string) tea.Cmd {
	return func() tea.Msg {
		reward, err := m.coord.CompleteQuest(id)
		return questDoneMsg{title: title, reward: reward, err: err}
	}
}

func (m boardModel) completeTaskCmd(bossID, taskID uuid.UUID, title string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.coord.CompleteMicroTask(bossID, taskID)
		return taskDoneMsg{title: title, result: result, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.player = msg.player
		m.quests = msg.quests
		m.bosses = msg.bosses
		// Default-expand bosses that still have open micro-tasks.
		for _, b := range msg.bosses {
			for _, t := range b.MicroTasks {
				if !t.Completed {
					m.expanded[b.ID] = true
					break
				}
			}
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case questDoneMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, m.loadCmd()
		}
		log := fmt.Sprintf("Completed %q: +%d XP, +%d gold", msg.title, msg.reward.XPAwarded, msg.reward.GoldAwarded)
		if msg.reward.LevelAfter > msg.reward.LevelBefore {
			log += fmt.Sprintf(" %s (level %d → %d)", ui.BadgeLevelUp, msg.reward.LevelBefore, msg.reward.LevelAfter)
		}
		if msg.reward.Boss != nil && msg.reward.Boss.Damage > 0 {
			log += fmt.Sprintf(", boss took %d damage", msg.reward.Boss.Damage)
		}
		if msg.reward.Boss != nil && msg.reward.Boss.BossDefeated {
			log += " " + ui.BadgeDefeated
		}
		m.lastLog = log
		return m, m.loadCmd()
	case taskDoneMsg:
		if msg.err != nil {
			m.lastLog = "Task failed: " + msg.err.Error()
			return m, m.loadCmd()
		}
		log := fmt.Sprintf("Struck with %q: %d damage", msg.title, msg.result.Damage)
		if msg.result.IsCritical {
			log += " " + ui.BadgeCritical
		}
		if msg.result.BossDefeated {
			log += " " + ui.BadgeDefeated
		}
		m.lastLog = log
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			lines := m.boardLines()
			if m.selected < len(lines)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			lines := m.boardLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			line := lines[m.selected]
			if line.kind == lineBoss {
				m.expanded[line.id] = !m.expanded[line.id]
			}
			return m, nil
		case "c", " ":
			lines := m.boardLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			line := lines[m.selected]
			switch line.kind {
			case lineQuest:
				if line.done {
					m.lastLog = "Already completed."
					return m, nil
				}
				m.lastLog = fmt.Sprintf("Completing %q…", line.title)
				return m, m.completeQuestCmd(line.id, line.title)
			case lineTask:
				if line.done {
					m.lastLog = "Already completed."
					return m, nil
				}
				m.lastLog = fmt.Sprintf("Striking with %q…", line.title)
				return m, m.completeTaskCmd(line.bossID, line.id, line.title)
			default:
				m.lastLog = "Select a quest or micro-task to complete."
				return m, nil
			}
		}
	}
	return m, nil
}

type lineKind int

const (
	lineHeading lineKind = iota
	lineQuest
	lineBoss
	lineTask
)

type boardLine struct {
	kind     lineKind
	id       uuid.UUID
	bossID   uuid.UUID
	title    string
	text     string
	done     bool
	expanded bool
}

func (m boardModel) boardLines() []boardLine {
	var out []boardLine

	out = append(out, boardLine{kind: lineHeading, text: ui.H2.Render("Quests")})
	if len(m.quests) == 0 {
		out = append(out, boardLine{kind: lineHeading, text: ui.Muted.Render("  (no quests yet)")})
	}
	for _, q := range m.quests {
		done := q.Status == engine.StatusCompleted
		bar := ui.Bar(q.NormalizedProgress(), 10, ui.H2)
		text := fmt.Sprintf("%s %s %s %s", ui.TrackingIcon(q.Tracking), q.Title, bar, ui.StatusText(q.Status))
		if q.BossID != nil {
			text += " " + ui.Dim.Render(ui.IconSword)
		}
		out = append(out, boardLine{kind: lineQuest, id: q.ID, title: q.Title, text: text, done: done})
	}

	out = append(out, boardLine{kind: lineHeading, text: ""})
	out = append(out, boardLine{kind: lineHeading, text: ui.H2.Render("Bosses")})
	if len(m.bosses) == 0 {
		out = append(out, boardLine{kind: lineHeading, text: ui.Muted.Render("  (no bosses yet)")})
	}
	for _, b := range m.bosses {
		fold := "  "
		if len(b.MicroTasks) > 0 {
			if m.expanded[b.ID] {
				fold = "▾ "
			} else {
				fold = "▸ "
			}
		}
		icon := ui.IconSkull
		if b.Status == engine.StatusCompleted {
			icon = ui.IconTrophy
		}
		hp := ui.HPBar(b.HPPercentage(), 14)
		text := fmt.Sprintf("%s%s %s %s %d/%d", fold, icon, b.Title, hp, b.CurrentHP, b.MaxHP)
		if b.Dynamic() {
			text += " " + ui.Dim.Render(fmt.Sprintf("(%s %.0f → %.0f)", b.Goal.Metric, b.Goal.CurrentValue, b.Goal.TargetValue))
		}
		out = append(out, boardLine{
			kind:     lineBoss,
			id:       b.ID,
			title:    b.Title,
			text:     text,
			done:     b.Status == engine.StatusCompleted,
			expanded: m.expanded[b.ID],
		})
		if !m.expanded[b.ID] {
			continue
		}
		for _, t := range b.MicroTasks {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			text := fmt.Sprintf("    %s %s %s", mark, t.Title, ui.Dim.Render(string(t.Difficulty)))
			out = append(out, boardLine{kind: lineTask, id: t.ID, bossID: b.ID, title: t.Title, text: text, done: t.Completed})
		}
	}

	if m.selected >= len(out) {
		m.selected = len(out) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	p := m.player
	xpBar := ui.Bar(p.XPProgress(), 20, ui.H2)
	hpBar := ui.HPBar(p.HPProgress(), 20)
	streak := fmt.Sprintf("%s %d", ui.IconFire, p.CurrentStreak)
	if p.InPenaltyZone {
		streak = ui.Bad.Render(streak + " penalty zone")
	}
	return fmt.Sprintf("HabitForge | %s [%s] Lv.%d | XP %s | HP %s %d/%d | %s %d | %s",
		ui.Title.Render(p.Name), p.Rank(), p.Level, xpBar, hpBar, p.CurrentHP, p.MaxHP,
		ui.IconCoin, p.Gold, streak)
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.H2.Render("Stats")}
	for _, k := range engine.AllStatKinds {
		s := m.player.Stats[k]
		if s == nil {
			s = &engine.Stat{}
		}
		bar := ui.Bar(float64(s.Experience)/100, 8, ui.Dim)
		lines = append(lines, fmt.Sprintf("- %-12s %3d %s", k, s.TotalValue(), bar))
	}
	lines = append(lines, "")
	if len(m.player.Titles) > 0 {
		lines = append(lines, ui.H2.Render("Titles"))
		for _, t := range m.player.Titles {
			lines = append(lines, "- "+t)
		}
		lines = append(lines, "")
	}
	lines = append(lines, ui.H2.Render("Keys"))
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- enter: expand boss")
	lines = append(lines, "- c/space: complete")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	lines := m.boardLines()
	var out []string
	for i, line := range lines {
		cursor := "  "
		if i == m.selected && line.kind != lineHeading {
			cursor = "> "
		}
		out = append(out, cursor+line.text)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
