package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ramanasai/katflow/internal/db"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
	"github.com/ramanasai/katflow/internal/schedule"
	"github.com/ramanasai/katflow/internal/source"
	"github.com/ramanasai/katflow/internal/utils"
	"github.com/ramanasai/katflow/internal/version"
)

type tab int
type mode int

const (
	tabHome tab = iota
	tabCalendar
	tabTrends
	tabCount
)

// trendWeeks is how many rolling weeks the trends tab shows.
const trendWeeks = 8

const (
	modeNormal mode = iota
	modeAdd
	modeHelp
)

// windowKeys is the selector order shown in the header, keys 1..5.
var windowKeys = []energy.Window{energy.All, energy.Last3Days, energy.ThisWeek, energy.ThisMonth, energy.ThisYear}

// Options wires the dashboard to its data.
type Options struct {
	Feed     *source.Feed
	Store    db.Store // nil when the source is read-only
	Window   energy.Window
	Interval time.Duration
	Location *time.Location
	Theme    string
	Log      logger.Logger
}

type Model struct {
	// layout
	width, height int
	tab           tab
	mode          mode

	// time & tz
	loc *time.Location
	now time.Time

	// data
	engine energy.Engine
	window energy.Window
	snap   source.Snapshot
	stats  energy.Stats
	recent []energy.Entry
	month  time.Time

	// recent entry selection
	selected int
	expanded bool

	// add entry form
	scoreInput    textinput.Model
	thoughtsInput textinput.Model
	addField      int

	spinner spinner.Model
	status  string

	store   db.Store
	refresh func()
	log     logger.Logger
	st      style
}

// Run shows the dashboard until the user quits. The feed is refetched
// on mount, every opts.Interval and whenever the user presses r.
func Run(ctx context.Context, opts Options) error {
	if opts.Feed == nil {
		return errors.New("dashboard needs a feed")
	}
	m := newModel(opts)

	var sess *session
	m.refresh = func() {
		if sess != nil {
			sess.trigger()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	sess = startSession(ctx, opts.Feed, opts.Interval, p.Send)

	_, runErr := p.Run()
	sess.stop()
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return runErr
}

// session keeps a feed refreshed while a program is running.
type session struct {
	feed      *source.Feed
	refresher *schedule.Refresher
}

// startSession forwards every feed change to send and starts refetching
// immediately and then every interval.
func startSession(ctx context.Context, feed *source.Feed, interval time.Duration, send func(tea.Msg)) *session {
	feed.OnChange(func(s source.Snapshot) { send(snapshotMsg(s)) })
	r := schedule.StartRefresher(ctx, interval, func(ctx context.Context) {
		_ = feed.Refetch(ctx)
	})
	return &session{feed: feed, refresher: r}
}

func (s *session) trigger() { s.refresher.Trigger() }

// stop closes the feed so late fetches are dropped, then waits for the
// refresher to exit.
func (s *session) stop() {
	s.feed.Close()
	s.refresher.Stop()
}

func newModel(opts Options) Model {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	w := opts.Window
	if w == "" {
		w = energy.All
	}

	si := textinput.New()
	si.Placeholder = "1-5"
	si.CharLimit = 1
	si.Width = 5

	ti := textinput.New()
	ti.Placeholder = "How did today go?"
	ti.CharLimit = 4000
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	now := time.Now().In(loc)
	m := Model{
		loc:           loc,
		now:           now,
		engine:        energy.Engine{Now: time.Now, Location: loc},
		window:        w,
		month:         time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc),
		scoreInput:    si,
		thoughtsInput: ti,
		spinner:       sp,
		store:         opts.Store,
		refresh:       func() {},
		log:           log,
		st:            newStyle(ThemeByName(opts.Theme)),
	}
	if opts.Feed != nil {
		m.snap = opts.Feed.Snapshot()
	}
	m.recompute()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickNow(), m.spinner.Tick, m.refreshCmd())
}

// ---------- messages & commands ----------

type tickMsg struct{ now time.Time }
type snapshotMsg source.Snapshot
type entryAddedMsg struct {
	rec db.Record
	err error
}

func tickNow() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{now: time.Now()} })
}

func (m Model) refreshCmd() tea.Cmd {
	refresh := m.refresh
	return func() tea.Msg {
		refresh()
		return nil
	}
}

func (m Model) addEntryCmd(e db.NewEntry) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rec, err := store.AddEntry(ctx, e)
		return entryAddedMsg{rec: rec, err: err}
	}
}

// recompute derives everything shown from the current snapshot and window.
func (m *Model) recompute() {
	m.stats = m.engine.Aggregate(m.snap.Entries, m.window)
	m.recent = energy.Recent(m.snap.Entries, energy.RecentCount)
	if m.selected >= len(m.recent) {
		m.selected = max(0, len(m.recent)-1)
		m.expanded = false
	}
	m.log.Debugf("window %s: filtered %d from %d", m.window, m.stats.Total, len(m.snap.Entries))
}

// ---------- Update ----------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = msg.now.In(m.loc)
		return m, tickNow()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case snapshotMsg:
		snap := source.Snapshot(msg)
		if m.snap.Newer(snap) {
			m.log.Debugf("dropping stale snapshot %d, have %d", snap.Seq, m.snap.Seq)
			return m, nil
		}
		m.snap = snap
		m.recompute()
		return m, nil
	case entryAddedMsg:
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %d for %s", msg.rec.Entry.Score, msg.rec.Entry.Date)
		return m, m.refreshCmd()
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeHelp:
			if k := msg.String(); k == "esc" || k == "?" || k == "q" {
				m.mode = modeNormal
			}
			return m, nil
		}
		return m.updateNormal(msg.String())
	}
	return m, nil
}

func (m Model) updateNormal(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		i, _ := strconv.Atoi(k)
		m.window = windowKeys[i-1]
		m.recompute()
	case "tab":
		m.tab = (m.tab + 1) % tabCount
	case "c":
		m.tab = tabCalendar
	case "t":
		m.tab = tabTrends
	case "h", "home":
		m.tab = tabHome
	case "j", "down":
		if m.tab == tabHome && m.selected < len(m.recent)-1 {
			m.selected++
			m.expanded = false
		}
	case "k", "up":
		if m.tab == tabHome && m.selected > 0 {
			m.selected--
			m.expanded = false
		}
	case "enter":
		if m.tab == tabHome && len(m.recent) > 0 {
			m.expanded = !m.expanded
		}
	case "left", "[":
		if m.tab == tabCalendar {
			m.month = m.month.AddDate(0, -1, 0)
		}
	case "right", "]":
		if m.tab == tabCalendar {
			m.month = m.month.AddDate(0, 1, 0)
		}
	case "r":
		m.status = "Refreshing…"
		return m, m.refreshCmd()
	case "a", "n":
		if m.store == nil {
			m.status = "This source is read-only"
			return m, nil
		}
		m.mode = modeAdd
		m.addField = 0
		m.scoreInput.Reset()
		m.thoughtsInput.Reset()
		m.thoughtsInput.Blur()
		cmd := m.scoreInput.Focus()
		return m, cmd
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.status = ""
		return m, nil
	case "tab", "shift+tab":
		m.addField = 1 - m.addField
		var cmd tea.Cmd
		if m.addField == 0 {
			m.thoughtsInput.Blur()
			cmd = m.scoreInput.Focus()
		} else {
			m.scoreInput.Blur()
			cmd = m.thoughtsInput.Focus()
		}
		return m, cmd
	case "enter":
		score, err := strconv.Atoi(strings.TrimSpace(m.scoreInput.Value()))
		if err != nil {
			m.status = "Score must be a number from 1 to 5"
			return m, nil
		}
		e := db.NewEntry{
			Date:     energy.FormatDate(m.now),
			Score:    score,
			Thoughts: strings.TrimSpace(m.thoughtsInput.Value()),
		}
		if err := e.Validate(); err != nil {
			m.status = "Score must be a number from 1 to 5"
			return m, nil
		}
		m.mode = modeNormal
		m.status = "Saving…"
		return m, m.addEntryCmd(e)
	}

	var cmd tea.Cmd
	if m.addField == 0 {
		m.scoreInput, cmd = m.scoreInput.Update(msg)
	} else {
		m.thoughtsInput, cmd = m.thoughtsInput.Update(msg)
	}
	return m, cmd
}

// ---------- View ----------

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	parts := []string{m.renderTopBar(), m.renderTabs()}
	if banner := m.renderErrorBanner(); banner != "" {
		parts = append(parts, banner)
	}
	switch m.tab {
	case tabCalendar:
		parts = append(parts, m.renderCalendar())
	case tabTrends:
		parts = append(parts, m.renderTrends())
	default:
		parts = append(parts, m.renderHome())
	}
	parts = append(parts, m.statusBar())
	ui := lipgloss.JoinVertical(lipgloss.Left, parts...)

	switch m.mode {
	case modeAdd:
		ui = overlayCenter(ui, m.renderAddModal())
	case modeHelp:
		ui = overlayCenter(ui, m.helpView())
	}
	return ui
}

func (m Model) renderTopBar() string {
	loading := ""
	if m.snap.Loading {
		loading = "  " + m.spinner.View()
	}
	right := m.now.Format("Mon 02.01.2006 15:04")
	title := fmt.Sprintf("%s • %s%s  |  %s", version.GetShortVersion(), m.window.Label(), loading, right)
	return m.st.topBar.Width(m.width).Render(title)
}

func (m Model) renderTabs() string {
	var out []string
	for i, w := range windowKeys {
		label := fmt.Sprintf("%d %s", i+1, w.Label())
		if w == m.window {
			out = append(out, m.st.tabActive.Render(label))
		} else {
			out = append(out, m.st.tabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) renderErrorBanner() string {
	if m.snap.Err == nil {
		return ""
	}
	msg := "Couldn't load entries: " + m.snap.Err.Error()
	if m.snap.Loaded {
		msg += " (showing data from " + m.snap.UpdatedAt.In(m.loc).Format("15:04") + ")"
	}
	return m.st.errBanner.Width(m.width).Render(msg)
}

func (m Model) renderer() *utils.Renderer {
	return utils.NewRenderer(&utils.RenderConfig{
		Format:   utils.FormatDefault,
		Width:    max(40, m.width/2-4),
		Color:    true,
		Location: m.loc,
	})
}

func (m Model) renderHome() string {
	if !m.snap.Loaded && m.snap.Err == nil {
		return m.st.border.Render(m.spinner.View() + " Loading entries…")
	}
	r := m.renderer()
	stats, _ := r.RenderStats(utils.StatsReport{Window: m.window, Stats: m.stats, Scanned: len(m.snap.Entries)})
	recent := r.RenderRecentSelection(m.recent, m.selected, m.expanded)

	left := m.st.border.Render(strings.TrimRight(stats, "\n"))
	right := m.st.border.Render(strings.TrimRight(recent, "\n"))
	if m.width < lipgloss.Width(left)+lipgloss.Width(right) {
		return lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderCalendar() string {
	days := energy.Month(m.snap.Entries, m.month.Year(), m.month.Month(), m.loc)
	cal, _ := m.renderer().RenderCalendar(days)

	var legend []string
	for _, c := range []energy.Category{energy.Low, energy.MediumLow, energy.Neutral, energy.Good, energy.Excellent} {
		legend = append(legend, lipgloss.NewStyle().Foreground(utils.ColorForCategory(c)).Render("■ "+c.String()))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		strings.TrimRight(cal, "\n"),
		"",
		strings.Join(legend, "  "),
		m.st.textDim.Render("←/→ change month"),
	)
	return m.st.border.Render(body)
}

func (m Model) renderTrends() string {
	weeks := energy.Weekly(m.snap.Entries, trendWeeks, m.now, m.loc)
	out, _ := m.renderer().RenderTrends(weeks)
	body := lipgloss.JoinVertical(lipgloss.Left,
		strings.TrimRight(out, "\n"),
		"",
		m.st.textDim.Render("Average score per rolling week, oldest first"),
	)
	return m.st.border.Render(body)
}

func (m Model) statusBar() string {
	hints := "1-5 window • tab next view • j/k select • enter expand • r refresh • a add • ? help • q quit"
	if m.status != "" {
		hints = m.status
	}
	updated := "never"
	if !m.snap.UpdatedAt.IsZero() {
		updated = m.snap.UpdatedAt.In(m.loc).Format("15:04:05")
	}
	return m.st.statusBar.Width(m.width).Render(fmt.Sprintf("Updated: %s   |   %s", updated, hints))
}

func (m Model) modal(title, content string) string {
	box := lipgloss.JoinVertical(lipgloss.Left,
		m.st.modalTitle.Render(title),
		content,
	)
	return m.st.modalBox.Render(box)
}

func (m Model) renderAddModal() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.st.textBold.Render("Score"),
		m.scoreInput.View(),
		"",
		m.st.textBold.Render("Thoughts"),
		m.thoughtsInput.View(),
		"",
		m.st.textDim.Render("Tab switch field • Enter save • Esc cancel"),
	)
	return m.modal("Log energy for "+energy.FormatDate(m.now), content)
}

func (m Model) helpView() string {
	content := version.GetVersionInfo() + `

  1-5           All / 3 days / week / month / year
  Tab           Cycle dashboard, calendar and trends
  h, c, t       Dashboard, calendar, trends
  j/k, ↓/↑      Select a recent entry
  Enter         Show or hide its full thoughts
  ←/→, [ ]      Previous / next month
  r             Refresh now
  a, n          Log today's energy
  ?             Toggle help
  q, Ctrl+C     Quit`
	return m.modal("Help", content)
}

func overlayCenter(base, modal string) string {
	// naive center overlay using vertical join with blank lines
	baseH := lipgloss.Height(base)
	mh := lipgloss.Height(modal)
	topPad := max(0, (baseH-mh)/3)
	return lipgloss.JoinVertical(lipgloss.Left, strings.Repeat("\n", topPad), lipgloss.PlaceHorizontal(lipgloss.Width(base), lipgloss.Center, modal), "")
}
