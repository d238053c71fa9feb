package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ramanasai/katflow/internal/energy"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatCompact OutputFormat = "compact"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatDefault:
		return FormatDefault, nil
	case FormatJSON, FormatCSV, FormatCompact:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (use default, json, csv or compact)", s)
}

// RenderConfig contains configuration for output rendering
type RenderConfig struct {
	Format   OutputFormat
	Width    int
	Color    bool
	Location *time.Location
}

// DefaultRenderConfig returns a default render configuration
func DefaultRenderConfig() *RenderConfig {
	width := 80
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return &RenderConfig{
		Format:   FormatDefault,
		Width:    width,
		Color:    os.Getenv("NO_COLOR") == "",
		Location: time.Local,
	}
}

// Renderer handles output formatting
type Renderer struct {
	config *RenderConfig
	styles *Styles
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Text      lipgloss.Style
	Score     lipgloss.Style
	Glass     lipgloss.Style
}

// NewRenderer creates a new renderer with the given config
func NewRenderer(config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Renderer{config: config, styles: initStyles(config.Color)}
}

func initStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title:     plain,
			Separator: plain,
			Meta:      plain,
			Label:     plain,
			Value:     plain,
			Text:      plain,
			Score:     plain,
			Glass:     plain,
		}
	}
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		Label:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
		Value:     lipgloss.NewStyle().Bold(true),
		Text:      lipgloss.NewStyle(),
		Score:     lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Glass:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8B0000")),
	}
}

// ColorForCategory maps a score band to its display colour.
func ColorForCategory(c energy.Category) lipgloss.Color {
	switch c {
	case energy.Excellent:
		return lipgloss.Color("#40A02B") // green
	case energy.Good:
		return lipgloss.Color("#A6E3A1") // light green
	case energy.Neutral:
		return lipgloss.Color("#F9E2AF") // yellow
	case energy.MediumLow:
		return lipgloss.Color("#FAB387") // orange
	default:
		return lipgloss.Color("#F38BA8") // red
	}
}

// ColorForBucket is ColorForCategory for the three-way counts.
func ColorForBucket(b energy.Bucket) lipgloss.Color {
	switch b {
	case energy.GoodBucket:
		return ColorForCategory(energy.Excellent)
	case energy.NeutralBucket:
		return ColorForCategory(energy.Neutral)
	default:
		return ColorForCategory(energy.Low)
	}
}

func (r *Renderer) categoryStyle(base lipgloss.Style, c lipgloss.Color) lipgloss.Style {
	if !r.config.Color {
		return base
	}
	return base.Foreground(c)
}

func (r *Renderer) separator() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 60)))
}

// StatsReport is one window's aggregate plus context for the header.
type StatsReport struct {
	Window  energy.Window `json:"window"`
	Stats   energy.Stats  `json:"stats"`
	Scanned int           `json:"scanned"`
}

type statsJSON struct {
	Window      energy.Window `json:"window"`
	Good        int           `json:"good"`
	Neutral     int           `json:"neutral"`
	Bad         int           `json:"bad"`
	Average     float64       `json:"average"`
	Total       int           `json:"total"`
	GoodPercent int           `json:"good_percent"`
	Scanned     int           `json:"scanned"`
}

// RenderStats renders the good/neutral/bad counts and the glass metric.
func (r *Renderer) RenderStats(rep StatsReport) (string, error) {
	s := rep.Stats
	switch r.config.Format {
	case FormatJSON:
		return r.renderJSON(statsJSON{
			Window: rep.Window, Good: s.Good, Neutral: s.Neutral, Bad: s.Bad,
			Average: s.Average, Total: s.Total, GoodPercent: s.GoodPercent(), Scanned: rep.Scanned,
		})
	case FormatCSV:
		return fmt.Sprintf("window,good,neutral,bad,average,total,good_percent\n%s,%d,%d,%d,%.2f,%d,%d\n",
			rep.Window, s.Good, s.Neutral, s.Bad, s.Average, s.Total, s.GoodPercent()), nil
	case FormatCompact:
		return fmt.Sprintf("%s: %d good / %d neutral / %d bad, avg %.2f, %d%% good (%d)\n",
			rep.Window, s.Good, s.Neutral, s.Bad, s.Average, s.GoodPercent(), s.Total), nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Energy · " + rep.Window.Label()))
	b.WriteString("  ")
	b.WriteString(r.styles.Meta.Render(fmt.Sprintf("%d of %d entries", s.Total, rep.Scanned)))
	b.WriteString("\n")
	b.WriteString(r.separator())
	b.WriteString("\n")

	row := func(label string, n int, bucket energy.Bucket) {
		b.WriteString(r.styles.Label.Render(padRight(label, 10)))
		b.WriteString(r.categoryStyle(r.styles.Value, ColorForBucket(bucket)).Render(fmt.Sprintf("%4d", n)))
		b.WriteString("\n")
	}
	row("Good", s.Good, energy.GoodBucket)
	row("Neutral", s.Neutral, energy.NeutralBucket)
	row("Bad", s.Bad, energy.Bad)

	b.WriteString(r.styles.Label.Render(padRight("Average", 10)))
	b.WriteString(r.styles.Value.Render(fmt.Sprintf("%4.2f", s.Average)))
	b.WriteString("\n")
	b.WriteString(r.separator())
	b.WriteString("\n")
	b.WriteString(r.styles.Glass.Render(GlassBar(s.GoodRatio(), 20)))
	b.WriteString(" ")
	b.WriteString(r.styles.Value.Render(fmt.Sprintf("%d%%", s.GoodPercent())))
	b.WriteString(r.styles.Meta.Render(" good days"))
	b.WriteString("\n")
	return b.String(), nil
}

type entryJSON struct {
	Date     string `json:"date"`
	Score    int    `json:"score"`
	Category string `json:"category"`
	Thoughts string `json:"thoughts"`
}

// RenderRecent renders entries newest first, each tagged with its band.
func (r *Renderer) RenderRecent(entries []energy.Entry) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		out := make([]entryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, entryJSON{e.Date, e.Score, energy.Classify(e.Score).String(), e.Thoughts})
		}
		return r.renderJSON(out)
	case FormatCSV:
		var b strings.Builder
		b.WriteString("date,score,category,thoughts\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "%s,%d,%s,%s\n", escapeCSV(e.Date), e.Score, energy.Classify(e.Score), escapeCSV(e.Thoughts))
		}
		return b.String(), nil
	case FormatCompact:
		var b strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&b, "%s %d %s\n", e.Date, e.Score, truncate(oneLine(e.Thoughts), 60))
		}
		return b.String(), nil
	}

	return r.RenderRecentSelection(entries, -1, false), nil
}

// RenderRecentSelection draws the recent list with entry selected marked.
// When expanded, the selected entry's thoughts are shown in full, wrapped
// to the render width instead of cut to one line. A negative selected
// marks nothing.
func (r *Renderer) RenderRecentSelection(entries []energy.Entry, selected int, expanded bool) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Recent entries"))
	b.WriteString("\n")
	b.WriteString(r.separator())
	b.WriteString("\n")
	if len(entries) == 0 {
		b.WriteString(r.styles.Meta.Render("No entries yet"))
		b.WriteString("\n")
		return b.String()
	}
	for i, e := range entries {
		if selected >= 0 {
			if i == selected {
				b.WriteString(r.styles.Label.Render("> "))
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString(r.RenderScore(e.Score))
		b.WriteString(" ")
		b.WriteString(r.styles.Value.Render(e.Date))
		b.WriteString("\n")
		t := strings.TrimSpace(e.Thoughts)
		switch {
		case t == "":
		case expanded && i == selected:
			full := lipgloss.NewStyle().Width(max(10, r.config.Width-4)).Render(t)
			for _, line := range strings.Split(full, "\n") {
				b.WriteString(r.styles.Text.Render("  " + strings.TrimRight(line, " ")))
				b.WriteString("\n")
			}
		default:
			b.WriteString(r.styles.Text.Render("  " + truncate(oneLine(t), r.config.Width-4)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

type weekJSON struct {
	Start   string  `json:"start"`
	Good    int     `json:"good"`
	Neutral int     `json:"neutral"`
	Bad     int     `json:"bad"`
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

// RenderTrends draws one bar per week scaled to the 1..5 score range.
func (r *Renderer) RenderTrends(weeks []energy.Week) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		out := make([]weekJSON, 0, len(weeks))
		for _, w := range weeks {
			s := w.Stats
			out = append(out, weekJSON{w.Start.Format("2006-01-02"), s.Good, s.Neutral, s.Bad, s.Average, s.Total})
		}
		return r.renderJSON(out)
	case FormatCSV:
		var b strings.Builder
		b.WriteString("start,good,neutral,bad,average,total\n")
		for _, w := range weeks {
			s := w.Stats
			fmt.Fprintf(&b, "%s,%d,%d,%d,%.2f,%d\n", w.Start.Format("2006-01-02"), s.Good, s.Neutral, s.Bad, s.Average, s.Total)
		}
		return b.String(), nil
	case FormatCompact:
		var b strings.Builder
		for _, w := range weeks {
			fmt.Fprintf(&b, "%s %.2f %d\n", w.Start.Format("2006-01-02"), w.Stats.Average, w.Stats.Total)
		}
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Weekly trend"))
	b.WriteString("\n")
	b.WriteString(r.separator())
	b.WriteString("\n")
	for _, w := range weeks {
		b.WriteString(r.styles.Label.Render(padRight(w.Start.In(r.config.Location).Format("02 Jan"), 8)))
		if w.Stats.Total == 0 {
			b.WriteString(r.styles.Meta.Render(GlassBar(0, 20) + "  no entries"))
			b.WriteString("\n")
			continue
		}
		bar := GlassBar(w.Stats.Average/5, 20)
		if r.config.Color {
			bar = lipgloss.NewStyle().Foreground(ColorForCategory(energy.Classify(int(w.Stats.Average + 0.5)))).Render(bar)
		}
		b.WriteString(bar)
		b.WriteString(r.styles.Value.Render(fmt.Sprintf("  %.1f", w.Stats.Average)))
		b.WriteString(r.styles.Meta.Render(fmt.Sprintf(" (%d)", w.Stats.Total)))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// RenderScore draws a score as a coloured badge.
func (r *Renderer) RenderScore(score int) string {
	badge := fmt.Sprintf("[%d]", score)
	if !r.config.Color {
		return r.styles.Score.Render(badge)
	}
	return r.styles.Score.
		Foreground(lipgloss.Color("#1E1E2E")).
		Background(ColorForCategory(energy.Classify(score))).
		Render(strconv.Itoa(score))
}

type dayJSON struct {
	Date     string  `json:"date"`
	Entries  int     `json:"entries"`
	Average  float64 `json:"average,omitempty"`
	Category string  `json:"category,omitempty"`
}

// RenderCalendar renders one month as a Monday-first heat-map grid.
func (r *Renderer) RenderCalendar(days []energy.Day) (string, error) {
	if len(days) == 0 {
		return "", nil
	}
	switch r.config.Format {
	case FormatJSON:
		out := make([]dayJSON, 0, len(days))
		for _, d := range days {
			dj := dayJSON{Date: d.Date.Format("2006-01-02"), Entries: d.Entries}
			if d.HasData {
				dj.Average = d.Average
				dj.Category = d.Category.String()
			}
			out = append(out, dj)
		}
		return r.renderJSON(out)
	case FormatCSV:
		var b strings.Builder
		b.WriteString("date,entries,average,category\n")
		for _, d := range days {
			cat := ""
			if d.HasData {
				cat = d.Category.String()
			}
			fmt.Fprintf(&b, "%s,%d,%.2f,%s\n", d.Date.Format("2006-01-02"), d.Entries, d.Average, cat)
		}
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render(days[0].Date.Format("January 2006")))
	b.WriteString("\n")
	b.WriteString(r.styles.Label.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	offset := (int(days[0].Date.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))
	for i, d := range days {
		cell := fmt.Sprintf("%3d", d.Date.Day())
		switch {
		case !d.HasData:
			cell = r.styles.Meta.Render(cell)
		case r.config.Color:
			cell = lipgloss.NewStyle().Bold(true).Foreground(ColorForCategory(d.Category)).Render(cell)
		default:
			cell = fmt.Sprintf("%2d%s", d.Date.Day(), categoryMark(d.Category))
		}
		b.WriteString(cell)
		if (offset+i+1)%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	if (offset+len(days))%7 != 0 {
		b.WriteString("\n")
	}
	return b.String(), nil
}

// categoryMark is the monochrome stand-in for a heat-map colour.
func categoryMark(c energy.Category) string {
	switch c {
	case energy.Excellent:
		return "+"
	case energy.Good:
		return "^"
	case energy.Neutral:
		return "="
	case energy.MediumLow:
		return "v"
	default:
		return "-"
	}
}

// GlassBar draws ratio (0..1) as a fill gauge of the given width.
func GlassBar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func (r *Renderer) renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// Helper functions
func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		s = strings.ReplaceAll(s, "\"", "\"\"")
		return "\"" + s + "\""
	}
	return s
}
