package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"phpflow/internal/driver"
)

// fraction of a file's work considered complete once it enters a stage
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:    0.1,
	driver.StageDecode:  0.3,
	driver.StageAnalyze: 0.7,
	driver.StageReport:  0.9,
}

var stageVerb = map[driver.Stage]string{
	driver.StageLoad:    "loading",
	driver.StageDecode:  "decoding",
	driver.StageAnalyze: "analyzing",
	driver.StageReport:  "reporting",
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const (
	statusCol   = 10
	findingsCol = 9
	timeCol     = 7
)

// fileRow is one line of the table.
type fileRow struct {
	path     string
	stage    driver.Stage
	status   driver.Status
	errors   int
	warnings int
	elapsed  time.Duration
}

func (r fileRow) finished() bool {
	switch r.status {
	case driver.StatusDone, driver.StatusCached, driver.StatusError:
		return true
	}
	return false
}

func (r fileRow) label() string {
	if r.status == driver.StatusWorking {
		return stageVerb[r.stage]
	}
	return string(r.status)
}

type checkModel struct {
	title  string
	events <-chan driver.Event
	spin   spinner.Model
	bar    progress.Model
	rows   []fileRow
	byPath map[string]int
	// run is the last run-level status, reported with an empty File
	run   driver.Status
	width int
	quit  bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model showing a table of files with
// their stage, finding counts and time, over an overall bar. It quits once
// events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &checkModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(busyStyle)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		rows:   make([]fileRow, len(files)),
		byPath: make(map[string]int, len(files)),
	}
	for i, f := range files {
		m.rows[i] = fileRow{path: f, status: driver.StatusQueued}
		m.byPath[f] = i
	}
	m.resize(80)
	return m
}

func (m *checkModel) resize(width int) {
	m.width = width
	m.bar.Width = max(width-24, 10)
}

func (m *checkModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.next())
}

func (m *checkModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.quit = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.resize(msg.Width)
		}
	case spinner.TickMsg:
		if !m.quit {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply folds ev into the table. Events for files outside the table are
// dropped.
func (m *checkModel) apply(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		m.run = ev.Status
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	r := &m.rows[i]
	r.stage, r.status = ev.Stage, ev.Status
	if ev.Elapsed > 0 {
		r.elapsed = ev.Elapsed
	}
	if r.finished() {
		r.errors, r.warnings = ev.Errors, ev.Warnings
	}
	return m.bar.SetPercent(m.percent())
}

func (m *checkModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		if r.finished() {
			sum++
			continue
		}
		sum += stageWeight[r.stage]
	}
	return sum / float64(len(m.rows))
}

// totals sums the finished rows.
func (m *checkModel) totals() (finished, cached, errors, warnings int) {
	for _, r := range m.rows {
		if !r.finished() {
			continue
		}
		finished++
		if r.status == driver.StatusCached {
			cached++
		}
		errors += r.errors
		warnings += r.warnings
	}
	return
}

func (m *checkModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	lead := m.spin.View()
	if m.quit {
		lead = okStyle.Render("✓")
	}
	b.WriteString(lead + " " + headerStyle.Render(m.title))
	if m.run != "" {
		b.WriteString(dimStyle.Render(" " + string(m.run)))
	}
	b.WriteString("\n\n")

	pathCol := max(m.width-statusCol-findingsCol-timeCol-5, 16)
	for _, r := range m.rows {
		fmt.Fprintf(&b, " %s %s %s %s\n",
			statusStyle(r).Width(statusCol).Render(r.label()),
			findingsCell(r),
			dimStyle.Width(timeCol).Align(lipgloss.Right).Render(elapsed(r)),
			truncate(r.path, pathCol))
	}

	done, cached, errs, warns := m.totals()
	bar := m.bar.View()
	if m.quit {
		bar = m.bar.ViewAs(1)
	}
	fmt.Fprintf(&b, "\n %s %d/%d", bar, done, len(m.rows))
	if cached > 0 {
		fmt.Fprintf(&b, " (%d cached)", cached)
	}
	fmt.Fprintf(&b, "  %s %s\n",
		errStyle.Render(fmt.Sprintf("%d errors", errs)),
		warnStyle.Render(fmt.Sprintf("%d warnings", warns)))
	return b.String()
}

func statusStyle(r fileRow) lipgloss.Style {
	switch r.status {
	case driver.StatusError:
		return errStyle
	case driver.StatusWorking:
		return busyStyle
	case driver.StatusDone, driver.StatusCached:
		return okStyle
	}
	return dimStyle
}

// findingsCell renders "2E 1W" for a finished file and blanks otherwise.
func findingsCell(r fileRow) string {
	cell := lipgloss.NewStyle().Width(findingsCol)
	if !r.finished() {
		return cell.Render("")
	}
	if r.errors == 0 && r.warnings == 0 {
		return cell.Inherit(dimStyle).Render("clean")
	}
	var parts []string
	if r.errors > 0 {
		parts = append(parts, errStyle.Render(fmt.Sprintf("%dE", r.errors)))
	}
	if r.warnings > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("%dW", r.warnings)))
	}
	return cell.Render(strings.Join(parts, " "))
}

func elapsed(r fileRow) string {
	if r.elapsed <= 0 {
		return ""
	}
	if r.elapsed < time.Second {
		return fmt.Sprintf("%dms", r.elapsed.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", r.elapsed.Seconds())
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}

// Run shows the progress view on out until events is closed or ctx ends.
func Run(ctx context.Context, out io.Writer, title string, files []string, events <-chan driver.Event) error {
	p := tea.NewProgram(NewProgressModel(title, files, events),
		tea.WithContext(ctx), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}
