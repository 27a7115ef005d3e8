package ui

import (
	"fmt"
	"strings"
	"time"

	"colorgrid/content"
	"colorgrid/grid"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	tileWidth  = 18
	tileHeight = 4

	title      = "ColorGrid, Rainbow Deployments Viewer"
	sourceLink = "https://github.com/n3wscott/colorgrid"
)

// Message types
type (
	// TileReloadedMsg reports that a tile remounted its content.
	TileReloadedMsg grid.Reload
	// FrameLoadedMsg reports that a tile's current content finished loading.
	FrameLoadedMsg struct{ Index int }
)

// Model is the root bubbletea model. It only renders the grid; tiles own
// and mutate their own state.
type Model struct {
	grid   *grid.Grid
	width  int
	height int

	reloads   int
	lastEvent time.Time

	viewport viewport.Model
	spinner  spinner.Model
}

func NewModel(g *grid.Grid) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleSpinner

	return Model{
		grid:     g,
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// ─── Update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = maxInt(msg.Width-4, 1)
		m.viewport.Height = maxInt(msg.Height-4, 1)
		m.viewport.SetContent(m.renderGrid())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.viewport.LineDown(1)
		case "k", "up":
			m.viewport.LineUp(1)
		case "d", "pgdown":
			m.viewport.HalfViewDown()
		case "u", "pgup":
			m.viewport.HalfViewUp()
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		// Keep loading tiles animated
		if m.anyLoading() {
			m.viewport.SetContent(m.renderGrid())
		}

	case TileReloadedMsg:
		m.reloads++
		m.lastEvent = time.Now()
		m.viewport.SetContent(m.renderGrid())

	case FrameLoadedMsg:
		m.lastEvent = time.Now()
		m.viewport.SetContent(m.renderGrid())
	}

	return m, tea.Batch(cmds...)
}

// ─── View ─────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing ColorGrid..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		StylePane.Width(m.width-2).Render(m.viewport.View()),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	left := rainbow(title)
	right := ""
	if !m.lastEvent.IsZero() {
		right = StyleAccent.Render(fmt.Sprintf("%d reloads", m.reloads)) +
			StyleSubtitle.Render("  last "+m.lastEvent.Format("15:04:05"))
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return StyleHeader.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter() string {
	cfg := m.grid.Config()
	src := cfg.SourceURL
	if src == "" {
		src = "(no url)"
	}
	left := fmt.Sprintf("  %s  %d tiles  ", truncate(src, maxInt(m.width/2, 8)), cfg.TileCount)
	hint := "  jk scroll  g/G top/bottom  q quit  "
	link := StyleLink.Render(sourceLink)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hint) - lipgloss.Width(link) - 2
	if gap < 1 {
		// Narrow terminal: drop the link.
		return StyleFooter.Width(m.width).Render(left + hint)
	}
	return StyleFooter.Width(m.width).Render(left + hint + strings.Repeat(" ", gap) + link)
}

// ─── Grid ─────────────────────────────────────────────────────────────────────

// columns returns how many tiles fit side by side.
func (m Model) columns() int {
	inner := m.width - 4
	return maxInt(inner/(tileWidth+1), 1)
}

func (m Model) renderGrid() string {
	tiles := m.grid.Tiles()
	if len(tiles) == 0 {
		return StyleMuted.Render("No tiles. Set count in the query, e.g. ?url=http://colors.local&count=25")
	}

	cols := m.columns()
	var rows []string
	for start := 0; start < len(tiles); start += cols {
		end := minInt(start+cols, len(tiles))
		cells := make([]string, 0, 2*(end-start))
		for i, t := range tiles[start:end] {
			if i > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, m.renderTile(t))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) anyLoading() bool {
	for _, t := range m.grid.Tiles() {
		if v, ok := frameView(t.Handle()); ok && v.State == content.StateLoading {
			return true
		}
	}
	return false
}

func frameView(h grid.Handle) (content.FrameView, bool) {
	f, ok := h.(*content.Frame)
	if !ok || f == nil {
		return content.FrameView{}, false
	}
	return f.View(), true
}

func (m Model) renderTile(t *grid.Tile) string {
	inner := tileWidth - 2
	bg := bgTileIdle
	var lines []string

	head := StyleTileIndex.Render(fmt.Sprintf("#%02d", t.Index()))
	count := fmt.Sprintf("↻%d", t.ReloadCount())

	v, ok := frameView(t.Handle())
	switch {
	case !ok:
		lines = append(lines, StyleMuted.Render("not mounted"))
	case v.State == content.StateLoading:
		count = m.spinner.View() + count
		lines = append(lines, "loading")
	case v.State == content.StateFailed:
		bg = bgTileFailed
		lines = append(lines, StyleError.Render("✗ "+truncate(v.Err.Error(), inner-2)))
	default:
		snap := v.Snapshot
		if snap.HasColour {
			bg = lipgloss.Color(snap.Colour.Hex())
		} else {
			bg = statusColor(snap.Status)
		}
		if snap.Title != "" {
			lines = append(lines, truncate(snap.Title, inner))
		}
		if snap.Detail != "" {
			lines = append(lines, wordWrap(snap.Detail, inner, tileHeight-1-len(lines))...)
		}
		if len(lines) == 0 && snap.Status != content.StatusUnknown {
			lines = append(lines, snap.Status.String())
		}
	}

	gap := inner - lipgloss.Width(head) - lipgloss.Width(count)
	top := head + strings.Repeat(" ", maxInt(gap, 1)) + count
	body := strings.Join(append([]string{top}, lines...), "\n")

	return StyleTile.
		Background(bg).
		Foreground(contrastText(toColorful(bg))).
		Render(body)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// wordWrap splits s into at most maxLines lines of the given width.
func wordWrap(s string, width, maxLines int) []string {
	if maxLines <= 0 || width <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	for _, w := range strings.Fields(s) {
		if line.Len() > 0 && line.Len()+len(w)+1 > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	for i := range lines {
		lines[i] = truncate(lines[i], width)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = truncate(lines[maxLines-1]+" …", width)
	}
	return lines
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
