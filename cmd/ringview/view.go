package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-ringview/pkg/graph"
	"github.com/dd0wney/cluso-ringview/pkg/session"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2)

	canvasStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF"))

	infoStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginLeft(1)

	claimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	ipStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AFFF"))
	phoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	edgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

const (
	infoWidth = 34
	minCanvas = 10
)

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	Clear key.Binding
	Pause key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "select next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "select prev"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" ", "space", "p"),
		key.WithHelp("space/p", "pause"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Clear, k.Pause, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Clear},
		{k.Pause, k.Quit},
	}
}

type model struct {
	session  *session.Session
	frame    visualization.Frame
	order    []string
	cursor   int
	interval time.Duration
	paused   bool
	help     help.Model
	keys     keyMap
	width    int
	height   int
	message  string
}

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newModel(s *session.Session, interval time.Duration) model {
	frame := s.Frame(visualization.IncludeClaims())
	order := make([]string, 0, len(frame.Nodes))
	for _, n := range frame.Nodes {
		if n.Kind == graph.KindClaim {
			order = append(order, n.ID)
		}
	}
	for _, n := range frame.Nodes {
		if n.Kind != graph.KindClaim {
			order = append(order, n.ID)
		}
	}

	return model{
		session:  s,
		frame:    frame,
		order:    order,
		cursor:   -1,
		interval: interval,
		help:     help.New(),
		keys:     keys,
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		if !m.paused {
			m.session.Tick()
			m.frame = m.session.Frame(visualization.IncludeClaims())
		}
		return m, tickCmd(m.interval)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.move(1)

		case key.Matches(msg, m.keys.Prev):
			m.move(-1)

		case key.Matches(msg, m.keys.Clear):
			m.cursor = -1
			_ = m.session.Select("")
			m.frame = m.session.Frame(visualization.IncludeClaims())
			m.message = ""

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		}
	}

	return m, nil
}

// move steps the selection cursor through claims first, then identifiers.
func (m *model) move(delta int) {
	if len(m.order) == 0 {
		return
	}
	switch {
	case m.cursor < 0 && delta > 0:
		m.cursor = 0
	case m.cursor < 0:
		m.cursor = len(m.order) - 1
	default:
		m.cursor = (m.cursor + delta + len(m.order)) % len(m.order)
	}

	if err := m.session.Select(m.order[m.cursor]); err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
	m.frame = m.session.Frame(visualization.IncludeClaims())
}

func (m model) View() string {
	canvasW := max(m.width-infoWidth-6, minCanvas)
	canvasH := max(m.height-6, minCanvas/2)

	status := fmt.Sprintf("tick %d  energy %.3g", m.frame.Tick, m.frame.KineticEnergy)
	if m.paused {
		status += "  " + pausedStyle.Render("paused")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ringview") + "  " + status + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.renderCanvas(canvasW, canvasH)),
		infoStyle.Width(infoWidth).Render(m.renderInfo()),
	))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

type cell struct {
	r     rune
	style lipgloss.Style
	set   bool
}

// renderCanvas projects the frame onto a w×h character grid. Edges are drawn
// first and nodes over them; nearer nodes (larger Z) win ties.
func (m model) renderCanvas(w, h int) string {
	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
	}

	points := visualization.Project(m.frame.Nodes, float64(w-1), float64(h-1), 0)
	at := make(map[string]visualization.Point, len(points))
	for _, p := range points {
		at[p.ID] = p
	}

	for _, e := range m.frame.Edges {
		src, ok1 := at[e.Source]
		dst, ok2 := at[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		steps := int(math.Max(math.Abs(dst.X-src.X), math.Abs(dst.Y-src.Y)))
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			x := int(math.Round(src.X + (dst.X-src.X)*t))
			y := int(math.Round(src.Y + (dst.Y-src.Y)*t))
			if inside(x, y, w, h) && !grid[y][x].set {
				grid[y][x] = cell{r: '·', style: edgeStyle, set: true}
			}
		}
	}

	depth := make([][]float64, h)
	for y := range depth {
		depth[y] = make([]float64, w)
		for x := range depth[y] {
			depth[y][x] = math.Inf(-1)
		}
	}
	for i, p := range points {
		x, y := int(math.Round(p.X)), int(math.Round(p.Y))
		if !inside(x, y, w, h) {
			continue
		}
		n := m.frame.Nodes[i]
		if n.Selected {
			depth[y][x] = math.Inf(1)
			grid[y][x] = cell{r: glyph(n.Kind), style: selectedStyle, set: true}
			continue
		}
		if p.Depth < depth[y][x] {
			continue
		}
		depth[y][x] = p.Depth
		grid[y][x] = cell{r: glyph(n.Kind), style: kindStyle(n.Kind), set: true}
	}

	var b strings.Builder
	for y, row := range grid {
		for _, c := range row {
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m model) renderInfo() string {
	sum := m.session.Summary()

	var b strings.Builder
	fmt.Fprintf(&b, "%s claims\n", claimStyle.Render(fmt.Sprint(sum.Claims)))
	fmt.Fprintf(&b, "%s ips  %s phones\n",
		ipStyle.Render(fmt.Sprint(sum.IPAddresses)),
		phoneStyle.Render(fmt.Sprint(sum.PhoneNumbers)))
	fmt.Fprintf(&b, "%d rings, %d suspicious\n\n", sum.Rings, sum.SuspiciousRings)

	if m.frame.Selected == "" {
		b.WriteString("nothing selected")
	} else {
		b.WriteString(selectedStyle.Render(m.frame.Selected) + "\n")
		for _, n := range m.frame.Nodes {
			if n.ID != m.frame.Selected {
				continue
			}
			b.WriteString(n.Kind.String() + "\n")
			if c := n.Claim; c != nil {
				if c.ClaimantName != "" {
					fmt.Fprintf(&b, "claimant %s\n", c.ClaimantName)
				}
				if c.Amount != 0 {
					fmt.Fprintf(&b, "amount   %.2f\n", c.Amount)
				}
				if c.RiskLevel != "" {
					fmt.Fprintf(&b, "risk     %s (%d)\n", c.RiskLevel, c.RiskScore)
				}
				if c.HasIP() {
					fmt.Fprintf(&b, "ip       %s\n", c.IPAddress)
				}
				if c.HasPhone() {
					fmt.Fprintf(&b, "phone    %s\n", c.PhoneNumber)
				}
			}
			fmt.Fprintf(&b, "at (%.1f, %.1f, %.1f)", n.X, n.Y, n.Z)
		}
	}

	if m.message != "" {
		b.WriteString("\n\n" + pausedStyle.Render(m.message))
	}
	return b.String()
}

func inside(x, y, w, h int) bool {
	return x >= 0 && y >= 0 && x < w && y < h
}

func glyph(k graph.Kind) rune {
	switch k {
	case graph.KindIPAddress:
		return '◆'
	case graph.KindPhoneNumber:
		return '▲'
	default:
		return '●'
	}
}

func kindStyle(k graph.Kind) lipgloss.Style {
	switch k {
	case graph.KindIPAddress:
		return ipStyle
	case graph.KindPhoneNumber:
		return phoneStyle
	default:
		return claimStyle
	}
}

func viewCmd() *cobra.Command {
	var fps float64

	cmd := &cobra.Command{
		Use:   "view <claims-file>",
		Short: "Watch the layout settle in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(args[0])
			if err != nil {
				return err
			}

			rate := cfg.Driver.TickRate
			if cmd.Flags().Changed("fps") {
				rate = fps
			}
			interval := session.DriverConfig{TickRate: rate}.Interval()
			if interval == 0 {
				return fmt.Errorf("tick rate must be positive, got %g", rate)
			}

			p := tea.NewProgram(newModel(s, interval), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().Float64Var(&fps, "fps", 30, "Ticks per second (defaults to driver.tick_rate)")
	return cmd
}
