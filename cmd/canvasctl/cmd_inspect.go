package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/archcanvas/archcanvas/internal/render"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Open a live terminal view of the canvas render feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The full-screen TUI needs a real terminal; a piped or
			// redirected stdout gets a single plain-text snapshot instead,
			// the same fallback a `watch`-style tool gives non-interactive
			// callers.
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				p, err := fetchProjection(serverAddr)
				if err != nil {
					return err
				}
				fmt.Fprint(os.Stdout, renderBody(p))
				return nil
			}
			prog := tea.NewProgram(newInspectModel(serverAddr), tea.WithAltScreen())
			_, err := prog.Run()
			return err
		},
	}
}

func fetchProjection(server string) (render.Projection, error) {
	resp, err := http.Get(server + "/v1/render")
	if err != nil {
		return render.Projection{}, err
	}
	defer resp.Body.Close()
	var p render.Projection
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return render.Projection{}, err
	}
	return p, nil
}

type pollTickMsg struct{}

type renderFetchedMsg struct {
	projection render.Projection
	err        error
}

type inspectModel struct {
	server     string
	projection render.Projection
	err        error
	vp         viewport.Model
	ready      bool
}

func newInspectModel(server string) inspectModel {
	return inspectModel{server: server}
}

func (m inspectModel) Init() tea.Cmd {
	return tea.Batch(fetchRender(m.server), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func fetchRender(server string) tea.Cmd {
	return func() tea.Msg {
		p, err := fetchProjection(server)
		return renderFetchedMsg{projection: p, err: err}
	}
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-1)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - 1
		}
		m.vp.SetContent(renderBody(m.projection))
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	case pollTickMsg:
		return m, tea.Batch(fetchRender(m.server), tick())
	case renderFetchedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.projection = msg.projection
			if m.ready {
				m.vp.SetContent(renderBody(m.projection))
			}
		}
	}
	return m, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	groupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// renderBody formats a projection the same way whether it ends up inside
// the scrolling viewport or printed once for a non-interactive caller.
func renderBody(p render.Projection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", headerStyle.Render(fmt.Sprintf("nodes: %d  edges: %d", len(p.Nodes), len(p.Edges))))
	for _, n := range p.Nodes {
		line := fmt.Sprintf("%-16s  (%6.0f,%6.0f) %4.0fx%-4.0f", n.ID, n.X, n.Y, n.W, n.H)
		if n.IsGroup {
			line = groupStyle.Render(line + "  [group]")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
	for _, e := range p.Edges {
		fmt.Fprintf(&b, "%s -> %s  (%d waypoints)\n", e.Source, e.Target, len(e.Waypoints))
	}
	return b.String()
}

func (m inspectModel) View() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("archcanvas inspect: %v\n(q to quit)", m.err))
	}
	if !m.ready {
		return "loading...\n"
	}
	return m.vp.View() + "\n(↑/↓ scroll, q to quit)"
}
