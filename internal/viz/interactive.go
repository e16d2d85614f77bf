package viz

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/scene"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	activeValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")).Bold(true)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	inactiveValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var presetInfo = map[string]string{
	"custom": "from flags and config file",
	"sun":    "heavy centre, light planets",
	"binary": "two equal heavy bodies",
	"swarm":  "many light bodies, long trails",
	"equal":  "six equal masses",
	"heavy":  "heavy bodies, wide floor",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable start setting on the config screen.
type param struct {
	name string
	step float64
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"bodies", 1,
		func(c *config.Config) float64 { return float64(c.Simulation.Bodies) },
		func(c *config.Config, v float64) { c.Simulation.Bodies = int(v) }},
	{"seed", 1,
		func(c *config.Config) float64 { return float64(c.Simulation.Seed) },
		func(c *config.Config, v float64) { c.Simulation.Seed = int64(v) }},
	{"g", 1e4,
		func(c *config.Config) float64 { return c.Physics.G },
		func(c *config.Config, v float64) { c.Physics.G = v }},
	{"dt", 1e-4,
		func(c *config.Config) float64 { return c.Physics.Dt },
		func(c *config.Config, v float64) { c.Physics.Dt = v }},
	{"floor", 5,
		func(c *config.Config) float64 { return c.Physics.Floor },
		func(c *config.Config, v float64) { c.Physics.Floor = v }},
}

// App is the preset picker that leads into the live view.
type App struct {
	state, cursor int
	presets       []string
	base          *config.Config
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	width, height int
	liveModel     Model
	logger        *log.Logger
}

// NewInteractiveApp lists the presets plus a "custom" entry built from base.
func NewInteractiveApp(base *config.Config, logger *log.Logger) *App {
	if base == nil {
		base = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{
		state:   stateMenu,
		presets: append([]string{"custom"}, config.ListPresets()...),
		base:    base,
		width:   defaultWidth,
		height:  defaultHeight,
		logger:  logger,
	}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			m.liveModel.resize(msg.Width, msg.Height)
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = m.presetConfig(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m App) presetConfig(name string) *config.Config {
	if name == "custom" {
		return m.base.Clone()
	}
	cfg := config.GetPreset(name)
	cfg.Render = m.base.Render
	cfg.Simulation.Seed = m.base.Simulation.Seed
	return cfg
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, formatParam(p.get(m.cfg))
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-p.step)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+p.step)
	}
	return m, nil
}

func (m *App) start() tea.Cmd {
	sc, err := scene.New(m.cfg, m.logger)
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel = NewModel(sc)
	m.liveModel.resize(m.width, m.height)
	m.state, m.err = stateSim, nil
	return m.liveModel.Init()
}

func (m App) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func (m App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("GRAVSIM") + "\n    " + subStyle.Render("n-body gravity") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", name)), activeValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", inactiveStyle.Render(fmt.Sprintf("  %-10s", name)), inactiveValue.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m App) viewConfig() string {
	var b strings.Builder
	name := m.presets[m.cursor]
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(name)) + "\n    " + subStyle.Render(presetInfo[name]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, p := range params {
		valStr := fmt.Sprintf("%10s", formatParam(p.get(m.cfg)))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-8s", p.name)), activeValue.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", inactiveStyle.Render(fmt.Sprintf("  %-8s", p.name)), inactiveValue.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusFrozen.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + inactiveStyle.Render(" "+pairs[i+1]+"  "))
	}
	return strings.TrimRight(b.String(), " ")
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// RunInteractive opens the preset picker.
func RunInteractive(base *config.Config, logger *log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(base, logger), tea.WithAltScreen()).Run()
	return err
}
