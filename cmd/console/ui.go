package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/seed-engine/pkg/seed"
)

const pollInterval = time.Second

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config    *ConsoleConfig
	client    *http.Client
	seedState *seed.SeedState
	viewport  viewport.Model
	ready     bool
	width     int
	height    int
	err       error
	copied    bool
	ticks     int
}

type pollMsg struct {
	state *seed.SeedState
	err   error
}

type tickMsg time.Time

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, ss *seed.SeedState) *ConsoleUI {
	return &ConsoleUI{
		config:    cfg,
		client:    client,
		seedState: ss,
	}
}

func (ui *ConsoleUI) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (ui *ConsoleUI) pollSeed() tea.Cmd {
	id := ui.seedState.ID
	return func() tea.Msg {
		ss, err := getSeed(ui.client, ui.config.APIBaseURL, id)
		return pollMsg{state: ss, err: err}
	}
}

func (ui *ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return ui, tea.Quit
		case "c":
			share := fmt.Sprintf("world=%s seed=%d", ui.seedState.WorldFile, ui.seedState.Seed)
			if err := clipboard.WriteAll(share); err == nil {
				ui.copied = true
			}
		}

	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		headerHeight := 3
		footerHeight := 2
		if !ui.ready {
			ui.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			ui.ready = true
		} else {
			ui.viewport.Width = msg.Width
			ui.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		ui.setContent()

	case tickMsg:
		ui.ticks++
		if ui.seedState.Status == seed.StatusDone || ui.seedState.Status == seed.StatusFailed {
			return ui, nil
		}
		return ui, ui.pollSeed()

	case pollMsg:
		if msg.err != nil {
			ui.err = msg.err
			return ui, tick()
		}
		ui.seedState = msg.state
		ui.err = nil
		ui.setContent()
		if ui.seedState.Status == seed.StatusDone || ui.seedState.Status == seed.StatusFailed {
			return ui, nil
		}
		return ui, tick()
	}

	var cmd tea.Cmd
	ui.viewport, cmd = ui.viewport.Update(msg)
	return ui, cmd
}

func (ui *ConsoleUI) setContent() {
	if !ui.ready {
		return
	}
	switch ui.seedState.Status {
	case seed.StatusDone:
		ui.viewport.SetContent(wordwrap.String(ui.seedState.Spoiler, ui.viewport.Width))
	case seed.StatusFailed:
		ui.viewport.SetContent(errorStyle.Render("Generation failed: " + ui.seedState.Error))
	default:
		ui.viewport.SetContent(statusStyle.Render(fmt.Sprintf("Generating%s", strings.Repeat(".", ui.ticks%4))))
	}
}

func (ui *ConsoleUI) View() string {
	if !ui.ready {
		return "Loading..."
	}

	header := titleStyle.Render(fmt.Sprintf("Seed %d - %s", ui.seedState.Seed, ui.seedState.WorldFile))

	status := string(ui.seedState.Status)
	switch ui.seedState.Status {
	case seed.StatusDone:
		status = okStyle.Render(fmt.Sprintf("done in %d attempts", ui.seedState.Attempts))
	case seed.StatusFailed:
		status = errorStyle.Render("failed")
	default:
		status = statusStyle.Render(status)
	}
	if ui.err != nil {
		status += errorStyle.Render("  (poll error: " + ui.err.Error() + ")")
	}

	footer := statusStyle.Render("q: quit  c: copy share string  ↑/↓: scroll")
	if ui.copied {
		footer = statusStyle.Render("copied!  ") + footer
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, status, ui.viewport.View(), footer)
}
