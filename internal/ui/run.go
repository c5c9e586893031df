// Package ui renders the interactive progress view for library runs.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"jellyprep/internal/library"
)

// Custom messages for run updates
type progressMsg library.Progress
type runClosedMsg struct{}

const maxLogLines = 8

// RunModel is the TUI state while a library run is underway.
type RunModel struct {
	updates <-chan library.Progress

	spinner spinner.Model
	bar     progress.Model

	stage   library.Stage
	current int
	total   int
	folder  string
	logs    []string
	done    bool
	width   int
}

// NewRunModel builds the progress view over a channel of run updates. The
// channel must be closed when the run finishes.
func NewRunModel(updates <-chan library.Progress) RunModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = TitleStyle

	bar := progress.New(progress.WithDefaultGradient())

	return RunModel{
		updates: updates,
		spinner: sp,
		bar:     bar,
	}
}

// Done reports whether the run completed (as opposed to being quit early).
func (m RunModel) Done() bool {
	return m.done
}

// Init starts the spinner and the channel pump.
func (m RunModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m RunModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		upd, ok := <-m.updates
		if !ok {
			return runClosedMsg{}
		}
		return progressMsg(upd)
	}
}

// Update handles messages
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.stage = msg.Stage
		m.current = msg.Current
		m.total = msg.Total
		if msg.Folder != "" {
			m.folder = msg.Folder
		}
		if line := formatLogLine(library.Progress(msg)); line != "" {
			m.logs = append(m.logs, line)
			if len(m.logs) > maxLogLines {
				m.logs = m.logs[len(m.logs)-maxLogLines:]
			}
		}
		return m, m.waitForProgress()

	case runClosedMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(msg.Width-8, 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the progress screen.
func (m RunModel) View() string {
	var sb strings.Builder

	sb.WriteString(HeaderStyle.Render("jellyprep") + "\n\n")

	if m.done {
		sb.WriteString(SuccessStyle.Render("Run complete") + "\n")
	} else {
		sb.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), stageLabel(m.stage)))
		if m.folder != "" {
			sb.WriteString(MutedStyle.Render("  "+m.folder) + "\n")
		}
		if m.total > 0 {
			sb.WriteString("\n" + m.bar.ViewAs(float64(m.current)/float64(m.total)))
			sb.WriteString(MutedStyle.Render(fmt.Sprintf("  %d/%d", m.current, m.total)) + "\n")
		}
	}

	if len(m.logs) > 0 {
		sb.WriteString("\n")
		for _, line := range m.logs {
			sb.WriteString(MutedStyle.Render(line) + "\n")
		}
	}

	sb.WriteString("\n" + MutedStyle.Render("q to quit") + "\n")
	return sb.String()
}

func stageLabel(stage library.Stage) string {
	switch stage {
	case library.StageScanning:
		return "Scanning libraries"
	case library.StageMovie:
		return "Processing movies"
	case library.StageShow:
		return "Processing shows"
	case library.StageRefresh:
		return "Refreshing media server"
	case library.StageDone:
		return "Finishing up"
	default:
		return "Starting"
	}
}

func formatLogLine(upd library.Progress) string {
	switch {
	case upd.Message != "":
		return upd.Message
	case upd.Folder != "":
		return fmt.Sprintf("%s: %s", upd.Stage, upd.Folder)
	default:
		return ""
	}
}
