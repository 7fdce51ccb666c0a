package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nconklindev/xl2xml/internal/converter"
	"github.com/nconklindev/xl2xml/internal/types"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is reported when the user quits before the run finishes.
var ErrAborted = errors.New("aborted")

type state int

const (
	stateProcessing state = iota
	stateComplete
	stateError
)

// ExportFunc runs a conversion, reporting progress on the channel.
type ExportFunc func(converter.Options, chan<- float64) (*types.ConversionResult, error)

// Model shows a progress bar while a conversion runs and quits on its own
// once the conversion completes or fails.
type Model struct {
	state        state
	opts         converter.Options
	export       ExportFunc
	result       *types.ConversionResult
	err          error
	width        int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel prepares a model that runs export with opts.
func InitialModel(opts converter.Options, export ExportFunc) Model {
	return Model{
		state:        stateProcessing,
		opts:         opts,
		export:       export,
		progress:     progress.New(progress.WithGradient("#FF8C42", "#FF9F5A")),
		progressChan: make(chan float64, 100),
		resultChan:   make(chan conversionResultMsg, 1),
	}
}

// Result returns the finished conversion, or the error that ended it.
func (m Model) Result() (*types.ConversionResult, error) {
	if m.state == stateProcessing && m.err == nil {
		return nil, ErrAborted
	}
	return m.result, m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.startExport(),
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 12; w > 10 && w < 80 {
			m.progress.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateProcessing {
				m.err = ErrAborted
				m.state = stateError
			}
			return m, tea.Quit
		}

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, tea.Quit
		}
		m.result = msg.result
		m.state = stateComplete
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	return m, nil
}

func (m Model) startExport() tea.Cmd {
	progressChan := m.progressChan
	resultChan := m.resultChan
	opts := m.opts
	export := m.export

	return func() tea.Msg {
		go func() {
			result, err := export(opts, progressChan)

			resultChan <- conversionResultMsg{result: result, err: err}

			close(progressChan)
			close(resultChan)
		}()

		return waitForProgressMsg{}
	}
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return Summary(m.result, m.width)
	case stateError:
		return ErrorView(m.err)
	}
	return ""
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Exporting..."))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s [%s]", filepath.Base(m.opts.InputFile), m.opts.Sheet)))
	s.WriteString("\n")
	s.WriteString(m.progress.View())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press q to abort"))

	return BoxStyle.Render(s.String())
}

// Summary renders a finished conversion. Paths longer than the terminal
// allows are shortened from the left.
func Summary(result *types.ConversionResult, width int) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Export Complete!"))
	s.WriteString("\n\n")

	maxPathLen := width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s [%s]\n", truncatePath(result.InputFile, maxPathLen), result.Sheet))
	if result.LastDataRow >= result.FirstDataRow {
		s.WriteString(fmt.Sprintf("Rows:   %d-%d (header row %d, column %d)\n",
			result.FirstDataRow, result.LastDataRow, result.HeaderRow, result.StartColumn))
	} else {
		s.WriteString("Rows:   none\n")
	}
	for _, o := range result.Outputs {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s", truncatePath(o.Path, maxPathLen))))
		s.WriteString(fmt.Sprintf(" (%s, %d records)\n", o.Table, o.Records))
	}
	s.WriteString(fmt.Sprintf("Rows processed: %d\n", result.RowsProcessed))

	return BoxStyle.Render(s.String())
}

// ErrorView renders a failed conversion.
func ErrorView(err error) string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(err.Error())

	return BoxStyle.Render(s.String())
}

func truncatePath(p string, maxLen int) string {
	if len(p) > maxLen {
		return "..." + p[len(p)-maxLen+3:]
	}
	return p
}
