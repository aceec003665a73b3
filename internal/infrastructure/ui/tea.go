package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	successMark = "✓"
	failureMark = "✗"
)

// TeaReporter shows one live progress row per plugin.
type TeaReporter struct {
	out     io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTeaReporter creates a reporter rendering to out.
func NewTeaReporter(out io.Writer) *TeaReporter {
	return &TeaReporter{out: out}
}

// Begin starts the view for total plugins.
func (r *TeaReporter) Begin(operation string, total int) {
	r.program = tea.NewProgram(newProgressModel(operation, total),
		tea.WithOutput(r.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()
}

// Task registers plugin index and returns its handle.
func (r *TeaReporter) Task(index int, name string) ports.ProgressTask {
	r.program.Send(taskStartMsg{index: index, name: name})
	return &teaTask{program: r.program, index: index}
}

// End renders the final state and stops the view.
func (r *TeaReporter) End() {
	if r.program == nil {
		return
	}
	r.program.Send(finishMsg{})
	<-r.done
	r.program = nil
}

type teaTask struct {
	program *tea.Program
	index   int
}

func (t *teaTask) Status(message string)  { t.program.Send(taskStatusMsg{index: t.index, status: message}) }
func (t *teaTask) SetTotal(total int64)   { t.program.Send(taskTotalMsg{index: t.index, total: total}) }
func (t *teaTask) Advance(n int64)        { t.program.Send(taskAdvanceMsg{index: t.index, n: n}) }
func (t *teaTask) Complete(detail string) { t.program.Send(taskDoneMsg{index: t.index, detail: detail}) }
func (t *teaTask) Fail(err error)         { t.program.Send(taskDoneMsg{index: t.index, err: err}) }

type (
	taskStartMsg struct {
		index int
		name  string
	}
	taskStatusMsg struct {
		index  int
		status string
	}
	taskTotalMsg struct {
		index int
		total int64
	}
	taskAdvanceMsg struct {
		index int
		n     int64
	}
	taskDoneMsg struct {
		index  int
		detail string
		err    error
	}
	finishMsg struct{}
)

type taskState int

const (
	taskPending taskState = iota
	taskRunning
	taskSucceeded
	taskFailed
)

type taskRow struct {
	name   string
	status string
	total  int64
	done   int64
	state  taskState
	detail string
}

func (t taskRow) percent() float64 {
	switch {
	case t.state == taskSucceeded:
		return 1
	case t.total <= 0:
		return 0
	default:
		return min(float64(t.done)/float64(t.total), 1)
	}
}

// progressModel is the bubbletea model behind TeaReporter.
type progressModel struct {
	operation string
	rows      []taskRow
	bar       progress.Model
	finished  bool
}

func newProgressModel(operation string, total int) progressModel {
	return progressModel{
		operation: operation,
		rows:      make([]taskRow, total),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) row(index int) *taskRow {
	if index < 0 || index >= len(m.rows) {
		return nil
	}
	return &m.rows[index]
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskStartMsg:
		if r := m.row(msg.index); r != nil {
			r.name = msg.name
			r.state = taskRunning
		}
	case taskStatusMsg:
		if r := m.row(msg.index); r != nil {
			r.status = msg.status
		}
	case taskTotalMsg:
		if r := m.row(msg.index); r != nil {
			r.total = msg.total
		}
	case taskAdvanceMsg:
		if r := m.row(msg.index); r != nil {
			r.done += msg.n
		}
	case taskDoneMsg:
		if r := m.row(msg.index); r != nil {
			if msg.err != nil {
				r.state = taskFailed
				r.detail = msg.err.Error()
			} else {
				r.state = taskSucceeded
				r.detail = msg.detail
			}
		}
	case finishMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(m.operation))
	b.WriteString("\n")

	total := len(m.rows)
	for i, r := range m.rows {
		label := fmt.Sprintf("%s %s", mutedStyle.Render(counter(i, total)), r.name)
		switch r.state {
		case taskPending:
			continue
		case taskSucceeded:
			fmt.Fprintf(&b, "%s %s %s\n", successStyle.Render(successMark), label, mutedStyle.Render(r.detail))
		case taskFailed:
			fmt.Fprintf(&b, "%s %s %s\n", failureStyle.Render(failureMark), label, failureStyle.Render(r.detail))
		default:
			fmt.Fprintf(&b, "  %s %s %s\n", label, m.bar.ViewAs(r.percent()), mutedStyle.Render(r.status))
		}
	}
	return b.String()
}
