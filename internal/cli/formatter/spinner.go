package formatter

import (
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type stopSpinnerMsg struct{}

// spinnerModel renders a dot spinner next to a dimmed message until it
// receives stopSpinnerMsg, then clears its line.
type spinnerModel struct {
	spin    spinner.Model
	message string
	done    bool
}

func newSpinnerModel(message string) spinnerModel {
	return spinnerModel{
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(StylePurple)),
		message: message,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopSpinnerMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spin.View() + " " + Dim(m.message)
}

// Spinner animates a message on a terminal while a plan is being generated.
type Spinner struct {
	program *tea.Program

	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

func NewSpinner(out io.Writer, message string) *Spinner {
	return &Spinner{
		program: tea.NewProgram(newSpinnerModel(message),
			tea.WithOutput(out),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
}

// Start begins the animation. Call Stop to end it.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go func() {
		defer close(s.done)
		_, _ = s.program.Run()
	}()
}

// Stop ends the animation and clears the line. It is safe to call twice,
// and a no-op when Start was never called.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.program.Send(stopSpinnerMsg{})
	<-s.done
}

// StartSpinner creates and starts a spinner and returns its stop function.
func StartSpinner(out io.Writer, message string) func() {
	s := NewSpinner(out, message)
	s.Start()
	return s.Stop
}
