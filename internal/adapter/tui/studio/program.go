package studio

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Program owns the Bubble Tea program and the bridge goroutine that
// forwards studio stream events into the update loop.
type Program struct {
	deps    ModelDeps
	program *tea.Program
}

// NewProgram creates a Program. Start must be called to run it.
func NewProgram(deps ModelDeps) *Program {
	return &Program{deps: deps}
}

// Start creates the Bubble Tea program and blocks until it exits.
func (p *Program) Start(ctx context.Context) error {
	model := NewModel(p.deps)

	p.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Forward stream events from the studio facade to the TUI program.
	// Events() is never closed, so context cancellation is the only exit.
	go func() {
		events := p.deps.Studio.Events()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				p.program.Send(StreamEventMsg{Event: ev})
			}
		}
	}()

	// Monitor context cancellation to quit the program.
	go func() {
		<-ctx.Done()
		if p.program != nil {
			p.program.Send(QuitMsg{})
		}
	}()

	_, err := p.program.Run()
	return err
}

// Stop signals the Bubble Tea program to quit.
func (p *Program) Stop() {
	if p.program != nil {
		p.program.Send(QuitMsg{})
	}
}
