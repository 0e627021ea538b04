package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Bridge lets the session reach the running program: it asks for save
// paths through the in-screen prompt and shows notifications on screen.
// Until a program is attached prompts accept the suggested path and
// notifications are dropped.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewBridge creates a bridge with no program attached
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to a program. Pass nil to detach.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) sender() func(tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.send
}

// Choose shows the save prompt and waits for the answer
func (b *Bridge) Choose(ctx context.Context, suggested string) (string, error) {
	send := b.sender()
	if send == nil {
		return suggested, nil
	}

	reply := make(chan promptResult, 1)
	send(promptRequestMsg{suggested: suggested, reply: reply})

	select {
	case res := <-reply:
		return res.path, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *Bridge) Info(title, body string) error {
	if send := b.sender(); send != nil {
		send(notifyMsg{title: title, body: body})
	}
	return nil
}

func (b *Bridge) Error(title, body string) error {
	if send := b.sender(); send != nil {
		send(notifyMsg{title: title, body: body, isError: true})
	}
	return nil
}
