// Package control relays commands from other processes to the running
// recorder over a local Unix socket. Desktop shortcuts are bound to
// "kartoza-mini-recorder toggle" and "kartoza-mini-recorder stop", which
// connect here so every trigger goes through the same session commands.
//
// The protocol is one request line (a command name or "status") answered
// by one JSON line.
package control

import (
	"context"
	"errors"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/models"
	"github.com/kartoza/kartoza-mini-recorder/internal/session"
)

// StatusRequest asks for the current status without changing it
const StatusRequest = "status"

// requestTimeout bounds how long a client may take to send its request line
const requestTimeout = 5 * time.Second

var (
	// ErrNotRunning means no recorder is listening on the socket
	ErrNotRunning = errors.New("kartoza-mini-recorder is not running")
	// ErrAlreadyRunning means another recorder owns the socket
	ErrAlreadyRunning = errors.New("kartoza-mini-recorder is already running")
)

// Handler executes relayed commands. *session.Manager satisfies it.
type Handler interface {
	Do(ctx context.Context, cmd session.Command) error
	Status() models.RecordingStatus
}

// Response is the reply to a request
type Response struct {
	OK     bool                    `json:"ok"`
	Error  string                  `json:"error,omitempty"`
	Status *models.RecordingStatus `json:"status,omitempty"`
}
