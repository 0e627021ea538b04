package control

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kartoza/kartoza-mini-recorder/internal/session"
)

// Server accepts relay connections on a Unix socket
type Server struct {
	path    string
	handler Handler
	logger  *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	ready    chan struct{}
}

// NewServer creates a server for the socket at path
func NewServer(path string, handler Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		path:    path,
		handler: handler,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once the socket is listening
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Serve listens until ctx is cancelled. The socket file is removed on
// return. A stale socket left by a crashed process is replaced; a live one
// yields ErrAlreadyRunning.
func (s *Server) Serve(ctx context.Context) error {
	if err := removeStale(ctx, s.path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "unix", s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.path, err)
	}
	_ = os.Chmod(s.path, 0600)

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("control socket listening", "path", s.path)

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		_ = os.Remove(s.path)
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(requestTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		s.logger.Debug("relay read failed", "error", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	resp := s.dispatch(ctx, strings.TrimSpace(line))

	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.logger.Debug("relay reply failed", "error", err)
	}
}

func (s *Server) dispatch(ctx context.Context, request string) Response {
	if strings.EqualFold(request, StatusRequest) {
		status := s.handler.Status()
		return Response{OK: true, Status: &status}
	}

	cmd, err := session.ParseCommand(request)
	if err != nil {
		return Response{Error: err.Error()}
	}

	s.logger.Info("relayed command", "command", cmd.String())

	resp := Response{OK: true}
	if err := s.handler.Do(ctx, cmd); err != nil {
		resp.OK = false
		resp.Error = err.Error()
	}
	status := s.handler.Status()
	resp.Status = &status
	return resp
}

// removeStale deletes a socket file nobody is listening on
func removeStale(ctx context.Context, path string) error {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	dialer := net.Dialer{Timeout: time.Second}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err == nil {
		conn.Close()
		return fmt.Errorf("%w: %s is in use", ErrAlreadyRunning, path)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket: %w", err)
	}
	return nil
}
