//go:build !cgo

package systray

import (
	"context"
	"log/slog"
)

// Run reports that the tray is unavailable. System tray support requires
// CGO.
func Run(ctx context.Context, ctrl Controller, logger *slog.Logger) error {
	return ErrUnavailable
}
