package upload

import (
	"context"

	slogctx "github.com/veqryn/slog-context"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notification is a user facing message about one file.
type Notification struct {
	Level       Level
	Title       string
	Description string
	FileName    string
	Err         error
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// LogNotifier writes notifications to the context logger.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	args := []any{"title", n.Title, "description", n.Description, "file", n.FileName}
	if n.Err != nil {
		args = append(args, "error", n.Err)
	}

	if n.Level == LevelWarning {
		slogctx.Warn(ctx, "Upload notification", args...)
		return
	}
	slogctx.Error(ctx, "Upload notification", args...)
}
