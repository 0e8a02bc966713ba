package queue

import (
	"fmt"
	"log/slog"
	"os"
)

// slogLogger adapts slog to asynq.Logger.
type slogLogger struct {
	l *slog.Logger
}

func newLogger(l *slog.Logger) *slogLogger {
	return &slogLogger{l: l.With("component", "queue")}
}

func (s *slogLogger) Debug(args ...interface{}) { s.l.Debug(fmt.Sprint(args...)) }
func (s *slogLogger) Info(args ...interface{})  { s.l.Info(fmt.Sprint(args...)) }
func (s *slogLogger) Warn(args ...interface{})  { s.l.Warn(fmt.Sprint(args...)) }
func (s *slogLogger) Error(args ...interface{}) { s.l.Error(fmt.Sprint(args...)) }

func (s *slogLogger) Fatal(args ...interface{}) {
	s.l.Error(fmt.Sprint(args...))
	os.Exit(1)
}
