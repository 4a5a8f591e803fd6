package store

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Option configures a Store at Format or Open time. Modeled on the
// teacher's functional-options-ish Params structs (ext4.Params), trimmed to
// the handful of ambient knobs this store actually needs.
type Option func(*options)

type options struct {
	logger *logrus.Logger
	label  string
}

func defaultOptions() *options {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &options{logger: l}
}

// WithLogger attaches a logger for format/mount/close events and
// per-operation debug entries. The
// default is a silent logger, so library callers pay nothing unless they
// opt in.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSessionLabel adds a free-form label to every log entry for this
// mount session. It is never persisted to the image.
func WithSessionLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// reproducibleFormatter wraps another formatter, substituting
// logTime() (which honors SOURCE_DATE_EPOCH) for the entry's wall-clock
// time, so log output in tests is deterministic.
type reproducibleFormatter struct {
	inner logrus.Formatter
}

func (f reproducibleFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = logTime()
	return f.inner.Format(e)
}

// logTime returns the current time in UTC, honoring SOURCE_DATE_EPOCH for
// reproducible log output in tests and builds.
func logTime() time.Time {
	if epoch := os.Getenv("SOURCE_DATE_EPOCH"); epoch != "" {
		if sec, err := strconv.ParseInt(epoch, 10, 64); err == nil {
			return time.Unix(sec, 0).UTC()
		}
	}
	return time.Now().UTC()
}

// newSessionLogger builds the *logrus.Entry a Store logs through: one
// session field (a fresh UUID, never persisted — see SPEC_FULL.md §3) so
// log lines from concurrent test runs against different images don't
// interleave ambiguously, plus the caller's optional label.
func newSessionLogger(o *options) (*logrus.Entry, uuid.UUID) {
	sessionID := uuid.New()
	logger := o.logger
	if logger == nil {
		logger = defaultOptions().logger
	}
	logger.SetFormatter(reproducibleFormatter{inner: &logrus.TextFormatter{}})
	fields := logrus.Fields{"session": sessionID.String()}
	if o.label != "" {
		fields["label"] = o.label
	}
	return logger.WithFields(fields), sessionID
}
