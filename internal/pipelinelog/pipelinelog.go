// Package pipelinelog wraps the standard log package with periodic
// humanized progress reporting and a per-run correlation id.
package pipelinelog

import (
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
)

// NewRunID returns a fresh lexically-sortable run identifier used to tag
// every log line emitted by one stage invocation.
func NewRunID() string {
	return ulid.Make().String()
}

// Logger prefixes every line with the stage name and run id.
type Logger struct {
	stage string
	run   string
}

// New builds a Logger for the given stage, generating a fresh run id.
func New(stage string) *Logger {
	return &Logger{stage: stage, run: NewRunID()}
}

// RunID returns the run identifier this logger was constructed with.
func (l *Logger) RunID() string { return l.run }

func (l *Logger) prefix() string {
	return "[" + l.stage + " " + l.run + "] "
}

// Infof logs an informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	log.Printf(l.prefix()+format, args...)
}

// Warnf logs a recoverable-data-skip warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	log.Printf(l.prefix()+"WARNING: "+format, args...)
}

// Fatalf logs a fatal diagnostic and exits non-zero.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	log.Printf(l.prefix()+"FATAL: "+format, args...)
	os.Exit(1)
}

// Progress tracks a running item count and periodically logs a
// humanized progress line.
type Progress struct {
	logger *Logger
	label  string
	every  uint64
	count  uint64
}

// NewProgress builds a Progress counter that logs every `every` items.
func NewProgress(l *Logger, label string, every uint64) *Progress {
	if every == 0 {
		every = 1000
	}
	return &Progress{logger: l, label: label, every: every}
}

// Tick increments the counter and logs when it crosses the reporting
// interval.
func (p *Progress) Tick() {
	p.count++
	if p.count%p.every == 0 {
		p.logger.Infof("%s: %s items processed", p.label, humanize.Comma(int64(p.count)))
	}
}

// Done logs the final count.
func (p *Progress) Done() {
	p.logger.Infof("%s: done, %s items processed", p.label, humanize.Comma(int64(p.count)))
}
