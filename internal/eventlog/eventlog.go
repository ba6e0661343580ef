// Package eventlog keeps a bounded ring of handled events and renders the
// most recent ones as an operator table.
package eventlog

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"text/tabwriter"
	"time"
)

const (
	defaultCapacity = 512
	detailMaxRunes  = 80
	clearScreen     = "\x1b[2J\x1b[H"
)

// Entry is one handled event.
type Entry struct {
	Time   time.Time
	User   string
	UserID int64
	Action string
	Status string
	Detail string
}

// Log is an append-only bounded ring buffer. Every Record redraws the
// display writer with the most recent entries.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
	display int

	out     io.Writer
	clear   bool
	archive *Archive
	logger  *slog.Logger
}

type Option func(*Log)

// WithArchive also inserts every entry into a sqlite archive.
func WithArchive(a *Archive) Option {
	return func(l *Log) { l.archive = a }
}

// WithClearScreen controls the full-screen refresh before each redraw.
func WithClearScreen(clear bool) Option {
	return func(l *Log) { l.clear = clear }
}

// WithCapacity bounds the ring size.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.cap = n
		}
	}
}

func New(out io.Writer, display int, logger *slog.Logger, opts ...Option) *Log {
	if display <= 0 {
		display = 15
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Log{
		cap:     defaultCapacity,
		display: display,
		out:     out,
		clear:   true,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends one entry and redraws the table.
func (l *Log) Record(user string, userID int64, action, status, detail string) {
	entry := Entry{
		Time:   time.Now(),
		User:   user,
		UserID: userID,
		Action: action,
		Status: status,
		Detail: truncate(detail, detailMaxRunes),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	recent := l.recentLocked(l.display)
	l.mu.Unlock()

	if l.archive != nil {
		if err := l.archive.Insert(entry); err != nil {
			l.logger.Error("failed to archive event", "error", err)
		}
	}

	l.render(recent)
}

// Recent returns up to n of the most recent entries, oldest first.
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recentLocked(n)
}

func (l *Log) recentLocked(n int) []Entry {
	entries := l.entries
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func (l *Log) render(entries []Entry) {
	if l.out == nil {
		return
	}
	if l.clear {
		fmt.Fprint(l.out, clearScreen)
	}

	w := tabwriter.NewWriter(l.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tUSER\tID\tACTION\tSTATUS\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			e.Time.Format("15:04:05"), e.User, e.UserID, e.Action, e.Status, e.Detail)
	}
	if err := w.Flush(); err != nil {
		l.logger.Error("failed to render event table", "error", err)
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
