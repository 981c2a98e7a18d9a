// Package notify carries the short success/error messages a page emits after
// a submit or restore. Delivery is fire-and-forget.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Kind distinguishes success from error notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is one emitted notification.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// IsError reports whether the message describes a failure.
func (m Message) IsError() bool {
	return m.Kind == KindError
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Func adapts a plain function to Notifier.
type Func func(kind Kind, message string)

func (f Func) Notify(kind Kind, message string) {
	if f != nil {
		f(kind, message)
	}
}

// Discard drops every notification.
var Discard Notifier = Func(nil)

// Recorder keeps notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	r.messages = append(r.messages, Message{Kind: kind, Text: message})
	r.mu.Unlock()
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return nil
	}
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent message.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Reset forgets recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}

// Logger writes notifications as log entries: info for success, warn for
// errors.
type Logger struct {
	Entry *logrus.Entry
}

func (l Logger) Notify(kind Kind, message string) {
	if l.Entry == nil {
		return
	}
	entry := l.Entry.WithField("notification", string(kind))
	if kind == KindError {
		entry.Warn(message)
		return
	}
	entry.Info(message)
}

// Console prints notifications to a terminal with coloured markers.
type Console struct {
	Out io.Writer
}

var (
	successMark = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorMark   = color.New(color.FgRed, color.Bold).SprintFunc()
)

func (c Console) Notify(kind Kind, message string) {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	mark := successMark("✓")
	if kind == KindError {
		mark = errorMark("✗")
	}
	fmt.Fprintf(out, "%s %s\n", mark, strings.TrimSpace(message))
}

// Multi fans a notification out to every non-nil notifier.
type Multi []Notifier

func (m Multi) Notify(kind Kind, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(kind, message)
		}
	}
}
