// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/term"
)

// DefaultLevel applies when neither --log-level nor FAMO_LOG is set.
const DefaultLevel = "info"

// New builds a logger writing to w at the given level. Level letters are
// colored when w is a terminal.
func New(level string, w io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return &log.Logger{
		Handler: NewHandler(w),
		Level:   lvl,
	}, nil
}

// CustomHandler formats log messages as
// "timestamp L message key=value ..." with fields in key order.
type CustomHandler struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
	now   func() time.Time
}

// NewHandler returns a CustomHandler writing to w.
func NewHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{w: w, color: isTerminal(w), now: time.Now}
}

var colors = map[log.Level]int{
	log.DebugLevel: 90,
	log.InfoLevel:  34,
	log.WarnLevel:  33,
	log.ErrorLevel: 31,
	log.FatalLevel: 31,
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := h.now().Format("2006-01-02 15:04:05")
	level := fmt.Sprintf("%.1s", strings.ToUpper(e.Level.String()))
	if h.color {
		level = fmt.Sprintf("\033[%dm%s\033[0m", colors[e.Level], level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", timestamp, level, e.Message)

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
