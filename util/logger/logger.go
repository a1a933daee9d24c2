/*
 * RV - slog handler for the simulator log
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler writes one line per record to the simulator log file:
//
//	2006/01/02 15:04:05 INFO: message key=value ...
//
// Records above debug level, or every record when echo is on, also go
// to stderr so the operator sees them behind the monitor prompt.
type Handler struct {
	mu     *sync.Mutex
	file   io.Writer    // Log file, may be nil.
	min    slog.Leveler // Lowest level to keep.
	echo   bool         // Copy everything to stderr.
	prefix string       // Rendered WithAttrs attributes.
	group  string       // Open WithGroup prefix for attribute names.
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min.Level()
}

// Render one attribute as " key=value", under any open group.
func (h *Handler) attr(a slog.Attr) string {
	if a.Equal(slog.Attr{}) {
		return ""
	}
	return " " + h.group + a.Key + "=" + a.Value.String()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	for _, a := range attrs {
		nh.prefix += h.attr(a)
	}
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	nh := *h
	if name != "" {
		nh.group += name + "."
	}
	return &nh
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder
	line.WriteString(r.Time.Format("2006/01/02 15:04:05"))
	line.WriteString(" " + r.Level.String() + ": ")
	line.WriteString(r.Message)
	line.WriteString(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		line.WriteString(h.attr(a))
		return true
	})
	line.WriteByte('\n')
	b := []byte(line.String())

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.file != nil {
		_, err = h.file.Write(b)
	}
	if h.echo || r.Level > slog.LevelDebug {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// Create a handler logging to file at the given minimum level. A nil
// level keeps everything.
func NewHandler(file io.Writer, level slog.Leveler, echo bool) *Handler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &Handler{
		mu:   &sync.Mutex{},
		file: file,
		min:  level,
		echo: echo,
	}
}
