// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
//
// The CLI switches between human-readable output and structured JSON lines
// through this interface.
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	l := log.New(os.Stdout, "", 0)
	return &CLILogger{logger: l}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger by writing one JSON object per message:
//
//	{"level":"info","message":"...","time":"2026-01-02T15:04:05Z"}
//
// It is used when the CLI output is consumed by other tools.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
type JSONLogger struct {
	mu     sync.Mutex
	writer io.Writer
	level  string
	silent bool

	// now is replaced in tests.
	now func() time.Time
}

// NewJSONLogger creates a new JSON logger writing entries at the given level.
// A nil writer discards output; an empty level defaults to "info".
// When silent is true nothing is written until the logger is recreated.
func NewJSONLogger(writer io.Writer, level string, silent bool) *JSONLogger {
	if writer == nil {
		writer = io.Discard
	}
	if level == "" {
		level = "info"
	}
	return &JSONLogger{
		writer: writer,
		level:  level,
		silent: silent,
		now:    time.Now,
	}
}

// Printf formats and logs a structured message.
//
// Printf is safe for concurrent use by multiple goroutines.
func (j *JSONLogger) Printf(format string, v ...any) { j.write(fmt.Sprintf(format, v...)) }

// Println logs a structured message. Operands are joined as by [fmt.Sprint].
//
// Println is safe for concurrent use by multiple goroutines.
func (j *JSONLogger) Println(v ...any) { j.write(fmt.Sprint(v...)) }

// SetOutput sets the output destination for the JSON logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (j *JSONLogger) SetOutput(w io.Writer) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if w == nil {
		j.writer = io.Discard
	} else {
		j.writer = w
	}
}

func (j *JSONLogger) write(msg string) {
	if j.silent {
		return
	}

	entry := struct {
		Level   string `json:"level"`
		Message string `json:"message"`
		Time    string `json:"time"`
	}{
		Level:   j.level,
		Message: msg,
		Time:    j.now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	_, _ = buf.Write(data)
	_ = buf.WriteByte('\n')

	j.mu.Lock()
	_, _ = j.writer.Write(buf.Bytes())
	j.mu.Unlock()
}
