// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/H0llyW00dzZ/x509-chain-builder/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

func parseLines(t *testing.T, output string) []entry {
	t.Helper()

	var entries []entry
	for i, line := range strings.Split(strings.TrimSpace(output), "\n") {
		var e entry
		require.NoError(t, json.Unmarshal([]byte(line), &e), "line %d: failed to parse JSON\nLine content: %s", i+1, line)
		entries = append(entries, e)
	}
	return entries
}

func TestCLILogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Printf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Printf("issued %s", "leaf.pem")

				assert.Equal(t, "issued leaf.pem\n", buf.String())
			},
		},
		{
			name: "Println",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Println("chain", "verified")

				assert.Equal(t, "chain verified\n", buf.String())
			},
		},
		{
			name: "SetOutput",
			testFunc: func(t *testing.T) {
				var buf1, buf2 bytes.Buffer
				log := logger.NewCLILogger()

				log.SetOutput(&buf1)
				log.Println("first")
				log.SetOutput(&buf2)
				log.Println("second")

				assert.Equal(t, "first\n", buf1.String())
				assert.Equal(t, "second\n", buf2.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestJSONLogger(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Silent",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, "info", true)

				log.Printf("test message: %s", "hello")
				log.Println("another message")

				assert.Zero(t, buf.Len(), "expected no output in silent mode")
			},
		},
		{
			name: "Printf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, "", false)
				logger.SetClock(log, func() time.Time { return fixed })

				log.Printf("issued %d certificates", 3)

				entries := parseLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, entry{Level: "info", Message: "issued 3 certificates", Time: "2026-01-02T15:04:05Z"}, entries[0])
			},
		},
		{
			name: "Println With Level",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, "debug", false)

				log.Println("test message")

				entries := parseLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "debug", entries[0].Level)
				assert.Equal(t, "test message", entries[0].Message)
			},
		},
		{
			name: "Escaping",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, "info", false)

				log.Printf("subject %q\nnext", `CN="quoted"`)

				entries := parseLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "subject \"CN=\\\"quoted\\\"\"\nnext", entries[0].Message)
			},
		},
		{
			name: "SetOutput Nil",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, "info", false)

				log.Println("before")
				log.SetOutput(nil)
				log.Println("after")

				assert.Contains(t, buf.String(), "before")
				assert.NotContains(t, buf.String(), "after")
			},
		},
		{
			name: "Nil Writer",
			testFunc: func(t *testing.T) {
				log := logger.NewJSONLogger(nil, "info", false)
				assert.NotPanics(t, func() { log.Println("discarded") })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestJSONLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, "info", false)

	const numGoroutines = 50
	const messagesPerGoroutine = 10

	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Go(func() {
			for j := range messagesPerGoroutine {
				log.Printf("goroutine %d message %d", i, j)
			}
		})
	}
	wg.Wait()

	entries := parseLines(t, buf.String())
	assert.Len(t, entries, numGoroutines*messagesPerGoroutine)
	for _, e := range entries {
		assert.Contains(t, e.Message, "goroutine")
	}
}

func TestJSONLogger_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builder.log")
	file, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })

	log := logger.NewJSONLogger(file, "info", false)
	log.Printf("test message 1: %s", "hello")
	log.Println("test message 2")
	require.NoError(t, file.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	entries := parseLines(t, string(content))
	require.Len(t, entries, 2)
	assert.Equal(t, "test message 1: hello", entries[0].Message)
	assert.Equal(t, "test message 2", entries[1].Message)
}
