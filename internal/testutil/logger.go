package testutil

import (
	"bytes"
	"io"
	"log/slog"
)

// NopLogger discards everything; most tests don't care about log output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// BufferLogger returns a JSON logger at debug level together with the buffer
// it writes to, for tests that assert on emitted log entries.
func BufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
