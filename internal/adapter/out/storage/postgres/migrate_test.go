package postgres

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := gooseLogger{log: slog.New(slog.NewTextHandler(&buf, nil))}

	code := -1
	prev := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = prev })

	l.Printf("OK   %s", "00001_init.sql")
	require.Contains(t, buf.String(), "level=INFO")
	require.Contains(t, buf.String(), "00001_init.sql")
	require.Equal(t, -1, code)

	buf.Reset()
	l.Fatalf("failed to run migration %d", 2)
	require.Contains(t, buf.String(), "level=ERROR")
	require.Contains(t, buf.String(), "failed to run migration 2")
	require.Equal(t, 1, code)
}
