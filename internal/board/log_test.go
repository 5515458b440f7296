package board

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDebugMoveValidationLogs(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	DebugMoveValidation = true
	t.Cleanup(func() {
		SetLogger(zerolog.Nop())
		DebugMoveValidation = false
	})

	pos := NewPosition()
	if _, err := pos.Apply(NewMove(E2, E5)); err == nil {
		t.Fatal("illegal move accepted")
	}
	if !strings.Contains(buf.String(), "rejected illegal move") || !strings.Contains(buf.String(), "e2e5") {
		t.Errorf("log output = %q", buf.String())
	}

	buf.Reset()
	applyAll(t, pos, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3")
	if buf.Len() != 0 {
		t.Errorf("consistency checks logged on a clean game: %q", buf.String())
	}
}
