package scene

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// newLoggedMember creates a conn-less client whose logger writes to the
// returned buffer, so tests can assert on dropped-event warnings.
func newLoggedMember(reg *Registry, id string) (*Client, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Client{
		registry: reg,
		id:       id,
		name:     "Tester",
		send:     make(chan []byte, 64),
		logger:   zerolog.New(&buf),
	}, &buf
}

func TestCursorMoveDropsAreLogged(t *testing.T) {
	reg := NewRegistry()
	c, buf := newLoggedMember(reg, "conn-a")

	// Unjoined sender.
	c.handleCursorMove(json.RawMessage(`{"position":[1,2,3]}`))
	if !strings.Contains(buf.String(), "unjoined") {
		t.Errorf("unjoined cursor-move drop must be logged, got %q", buf.String())
	}
	buf.Reset()

	// Missing position.
	reg.Join(c, "demo", c.name)
	drainFrames(t, c)
	c.handleCursorMove(json.RawMessage(`{"color":"#ff0000"}`))
	if !strings.Contains(buf.String(), "position") {
		t.Errorf("missing-position cursor-move drop must be logged, got %q", buf.String())
	}
}

func TestUserActionDropFromUnjoinedIsLogged(t *testing.T) {
	reg := NewRegistry()
	c, buf := newLoggedMember(reg, "conn-a")

	c.handleUserAction(json.RawMessage(`{"action":"added","target":"cube"}`))
	if !strings.Contains(buf.String(), "unjoined") {
		t.Errorf("unjoined user-action drop must be logged, got %q", buf.String())
	}
}
