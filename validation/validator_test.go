package validation

import (
	"strings"
	"testing"

	"blueprint/engine/enginetest"
	"blueprint/graph"
	"blueprint/session"
)

func TestLineValidator_BasicLines(t *testing.T) {
	tests := []struct {
		name    string
		diagram string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid horizontal line",
			diagram: "─────",
		},
		{
			name:    "valid vertical line",
			diagram: "│\n│\n│",
		},
		{
			name:    "broken horizontal line",
			diagram: "──│──",
			wantErr: true,
			errMsg:  "cannot connect to │ on the east",
		},
		{
			name:    "broken vertical line",
			diagram: "│\n─\n│",
			wantErr: true,
			errMsg:  "cannot connect to ─ on the south",
		},
		{
			name:    "text beside lines is fine",
			diagram: "in──out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewLineValidator().Validate(tt.diagram)
			if tt.wantErr && len(errs) == 0 {
				t.Errorf("expected errors but got none")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
			if tt.wantErr && !containsMessage(errs, tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, errs)
			}
		})
	}
}

func TestLineValidator_NodeBoxAndRoute(t *testing.T) {
	canvas := strings.Join([]string{
		"╭─────╮      ╭────╮",
		"│ Add ├──╮   │ In │",
		"╰─────╯  │   ╰─┬──╯",
		"         ╰─────╯   ",
	}, "\n")
	if errs := NewLineValidator().Validate(canvas); len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	broken := strings.Replace(canvas, "╰─────╯   ", "╰──│──╯   ", 1)
	if errs := NewLineValidator().Validate(broken); len(errs) == 0 {
		t.Errorf("expected a broken route to be reported")
	}
}

func TestLineValidator_ASCII(t *testing.T) {
	canvas := "+--+\n|  |\n+--+"
	if errs := NewLineValidator().Validate(canvas); len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	v := NewLineValidator()
	v.SetAllowASCII(false)
	if errs := v.Validate("─-─"); len(errs) > 0 {
		t.Errorf("ascii dash should read as text when ASCII is off: %v", errs)
	}
}

func TestLineValidator_StrictMode(t *testing.T) {
	canvas := "│\n─"
	if errs := NewLineValidator().Validate(canvas); len(errs) != 1 {
		t.Errorf("expected one error in lenient mode, got %v", errs)
	}
	v := NewLineValidator()
	v.SetStrictMode(true)
	if errs := v.Validate(canvas); len(errs) != 2 {
		t.Errorf("expected two errors in strict mode, got %v", errs)
	}
}

func TestLineValidator_Arrows(t *testing.T) {
	if errs := NewLineValidator().Validate("──▶ ◀──"); len(errs) > 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if errs := NewLineValidator().Validate("│▶"); len(errs) == 0 {
		t.Errorf("expected a right arrow fed by a vertical line to be reported")
	}
}

func containsMessage(errs []CellError, msg string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}

func newSession() *session.Session {
	return session.New(enginetest.New())
}

func pair(s *session.Session) (*graph.Node, *graph.Node) {
	a := s.CreateNode(graph.NodeDesc{Type: "A", Outputs: []graph.PinDesc{graph.OutPin(graph.PinInt, "out")}})
	b := s.CreateNode(graph.NodeDesc{Type: "B", Inputs: []graph.PinDesc{graph.InPin(graph.PinInt, "in")}})
	return a, b
}

func TestCheckSession_Clean(t *testing.T) {
	s := newSession()
	a, b := pair(s)
	s.Connect(a.Outputs[0], b.Inputs[0])
	if v := CheckSession(s); len(v) > 0 {
		t.Errorf("unexpected violations: %v", v)
	}

	s.RemoveNode(a)
	if v := CheckSession(s); len(v) > 0 {
		t.Errorf("unexpected violations after cascade: %v", v)
	}
}

func TestCheckSession_ReversedLink(t *testing.T) {
	s := newSession()
	a, b := pair(s)
	// Connect does not normalise; the bridge does
	l, ok := s.Connect(b.Inputs[0], a.Outputs[0])
	if !ok {
		t.Fatal("connect failed")
	}
	v := CheckSession(s)
	if len(v) != 2 {
		t.Fatalf("expected 2 violations, got %v", v)
	}
	for _, got := range v {
		if got.ID != l.ID || got.Kind != graph.KindLink {
			t.Errorf("unexpected violation %v", got)
		}
	}
}

func TestCheckSession_DetachedPinOutsideSession(t *testing.T) {
	s := newSession()
	a, _ := pair(s)
	// detaching behind the session's back leaves the pin mapped but unlisted
	a.DetachPin(a.Outputs[0])
	v := CheckSession(s)
	if len(v) != 1 || !strings.Contains(v[0].Message, "not reachable") {
		t.Errorf("expected one orphan violation, got %v", v)
	}
}

func TestCheckSession_SelfLink(t *testing.T) {
	s := newSession()
	n := s.CreateNode(graph.NodeDesc{
		Type:    "Loop",
		Inputs:  []graph.PinDesc{graph.InPin(graph.PinFlow, "")},
		Outputs: []graph.PinDesc{graph.OutPin(graph.PinFlow, "")},
	})
	s.Connect(n.Outputs[0], n.Inputs[0])
	v := CheckSession(s)
	if len(v) != 1 || !strings.Contains(v[0].String(), "to itself") {
		t.Errorf("expected a self-link violation, got %v", v)
	}
}
