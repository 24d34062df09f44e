package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(4, 6)

	if got := a.Add(b); got != V(5, 8) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != V(3, 4) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(2); got != V(2, 4) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := b.Div(2); got != V(2, 3) {
		t.Errorf("Div failed: got %v", got)
	}
}

func TestVec2_Magnitude(t *testing.T) {
	tests := []struct {
		v        Vec2
		expected float64
	}{
		{V(3, 4), 5.0},
		{V(1, 0), 1.0},
		{V(0, 0), 0.0},
		{V(-6, 8), 10.0},
	}

	for _, tt := range tests {
		if got := tt.v.Magnitude(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Magnitude(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec2_Normalized(t *testing.T) {
	n := V(3, 4).Normalized()
	if math.Abs(n.X-0.6) > 1e-12 || math.Abs(n.Y-0.8) > 1e-12 {
		t.Errorf("Normalized failed: got %v", n)
	}

	zero := V(0, 0).Normalized()
	if !math.IsNaN(zero.X) || !math.IsNaN(zero.Y) {
		t.Errorf("zero vector should normalize to NaN, got %v", zero)
	}
}

func TestVec2_DivByZero(t *testing.T) {
	v := V(1, -1).Div(0)
	if !math.IsInf(v.X, 1) || !math.IsInf(v.Y, -1) {
		t.Errorf("expected signed infinities, got %v", v)
	}
	if v.IsFinite() {
		t.Error("IsFinite should be false for infinite components")
	}
}

func TestFrame_Valid(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		valid bool
	}{
		{"empty", Frame{}, true},
		{"normal", Frame{Bodies: []BodyState{{Position: V(1, 2), Velocity: V(3, 4)}}}, true},
		{"NaN position", Frame{Bodies: []BodyState{{Position: V(math.NaN(), 0)}}}, false},
		{"Inf velocity", Frame{Bodies: []BodyState{{Velocity: V(0, math.Inf(1))}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frame.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Frame: 90, Message: "test error"}
	expected := "frame 90 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestSimulationError_Unwrap(t *testing.T) {
	err := &SimulationError{Frame: 3, Time: 0.05, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}
