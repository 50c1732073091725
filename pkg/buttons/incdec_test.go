package buttons

import "testing"

func TestStepOverflow(t *testing.T) {
	tests := []struct {
		name     string
		value    uint8
		step     uint16
		expected uint8
	}{
		{"plain increment", 0, 10, 10},
		{"reaches the top", 117, 10, 127},
		{"wraps past the top", 120, 10, 0},
		{"wraps from 127", 127, 1, 0},
		{"zero step", 64, 0, 64},
		{"oversized step", 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Step(tt.value, tt.step, StepOverflow, false)
			if got != tt.expected {
				t.Errorf("Step(%d, %d) = %d, want %d", tt.value, tt.step, got, tt.expected)
			}
		})
	}
}

func TestStepEdgePingPong(t *testing.T) {
	var (
		value      uint8
		descending bool
		got        []uint8
	)

	for i := 0; i < 6; i++ {
		value, descending = Step(value, 50, StepEdge, descending)
		got = append(got, value)
	}

	expected := []uint8{50, 100, 127, 77, 27, 0}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("sequence = %v, want %v", got, expected)
		}
	}

	value, descending = Step(value, 50, StepEdge, descending)
	if value != 50 || descending {
		t.Errorf("after bottom = %d (descending %v), want 50 ascending", value, descending)
	}
}

func TestStepAlwaysBounded(t *testing.T) {
	for _, policy := range []StepPolicy{StepOverflow, StepEdge} {
		for step := uint16(0); step <= 300; step += 7 {
			var value uint8
			var descending bool
			for i := 0; i < 100; i++ {
				value, descending = Step(value, step, policy, descending)
				if value > 127 {
					t.Fatalf("policy %d step %d produced %d", policy, step, value)
				}
			}
		}
	}
}
