package posture

import (
	"testing"
)

func TestStatusString(t *testing.T) {
	expected := map[Status]string{
		StatusStanding:      "Standing",
		StatusSitting:       "Sitting",
		StatusLying:         "Lying",
		StatusPotentialFall: "Potential Fall",
		StatusFallDetected:  "Fall Detected!",
		Status(42):          "Unknown",
	}
	for status, label := range expected {
		if status.String() != label {
			t.Errorf("Expected label %q, got %q", label, status.String())
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, status := range Statuses() {
		parsed, err := ParseStatus(status.String())
		if err != nil {
			t.Errorf("Can't parse %q: %v", status.String(), err)
			continue
		}
		if parsed != status {
			t.Errorf("Expected %d, got %d", status, parsed)
		}
	}
	if _, err := ParseStatus("Falling"); err == nil {
		t.Error("Expected error for unknown label")
	}
}

func TestStatusColor(t *testing.T) {
	for _, status := range Statuses() {
		c := status.Color()
		if status.IsAlarm() {
			if c.R < 200 || c.G > 100 {
				t.Errorf("Expected red family color for %s, got %v", status, c)
			}
		} else {
			if c.G < 200 || c.R != 0 {
				t.Errorf("Expected green family color for %s, got %v", status, c)
			}
		}
	}
}
