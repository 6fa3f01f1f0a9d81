package timegrid

import (
	"reflect"
	"testing"
)

func TestValidDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"valid date", "2026-03-15", true},
		{"leap day", "2024-02-29", true},
		{"impossible day", "2026-02-30", false},
		{"wrong layout", "15-03-2026", false},
		{"missing padding", "2026-3-5", false},
		{"empty", "", false},
		{"garbage", "not-a-date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidDate(tt.date); got != tt.want {
				t.Errorf("ValidDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestValidTime(t *testing.T) {
	tests := []struct {
		name string
		time string
		want bool
	}{
		{"morning", "09:00", true},
		{"midnight", "00:00", true},
		{"last minute", "23:59", true},
		{"no padding", "9:00", false},
		{"out of range", "24:00", false},
		{"with seconds", "09:00:00", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidTime(tt.time); got != tt.want {
				t.Errorf("ValidTime(%q) = %v, want %v", tt.time, got, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	slots, err := Generate("09:00", "17:00", 30)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(slots) != 17 {
		t.Errorf("expected 17 slots, got %d", len(slots))
	}

	if slots[0] != "09:00" {
		t.Errorf("expected first slot 09:00, got %s", slots[0])
	}

	if slots[len(slots)-1] != "17:00" {
		t.Errorf("expected last slot 17:00, got %s", slots[len(slots)-1])
	}

	if slots[1] != "09:30" {
		t.Errorf("expected second slot 09:30, got %s", slots[1])
	}
}

func TestGenerateHourInterval(t *testing.T) {
	slots, err := Generate("10:00", "12:00", 60)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := []string{"10:00", "11:00", "12:00"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("Generate() = %v, want %v", slots, want)
	}
}

func TestGenerateRejectsInvertedWindow(t *testing.T) {
	if _, err := Generate("17:00", "09:00", 30); err == nil {
		t.Error("expected error for closing before opening, got nil")
	}
}

func TestGenerateRejectsZeroInterval(t *testing.T) {
	if _, err := Generate("09:00", "17:00", 0); err == nil {
		t.Error("expected error for zero interval, got nil")
	}
}

func TestAddMinutes(t *testing.T) {
	got, err := AddMinutes("09:30", 30)
	if err != nil {
		t.Fatalf("AddMinutes() error: %v", err)
	}
	if got != "10:00" {
		t.Errorf("AddMinutes(09:30, 30) = %s, want 10:00", got)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical", "12:00", "13:00", "12:00", "13:00", true},
		{"contained", "12:00", "13:00", "12:15", "12:45", true},
		{"partial overlap", "12:00", "13:00", "12:30", "13:30", true},
		{"touching edges", "12:00", "13:00", "13:00", "14:00", false},
		{"disjoint", "09:00", "10:00", "12:00", "13:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v",
					tt.aStart, tt.aEnd, tt.bStart, tt.bEnd, got, tt.want)
			}
		})
	}
}
