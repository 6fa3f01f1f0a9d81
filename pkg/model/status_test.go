package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusPending, false},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
		{"self transition rejected", StatusPending, StatusPending, false},
		{"unknown source rejected", "EXPIRED", StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	if !IsTerminalStatus(StatusCompleted) {
		t.Error("COMPLETED should be terminal")
	}
	if !IsTerminalStatus(StatusCancelled) {
		t.Error("CANCELLED should be terminal")
	}
	if IsTerminalStatus(StatusPending) {
		t.Error("PENDING should not be terminal")
	}
	if IsTerminalStatus("EXPIRED") {
		t.Error("unknown statuses should not report terminal")
	}
}

func TestLiveStatuses(t *testing.T) {
	live := LiveStatuses()
	if len(live) != 3 {
		t.Fatalf("expected 3 live statuses, got %d", len(live))
	}
	for _, s := range live {
		if s == StatusCancelled {
			t.Error("CANCELLED must never claim a slot")
		}
	}
}
