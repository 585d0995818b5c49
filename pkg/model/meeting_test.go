package model

import "testing"

func TestMeetingStatus(t *testing.T) {
	tests := []struct {
		status   MeetingStatus
		valid    bool
		terminal bool
	}{
		{MeetingStatusScheduled, true, false},
		{MeetingStatusCancelled, true, true},
		{MeetingStatusCompleted, true, true},
		{MeetingStatus("pending"), false, false},
		{MeetingStatus(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}
