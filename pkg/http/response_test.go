package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	apperrors "roombook/pkg/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Meeting", "m1"), http.StatusNotFound, apperrors.CodeNotFound},
		{"conflict", apperrors.ConflictWithIDs("overlap", []string{"m1"}), http.StatusConflict, apperrors.CodeConflict},
		{"room unavailable", apperrors.RoomUnavailable("r1"), http.StatusUnprocessableEntity, apperrors.CodeRoomUnavailable},
		{"invalid state", apperrors.InvalidState("already cancelled"), http.StatusConflict, apperrors.CodeInvalidState},
		{"code space", apperrors.CodeSpaceExhausted("room", nil), http.StatusServiceUnavailable, apperrors.CodeCodeSpaceExhausted},
		{"code only", &apperrors.AppError{Code: apperrors.CodeInvalidState, Message: "x"}, http.StatusConflict, apperrors.CodeInvalidState},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError returned error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	_ = WriteError(rec, apperrors.Internal("mongo exploded at 10.0.0.3", errors.New("dial tcp")))

	var body ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "Internal server error" {
		t.Errorf("expected generic message, got %q", body.Error)
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{"", 10, 0, false},
		{"limit=25&offset=5", 25, 5, false},
		{"limit=1000", 100, 0, false},
		{"offset=-4", 10, 0, false},
		{"limit=abc", 0, 0, true},
		{"offset=x", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := &http.Request{URL: &url.URL{RawQuery: tt.query}}
			limit, offset, err := ExtractLimitOffset(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestQueryTimeAndBool(t *testing.T) {
	r := &http.Request{URL: &url.URL{RawQuery: "start_date=2030-01-02T10:00:00%2B02:00&available=false&bad=nope"}}

	ts, err := QueryTime(r, "start_date")
	if err != nil || ts == nil {
		t.Fatalf("QueryTime failed: %v", err)
	}
	if ts.Hour() != 8 || ts.Location().String() != "UTC" {
		t.Errorf("expected UTC 08:00, got %s", ts)
	}

	missing, err := QueryTime(r, "end_date")
	if err != nil || missing != nil {
		t.Errorf("expected nil for missing param, got %v, %v", missing, err)
	}

	b, err := QueryBool(r, "available")
	if err != nil || b == nil || *b {
		t.Errorf("QueryBool(available) = %v, %v", b, err)
	}
	if _, err := QueryBool(r, "bad"); err == nil {
		t.Error("expected error for invalid bool")
	}
}
