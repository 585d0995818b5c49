package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockPrivilegedUserService struct {
	isPrivilegedFunc func(ctx context.Context, email string) (bool, error)
}

func (m *mockPrivilegedUserService) Create(ctx context.Context, in *model.PrivilegedUserCreate) (*model.PrivilegedUser, error) {
	return &model.PrivilegedUser{}, nil
}

func (m *mockPrivilegedUserService) GetByID(ctx context.Context, id string) (*model.PrivilegedUser, error) {
	return &model.PrivilegedUser{ID: id}, nil
}

func (m *mockPrivilegedUserService) GetByEmail(ctx context.Context, email string) (*model.PrivilegedUser, error) {
	return &model.PrivilegedUser{Email: email}, nil
}

func (m *mockPrivilegedUserService) GetAll(ctx context.Context, filter model.PrivilegedUserFilter, limit int, offset int64) ([]*model.PrivilegedUser, int64, error) {
	return nil, 0, nil
}

func (m *mockPrivilegedUserService) Update(ctx context.Context, id string, updates *model.PrivilegedUserUpdate) (*model.PrivilegedUser, error) {
	return &model.PrivilegedUser{}, nil
}

func (m *mockPrivilegedUserService) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockPrivilegedUserService) IsPrivileged(ctx context.Context, email string) (bool, error) {
	if m.isPrivilegedFunc != nil {
		return m.isPrivilegedFunc(ctx, email)
	}
	return false, nil
}

func TestCheck_ReturnsPrivilegeFlag(t *testing.T) {
	router := httprouter.New()
	NewPrivilegedUserHandler(&mockPrivilegedUserService{
		isPrivilegedFunc: func(ctx context.Context, email string) (bool, error) {
			return email == "ada@example.com", nil
		},
	}, logger.Discard()).RegisterRoutes(router)

	tests := []struct {
		path string
		want bool
	}{
		{"/api/v1/privileged-users/check/Ada@Example.com", true},
		{"/api/v1/privileged-users/check/bob@example.com", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.path, rec.Code)
		}
		var body struct {
			Data model.PrivilegeCheck `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Data.Privileged != tt.want {
			t.Errorf("%s: privileged = %v, want %v", tt.path, body.Data.Privileged, tt.want)
		}
	}
}

func TestGetAll_InvalidActiveFlag(t *testing.T) {
	router := httprouter.New()
	NewPrivilegedUserHandler(&mockPrivilegedUserService{}, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/privileged-users?active=sometimes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
