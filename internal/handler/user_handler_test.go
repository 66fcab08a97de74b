package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/assignman/internal/middleware"
	"github.com/hitoshi/assignman/internal/model"
	"github.com/hitoshi/assignman/internal/user"
	"github.com/hitoshi/assignman/internal/validation"
)

type mockUserService struct {
	findByIDFn           func(ctx context.Context, id string) (*model.User, error)
	listFn               func(ctx context.Context, filter string, limit, skip int) ([]*model.User, int, error)
	listByProjectMonthFn func(ctx context.Context, projectID, yyyymm string) ([]*model.User, error)
	saveFn               func(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, error)
	validateSaveFn       func(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, validation.Errors, error)
	changePasswordFn     func(ctx context.Context, userID, oldPass, newPass string) (*model.User, error)
	removeByIDFn         func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserService) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserService) List(ctx context.Context, filter string, limit, skip int) ([]*model.User, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, limit, skip)
	}
	return nil, 0, nil
}

func (m *mockUserService) ListByProjectMonth(ctx context.Context, projectID, yyyymm string) ([]*model.User, error) {
	if m.listByProjectMonthFn != nil {
		return m.listByProjectMonthFn(ctx, projectID, yyyymm)
	}
	return nil, nil
}

func (m *mockUserService) Save(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, params, receivePassword)
	}
	return &model.User{ID: "user-1"}, nil
}

func (m *mockUserService) ValidateSave(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, validation.Errors, error) {
	if m.validateSaveFn != nil {
		return m.validateSaveFn(ctx, params, receivePassword)
	}
	return &model.User{}, validation.Errors{}, nil
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID, oldPass, newPass string) (*model.User, error) {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, userID, oldPass, newPass)
	}
	return &model.User{ID: userID}, nil
}

func (m *mockUserService) RemoveByID(ctx context.Context, id string) (*model.User, error) {
	if m.removeByIDFn != nil {
		return m.removeByIDFn(ctx, id)
	}
	return &model.User{ID: id}, nil
}

func TestUserHandler_Get(t *testing.T) {
	svc := &mockUserService{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "taro01", Password: "digest"}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/user?_id=user-1", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		User *model.User `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.User.ID != "user-1" {
		t.Errorf("user._id = %s, want user-1", body.User.ID)
	}
	if body.User.Password != "" {
		t.Error("password was not cleared in the response")
	}
}

func TestUserHandler_Get_RequiresID(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	svc := &mockUserService{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, model.NewNotFoundError()
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/user?_id=missing", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUserHandler_List_ClampsLimit(t *testing.T) {
	gotLimit := -1
	svc := &mockUserService{
		listFn: func(ctx context.Context, filter string, limit, skip int) ([]*model.User, int, error) {
			gotLimit = limit
			if filter != "adm" {
				t.Errorf("filter = %q, want adm", filter)
			}
			return []*model.User{{ID: "user-1", Password: "digest"}}, 1, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/user/list?name=adm&__limit=1000000", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotLimit != 100 {
		t.Errorf("limit = %d, want clamped to 100", gotLimit)
	}

	var body struct {
		TotalItems int           `json:"totalItems"`
		Users      []*model.User `json:"users"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.TotalItems != 1 {
		t.Errorf("totalItems = %d, want 1", body.TotalItems)
	}
	if len(body.Users) != 1 || body.Users[0].Password != "" {
		t.Errorf("users = %v, want one entry with cleared password", body.Users)
	}
}

func TestUserHandler_Save_ReceivePasswordOnlyForNew(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantReceive bool
	}{
		{"IDなしは新規としてパスワードを受ける", `{"username":"taro01","password":"password","displayName":"Taro"}`, true},
		{"IDありは更新としてパスワードを受けない", `{"_id":"user-1","username":"taro01","displayName":"Taro"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotReceive := !tt.wantReceive
			svc := &mockUserService{
				saveFn: func(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, error) {
					gotReceive = receivePassword
					return &model.User{ID: "user-1"}, nil
				},
			}
			h := NewUserHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Save(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if gotReceive != tt.wantReceive {
				t.Errorf("receivePassword = %v, want %v", gotReceive, tt.wantReceive)
			}
		})
	}
}

func TestUserHandler_Save_ValidationFailed(t *testing.T) {
	svc := &mockUserService{
		saveFn: func(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, error) {
			return nil, &model.ValidationError{Errors: validation.Errors{
				"username": {{Code: validation.CodeRequiredUsername}},
			}}
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Save(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Code   string                     `json:"code"`
		Errors map[string]json.RawMessage `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeValidationFailed {
		t.Errorf("code = %s, want %s", body.Code, model.ErrCodeValidationFailed)
	}
	if _, ok := body.Errors["username"]; !ok {
		t.Errorf("errors = %v, want username entry", body.Errors)
	}
}

func TestUserHandler_Validate_NoWrite(t *testing.T) {
	saveCalled := false
	svc := &mockUserService{
		saveFn: func(ctx context.Context, params user.SaveParams, receivePassword bool) (*model.User, error) {
			saveCalled = true
			return nil, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/user/validate",
		strings.NewReader(`{"username":"taro01","password":"password","displayName":"Taro"}`))
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if saveCalled {
		t.Error("Save was called from the validate-only endpoint")
	}

	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success {
		t.Error("success = false, want true")
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	gotUserID := ""
	svc := &mockUserService{
		changePasswordFn: func(ctx context.Context, userID, oldPass, newPass string) (*model.User, error) {
			gotUserID = userID
			return &model.User{ID: userID}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/user/change-pass",
		strings.NewReader(`{"oldPass":"oldpass1","newPass":"newpass1","newPassConfirm":"newpass1"}`))
	req = req.WithContext(middleware.ContextWithUser(req.Context(), &model.User{ID: "user-1"}))
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUserID != "user-1" {
		t.Errorf("userID = %s, want user-1 (authenticated user)", gotUserID)
	}
}

func TestUserHandler_ChangePassword_Mismatch(t *testing.T) {
	changeCalled := false
	svc := &mockUserService{
		changePasswordFn: func(ctx context.Context, userID, oldPass, newPass string) (*model.User, error) {
			changeCalled = true
			return nil, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPut, "/user/change-pass",
		strings.NewReader(`{"oldPass":"oldpass1","newPass":"newpass1","newPassConfirm":"different"}`))
	req = req.WithContext(middleware.ContextWithUser(req.Context(), &model.User{ID: "user-1"}))
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if changeCalled {
		t.Error("ChangePassword was called despite validation failure")
	}
}

func TestUserHandler_ProjectMonth_RequiresParams(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	tests := []struct {
		name string
		url  string
	}{
		{"projectIdなし", "/user/project-month?yyyymm=202404"},
		{"yyyymmなし", "/user/project-month?projectId=proj-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			h.ProjectMonth(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestUserHandler_Delete(t *testing.T) {
	svc := &mockUserService{
		removeByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "taro01", Password: "digest"}, nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/user?_id=user-1", nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Deleted *model.User `json:"deleted"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Deleted.ID != "user-1" {
		t.Errorf("deleted._id = %s, want user-1", body.Deleted.ID)
	}
	if body.Deleted.Password != "" {
		t.Error("password was not cleared in the response")
	}
}
