package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/dto"
	"reviewhub/internal/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RequestCode(ctx context.Context, username, email string) error {
	args := m.Called(ctx, username, email)
	return args.Error(0)
}

func (m *MockAuthService) ObtainToken(ctx context.Context, email, code string) (string, error) {
	args := m.Called(ctx, email, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	return sendJSON(router, "POST", path, body)
}

func patchJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	return sendJSON(router, "PATCH", path, body)
}

func sendJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendCode_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/email", handler.SendCode)

	mockAuthService.On("RequestCode", mock.Anything, "testuser", "test@example.com").Return(nil)

	w := postJSON(router, "/auth/email", dto.EmailRequest{
		Username: "testuser",
		Email:    "test@example.com",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.EmailResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "testuser", response.Username)
	assert.Equal(t, "test@example.com", response.Email)

	mockAuthService.AssertExpectations(t)
}

func TestSendCode_PairTaken(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/email", handler.SendCode)

	mockAuthService.On("RequestCode", mock.Anything, "testuser", "other@example.com").
		Return(service.ErrPairTaken)

	w := postJSON(router, "/auth/email", dto.EmailRequest{
		Username: "testuser",
		Email:    "other@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestSendCode_InvalidEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/email", handler.SendCode)

	w := postJSON(router, "/auth/email", map[string]string{
		"username": "testuser",
		"email":    "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "RequestCode")
}

func TestObtainToken_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/token", handler.ObtainToken)

	mockAuthService.On("ObtainToken", mock.Anything, "test@example.com", "abc-code").
		Return("signed.jwt.token", nil)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Email:            "test@example.com",
		ConfirmationCode: "abc-code",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed.jwt.token", response.Token)

	mockAuthService.AssertExpectations(t)
}

func TestObtainToken_UnknownEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/token", handler.ObtainToken)

	mockAuthService.On("ObtainToken", mock.Anything, "nobody@example.com", "abc-code").
		Return("", service.ErrUserNotFound)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Email:            "nobody@example.com",
		ConfirmationCode: "abc-code",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockAuthService.AssertExpectations(t)
}

func TestObtainToken_WrongCode(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/token", handler.ObtainToken)

	mockAuthService.On("ObtainToken", mock.Anything, "test@example.com", "bad-code").
		Return("", service.ErrInvalidCode)

	w := postJSON(router, "/auth/token", dto.TokenRequest{
		Email:            "test@example.com",
		ConfirmationCode: "bad-code",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "confirmation code rejected", response["error"])

	mockAuthService.AssertExpectations(t)
}

func TestObtainToken_MissingCode(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/auth/token", handler.ObtainToken)

	w := postJSON(router, "/auth/token", map[string]string{
		"email": "test@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "ObtainToken")
}
