package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ndanilov/inventory_api/internal/config"
	"github.com/ndanilov/inventory_api/internal/logging"
	"github.com/ndanilov/inventory_api/internal/middleware"
	"github.com/ndanilov/inventory_api/internal/models"
	"github.com/ndanilov/inventory_api/internal/repo"
	"github.com/ndanilov/inventory_api/internal/service"
	"github.com/ndanilov/inventory_api/internal/token"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type testServer struct {
	E      *echo.Echo
	DB     *gorm.DB
	Issuer *token.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	require.NoError(t, config.Migrate(db, "admin123"))

	issuer := &token.Issuer{
		Secret:   []byte("test_secret"),
		Issuer:   "inventory_api",
		Audience: "inventory_api_clients",
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logging.New("error")))

	deps := Deps{
		AuthHandler: &AuthHandler{Service: &service.AuthService{
			Users:  &repo.UserRepo{DB: db},
			Tokens: issuer,
		}},
		ProductHandler: &ProductHandler{Service: &service.ProductService{
			Products: &repo.ProductRepo{DB: db},
		}},
		SearchHandler: &SearchHandler{Service: &service.SearchService{}},
		Gate:          &middleware.Gate{Tokens: issuer},
	}
	Register(e, &deps)

	return &testServer{E: e, DB: db, Issuer: issuer}
}

func (s *testServer) do(t *testing.T, method, path string, body any, bearer string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) tokenFor(t *testing.T, username, role string) string {
	t.Helper()
	signed, _, err := s.Issuer.Issue(models.User{Username: username, Role: role})
	require.NoError(t, err)
	return signed
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.tokenFor(t, "admin", models.RoleAdmin)
}

func TestRegisterAndLogin(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "password": "password", "email": "alice@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.NotContains(t, rec.Body.String(), "$2a$", "password hash must not leak")

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.Equal(t, "alice", user.Username)
	require.Equal(t, models.RoleUser, user.Role)

	rec, env = srv.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "password"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var login struct {
		Token      string      `json:"token"`
		Expiration time.Time   `json:"expiration"`
		User       models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	require.WithinDuration(t, time.Now().Add(token.TTL), login.Expiration, 5*time.Second)
	require.Equal(t, "alice", login.User.Username)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "password": "short"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
	require.NotEmpty(t, env.Errors)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]string{"username": "alice", "password": "password"}

	rec, _ := srv.do(t, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := srv.do(t, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "username already exists", env.Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "ghost", "password": "password"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)

	rec, env2 := srv.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "wrong_password"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, env.Message, env2.Message, "must not leak which field was wrong")
}

func TestSeededAdminCanLogin(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "admin123"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.Equal(t, models.RoleAdmin, login.User.Role)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)

	rec, _ = srv.do(t, http.MethodGet, "/api/auth/profile", nil, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	srv := newTestServer(t)

	claims := token.Claims{
		Username: "admin",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    srv.Issuer.Issuer,
			Audience:  jwt.ClaimStrings{srv.Issuer.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(srv.Issuer.Secret)
	require.NoError(t, err)

	rec, _ := srv.do(t, http.MethodGet, "/api/products", nil, expired)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	srv := newTestServer(t)
	userToken := srv.tokenFor(t, "alice", models.RoleUser)

	rec, env := srv.do(t, http.MethodPost, "/api/products",
		map[string]any{"name": "Widget", "price": 9.99}, userToken)
	require.Equal(t, http.StatusForbidden, rec.Code, "valid token with wrong role must be 403, not 401")
	require.False(t, env.Success)

	rec, _ = srv.do(t, http.MethodGet, "/api/auth/users", nil, userToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductCRUD(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.adminToken(t)
	user := srv.tokenFor(t, "alice", models.RoleUser)

	rec, env := srv.do(t, http.MethodPost, "/api/products",
		map[string]any{"name": "Widget", "description": "a widget", "price": 9.99}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	rec, env = srv.do(t, http.MethodGet, "/api/products/1", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = srv.do(t, http.MethodPut, "/api/products/1",
		map[string]any{"name": "Gadget", "description": "renamed", "price": 19.99}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Product
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, "Gadget", updated.Name)
	require.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)

	rec, env = srv.do(t, http.MethodDelete, "/api/products/1", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted struct {
		DeletedID int `json:"deletedId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	require.Equal(t, 1, deleted.DeletedID)

	rec, _ = srv.do(t, http.MethodDelete, "/api/products/1", nil, admin)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductValidation(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.adminToken(t)

	rec, _ := srv.do(t, http.MethodPost, "/api/products",
		map[string]any{"name": "", "price": 5}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = srv.do(t, http.MethodPost, "/api/products",
		map[string]any{"name": "Widget", "price": 0}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMissingProductIs404(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPut, "/api/products/999",
		map[string]any{"name": "Gadget", "price": 19.99}, srv.adminToken(t))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMissingProductIs404(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodGet, "/api/products/999", nil, srv.adminToken(t))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProductsEnvelope(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.adminToken(t)

	for _, name := range []string{"red hammer", "blue hammer", "green saw"} {
		rec, _ := srv.do(t, http.MethodPost, "/api/products",
			map[string]any{"name": name, "price": 1.0}, admin)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := srv.do(t, http.MethodGet, "/api/products?pageNumber=1&pageSize=2&name=hammer", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items       []models.Product `json:"items"`
		PageNumber  int              `json:"pageNumber"`
		PageSize    int              `json:"pageSize"`
		TotalCount  int64            `json:"totalCount"`
		TotalPages  int              `json:"totalPages"`
		HasPrevious bool             `json:"hasPrevious"`
		HasNext     bool             `json:"hasNext"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 2)
	require.Equal(t, int64(2), page.TotalCount)
	require.Equal(t, 1, page.TotalPages)
	require.False(t, page.HasNext)
}

func TestProfile(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/api/auth/profile", nil, srv.adminToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.Equal(t, "admin", user.Username)

	// valid token whose user was never persisted
	ghost := srv.tokenFor(t, "ghost", models.RoleUser)
	rec, _ = srv.do(t, http.MethodGet, "/api/auth/profile", nil, ghost)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsersAsAdmin(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := srv.do(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "password": "password"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := srv.do(t, http.MethodGet, "/api/auth/users", nil, srv.adminToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)
	require.NotContains(t, rec.Body.String(), "$2a$", "password hashes must not leak")
}

func TestSearchRequiresQuery(t *testing.T) {
	srv := newTestServer(t)

	rec, env := srv.do(t, http.MethodGet, "/api/products/search", nil, srv.adminToken(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
}
