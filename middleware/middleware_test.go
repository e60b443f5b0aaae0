package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotel-admin/models"
	"hotel-admin/permissions"
	"hotel-admin/services"
	"hotel-admin/testutil"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setup(t *testing.T) (*gin.Engine, *utils.TokenIssuer, map[string]uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	users := map[string]uint{}
	for _, u := range []models.User{
		{Email: "admin@hotel.test", Role: models.RoleAdmin, Status: models.StatusActive},
		{Email: "rooms@hotel.test", Role: models.RoleStaff, Status: models.StatusActive,
			Permissions: datatypes.JSONMap(permissions.StoredPermissions{CanManageRooms: true}.Map())},
		{Email: "off@hotel.test", Role: models.RoleStaff, Status: models.StatusInactive},
		{Email: "guest@hotel.test", Role: models.RoleUser, Status: models.StatusActive},
	} {
		u := u
		require.NoError(t, db.Create(&u).Error)
		users[u.Email] = u.ID
	}

	tokens, err := utils.NewTokenIssuer("middleware-secret-123", time.Hour)
	require.NoError(t, err)
	access := services.NewAccessService(db, nil, time.Minute)

	r := gin.New()
	r.Use(RequestID())
	authed := r.Group("", Auth(tokens, access))
	authed.GET("/me", func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"email": p.Email})
	})
	authed.DELETE("/rooms/1", RequireCapability(permissions.CanManageRooms), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	authed.DELETE("/bookings/1", RequireCapability(permissions.CanDeleteBookings), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, tokens, users
}

func request(t *testing.T, r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, tokens *utils.TokenIssuer, id uint, email string, role models.Role) string {
	t.Helper()
	tok, _, err := tokens.GenerateAccessToken(id, email, string(role))
	require.NoError(t, err)
	return tok
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	r, _, _ := setup(t)

	w := request(t, r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "error.unauthorized")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = request(t, r, http.MethodGet, "/me", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "error.invalidToken")
}

func TestAuthRejectsInactiveAndGuests(t *testing.T) {
	r, tokens, users := setup(t)

	w := request(t, r, http.MethodGet, "/me", tokenFor(t, tokens, users["off@hotel.test"], "off@hotel.test", models.RoleStaff))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodGet, "/me", tokenFor(t, tokens, users["guest@hotel.test"], "guest@hotel.test", models.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodGet, "/me", tokenFor(t, tokens, 999, "gone@hotel.test", models.RoleStaff))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	r, tokens, users := setup(t)
	tok := tokenFor(t, tokens, users["admin@hotel.test"], "admin@hotel.test", models.RoleAdmin)

	w := request(t, r, http.MethodGet, "/me?token="+tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@hotel.test")
}

func TestRequireCapability(t *testing.T) {
	r, tokens, users := setup(t)
	admin := tokenFor(t, tokens, users["admin@hotel.test"], "admin@hotel.test", models.RoleAdmin)
	staff := tokenFor(t, tokens, users["rooms@hotel.test"], "rooms@hotel.test", models.RoleStaff)

	assert.Equal(t, http.StatusNoContent, request(t, r, http.MethodDelete, "/rooms/1", staff).Code)
	assert.Equal(t, http.StatusNoContent, request(t, r, http.MethodDelete, "/bookings/1", admin).Code)

	w := request(t, r, http.MethodDelete, "/bookings/1", staff)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "error.accessDenied")
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _, _ := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "tok", bearerToken("Bearer tok"))
	assert.Equal(t, "tok", bearerToken("bearer   tok "))
	assert.Empty(t, bearerToken("Basic dXNlcg=="))
	assert.Empty(t, bearerToken(""))
}
