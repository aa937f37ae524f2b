package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

type fakeVerifier struct {
	claims *models.JWTClaims
}

func (f fakeVerifier) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return f.claims, nil
}

type recordingObserver struct {
	mu    sync.Mutex
	paths []string
	codes []int
}

func (r *recordingObserver) ObserveHTTPRequest(_ string, path string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	r.codes = append(r.codes, status)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		_, authed := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})
	r.GET("/students/:id", handlers...)
	return r
}

func serve(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRequiresBearerToken(t *testing.T) {
	verifier := fakeVerifier{claims: &models.JWTClaims{Role: models.RoleAdmin}}
	r := newRouter(JWT(verifier))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer bad").Code)
	assert.Equal(t, http.StatusOK, serve(r, "bearer good").Code)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	verifier := fakeVerifier{claims: &models.JWTClaims{Role: models.RoleAdmin}}
	r := newRouter(OptionalJWT(verifier))

	anonymous := serve(r, "Bearer bad")
	authed := serve(r, "Bearer good")

	assert.Equal(t, http.StatusOK, anonymous.Code)
	assert.JSONEq(t, `{"authed":false}`, anonymous.Body.String())
	assert.JSONEq(t, `{"authed":true}`, authed.Body.String())
}

func TestRBACRoles(t *testing.T) {
	cases := []struct {
		role models.UserRole
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleTeacher, http.StatusOK},
		{models.RoleStudent, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			verifier := fakeVerifier{claims: &models.JWTClaims{Role: tc.role}}
			r := newRouter(JWT(verifier), RequireRoles(models.RoleAdmin, models.RoleTeacher))

			assert.Equal(t, tc.want, serve(r, "Bearer good").Code)
		})
	}
}

func TestRBACWithoutClaims(t *testing.T) {
	r := newRouter(RBAC(string(models.RoleAdmin)))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	observer := &recordingObserver{}
	r := newRouter(Metrics(observer))

	serve(r, "")

	assert.Equal(t, []string{"/students/:id"}, observer.paths)
	assert.Equal(t, []int{http.StatusOK}, observer.codes)
}
