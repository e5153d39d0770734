// Package admin gates the dashboard behind a single shared password. This is
// deliberately minimal: one secret, no accounts, no lockout, no rate
// limiting. It keeps casual visitors out of the dashboard and nothing more;
// do not treat it as a security boundary.
package admin

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gala-forms/common"
)

const tokenTTL = 24 * time.Hour

// Gate checks the shared password and issues signed, expiring session
// tokens. The token is verified server-side on every guarded request; there
// is no client-held authorization state.
type Gate struct {
	secret []byte
	jwtKey []byte
	now    func() time.Time
}

func NewGate(password, jwtKey string) *Gate {
	return &Gate{
		secret: []byte(password),
		jwtKey: []byte(jwtKey),
		now:    time.Now,
	}
}

// Authenticate compares the candidate against the shared secret and, on
// match, returns a signed token valid for 24 hours.
func (g *Gate) Authenticate(candidate string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(candidate), g.secret) != 1 {
		return "", time.Time{}, common.NewUnauthorizedError("incorrect password")
	}

	now := g.now()
	expires := now.Add(tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
		ID:        uuid.NewString(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.jwtKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Verify parses and validates a session token.
func (g *Gate) Verify(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return g.jwtKey, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return g.now() }),
	)
	if err != nil || !parsed.Valid {
		return common.NewUnauthorizedError("invalid or expired session")
	}
	return nil
}

// Middleware guards a route group with bearer-token verification.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" || token == auth {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"status":  "unauthorized",
				"message": "missing session token",
			})
			return
		}
		if err := g.Verify(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"status":  "unauthorized",
				"message": err.Error(),
			})
			return
		}
		c.Next()
	}
}
