package middleware

import (
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/evoai/commerce-agent/common/config"
)

// AdminSubjectKey holds the subject of the verified admin token.
const AdminSubjectKey = "admin_subject"

var errAdminDisabled = errors.New("admin endpoints are disabled")

// AdminAuth requires an HS256 bearer token signed with ADMIN_JWT_SECRET.
// Without a configured secret the guarded routes answer 404.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := config.AdminJWTSecret
		if secret == "" {
			AbortWithError(c, http.StatusNotFound, errAdminDisabled)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if raw == "" {
			AbortWithError(c, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		claims, err := parseAdminToken(raw, secret)
		if err != nil {
			AbortWithError(c, http.StatusForbidden, errors.Wrap(err, "invalid admin token"))
			return
		}

		c.Set(AdminSubjectKey, claims.Subject)
		c.Next()
	}
}

func parseAdminToken(raw, secret string) (*jwt.StandardClaims, error) {
	claims := new(jwt.StandardClaims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// SignAdminToken issues an admin token for subject. ttlSeconds <= 0 means no expiry.
func SignAdminToken(secret, subject string, issuedAt, ttlSeconds int64) (string, error) {
	claims := jwt.StandardClaims{Subject: subject, IssuedAt: issuedAt}
	if ttlSeconds > 0 {
		claims.ExpiresAt = issuedAt + ttlSeconds
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "sign admin token")
	}
	return signed, nil
}
