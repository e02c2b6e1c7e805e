package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ScienceIsNeato/fogofdog-backend-go/pkg/response"
)

// deviceTokenTTL bounds how long an issued device token stays valid
const deviceTokenTTL = 30 * 24 * time.Hour

// DeviceClaims identify the mobile device a token was issued to
type DeviceClaims struct {
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

// IssueDeviceToken signs a bearer token for the given device
func IssueDeviceToken(secret, deviceID string) (string, error) {
	claims := DeviceClaims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(deviceTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JWTAuth validates bearer tokens and stores the device ID in the context
func JWTAuth(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)
	return func(c *gin.Context) {
		token := bearerFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		parsed, err := jwt.ParseWithClaims(token, &DeviceClaims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		claims, ok := parsed.Claims.(*DeviceClaims)
		if !ok || !parsed.Valid {
			response.Unauthorized(c, "token invalid")
			return
		}

		c.Set("device_id", claims.DeviceID)
		c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
