// internal/httpserver/token.go
//
// Signed guest identity tokens. A socket's player identity normally
// dies with the connection; a client holding the token from its
// `connected` welcome event can present it on the next upgrade
// (?token=...) and resume the same player id. Without one, a reconnect
// is a new identity.

package httpserver

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errBadToken = errors.New("invalid identity token")

// tokenSecret reads the HMAC secret for identity tokens.
func tokenSecret() []byte {
	return []byte(getEnv("TOKEN_SECRET", "dev_secret_change_me"))
}

// tokenTTL reads the identity token lifetime (TOKEN_EXPIRES_DAYS,
// default 14).
func tokenTTL() time.Duration {
	days := 14
	if v := getEnv("TOKEN_EXPIRES_DAYS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	return time.Duration(days) * 24 * time.Hour
}

// signToken creates an HS256 token binding the player id.
func signToken(secret []byte, playerID string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  playerID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	})
	return t.SignedString(secret)
}

// verifyToken validates a presented token and extracts the player id.
func verifyToken(secret []byte, tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !t.Valid {
		return "", errBadToken
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", errBadToken
	}
	return id, nil
}
