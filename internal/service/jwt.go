package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Identity is the guest identity carried in a token. The id is
// connection-scoped: a new token means a new player.
type Identity struct {
	PlayerID string
	Name     string
	Color    string
}

// InitJWT sets the signing secret. Must be called before issuing or parsing.
func InitJWT(secret string) {
	if secret == "" {
		panic("jwt secret is empty")
	}
	jwtSecret = []byte(secret)
}

// GenerateGuestToken issues a token for a guest player.
func GenerateGuestToken(id Identity) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"sub":   id.PlayerID,
		"name":  id.Name,
		"color": id.Color,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   now,
		"nbf":   now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseGuestToken validates a token and returns the identity inside it.
func ParseGuestToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < now {
		return Identity{}, errors.New("token expired")
	}
	if nbf, ok := claims["nbf"].(float64); ok && int64(nbf) > now {
		return Identity{}, errors.New("token not valid yet")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, errors.New("subject not found")
	}

	id := Identity{PlayerID: sub}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if color, ok := claims["color"].(string); ok {
		id.Color = color
	}
	return id, nil
}
