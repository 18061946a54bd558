package util

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the Supabase access token claims we care about.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateJWT verifies a Supabase access token. keyMaterial is either the
// shared HMAC secret or a PEM-encoded RSA/ECDSA public key; the signing
// algorithm is taken from the token header.
func ValidateJWT(tokenString, keyMaterial string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(keyMaterial), nil
		case *jwt.SigningMethodRSA:
			return parsePublicKey[*rsa.PublicKey](keyMaterial)
		case *jwt.SigningMethodECDSA:
			return parsePublicKey[*ecdsa.PublicKey](keyMaterial)
		default:
			return nil, fmt.Errorf("unsupported signing algorithm: %v", token.Header["alg"])
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func parsePublicKey[T any](pemKey string) (T, error) {
	var zero T
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return zero, errors.New("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return zero, fmt.Errorf("failed to parse public key: %w", err)
	}
	key, ok := pub.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected public key type %T", pub)
	}
	return key, nil
}
