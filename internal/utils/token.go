// Package utils provides helper functions for credential issuing and
// password hashing.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/parking-garage-api/internal/model"
)

// NewAuthToken builds and signs the HS256 JWT issued on registration and
// login. The token carries the user's identity, name fields and admin
// flag so the access guard can authorize mutations without a database
// round trip.
//
// ttlMin controls the exp claim; 0 issues a non-expiring token, which is
// the default behavior of this API.
func NewAuthToken(secret string, u model.User, ttlMin int) (string, error) {
	claims := jwt.MapClaims{
		"sub":        u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"admin":      u.Admin,
		"iat":        time.Now().UTC().Unix(),
	}
	if ttlMin > 0 {
		claims["exp"] = time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute).Unix()
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
