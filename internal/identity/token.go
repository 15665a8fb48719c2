package identity

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	ActorID        string `json:"actor_id"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id,omitempty"`
	DepartmentID   string `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// ParseToken validates a bearer token issued by the identity collaborator and
// returns the actor it describes.
func ParseToken(tokenStr string) (*Actor, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	jwtKey := []byte(secret)

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	actor := &Actor{
		ID:             claims.ActorID,
		Role:           Role(claims.Role),
		OrganizationID: claims.OrganizationID,
		DepartmentID:   claims.DepartmentID,
	}
	if actor.ID == "" || !actor.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return actor, nil
}
