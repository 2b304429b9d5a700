package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity collaborator and
// mints short-lived tokens for the presence stream. Token issuance for
// login/refresh lives outside this service.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateStreamToken(userID string, tenantID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (userID string, tenantID string, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateStreamToken mints a short-lived token for SSE connections, which
// cannot carry an Authorization header from EventSource clients.
func (j *JWTService) GenerateStreamToken(userID string, tenantID string) (token string, expiresIn int, err error) {
	expiresIn = 300
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":   userID,
		"tenant_id": tenantID,
		"type":      "stream",
		"exp":       expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

func (j *JWTService) ValidateStreamToken(tokenString string) (userID string, tenantID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "stream" {
		return "", "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	userID, ok = userIDVal.(string)
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	tenantIDVal, ok := token.Get("tenant_id")
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}
	tenantID, ok = tenantIDVal.(string)
	if !ok {
		return "", "", jwt.ErrInvalidJWT()
	}

	return userID, tenantID, nil
}
