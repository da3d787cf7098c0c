package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken indica cookie de sessão adulterado, expirado ou malformado.
var ErrInvalidToken = errors.New("token de sessão inválido")

// TokenSigner assina o envelope do cookie de sessão. O estado da sessão fica
// no servidor; o token só carrega o id (jti) e o usuário (sub).
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner cria o assinador com segredo e TTL configurados.
func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), ttl: ttl}
}

// Sign cria um JWT HS256 para a sessão; devolve o token e o id da sessão.
func (s *TokenSigner) Sign(userID int64, now time.Time) (string, string, error) {
	sessionID := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return signed, sessionID, nil
}

// Parse verifica assinatura e expiração e devolve o id da sessão.
func (s *TokenSigner) Parse(tokenString string) (string, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// TTL expõe a validade configurada.
func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}
