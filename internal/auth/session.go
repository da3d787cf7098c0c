package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indica sessão inexistente, encerrada ou expirada.
var ErrSessionNotFound = errors.New("sessão não encontrada")

// RedisCommander é o subconjunto do go-redis usado pelas sessões.
type RedisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type sessionState struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStore mantém as sessões do painel no Redis.
type SessionStore struct {
	redis  RedisCommander
	signer *TokenSigner
	now    func() time.Time
}

// NewSessionStore cria o store.
func NewSessionStore(r RedisCommander, signer *TokenSigner) *SessionStore {
	return &SessionStore{redis: r, signer: signer, now: time.Now}
}

// SessionRedisKey monta a chave da sessão.
func SessionRedisKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Create abre uma sessão para o usuário e devolve o valor do cookie.
func (s *SessionStore) Create(ctx context.Context, userID int64) (string, error) {
	now := s.now().UTC()
	token, sessionID, err := s.signer.Sign(userID, now)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(sessionState{UserID: userID, CreatedAt: now})
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, SessionRedisKey(sessionID), payload, s.signer.TTL()).Err(); err != nil {
		return "", fmt.Errorf("session persist: %w", err)
	}
	return token, nil
}

// Lookup resolve o cookie para o id do usuário dono da sessão.
func (s *SessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	sessionID, err := s.signer.Parse(token)
	if err != nil {
		return 0, ErrSessionNotFound
	}

	raw, err := s.redis.Get(ctx, SessionRedisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}

	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil || state.UserID == 0 {
		return 0, ErrSessionNotFound
	}
	return state.UserID, nil
}

// Destroy encerra a sessão; tokens inválidos são ignorados.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	sessionID, err := s.signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.redis.Del(ctx, SessionRedisKey(sessionID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
