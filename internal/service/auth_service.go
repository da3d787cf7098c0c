package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/auth"
	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrUsernameTaken indica nome de usuário já cadastrado.
	ErrUsernameTaken = errors.New("usuário já existe")
	// ErrRegistrationClosed indica cadastro público desativado.
	ErrRegistrationClosed = errors.New("cadastro desativado")
	// ErrNoSession indica ausência de sessão válida.
	ErrNoSession = errors.New("sessão ausente")
)

type userRepository interface {
	GetUserByUsername(ctx context.Context, username string) (schema.User, error)
	GetUserByID(ctx context.Context, id int64) (schema.User, error)
	CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (schema.User, error)
}

type sessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Lookup(ctx context.Context, token string) (int64, error)
	Destroy(ctx context.Context, token string) error
}

// AuthService concentra login, cadastro e sessões do painel.
type AuthService struct {
	repo                userRepository
	sessions            sessionStore
	registrationEnabled bool
}

// NewAuthService cria novo serviço.
func NewAuthService(r *repo.Queries, sessions *auth.SessionStore, registrationEnabled bool) *AuthService {
	return &AuthService{repo: r, sessions: sessions, registrationEnabled: registrationEnabled}
}

// LoginResult traz o usuário autenticado e o valor do cookie de sessão.
type LoginResult struct {
	User  schema.User
	Token string
}

// Login autentica usuário e senha e abre uma sessão.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			auth.BurnVerify(password)
			log.Warn().Msg("login: usuário não encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verify password failed")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Msg("login: senha inválida")
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Register cria uma conta. Só um administrador autenticado (actor) pode
// cadastrar outro administrador; cadastros anônimos nunca recebem a flag.
// A sessão só é aberta para cadastros anônimos.
func (s *AuthService) Register(ctx context.Context, in schema.UserInput, actor *schema.User) (*LoginResult, error) {
	byAdmin := actor != nil && actor.IsAdmin
	if !s.registrationEnabled && !byAdmin {
		return nil, ErrRegistrationClosed
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if !byAdmin && in.IsAdmin {
		log.Warn().Str("username", in.Username).Msg("cadastro: flag de administrador ignorada")
		in.IsAdmin = false
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.CreateUser(ctx, in.Username, hash, in.IsAdmin)
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	result := &LoginResult{User: user}
	if byAdmin {
		return result, nil
	}
	result.Token, err = s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Logout encerra a sessão do cookie.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

// CurrentUser resolve o dono da sessão. Sessões de contas removidas são
// tratadas como ausentes.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (schema.User, error) {
	if token == "" {
		return schema.User{}, ErrNoSession
	}
	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			return schema.User{}, ErrNoSession
		}
		return schema.User{}, err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return schema.User{}, ErrNoSession
		}
		return schema.User{}, err
	}
	return user, nil
}
