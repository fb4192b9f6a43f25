package auth

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gevapp/gevapp/internal/shared"
)

type memoryUsers struct {
	users  map[int64]*User
	byMail map[string]int64
	nextID int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[int64]*User), byMail: make(map[string]int64)}
}

func (m *memoryUsers) Create(ctx context.Context, nome, email, senhaHash string) (int64, error) {
	if _, exists := m.byMail[email]; exists {
		return 0, fmt.Errorf("email %s: %w", email, shared.ErrDuplicateEmail)
	}
	m.nextID++
	m.users[m.nextID] = &User{ID: m.nextID, Nome: nome, Email: email, SenhaHash: senhaHash, CreatedAt: time.Now()}
	m.byMail[email] = m.nextID
	return m.nextID, nil
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	id, ok := m.byMail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return m.users[id], nil
}

func (m *memoryUsers) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *memoryUsers) UpdatePassword(ctx context.Context, id int64, senhaHash string) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.SenhaHash = senhaHash
	return nil
}

type mailSpy struct {
	emails []string
	tokens []string
}

func (m *mailSpy) EnqueuePasswordReset(ctx context.Context, email, token string) error {
	m.emails = append(m.emails, email)
	m.tokens = append(m.tokens, token)
	return nil
}

func newAuthFixture(t *testing.T) (*Service, *memoryUsers, *mailSpy) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := newMemoryUsers()
	mail := &mailSpy{}
	tokens := NewTokenManager("test-secret", time.Hour)
	svc := NewService(repo, rdb, tokens, mail, slog.Default(), 30*time.Minute)
	return svc, repo, mail
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Nome: "Maria", Email: "maria@example.com", Senha: "segredo1",
	})
	require.NoError(t, err)
	require.NotEqual(t, "segredo1", user.SenhaHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte("segredo1")))

	_, err = svc.Register(context.Background(), RegisterRequest{
		Nome: "Outra", Email: "maria@example.com", Senha: "segredo2",
	})
	require.ErrorIs(t, err, shared.ErrDuplicateEmail)
	require.Len(t, repo.users, 1)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Nome: "Maria", Email: "maria@example.com", Senha: "segredo1",
	})
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginRequest{Email: "maria@example.com", Senha: "segredo1"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.Equal(t, "maria@example.com", result.User.Email)

	userID, err := svc.tokens.Verify(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Nome: "Maria", Email: "maria@example.com", Senha: "segredo1",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "maria@example.com", Senha: "errada1"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "naoexiste@example.com", Senha: "qualquer"})
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestForgotPasswordResetFlow(t *testing.T) {
	svc, _, mail := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Nome: "Maria", Email: "maria@example.com", Senha: "segredo1",
	})
	require.NoError(t, err)

	err = svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "maria@example.com"})
	require.NoError(t, err)
	require.Len(t, mail.tokens, 1)

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token: mail.tokens[0], NovaSenha: "novasenha",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "maria@example.com", Senha: "novasenha"})
	require.NoError(t, err)

	// The token is single use.
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token: mail.tokens[0], NovaSenha: "outrasenha",
	})
	require.ErrorIs(t, err, shared.ErrInvalidOrExpiredToken)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, mail := newAuthFixture(t)

	err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	require.Empty(t, mail.tokens)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token: "nao-existe", NovaSenha: "novasenha",
	})
	require.ErrorIs(t, err, shared.ErrInvalidOrExpiredToken)
}
