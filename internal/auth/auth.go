// Package auth проверяет bearer-токены и сопоставляет subject с пользователем ядра.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"google.golang.org/grpc/metadata"

	"github.com/Leganyst/class-scheduler/internal/model"
	"github.com/Leganyst/class-scheduler/internal/repository"
	"github.com/Leganyst/class-scheduler/internal/scheduling"
)

// Ошибки аутентификации.
var (
	ErrMissingToken = errors.New("authorization token not provided")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user is inactive")
)

// UserStore: в проде это repository.UserRepository.
type UserStore interface {
	FindByAuthUserID(ctx context.Context, authUserID string) (*model.User, error)
}

type Identity struct {
	User *model.User
}

func (i *Identity) Actor() scheduling.Actor {
	return scheduling.Actor{
		UserID:       i.User.ID,
		StoredRole:   i.User.Role,
		DepartmentID: i.User.DepartmentID,
	}
}

// ValidateUser:
//   - ищет пользователя по subject;
//   - проверяет статус (активен / нет).
func ValidateUser(ctx context.Context, store UserStore, authUserID string) (*Identity, error) {
	if strings.TrimSpace(authUserID) == "" {
		return nil, ErrInvalidToken
	}

	u, err := store.FindByAuthUserID(ctx, authUserID)
	if repository.IsNotFound(err) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if u.Status == model.UserStatusInactive || u.Status == model.UserStatusBlocked {
		return nil, ErrUserInactive
	}
	return &Identity{User: u}, nil
}

// Authenticator проверяет HS256-токены, выпущенные провайдером идентичности.
type Authenticator struct {
	secret []byte
	users  UserStore
}

func NewAuthenticator(secret string, users UserStore) *Authenticator {
	return &Authenticator{secret: []byte(secret), users: users}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if len(a.secret) == 0 {
		return nil, fmt.Errorf("%w: signing secret is not configured", ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return ValidateUser(ctx, a.users, claims.Subject)
}

// Issue подписывает токен для subject; используется CLI и тестами.
func Issue(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// BearerFromMetadata достаёт токен из заголовка authorization входящего gRPC-вызова.
func BearerFromMetadata(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ErrMissingToken
	}
	values := md.Get("authorization")
	if len(values) == 0 || values[0] == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(values[0], " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}
