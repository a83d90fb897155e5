package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/domain"
	"github.com/shaybagaria0212-ship-it/sasweb-bettertender/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// AuthService is the identity collaborator: it turns credentials into
// a resolved (actor id, role) pair. The core services only ever see
// the resolved Actor.
type AuthService struct {
	users    ports.UserStore
	ledger   *LedgerService
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users ports.UserStore, ledger *LedgerService, secret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, ledger: ledger, secret: []byte(secret), tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, email, fullName, password string, role domain.Role) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") || len(password) < 8 {
		return domain.User{}, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceUser, 0)
	}
	if role == "" {
		role = domain.RoleBidder
	}
	if !role.Valid() {
		return domain.User{}, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceUser, 0)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ResourceFault(domain.ErrInvalidInput, domain.ResourceUser, 0)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, domain.User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}, domain.LedgerDraft{
		Action:       domain.ActionUserRegister,
		ResourceType: domain.ResourceUser,
		Payload:      domain.CanonicalPayload(map[string]any{"email": email, "role": string(role)}),
	})
}

// Login verifies the password and issues a signed bearer token. A
// successful login is the one audited action without a companion
// domain mutation.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.User{}, domain.ErrUnauthorized
		}
		return "", domain.User{}, err
	}
	if !user.Active {
		return "", domain.User{}, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, domain.ErrUnauthorized
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("sign token: %w", err)
	}

	if _, err := s.ledger.RecordLogin(ctx, user.ID); err != nil {
		return "", domain.User{}, err
	}
	return signed, user, nil
}

// Authenticate resolves a bearer token to an Actor. The role is
// re-read from storage so revocations take effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Actor, domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Actor{}, domain.User{}, domain.ErrUnauthorized
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return domain.Actor{}, domain.User{}, domain.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, domain.User{}, domain.ErrUnauthorized
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Actor{}, domain.User{}, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.Actor{}, domain.User{}, domain.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, domain.User{}, domain.ErrUnauthorized
		}
		return domain.Actor{}, domain.User{}, err
	}
	if !user.Active {
		return domain.Actor{}, domain.User{}, domain.ErrUnauthorized
	}

	return domain.Actor{ID: user.ID, Role: user.Role}, user, nil
}
