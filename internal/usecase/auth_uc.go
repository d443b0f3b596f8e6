package usecase

import (
	"context"
	"errors"
	"strings"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/pkg/jwtutil"
	"banking-service/pkg/xerrors"

	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	userRepo repository.UserRepository
	signer   *jwtutil.Signer
}

func NewAuthUsecase(userRepo repository.UserRepository, signer *jwtutil.Signer) *AuthUsecase {
	return &AuthUsecase{userRepo: userRepo, signer: signer}
}

func (uc *AuthUsecase) Signup(ctx context.Context, email, password string, fullName *string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, xerrors.ErrEmailRequired
	}
	if password == "" {
		return nil, xerrors.ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return uc.userRepo.Create(ctx, email, fullName, string(hash))
}

// Login checks credentials and returns a signed access token. A missing
// user and a wrong password produce the same error so the endpoint does
// not leak which emails are registered.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, xerrors.ErrUserNotFound) {
			return "", nil, xerrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, xerrors.ErrInvalidCredentials
	}

	token, err := uc.signer.Sign(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (uc *AuthUsecase) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}
