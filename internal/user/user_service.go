package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seedling/internal/common"
	"seedling/internal/config"
	"seedling/internal/dbmysql"
)

const signupGrantReference = "signup_grant"

// SeedGranter credits the initial balance inside the registration transaction.
type SeedGranter interface {
	CreditTx(ctx context.Context, tx *gorm.DB, userID, txType string, amount int, reference string) (int, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type RegisterInput struct {
	Handle      string
	Email       string
	Password    string
	DisplayName string
}

type AuthResult struct {
	User  *dbmysql.User `json:"user"`
	Token string        `json:"token"`
}

type UserService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*AuthResult, error)
	LoginUser(ctx context.Context, handle, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID string) (*dbmysql.User, error)
	UpdatePreferences(ctx context.Context, userID string, prefs Preferences) (*dbmysql.User, error)
}

type userService struct {
	userRepo UserRepository
	tx       Transactor
	granter  SeedGranter
	tokens   *common.TokenManager
	seeds    config.SeedConfig
}

func NewUserService(userRepo UserRepository, tx Transactor, granter SeedGranter, tokens *common.TokenManager, seeds config.SeedConfig) UserService {
	return &userService{userRepo: userRepo, tx: tx, granter: granter, tokens: tokens, seeds: seeds}
}

func (s *userService) RegisterUser(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	handle := strings.TrimSpace(in.Handle)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := common.ValidateHandle(handle); err != nil {
		return nil, common.Validation(err.Error())
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, common.Validation(err.Error())
	}
	if err := common.ValidatePassword(in.Password); err != nil {
		return nil, common.Validation(err.Error())
	}

	exists, err := s.userRepo.CheckUserExists(ctx, handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrHandleTaken
	}

	hashed, err := common.HashPassword(in.Password)
	if err != nil {
		return nil, common.Internal("hash password", err)
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = handle
	}

	user := &dbmysql.User{
		ID:               uuid.NewString(),
		Handle:           handle,
		Email:            email,
		PasswordHash:     hashed,
		DisplayName:      displayName,
		SubscriptionPlan: dbmysql.PlanNone,
		NotifySeeds:      true,
		NotifyMatches:    true,
		NotifyMessages:   true,
		NotifyLowBalance: true,
		Status:           "active",
	}

	// user row and signup grant commit together
	err = s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		if err := s.userRepo.WithTx(tx).CreateUser(ctx, user); err != nil {
			return err
		}
		if s.seeds.InitialGrant <= 0 {
			return nil
		}
		balance, err := s.granter.CreditTx(ctx, tx, user.ID, dbmysql.TxBonus, s.seeds.InitialGrant, signupGrantReference)
		if err != nil {
			return err
		}
		user.SeedsAvailable = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Handle)
	if err != nil {
		return nil, common.Internal("issue token", err)
	}

	log.Info().Str("user_id", user.ID).Str("handle", user.Handle).Msg("user registered")
	return &AuthResult{User: user, Token: token}, nil
}

func (s *userService) LoginUser(ctx context.Context, handle, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetUserByHandle(ctx, strings.TrimSpace(handle))
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, common.Forbidden("account is not active")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Handle)
	if err != nil {
		return nil, common.Internal("issue token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dbmysql.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) UpdatePreferences(ctx context.Context, userID string, prefs Preferences) (*dbmysql.User, error) {
	if err := s.userRepo.UpdatePreferences(ctx, userID, prefs); err != nil {
		return nil, err
	}
	return s.userRepo.GetUserByID(ctx, userID)
}
