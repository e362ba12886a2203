package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seedling/internal/common"
	"seedling/internal/dbmysql"
)

// LedgerRepository persists seeds, balances and the seed transaction ledger.
type LedgerRepository interface {
	WithTx(tx *gorm.DB) LedgerRepository

	GetUser(ctx context.Context, userID string) (*dbmysql.User, error)
	// GetUserForUpdate reads the user row with SELECT ... FOR UPDATE. Only meaningful inside WithTx.
	GetUserForUpdate(ctx context.Context, userID string) (*dbmysql.User, error)
	GetUsers(ctx context.Context, userIDs []string) (map[string]*dbmysql.User, error)
	HasSent(ctx context.Context, senderID, recipientID string) (bool, error)
	InsertSeed(ctx context.Context, senderID, recipientID string) error

	// Debit subtracts amount only if the balance covers it and returns the new balance.
	Debit(ctx context.Context, userID string, amount int) (int, error)
	Credit(ctx context.Context, userID string, amount int) (int, error)
	AppendTransaction(ctx context.Context, entry *dbmysql.SeedTransaction) error
	History(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.SeedTransaction, error)

	ListMatches(ctx context.Context, userID string) ([]*dbmysql.User, error)
	UpdateSubscription(ctx context.Context, userID, plan, status string, expiresAt *time.Time) error

	// ClaimLowBalanceNotice stamps low_balance_notified_at unless it is newer than now-cooldown.
	ClaimLowBalanceNotice(ctx context.Context, userID string, now time.Time, cooldown time.Duration) (bool, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: tx}
}

func (r *ledgerRepository) GetUser(ctx context.Context, userID string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return &user, nil
}

func (r *ledgerRepository) GetUserForUpdate(ctx context.Context, userID string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("lock user %s: %w", userID, err)
	}
	return &user, nil
}

func (r *ledgerRepository) GetUsers(ctx context.Context, userIDs []string) (map[string]*dbmysql.User, error) {
	out := make(map[string]*dbmysql.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var users []*dbmysql.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *ledgerRepository) HasSent(ctx context.Context, senderID, recipientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Seed{}).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check seed: %w", err)
	}
	return count > 0, nil
}

func (r *ledgerRepository) InsertSeed(ctx context.Context, senderID, recipientID string) error {
	seed := &dbmysql.Seed{SenderID: senderID, RecipientID: recipientID}
	if err := r.db.WithContext(ctx).Create(seed).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrSeedAlreadySent
		}
		return fmt.Errorf("insert seed: %w", err)
	}
	return nil
}

func (r *ledgerRepository) Debit(ctx context.Context, userID string, amount int) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("id = ? AND seeds_available >= ?", userID, amount).
		Update("seeds_available", gorm.Expr("seeds_available - ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("debit seeds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, common.ErrInsufficientSeeds
	}
	return r.balance(ctx, userID)
}

func (r *ledgerRepository) Credit(ctx context.Context, userID string, amount int) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("id = ?", userID).
		Update("seeds_available", gorm.Expr("seeds_available + ?", amount))
	if result.Error != nil {
		return 0, fmt.Errorf("credit seeds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, common.ErrUserNotFound
	}
	return r.balance(ctx, userID)
}

func (r *ledgerRepository) balance(ctx context.Context, userID string) (int, error) {
	var balances []int
	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("id = ?", userID).
		Pluck("seeds_available", &balances).Error
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	if len(balances) == 0 {
		return 0, common.ErrUserNotFound
	}
	return balances[0], nil
}

func (r *ledgerRepository) AppendTransaction(ctx context.Context, entry *dbmysql.SeedTransaction) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append %s ledger entry: %w", entry.Type, err)
	}
	return nil
}

func (r *ledgerRepository) History(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.SeedTransaction, error) {
	var entries []*dbmysql.SeedTransaction
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load seed history: %w", err)
	}
	return entries, nil
}

// ListMatches returns users with seeds in both directions, most recent match first.
func (r *ledgerRepository) ListMatches(ctx context.Context, userID string) ([]*dbmysql.User, error) {
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN seeds s_out ON s_out.recipient_id = users.id AND s_out.sender_id = ?", userID).
		Joins("JOIN seeds s_in ON s_in.sender_id = users.id AND s_in.recipient_id = ?", userID).
		Order("CASE WHEN s_out.created_at > s_in.created_at THEN s_out.created_at ELSE s_in.created_at END DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return users, nil
}

func (r *ledgerRepository) UpdateSubscription(ctx context.Context, userID, plan, status string, expiresAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_plan":       plan,
			"subscription_status":     status,
			"subscription_expires_at": expiresAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

func (r *ledgerRepository) ClaimLowBalanceNotice(ctx context.Context, userID string, now time.Time, cooldown time.Duration) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("id = ? AND (low_balance_notified_at IS NULL OR low_balance_notified_at <= ?)", userID, now.Add(-cooldown)).
		Update("low_balance_notified_at", now)
	if result.Error != nil {
		return false, fmt.Errorf("claim low balance notice: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
