// Package match owns the seed economy: who sent seeds to whom, balances and the
// seed ledger. Two users are matched once seeds exist in both directions.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seedling/internal/common"
	"seedling/internal/dbmysql"
	"seedling/internal/metrics"
)

// Notifier receives post-commit ledger events. Calls must not block.
type Notifier interface {
	OnSeedReceived(recipientID, senderID string)
	OnMatch(userA, userB string)
	OnLowBalance(userID string, newBalance int)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type LedgerService interface {
	HasSent(ctx context.Context, senderID, recipientID string) (bool, error)
	IsMatched(ctx context.Context, userA, userB string) (bool, error)
	SendSeed(ctx context.Context, senderID, recipientID string) (*SeedResult, error)
	Status(ctx context.Context, callerID, otherID string) (*SeedStatus, error)
	ListMatches(ctx context.Context, userID string) ([]dbmysql.PublicProfile, error)

	Balance(ctx context.Context, userID string) (*BalanceInfo, error)
	History(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.SeedTransaction, error)

	// Charge debits a paid action inside the caller's transaction.
	Charge(ctx context.Context, tx *gorm.DB, userID string, amount int, relatedUserID, reference string) (*ChargeResult, error)
	// ChargeSettled reports a committed Charge so low-balance checks can run.
	ChargeSettled(charge *ChargeResult)

	Credit(ctx context.Context, userID, txType string, amount int, reference string) (int, error)
	// CreditTx is Credit inside the caller's transaction.
	CreditTx(ctx context.Context, tx *gorm.DB, userID, txType string, amount int, reference string) (int, error)
	SetSubscription(ctx context.Context, userID, plan, status string, expiresAt *time.Time, reference string) error
	ApplyBillingEvent(ctx context.Context, event BillingEvent) error
}

type SeedResult struct {
	Matched        bool `json:"matched"`
	SeedsAvailable int  `json:"seeds_available"`
	Unlimited      bool `json:"unlimited"`
}

type SeedStatus struct {
	HasSent     bool `json:"has_sent"`
	HasReceived bool `json:"has_received"`
	Matched     bool `json:"matched"`
}

type BalanceInfo struct {
	Available int        `json:"available"`
	Unlimited bool       `json:"unlimited"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type ChargeResult struct {
	UserID       string
	Charged      int
	BalanceAfter int
	Unlimited    bool
}

const (
	BillingPurchaseCompleted   = "purchase.completed"
	BillingSubscriptionUpdated = "subscription.updated"
	BillingSeedsRefunded       = "seeds.refunded"
)

// BillingEvent is what the billing provider webhook hands us.
type BillingEvent struct {
	Type      string     `json:"type" validate:"required,oneof=purchase.completed subscription.updated seeds.refunded"`
	UserID    string     `json:"user_id" validate:"required"`
	Amount    int        `json:"amount" validate:"gte=0"`
	Plan      string     `json:"plan,omitempty"`
	Status    string     `json:"status,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Reference string     `json:"reference" validate:"required"`
}

type ledgerService struct {
	repo     LedgerRepository
	tx       Transactor
	notifier Notifier
	now      func() time.Time
}

func NewLedgerService(repo LedgerRepository, tx Transactor, notifier Notifier) LedgerService {
	return &ledgerService{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *ledgerService) HasSent(ctx context.Context, senderID, recipientID string) (bool, error) {
	return s.repo.HasSent(ctx, senderID, recipientID)
}

func (s *ledgerService) IsMatched(ctx context.Context, userA, userB string) (bool, error) {
	if userA == userB {
		return false, nil
	}
	sent, err := s.repo.HasSent(ctx, userA, userB)
	if err != nil || !sent {
		return false, err
	}
	return s.repo.HasSent(ctx, userB, userA)
}

func (s *ledgerService) SendSeed(ctx context.Context, senderID, recipientID string) (*SeedResult, error) {
	senderID = strings.TrimSpace(senderID)
	recipientID = strings.TrimSpace(recipientID)
	if senderID == "" || recipientID == "" {
		return nil, common.Validation("sender and recipient are required")
	}
	if senderID == recipientID {
		return nil, common.ErrSelfSeed
	}

	var result SeedResult
	now := s.now()

	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Both rows are locked before any plain read so reciprocal sends
		// serialise and the reciprocal-seed check sees the other commit.
		sender, recipient, err := lockPair(ctx, repo, senderID, recipientID)
		if err != nil {
			return err
		}

		unlimited := sender.HasUnlimitedSeeds(now)
		if !unlimited && sender.SeedsAvailable <= 0 {
			return common.ErrInsufficientSeeds
		}

		already, err := repo.HasSent(ctx, senderID, recipientID)
		if err != nil {
			return err
		}
		if already {
			return common.ErrSeedAlreadySent
		}

		if err := repo.InsertSeed(ctx, senderID, recipientID); err != nil {
			return err
		}

		balance, change := sender.SeedsAvailable, 0
		if !unlimited {
			if balance, err = repo.Debit(ctx, senderID, 1); err != nil {
				return err
			}
			change = -1
		}

		if err := repo.AppendTransaction(ctx, &dbmysql.SeedTransaction{
			UserID:        senderID,
			Type:          dbmysql.TxSent,
			Amount:        1,
			Change:        change,
			BalanceAfter:  balance,
			RelatedUserID: &recipientID,
		}); err != nil {
			return err
		}
		if err := repo.AppendTransaction(ctx, &dbmysql.SeedTransaction{
			UserID:        recipientID,
			Type:          dbmysql.TxReceived,
			Amount:        1,
			Change:        0,
			BalanceAfter:  recipient.SeedsAvailable,
			RelatedUserID: &senderID,
		}); err != nil {
			return err
		}

		matched, err := repo.HasSent(ctx, recipientID, senderID)
		if err != nil {
			return err
		}

		result = SeedResult{Matched: matched, SeedsAvailable: balance, Unlimited: unlimited}
		return nil
	})
	if err != nil {
		return nil, classify(err, "send seed")
	}

	metrics.SeedsSent.Inc()
	log.Info().Str("sender_id", senderID).Str("recipient_id", recipientID).Bool("matched", result.Matched).Msg("seed sent")

	if result.Matched {
		metrics.Matches.Inc()
		s.notifier.OnMatch(senderID, recipientID)
	} else {
		s.notifier.OnSeedReceived(recipientID, senderID)
	}
	if !result.Unlimited {
		s.notifier.OnLowBalance(senderID, result.SeedsAvailable)
	}
	return &result, nil
}

// lockPair locks both user rows in id order so opposite-direction sends cannot deadlock.
func lockPair(ctx context.Context, repo LedgerRepository, senderID, recipientID string) (*dbmysql.User, *dbmysql.User, error) {
	first, second := senderID, recipientID
	if second < first {
		first, second = second, first
	}
	a, err := repo.GetUserForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := repo.GetUserForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if first == senderID {
		return a, b, nil
	}
	return b, a, nil
}

func (s *ledgerService) Status(ctx context.Context, callerID, otherID string) (*SeedStatus, error) {
	if _, err := s.repo.GetUser(ctx, otherID); err != nil {
		return nil, err
	}
	sent, err := s.repo.HasSent(ctx, callerID, otherID)
	if err != nil {
		return nil, err
	}
	received, err := s.repo.HasSent(ctx, otherID, callerID)
	if err != nil {
		return nil, err
	}
	return &SeedStatus{HasSent: sent, HasReceived: received, Matched: sent && received}, nil
}

func (s *ledgerService) ListMatches(ctx context.Context, userID string) ([]dbmysql.PublicProfile, error) {
	users, err := s.repo.ListMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dbmysql.PublicProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *ledgerService) Balance(ctx context.Context, userID string) (*BalanceInfo, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := user.SubscriptionPlan
	if plan == "" {
		plan = dbmysql.PlanNone
	}
	return &BalanceInfo{
		Available: user.SeedsAvailable,
		Unlimited: user.HasUnlimitedSeeds(s.now()),
		Plan:      plan,
		Status:    user.SubscriptionStatus,
		ExpiresAt: user.SubscriptionExpiresAt,
	}, nil
}

func (s *ledgerService) History(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.SeedTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.History(ctx, userID, limit, offset)
}

func (s *ledgerService) Charge(ctx context.Context, tx *gorm.DB, userID string, amount int, relatedUserID, reference string) (*ChargeResult, error) {
	repo := s.repo.WithTx(tx)

	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasUnlimitedSeeds(s.now()) {
		return &ChargeResult{UserID: userID, BalanceAfter: user.SeedsAvailable, Unlimited: true}, nil
	}

	balance, err := repo.Debit(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	entry := &dbmysql.SeedTransaction{
		UserID:       userID,
		Type:         dbmysql.TxSpent,
		Amount:       amount,
		Change:       -amount,
		BalanceAfter: balance,
		Reference:    reference,
	}
	if relatedUserID != "" {
		entry.RelatedUserID = &relatedUserID
	}
	if err := repo.AppendTransaction(ctx, entry); err != nil {
		return nil, err
	}
	return &ChargeResult{UserID: userID, Charged: amount, BalanceAfter: balance}, nil
}

func (s *ledgerService) ChargeSettled(charge *ChargeResult) {
	if charge == nil || charge.Unlimited || charge.Charged == 0 {
		return
	}
	s.notifier.OnLowBalance(charge.UserID, charge.BalanceAfter)
}

func (s *ledgerService) Credit(ctx context.Context, userID, txType string, amount int, reference string) (int, error) {
	var balance int
	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		var err error
		balance, err = s.CreditTx(ctx, tx, userID, txType, amount, reference)
		return err
	})
	if err != nil {
		return 0, classify(err, "credit seeds")
	}
	log.Info().Str("user_id", userID).Str("type", txType).Int("amount", amount).Int("balance", balance).Msg("seeds credited")
	return balance, nil
}

func (s *ledgerService) CreditTx(ctx context.Context, tx *gorm.DB, userID, txType string, amount int, reference string) (int, error) {
	switch txType {
	case dbmysql.TxPurchase, dbmysql.TxBonus, dbmysql.TxRefund:
	default:
		return 0, common.Validation(fmt.Sprintf("cannot credit with ledger type %q", txType))
	}
	if amount <= 0 {
		return 0, common.Validation("credit amount must be positive")
	}

	repo := s.repo.WithTx(tx)
	balance, err := repo.Credit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}
	err = repo.AppendTransaction(ctx, &dbmysql.SeedTransaction{
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		Change:       amount,
		BalanceAfter: balance,
		Reference:    reference,
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *ledgerService) SetSubscription(ctx context.Context, userID, plan, status string, expiresAt *time.Time, reference string) error {
	if plan != dbmysql.PlanNone && plan != dbmysql.PlanUnlimited {
		return common.Validation(fmt.Sprintf("unknown plan %q", plan))
	}
	if status == "" {
		status = dbmysql.SubscriptionActive
	}

	err := s.tx.WithinTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateSubscription(ctx, userID, plan, status, expiresAt); err != nil {
			return err
		}
		user, err := repo.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		return repo.AppendTransaction(ctx, &dbmysql.SeedTransaction{
			UserID:       userID,
			Type:         dbmysql.TxSubscription,
			Amount:       0,
			Change:       0,
			BalanceAfter: user.SeedsAvailable,
			Reference:    strings.TrimSpace(plan + ":" + status + " " + reference),
		})
	})
	return classify(err, "set subscription")
}

func (s *ledgerService) ApplyBillingEvent(ctx context.Context, event BillingEvent) error {
	switch event.Type {
	case BillingPurchaseCompleted:
		_, err := s.Credit(ctx, event.UserID, dbmysql.TxPurchase, event.Amount, event.Reference)
		return err
	case BillingSeedsRefunded:
		_, err := s.Credit(ctx, event.UserID, dbmysql.TxRefund, event.Amount, event.Reference)
		return err
	case BillingSubscriptionUpdated:
		return s.SetSubscription(ctx, event.UserID, event.Plan, event.Status, event.ExpiresAt, event.Reference)
	default:
		return common.Validation(fmt.Sprintf("unsupported billing event %q", event.Type))
	}
}

// classify keeps domain errors as they are and wraps anything else as Internal.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return common.Internal(op, err)
}
