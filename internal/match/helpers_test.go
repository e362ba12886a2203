package match

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"seedling/internal/dbmysql"
)

func createUser(t *testing.T, db *gorm.DB, id string, seeds int) *dbmysql.User {
	t.Helper()
	u := &dbmysql.User{
		ID:               id,
		Handle:           "h_" + id,
		Email:            id + "@example.com",
		PasswordHash:     "x",
		DisplayName:      "User " + id,
		SeedsAvailable:   seeds,
		SubscriptionPlan: dbmysql.PlanNone,
		NotifySeeds:      true,
		NotifyMatches:    true,
		NotifyMessages:   true,
		NotifyLowBalance: true,
		Status:           "active",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func makeUnlimited(t *testing.T, db *gorm.DB, id string, expiresAt *time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&dbmysql.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"subscription_plan":       dbmysql.PlanUnlimited,
		"subscription_status":     dbmysql.SubscriptionActive,
		"subscription_expires_at": expiresAt,
	}).Error)
}

func balanceOf(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()
	var u dbmysql.User
	require.NoError(t, db.First(&u, "id = ?", id).Error)
	return u.SeedsAvailable
}

func ledgerEntries(t *testing.T, db *gorm.DB, userID, txType string) []dbmysql.SeedTransaction {
	t.Helper()
	var out []dbmysql.SeedTransaction
	require.NoError(t, db.Where("user_id = ? AND type = ?", userID, txType).Find(&out).Error)
	return out
}

type notifyCall struct {
	kind    string
	userA   string
	userB   string
	balance int
}

// recordingNotifier captures ledger notifications for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (n *recordingNotifier) OnSeedReceived(recipientID, senderID string) {
	n.record(notifyCall{kind: "seed", userA: recipientID, userB: senderID})
}

func (n *recordingNotifier) OnMatch(userA, userB string) {
	n.record(notifyCall{kind: "match", userA: userA, userB: userB})
}

func (n *recordingNotifier) OnLowBalance(userID string, newBalance int) {
	n.record(notifyCall{kind: "low_balance", userA: userID, balance: newBalance})
}

func (n *recordingNotifier) record(c notifyCall) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, c)
}

func (n *recordingNotifier) byKind(kind string) []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifyCall
	for _, c := range n.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}
