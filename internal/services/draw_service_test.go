package services

import (
	"context"
	"testing"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type drawFixture struct {
	draws    *fakeDrawRepo
	ledger   *fakeLedger
	users    *fakeUserRepo
	rates    *fakeRateRepo
	notifier *notifier.MockNotifier
	service  *DrawServiceImpl
}

func newDrawFixture() *drawFixture {
	f := &drawFixture{
		draws:    newFakeDrawRepo(),
		ledger:   newFakeLedger(),
		users:    newFakeUserRepo(),
		rates:    newFakeRateRepo(),
		notifier: notifier.NewMockNotifier(),
	}
	f.service = NewDrawService(f.draws, f.ledger, f.users, f.rates, f.notifier)
	return f
}

func (f *drawFixture) earnAt(t *testing.T, userID primitive.ObjectID, points int, at time.Time) {
	t.Helper()
	dealID := primitive.NewObjectID()
	require.NoError(t, f.ledger.Create(context.Background(), &models.PointsHistory{
		UserID:    userID,
		Points:    points,
		DealID:    &dealID,
		CreatedAt: at,
	}))
}

func TestExecuteMonthlyDraw(t *testing.T) {
	f := newDrawFixture()
	ctx := context.Background()
	inMonth := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	// Default threshold is 100 points earned within the month
	qualified := f.users.addActive("alice")
	f.earnAt(t, qualified, 120, inMonth)
	alsoQualified := f.users.addActive("bob")
	f.earnAt(t, alsoQualified, 100, inMonth)
	below := f.users.addActive("carol")
	f.earnAt(t, below, 99, inMonth)
	// Earned plenty, but in June
	wrongMonth := f.users.addActive("dave")
	f.earnAt(t, wrongMonth, 500, inMonth.AddDate(0, -1, 0))

	draw, err := f.service.ExecuteMonthlyDraw(ctx, "2026-07", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.DrawStatusCompleted, draw.Status)
	assert.Equal(t, "2026-07", draw.Month)
	assert.Equal(t, 2, draw.CandidateCount)
	assert.Contains(t, []primitive.ObjectID{qualified, alsoQualified}, draw.WinnerUserID)
	assert.Equal(t, "admin-1", draw.ExecutedBy)

	// Winner got notified
	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notifier.EventDrawWinner, sent[0].Event)
	assert.Equal(t, draw.WinnerUserID.Hex(), sent[0].UserID)
}

func TestExecuteMonthlyDrawOncePerMonth(t *testing.T) {
	f := newDrawFixture()
	ctx := context.Background()
	userID := f.users.addActive("alice")
	f.earnAt(t, userID, 150, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))

	_, err := f.service.ExecuteMonthlyDraw(ctx, "2026-07", "admin-1")
	require.NoError(t, err)

	_, err = f.service.ExecuteMonthlyDraw(ctx, "2026-07", "admin-2")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecuteMonthlyDrawNoCandidates(t *testing.T) {
	f := newDrawFixture()
	userID := f.users.addActive("alice")
	f.earnAt(t, userID, 10, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))

	_, err := f.service.ExecuteMonthlyDraw(context.Background(), "2026-07", "admin-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestExecuteMonthlyDrawBadMonth(t *testing.T) {
	f := newDrawFixture()
	_, err := f.service.ExecuteMonthlyDraw(context.Background(), "July 2026", "admin-1")
	assert.ErrorIs(t, err, ErrValidation)
}
