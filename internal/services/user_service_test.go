package services

import (
	"context"
	"testing"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/pkg/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userFixture struct {
	users       *fakeUserRepo
	deals       *fakeDealRepo
	ledger      *fakeLedger
	userRewards *fakeUserRewardRepo
	notifier    *notifier.MockNotifier
	service     *UserServiceImpl
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:       newFakeUserRepo(),
		deals:       newFakeDealRepo(),
		ledger:      newFakeLedger(),
		userRewards: newFakeUserRewardRepo(),
		notifier:    notifier.NewMockNotifier(),
	}
	f.service = NewUserService(f.users, f.deals, f.ledger, f.userRewards, fakeTransactor{}, f.notifier)
	return f
}

func TestApproveUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	pending := &models.User{Email: "alice@example.com", Status: models.UserStatusPending}
	require.NoError(t, f.users.Create(ctx, pending))

	approved, err := f.service.ApproveUser(ctx, pending.ID, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.UserStatusActive, approved.Status)
	assert.Equal(t, "admin-1", approved.ApprovedBy)
	assert.Empty(t, approved.Password)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notifier.EventAccountApproved, sent[0].Event)
}

func TestApproveUserOnlyFromPending(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	active := f.users.addActive("alice")
	_, err := f.service.ApproveUser(ctx, active, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidState)

	rejected := &models.User{Email: "bob@example.com", Status: models.UserStatusRejected}
	require.NoError(t, f.users.Create(ctx, rejected))
	_, err = f.service.ApproveUser(ctx, rejected.ID, "admin-1")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRejectUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	pending := &models.User{Email: "alice@example.com", Status: models.UserStatusPending}
	require.NoError(t, f.users.Create(ctx, pending))

	rejected, err := f.service.RejectUser(ctx, pending.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusRejected, rejected.Status)
}

func TestDeleteUserCascades(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	userID := f.users.addActive("alice")
	bystander := f.users.addActive("bob")

	// Give the account a full footprint: a deal, its earn entry, a spend
	// entry and a redemption.
	dealID := primitive.NewObjectID()
	require.NoError(t, f.deals.Create(ctx, &models.Deal{
		ID: dealID, UserID: userID, Status: models.DealStatusApproved,
		ProductType: models.ProductTypeSoftware, DealValue: "42000", PointsEarned: 42,
	}))
	require.NoError(t, f.ledger.Create(ctx, &models.PointsHistory{UserID: userID, Points: 42, DealID: &dealID}))
	rewardID := primitive.NewObjectID()
	require.NoError(t, f.ledger.Create(ctx, &models.PointsHistory{UserID: userID, Points: -10, RewardID: &rewardID}))
	require.NoError(t, f.userRewards.Create(ctx, &models.UserReward{UserID: userID, RewardID: rewardID, Status: models.RedemptionStatusApproved}))

	otherDeal := primitive.NewObjectID()
	require.NoError(t, f.ledger.Create(ctx, &models.PointsHistory{UserID: bystander, Points: 7, DealID: &otherDeal}))

	require.NoError(t, f.service.DeleteUser(ctx, userID))

	_, err := f.service.GetUserByID(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	sum, err := f.ledger.SumByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, sum, "ledger entries must not survive their owner")

	dealCount, err := f.deals.CountByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, dealCount)

	redemptionCount, err := f.userRewards.CountByUserIDAndStatus(ctx, userID, models.RedemptionStatusApproved)
	require.NoError(t, err)
	assert.Zero(t, redemptionCount)

	// The deleted account no longer feeds the leaderboard
	top, err := f.ledger.TopEarners(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, bystander, top[0].UserID)
}

func TestDeleteUserNotFound(t *testing.T) {
	f := newUserFixture()
	err := f.service.DeleteUser(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}
