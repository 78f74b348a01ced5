package services

import (
	"context"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. They mirror the Mongo implementations' contract:
// missing documents surface as mongo.ErrNoDocuments and the conditional
// transitions only match documents still in the expected status.

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindAll(_ context.Context, _, _ int) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) FindByStatus(_ context.Context, status models.UserStatus, _, _ int) ([]*models.User, error) {
	var out []*models.User
	for _, user := range r.users {
		if user.Status == status {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindIDsByCountry(_ context.Context, country string) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for id, user := range r.users {
		if user.Country == country {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) addActive(name string) primitive.ObjectID {
	id := primitive.NewObjectID()
	r.users[id] = &models.User{
		ID:        id,
		FirstName: name,
		Email:     name + "@example.com",
		Role:      models.RoleUser,
		Status:    models.UserStatusActive,
	}
	return id
}

// --- deals ---

type fakeDealRepo struct {
	deals map[primitive.ObjectID]*models.Deal
}

func newFakeDealRepo() *fakeDealRepo {
	return &fakeDealRepo{deals: map[primitive.ObjectID]*models.Deal{}}
}

func (r *fakeDealRepo) Create(_ context.Context, deal *models.Deal) error {
	if deal.ID.IsZero() {
		deal.ID = primitive.NewObjectID()
	}
	copied := *deal
	r.deals[deal.ID] = &copied
	return nil
}

func (r *fakeDealRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Deal, error) {
	deal, ok := r.deals[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *deal
	return &copied, nil
}

func (r *fakeDealRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, deal := range r.deals {
		if deal.UserID == userID {
			out = append(out, deal)
		}
	}
	return out, nil
}

func (r *fakeDealRepo) FindByStatus(_ context.Context, status models.DealStatus, _, _ int) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, deal := range r.deals {
		if deal.Status == status {
			out = append(out, deal)
		}
	}
	return out, nil
}

func (r *fakeDealRepo) FindApproved(_ context.Context) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, deal := range r.deals {
		if deal.Status == models.DealStatusApproved {
			copied := *deal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeDealRepo) FindNonApprovedWithPoints(_ context.Context) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, deal := range r.deals {
		if deal.Status != models.DealStatusApproved && deal.PointsEarned != 0 {
			copied := *deal
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeDealRepo) FindApprovedByDateRange(_ context.Context, start, end time.Time) ([]*models.Deal, error) {
	var out []*models.Deal
	for _, deal := range r.deals {
		if deal.Status != models.DealStatusApproved {
			continue
		}
		if !deal.CloseDate.Before(start) && deal.CloseDate.Before(end) {
			out = append(out, deal)
		}
	}
	return out, nil
}

func (r *fakeDealRepo) ApproveIfPending(_ context.Context, id primitive.ObjectID, points int, approvedBy string, approvedAt time.Time) (*models.Deal, error) {
	deal, ok := r.deals[id]
	if !ok || deal.Status != models.DealStatusPending {
		return nil, mongo.ErrNoDocuments
	}
	deal.Status = models.DealStatusApproved
	deal.PointsEarned = points
	deal.ApprovedBy = approvedBy
	deal.ApprovedAt = approvedAt
	deal.UpdatedAt = approvedAt
	copied := *deal
	return &copied, nil
}

func (r *fakeDealRepo) RejectIfPending(_ context.Context, id primitive.ObjectID, rejectedBy string) (*models.Deal, error) {
	deal, ok := r.deals[id]
	if !ok || deal.Status != models.DealStatusPending {
		return nil, mongo.ErrNoDocuments
	}
	deal.Status = models.DealStatusRejected
	deal.ApprovedBy = rejectedBy
	deal.UpdatedAt = time.Now()
	copied := *deal
	return &copied, nil
}

func (r *fakeDealRepo) UpdatePoints(_ context.Context, id primitive.ObjectID, points int) error {
	deal, ok := r.deals[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	deal.PointsEarned = points
	return nil
}

func (r *fakeDealRepo) CountByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var n int64
	for _, deal := range r.deals {
		if deal.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDealRepo) CountByUserIDAndStatus(_ context.Context, userID primitive.ObjectID, status models.DealStatus) (int64, error) {
	var n int64
	for _, deal := range r.deals {
		if deal.UserID == userID && deal.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeDealRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, deal := range r.deals {
		if deal.UserID == userID {
			delete(r.deals, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- points ledger ---

type fakeLedger struct {
	entries   []*models.PointsHistory
	createErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{}
}

func (r *fakeLedger) Create(_ context.Context, entry *models.PointsHistory) error {
	if r.createErr != nil {
		return r.createErr
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeLedger) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.PointsHistory, error) {
	var out []*models.PointsHistory
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeLedger) FindByDealID(_ context.Context, dealID primitive.ObjectID) ([]*models.PointsHistory, error) {
	var out []*models.PointsHistory
	for _, entry := range r.entries {
		if entry.DealID != nil && *entry.DealID == dealID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeLedger) DeleteByDealID(_ context.Context, dealID primitive.ObjectID) (int64, error) {
	var kept []*models.PointsHistory
	var deleted int64
	for _, entry := range r.entries {
		if entry.DealID != nil && *entry.DealID == dealID {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return deleted, nil
}

func (r *fakeLedger) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var kept []*models.PointsHistory
	var deleted int64
	for _, entry := range r.entries {
		if entry.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	r.entries = kept
	return deleted, nil
}

func (r *fakeLedger) SumByUserID(_ context.Context, userID primitive.ObjectID) (int, error) {
	sum := 0
	for _, entry := range r.entries {
		if entry.UserID == userID {
			sum += entry.Points
		}
	}
	return sum, nil
}

func (r *fakeLedger) SumEarnedByUserID(_ context.Context, userID primitive.ObjectID) (int, error) {
	sum := 0
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.Points > 0 {
			sum += entry.Points
		}
	}
	return sum, nil
}

func (r *fakeLedger) SumEarnedByUserBetween(_ context.Context, start, end time.Time) (map[primitive.ObjectID]int, error) {
	totals := map[primitive.ObjectID]int{}
	for _, entry := range r.entries {
		if entry.Points <= 0 {
			continue
		}
		if entry.CreatedAt.Before(start) || !entry.CreatedAt.Before(end) {
			continue
		}
		totals[entry.UserID] += entry.Points
	}
	return totals, nil
}

func (r *fakeLedger) TopEarners(_ context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	totals := map[primitive.ObjectID]int{}
	for _, entry := range r.entries {
		if entry.Points > 0 {
			totals[entry.UserID] += entry.Points
		}
	}
	var out []*models.LeaderboardEntry
	for userID, total := range totals {
		out = append(out, &models.LeaderboardEntry{UserID: userID, TotalPoints: total})
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].TotalPoints > out[i].TotalPoints {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- rewards ---

type fakeRewardRepo struct {
	rewards map[primitive.ObjectID]*models.Reward
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{rewards: map[primitive.ObjectID]*models.Reward{}}
}

func (r *fakeRewardRepo) Create(_ context.Context, reward *models.Reward) error {
	if reward.ID.IsZero() {
		reward.ID = primitive.NewObjectID()
	}
	copied := *reward
	r.rewards[reward.ID] = &copied
	return nil
}

func (r *fakeRewardRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Reward, error) {
	reward, ok := r.rewards[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *reward
	return &copied, nil
}

func (r *fakeRewardRepo) FindAll(_ context.Context, activeOnly bool, _, _ int) ([]*models.Reward, error) {
	var out []*models.Reward
	for _, reward := range r.rewards {
		if activeOnly && !reward.IsActive {
			continue
		}
		out = append(out, reward)
	}
	return out, nil
}

func (r *fakeRewardRepo) Update(_ context.Context, reward *models.Reward) error {
	if _, ok := r.rewards[reward.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	copied := *reward
	r.rewards[reward.ID] = &copied
	return nil
}

func (r *fakeRewardRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.rewards[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.rewards, id)
	return nil
}

func (r *fakeRewardRepo) add(name string, cost int, active bool) primitive.ObjectID {
	id := primitive.NewObjectID()
	r.rewards[id] = &models.Reward{ID: id, Name: name, PointsCost: cost, IsActive: active}
	return id
}

// --- redemptions ---

type fakeUserRewardRepo struct {
	userRewards map[primitive.ObjectID]*models.UserReward
}

func newFakeUserRewardRepo() *fakeUserRewardRepo {
	return &fakeUserRewardRepo{userRewards: map[primitive.ObjectID]*models.UserReward{}}
}

func (r *fakeUserRewardRepo) Create(_ context.Context, userReward *models.UserReward) error {
	if userReward.ID.IsZero() {
		userReward.ID = primitive.NewObjectID()
	}
	copied := *userReward
	r.userRewards[userReward.ID] = &copied
	return nil
}

func (r *fakeUserRewardRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.UserReward, error) {
	userReward, ok := r.userRewards[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *userReward
	return &copied, nil
}

func (r *fakeUserRewardRepo) FindPendingByUserAndReward(_ context.Context, userID, rewardID primitive.ObjectID) (*models.UserReward, error) {
	for _, userReward := range r.userRewards {
		if userReward.UserID == userID && userReward.RewardID == rewardID && userReward.Status == models.RedemptionStatusPending {
			copied := *userReward
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRewardRepo) FindByUserID(_ context.Context, userID primitive.ObjectID, _, _ int) ([]*models.UserReward, error) {
	var out []*models.UserReward
	for _, userReward := range r.userRewards {
		if userReward.UserID == userID {
			out = append(out, userReward)
		}
	}
	return out, nil
}

func (r *fakeUserRewardRepo) FindByStatus(_ context.Context, status models.RedemptionStatus, _, _ int) ([]*models.UserReward, error) {
	var out []*models.UserReward
	for _, userReward := range r.userRewards {
		if userReward.Status == status {
			out = append(out, userReward)
		}
	}
	return out, nil
}

func (r *fakeUserRewardRepo) ApproveIfPending(_ context.Context, id primitive.ObjectID, approvedBy string, approvedAt time.Time) (*models.UserReward, error) {
	userReward, ok := r.userRewards[id]
	if !ok || userReward.Status != models.RedemptionStatusPending {
		return nil, mongo.ErrNoDocuments
	}
	userReward.Status = models.RedemptionStatusApproved
	userReward.ShipmentStatus = models.ShipmentStatusPending
	userReward.ApprovedBy = approvedBy
	userReward.ApprovedAt = approvedAt
	userReward.UpdatedAt = approvedAt
	copied := *userReward
	return &copied, nil
}

func (r *fakeUserRewardRepo) RejectIfPending(_ context.Context, id primitive.ObjectID, rejectedBy, reason string) (*models.UserReward, error) {
	userReward, ok := r.userRewards[id]
	if !ok || userReward.Status != models.RedemptionStatusPending {
		return nil, mongo.ErrNoDocuments
	}
	userReward.Status = models.RedemptionStatusRejected
	userReward.ApprovedBy = rejectedBy
	userReward.RejectionReason = reason
	userReward.UpdatedAt = time.Now()
	copied := *userReward
	return &copied, nil
}

func (r *fakeUserRewardRepo) UpdateShipment(_ context.Context, id primitive.ObjectID, from, status models.ShipmentStatus, at time.Time) (*models.UserReward, error) {
	userReward, ok := r.userRewards[id]
	if !ok || userReward.Status != models.RedemptionStatusApproved || userReward.ShipmentStatus != from {
		return nil, mongo.ErrNoDocuments
	}
	userReward.ShipmentStatus = status
	switch status {
	case models.ShipmentStatusShipped:
		userReward.ShippedAt = at
	case models.ShipmentStatusDelivered:
		userReward.DeliveredAt = at
	}
	userReward.UpdatedAt = at
	copied := *userReward
	return &copied, nil
}

func (r *fakeUserRewardRepo) CountByUserIDAndStatus(_ context.Context, userID primitive.ObjectID, status models.RedemptionStatus) (int64, error) {
	var n int64
	for _, userReward := range r.userRewards {
		if userReward.UserID == userID && userReward.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRewardRepo) DeleteByUserID(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, userReward := range r.userRewards {
		if userReward.UserID == userID {
			delete(r.userRewards, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- rate config ---

type fakeRateRepo struct {
	config *models.RateConfig
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{}
}

func (r *fakeRateRepo) Get(_ context.Context) (*models.RateConfig, error) {
	if r.config == nil {
		r.config = models.DefaultRateConfig()
		r.config.ID = primitive.NewObjectID()
	}
	copied := *r.config
	return &copied, nil
}

func (r *fakeRateRepo) Update(_ context.Context, config *models.RateConfig) error {
	copied := *config
	r.config = &copied
	return nil
}

// --- draws ---

type fakeDrawRepo struct {
	draws map[string]*models.Draw
}

func newFakeDrawRepo() *fakeDrawRepo {
	return &fakeDrawRepo{draws: map[string]*models.Draw{}}
}

func (r *fakeDrawRepo) Create(_ context.Context, draw *models.Draw) error {
	if draw.ID.IsZero() {
		draw.ID = primitive.NewObjectID()
	}
	copied := *draw
	r.draws[draw.Month] = &copied
	return nil
}

func (r *fakeDrawRepo) FindByMonth(_ context.Context, month string) (*models.Draw, error) {
	draw, ok := r.draws[month]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *draw
	return &copied, nil
}

func (r *fakeDrawRepo) FindAll(_ context.Context, _, _ int) ([]*models.Draw, error) {
	var out []*models.Draw
	for _, draw := range r.draws {
		out = append(out, draw)
	}
	return out, nil
}

// Compile-time checks that the fakes satisfy the repository contracts
var (
	_ repositories.Transactor              = fakeTransactor{}
	_ repositories.UserRepository          = (*fakeUserRepo)(nil)
	_ repositories.DealRepository          = (*fakeDealRepo)(nil)
	_ repositories.PointsHistoryRepository = (*fakeLedger)(nil)
	_ repositories.RewardRepository        = (*fakeRewardRepo)(nil)
	_ repositories.UserRewardRepository    = (*fakeUserRewardRepo)(nil)
	_ repositories.RateConfigRepository    = (*fakeRateRepo)(nil)
	_ repositories.DrawRepository          = (*fakeDrawRepo)(nil)
)
