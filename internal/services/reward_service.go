package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure RewardServiceImpl implements RewardService
var _ RewardService = (*RewardServiceImpl)(nil)

// RewardServiceImpl manages the reward catalog
type RewardServiceImpl struct {
	rewardRepo repositories.RewardRepository
}

// NewRewardService creates a new RewardService
func NewRewardService(rewardRepo repositories.RewardRepository) *RewardServiceImpl {
	return &RewardServiceImpl{rewardRepo: rewardRepo}
}

// CreateReward validates and inserts a new catalog entry
func (s *RewardServiceImpl) CreateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	if reward.Name == "" {
		return nil, fmt.Errorf("%w: reward name is required", ErrValidation)
	}
	if reward.PointsCost <= 0 {
		return nil, fmt.Errorf("%w: pointsCost must be positive", ErrValidation)
	}
	now := time.Now()
	reward.CreatedAt = now
	reward.UpdatedAt = now
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// GetRewardByID retrieves a reward by ID
func (s *RewardServiceImpl) GetRewardByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	reward, err := s.rewardRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("reward %s: %w", id.Hex(), ErrNotFound)
		}
		return nil, err
	}
	return reward, nil
}

// GetRewards lists catalog entries with pagination
func (s *RewardServiceImpl) GetRewards(ctx context.Context, activeOnly bool, page, limit int) ([]*models.Reward, error) {
	return s.rewardRepo.FindAll(ctx, activeOnly, page, limit)
}

// UpdateReward validates and replaces a catalog entry
func (s *RewardServiceImpl) UpdateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error) {
	if reward.PointsCost <= 0 {
		return nil, fmt.Errorf("%w: pointsCost must be positive", ErrValidation)
	}
	if _, err := s.GetRewardByID(ctx, reward.ID); err != nil {
		return nil, err
	}
	if err := s.rewardRepo.Update(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// DeleteReward removes a catalog entry
func (s *RewardServiceImpl) DeleteReward(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetRewardByID(ctx, id); err != nil {
		return err
	}
	return s.rewardRepo.Delete(ctx, id)
}
