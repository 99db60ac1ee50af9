package service

import (
	"context"
	"errors"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

// ReviewInput is stored as provided; range validation is the caller's
// concern.
type ReviewInput struct {
	Rating        int
	Comment       string
	Communication *int
	Quality       *int
	Delivery      *int
	Value         *int
}

type ReviewService interface {
	// GetByMatch returns (nil, nil) when the caller has not reviewed the
	// match's item yet.
	GetByMatch(ctx context.Context, matchID, uid string) (*model.Review, error)
	Submit(ctx context.Context, matchID, uid string, in ReviewInput) (*model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	matchRepo  repository.MatchRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, matchRepo repository.MatchRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, matchRepo: matchRepo}
}

func (s *reviewService) participantMatch(ctx context.Context, matchID, uid string) (*model.Match, error) {
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !m.HasParticipant(uid) {
		return nil, ErrForbidden
	}
	return m, nil
}

func (s *reviewService) GetByMatch(ctx context.Context, matchID, uid string) (*model.Review, error) {
	m, err := s.participantMatch(ctx, matchID, uid)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.FindByItemAndUser(ctx, m.ItemID, uid)
}

func (s *reviewService) Submit(ctx context.Context, matchID, uid string, in ReviewInput) (*model.Review, error) {
	m, err := s.participantMatch(ctx, matchID, uid)
	if err != nil {
		return nil, err
	}
	rv := &model.Review{
		ItemID:        m.ItemID,
		UserUID:       uid,
		Rating:        in.Rating,
		Comment:       in.Comment,
		Communication: in.Communication,
		Quality:       in.Quality,
		Delivery:      in.Delivery,
		Value:         in.Value,
	}
	if err := s.reviewRepo.Upsert(ctx, rv); err != nil {
		return nil, err
	}
	// Re-read so resubmissions return the surviving row, not the
	// discarded insert candidate.
	stored, err := s.reviewRepo.FindByItemAndUser(ctx, m.ItemID, uid)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return rv, nil
	}
	return stored, nil
}
