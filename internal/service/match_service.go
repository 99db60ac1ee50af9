package service

import (
	"context"
	"errors"

	"github.com/coomunity/marketplace-backend/internal/model"
	"github.com/coomunity/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("forbidden")
var ErrInvalidRole = errors.New("invalid role")

type MatchService interface {
	Get(ctx context.Context, matchID, uid string) (*model.Match, error)
	Confirm(ctx context.Context, matchID, uid string, role model.MatchRole) (*model.Match, error)
	ListByUser(ctx context.Context, uid string) ([]model.Match, error)
	ListMessages(ctx context.Context, matchID, uid string) ([]model.MatchMessage, error)
	SendMessage(ctx context.Context, matchID, uid, body string) (*model.MatchMessage, error)
}

type matchService struct {
	matchRepo repository.MatchRepository
	notifier  NotificationService
}

func NewMatchService(matchRepo repository.MatchRepository, notifier NotificationService) MatchService {
	return &matchService{matchRepo: matchRepo, notifier: notifier}
}

// participantMatch loads the match and verifies uid is the buyer or the
// seller. Every match-scoped operation goes through here before any
// write; the lookup is repeated per call rather than cached.
func (s *matchService) participantMatch(ctx context.Context, matchID, uid string) (*model.Match, error) {
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

func (s *matchService) Get(ctx context.Context, matchID, uid string) (*model.Match, error) {
	return s.participantMatch(ctx, matchID, uid)
}

// Confirm records the caller's confirmation and finalizes the match once
// both sides have confirmed. The declared role is trusted after the
// participation check: a participant may confirm either side. Confirming
// twice is a no-op, and a redundant confirm retries finalization if an
// earlier call set both flags without reaching the status update.
func (s *matchService) Confirm(ctx context.Context, matchID, uid string, role model.MatchRole) (*model.Match, error) {
	if role != model.MatchRoleBuyer && role != model.MatchRoleSeller {
		return nil, ErrInvalidRole
	}
	if _, err := s.participantMatch(ctx, matchID, uid); err != nil {
		return nil, err
	}
	if err := s.matchRepo.SetConfirmed(ctx, matchID, role); err != nil {
		return nil, err
	}
	finalized, err := s.matchRepo.FinalizeIfConfirmed(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if finalized > 0 && s.notifier != nil {
		itemID := m.ItemID
		for _, participant := range []string{m.BuyerUID, m.SellerUID} {
			s.notifier.Notify(ctx, participant, "match_confirmed", "Match confirmed",
				"Both sides confirmed the match.", &itemID, &m.ID)
		}
	}
	return m, nil
}

func (s *matchService) ListByUser(ctx context.Context, uid string) ([]model.Match, error) {
	return s.matchRepo.ListByUser(ctx, uid)
}

func (s *matchService) ListMessages(ctx context.Context, matchID, uid string) ([]model.MatchMessage, error) {
	if _, err := s.participantMatch(ctx, matchID, uid); err != nil {
		return nil, err
	}
	return s.matchRepo.ListMessages(ctx, matchID)
}

func (s *matchService) SendMessage(ctx context.Context, matchID, uid, body string) (*model.MatchMessage, error) {
	m, err := s.participantMatch(ctx, matchID, uid)
	if err != nil {
		return nil, err
	}
	msg := &model.MatchMessage{
		MatchID:   matchID,
		SenderUID: uid,
		Body:      body,
	}
	if err := s.matchRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		recipient := m.BuyerUID
		if uid == m.BuyerUID {
			recipient = m.SellerUID
		}
		itemID := m.ItemID
		s.notifier.Notify(ctx, recipient, "match_message", "New message", body, &itemID, &m.ID)
	}
	return msg, nil
}
