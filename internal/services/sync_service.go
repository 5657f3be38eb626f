package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"projectops/internal/models"
)

// SyncService tracks DingTalk directory syncs. The pull itself runs in an
// external worker that picks up pending requests and reports back.
type SyncService struct {
	store SyncStatusStore
	now   func() time.Time
}

func NewSyncService(store SyncStatusStore) *SyncService {
	return &SyncService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type SyncResultRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

func (s *SyncService) Status(ctx context.Context) (models.SyncStatus, error) {
	status, err := s.store.GetSyncStatus(ctx)
	if err != nil {
		return models.SyncStatus{}, storeRead(err)
	}
	return status, nil
}

// RequestSync queues a sync. Only one sync can be pending or running at a time.
func (s *SyncService) RequestSync(ctx context.Context, actingUserID string) (models.SyncStatus, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return models.SyncStatus{}, err
	}

	status, claimed, err := s.store.ClaimSync(ctx, user.String(), s.now())
	if err != nil {
		return models.SyncStatus{}, storeWrite(err)
	}
	if !claimed {
		return status, fmt.Errorf("%w: a sync is already %s", ErrInvalidState, status.Status)
	}

	log.Info().Str("user_id", user.String()).Msg("dingtalk sync requested")
	return status, nil
}

// ReportResult records what the worker did with the last request.
func (s *SyncService) ReportResult(ctx context.Context, req SyncResultRequest) (models.SyncStatus, error) {
	state := models.SyncState(strings.ToLower(strings.TrimSpace(req.Status)))
	switch state {
	case models.SyncStateRunning, models.SyncStateSucceeded, models.SyncStateFailed:
	default:
		return models.SyncStatus{}, fmt.Errorf("%w: unknown sync status %q", ErrValidation, req.Status)
	}

	if err := s.store.SetSyncResult(ctx, state, req.Message, s.now()); err != nil {
		return models.SyncStatus{}, storeWrite(err)
	}

	log.Info().Str("status", string(state)).Str("message", req.Message).Msg("dingtalk sync status reported")
	return s.Status(ctx)
}
