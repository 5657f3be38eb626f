package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"projectops/internal/models"
)

const (
	blacklistPrefix = "blacklist:"
	syncStatusKey   = "sync:dingtalk"

	maxClaimAttempts = 3
)

type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := r.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	return exists == 1, err
}

// Blacklist revokes a token ID until ttl elapses. A non-positive ttl means the
// token has already expired and nothing needs to be stored.
func (r *RedisRepository) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, blacklistPrefix+jti, "true", ttl).Err()
}

func (r *RedisRepository) GetSyncStatus(ctx context.Context) (models.SyncStatus, error) {
	values, err := r.rdb.HGetAll(ctx, syncStatusKey).Result()
	if err != nil {
		return models.SyncStatus{}, err
	}
	return decodeSyncStatus(values), nil
}

// ClaimSync marks a sync as pending unless one is already pending or running.
// It returns the status after the call and whether this caller claimed it.
func (r *RedisRepository) ClaimSync(ctx context.Context, requestedBy string, at time.Time) (models.SyncStatus, bool, error) {
	var (
		status  models.SyncStatus
		claimed bool
	)

	claim := func(tx *redis.Tx) error {
		values, err := tx.HGetAll(ctx, syncStatusKey).Result()
		if err != nil {
			return err
		}

		status = decodeSyncStatus(values)
		if status.InProgress() {
			claimed = false
			return nil
		}

		requestedAt := at.UTC()
		status.Status = models.SyncStatePending
		status.RequestedBy = requestedBy
		status.RequestedAt = &requestedAt
		status.Message = ""

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, syncStatusKey, encodeSyncStatus(status))
			pipe.HDel(ctx, syncStatusKey, "message")
			return nil
		})
		claimed = err == nil
		return err
	}

	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		err := r.rdb.Watch(ctx, claim, syncStatusKey)
		if err == nil {
			return status, claimed, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return models.SyncStatus{}, false, err
		}
	}
	return models.SyncStatus{}, false, fmt.Errorf("sync status changed concurrently %d times", maxClaimAttempts)
}

// SetSyncResult records the outcome reported by the sync worker.
func (r *RedisRepository) SetSyncResult(ctx context.Context, state models.SyncState, message string, at time.Time) error {
	fields := map[string]any{
		"status":  string(state),
		"message": message,
	}
	if state == models.SyncStateSucceeded {
		fields["last_synced_at"] = at.UTC().Format(time.RFC3339Nano)
	}
	return r.rdb.HSet(ctx, syncStatusKey, fields).Err()
}

func encodeSyncStatus(s models.SyncStatus) map[string]any {
	fields := map[string]any{
		"status":       string(s.Status),
		"requested_by": s.RequestedBy,
	}
	if s.RequestedAt != nil {
		fields["requested_at"] = s.RequestedAt.Format(time.RFC3339Nano)
	}
	if s.LastSyncedAt != nil {
		fields["last_synced_at"] = s.LastSyncedAt.Format(time.RFC3339Nano)
	}
	if s.Message != "" {
		fields["message"] = s.Message
	}
	return fields
}

func decodeSyncStatus(values map[string]string) models.SyncStatus {
	status := models.SyncStatus{Status: models.SyncStateNever}
	if len(values) == 0 {
		return status
	}

	if v := values["status"]; v != "" {
		status.Status = models.SyncState(v)
	}
	status.RequestedBy = values["requested_by"]
	status.Message = values["message"]
	status.RequestedAt = parseTime(values["requested_at"])
	status.LastSyncedAt = parseTime(values["last_synced_at"])
	return status
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil
	}
	return &t
}
