package models

import "time"

type SyncState string

const (
	SyncStateNever     SyncState = "never"
	SyncStatePending   SyncState = "pending"
	SyncStateRunning   SyncState = "running"
	SyncStateSucceeded SyncState = "succeeded"
	SyncStateFailed    SyncState = "failed"
)

// SyncStatus describes the last DingTalk directory sync.
type SyncStatus struct {
	Status       SyncState  `json:"status"`
	RequestedBy  string     `json:"requestedBy,omitempty"`
	RequestedAt  *time.Time `json:"requestedAt,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	Message      string     `json:"message,omitempty"`
}

func (s SyncStatus) InProgress() bool {
	return s.Status == SyncStatePending || s.Status == SyncStateRunning
}
