package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCheckContractAmount(t *testing.T) {
	valid := []float64{0, 0.1, 0.01, 12.34, 15000, 1e9, MaxContractAmount}
	for _, amount := range valid {
		assert.NoError(t, CheckContractAmount(amount), "amount %v", amount)
	}

	invalid := []float64{-0.01, 12.345, 0.001, 1e14, MaxContractAmount + 0.01, math.NaN(), math.Inf(1)}
	for _, amount := range invalid {
		assert.Error(t, CheckContractAmount(amount), "amount %v", amount)
	}
}

func TestProject_PrepareDefaults(t *testing.T) {
	p := &Project{Name: "substation retrofit"}
	p.Prepare()

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, ProjectStatusPendingConfirmation, p.Status)
	assert.False(t, p.IsPendingEntry)
	assert.False(t, p.Archived())
}

func TestProject_FlagsAreIndependent(t *testing.T) {
	now := time.Now()
	p := &Project{
		Status:         ProjectStatusConfirmed,
		IsPendingEntry: true,
		ArchivedAt:     &now,
	}

	assert.True(t, p.Status.Valid())
	assert.True(t, p.IsPendingEntry)
	assert.True(t, p.Archived())
}

func TestProjectStatus_Valid(t *testing.T) {
	assert.True(t, ProjectStatusConfirmed.Valid())
	assert.True(t, ProjectStatusPendingConfirmation.Valid())
	assert.False(t, ProjectStatus("Archived").Valid())
}

func TestUser_PrepareAndDisplayName(t *testing.T) {
	u := &User{Email: "  Wang.Lei@Example.com "}
	u.Prepare()

	assert.Equal(t, "wang.lei@example.com", u.Email)
	assert.Equal(t, "wang.lei", u.DisplayName())

	u.Name = "王磊"
	assert.Equal(t, "王磊", u.DisplayName())
	assert.False(t, u.IsAdmin())
}

func TestSyncStatus_InProgress(t *testing.T) {
	assert.True(t, SyncStatus{Status: SyncStatePending}.InProgress())
	assert.True(t, SyncStatus{Status: SyncStateRunning}.InProgress())
	assert.False(t, SyncStatus{Status: SyncStateFailed}.InProgress())
	assert.False(t, SyncStatus{Status: SyncStateNever}.InProgress())
}
