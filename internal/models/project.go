package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxContractAmount is the largest value a NUMERIC(15,2) column holds.
const MaxContractAmount = 9999999999999.99

// CheckContractAmount rejects amounts that contract_amount cannot store exactly.
func CheckContractAmount(amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return errors.New("contractAmount must be a finite number")
	case amount < 0:
		return errors.New("contractAmount must not be negative")
	case amount > MaxContractAmount:
		return fmt.Errorf("contractAmount must not exceed %.2f", MaxContractAmount)
	}

	// Shortest round-trip form, so 12.34 stays "12.34" and 12.345 keeps its third decimal.
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > 2 {
		return errors.New("contractAmount must have at most 2 decimal places")
	}
	return nil
}

type ProjectStatus string

const (
	ProjectStatusPendingConfirmation ProjectStatus = "PendingConfirmation"
	ProjectStatusConfirmed           ProjectStatus = "Confirmed"
)

func (s ProjectStatus) Valid() bool {
	return s == ProjectStatusPendingConfirmation || s == ProjectStatusConfirmed
}

// Project is a contract-administration project.
//
// Status, IsPendingEntry and ArchivedAt are independent flags. A project can be
// confirmed, awaiting an amount correction and archived all at the same time;
// none of the lifecycle operations touches more than its own flag.
type Project struct {
	ID             uuid.UUID     `json:"id"`
	Name           string        `json:"name"`
	Status         ProjectStatus `json:"status"`
	IsPendingEntry bool          `json:"isPendingEntry"`
	ContractAmount float64       `json:"contractAmount"`
	FrameworkID    *uuid.UUID    `json:"frameworkId,omitempty"`
	ArchivedAt     *time.Time    `json:"archivedAt,omitempty"`
	ArchivedBy     *uuid.UUID    `json:"archivedBy,omitempty"`
	UnarchivedBy   *uuid.UUID    `json:"unarchivedBy,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (p *Project) Archived() bool {
	return p.ArchivedAt != nil
}

func (p *Project) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectStatusPendingConfirmation
	}
}

type ProjectFilter struct {
	Archived    *bool
	FrameworkID *uuid.UUID
}
