package models

import (
	"time"

	"github.com/google/uuid"
)

// FrameworkAgreement is a piecework agreement that projects are billed under.
// Code is assigned by the store on insert and never changes afterwards.
type FrameworkAgreement struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"-"`
	Name        string     `json:"name"`
	ManagerID   uuid.UUID  `json:"managerId"`
	ManagerName string     `json:"managerName"`
	BizManager  *string    `json:"bizManager,omitempty"`
	Group       string     `json:"group"`
	ClientDept  *string    `json:"clientDept,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty"`
	UpdatedBy   *uuid.UUID `json:"updatedBy,omitempty"`
}

func (f *FrameworkAgreement) Prepare() {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
}
