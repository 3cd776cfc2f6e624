package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"doc-check.backend/pkg/utils"
)

type Purchase struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Code           string     `gorm:"type:varchar(16);uniqueIndex;not null"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Term           string     `gorm:"type:varchar(20);not null"`
	Status         string     `gorm:"type:varchar(20);not null;index"`
	ProcessingStep int        `gorm:"not null;default:0"`
	Amount         string     `gorm:"type:varchar(20);not null"`
	BuyerName      string     `gorm:"type:varchar(150)"`
	AsaasPaymentID *string    `gorm:"type:varchar(64);index"`
	PaidAt         *time.Time `gorm:"type:timestamp"`
	SearchResultID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	User User `gorm:"foreignKey:UserID"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// BeforeCreate assigns a time-ordered id so purchase listings stay roughly
// insert-ordered even under index scans.
func (p *Purchase) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = utils.GenerateUUIDv7()
	}
	return nil
}
