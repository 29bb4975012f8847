package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Report is one parsed upload. The fact table is cached as JSON keyed by the
// upload's content hash so re-renders with different filters never re-parse.
type Report struct {
	ID          string `gorm:"primaryKey;type:text"`
	ContentHash string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Channel     string `gorm:"type:varchar(30);not null;index"`
	Filename    string `gorm:"type:text;not null"`
	Client      string `gorm:"type:text;index"`

	ReferenceDate *time.Time      `gorm:"type:timestamptz"`
	ProductCount  int             `gorm:"not null"`
	TotalRevenue  decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	TotalQuantity int             `gorm:"not null"`

	FactsJSON      datatypes.JSON `gorm:"type:jsonb;not null"`
	EnrichmentJSON datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt      time.Time `gorm:"type:timestamptz;autoCreateTime"`
	LastAccessedAt time.Time `gorm:"type:timestamptz;not null;index"`
}

func (Report) TableName() string {
	return "reports"
}
