package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// AnalysisSnapshot records the headline numbers of one analysis run per
// (client, channel), so consecutive uploads can be compared.
type AnalysisSnapshot struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	ReportID string `gorm:"type:text;index"`
	Client   string `gorm:"type:text;not null;index:idx_snapshot_client_channel"`
	Channel  string `gorm:"type:varchar(30);not null;index:idx_snapshot_client_channel"`

	TotalListings  int             `gorm:"not null"`
	TotalRevenue   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	TotalQuantity  int             `gorm:"not null"`
	ConcentrationA *float64
	AverageTicket  *decimal.Decimal `gorm:"type:numeric(20,2)"`

	LeakCount    int             `gorm:"not null"`
	LeakValue    decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	AnchorCount  int             `gorm:"not null"`
	AnchorValue  decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	AdsSharePct  *float64
	AdsRevenue   *decimal.Decimal `gorm:"type:numeric(20,2)"`
	OrganicValue *decimal.Decimal `gorm:"type:numeric(20,2)"`

	Extras datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (AnalysisSnapshot) TableName() string {
	return "analysis_snapshots"
}
