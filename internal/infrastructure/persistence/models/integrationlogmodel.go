package models

import (
	"time"

	"gorm.io/datatypes"
)

// IntegrationLogModel is the GORM model for integration_logs table
type IntegrationLogModel struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	SID     string `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	Level   string `gorm:"column:level;type:varchar(10);not null;index"`
	Message string `gorm:"column:message;type:varchar(500);not null"`
	Context string `gorm:"column:context;type:text"`
	UserID  *uint  `gorm:"column:user_id;index"`
	// Request and Response echo the provider payloads of the logged step.
	Request   datatypes.JSON `gorm:"column:request"`
	Response  datatypes.JSON `gorm:"column:response"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName returns the table name for GORM
func (IntegrationLogModel) TableName() string {
	return "integration_logs"
}
