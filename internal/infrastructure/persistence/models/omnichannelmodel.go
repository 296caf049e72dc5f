package models

import (
	"time"
)

// OmniChannelModel is the GORM model for omni_channels table
type OmniChannelModel struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	SID          string     `gorm:"column:sid;type:varchar(50);not null;uniqueIndex"`
	Source       string     `gorm:"column:source;type:varchar(20);not null;uniqueIndex:idx_source_page_id"`
	PageID       string     `gorm:"column:page_id;type:varchar(100);not null;uniqueIndex:idx_source_page_id"`
	Name         string     `gorm:"column:name;type:varchar(255)"`
	AccessToken  string     `gorm:"column:access_token;type:text"`
	RefreshToken string     `gorm:"column:refresh_token;type:text"`
	Enabled      bool       `gorm:"column:enabled;not null;default:true"`
	ExpiredDate  *time.Time `gorm:"column:expired_date"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (OmniChannelModel) TableName() string {
	return "omni_channels"
}
