package model

import "github.com/shopspring/decimal"

// NotificationSettings thresholds, alert credentials and loss rates, table notification_settings (single row).
type NotificationSettings struct {
	Singleton             bool            `gorm:"primaryKey;default:true"              json:"-"`
	MaxDefects            int             `gorm:"not null"                             json:"max_defects"`
	MaxDowntime           int             `gorm:"not null"                             json:"max_downtime"`
	TelegramBotToken      string          `gorm:"type:varchar(255);not null;default:''" json:"telegram_bot_token"`
	TelegramChatID        string          `gorm:"type:varchar(100);not null;default:''" json:"telegram_chat_id"`
	CostPerDefect         decimal.Decimal `gorm:"type:numeric(14,2);not null"          json:"cost_per_defect"`         // currency per defective unit
	CostPerMinuteDowntime decimal.Decimal `gorm:"type:numeric(14,2);not null"          json:"cost_per_minute_downtime"` // currency per minute
	UpdatedBy             *string         `gorm:"type:uuid"                            json:"updated_by,omitempty"`
	BaseModel
}

// TableName notification_settings
func (NotificationSettings) TableName() string { return "notification_settings" }
