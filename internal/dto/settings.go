package dto

// ── notification settings DTOs ──

// UpdateSettingsRequest partial update; nil fields keep their value.
// Costs are decimal strings.
type UpdateSettingsRequest struct {
	MaxDefects            *int    `json:"max_defects"`
	MaxDowntime           *int    `json:"max_downtime"`
	TelegramBotToken      *string `json:"telegram_bot_token"       binding:"omitempty,max=255"`
	TelegramChatID        *string `json:"telegram_chat_id"         binding:"omitempty,max=100"`
	CostPerDefect         *string `json:"cost_per_defect"`
	CostPerMinuteDowntime *string `json:"cost_per_minute_downtime"`
}

// SettingsResponse settings view
type SettingsResponse struct {
	MaxDefects            int    `json:"max_defects"`
	MaxDowntime           int    `json:"max_downtime"`
	TelegramBotToken      string `json:"telegram_bot_token"`
	TelegramChatID        string `json:"telegram_chat_id"`
	TelegramConfigured    bool   `json:"telegram_configured"`
	CostPerDefect         string `json:"cost_per_defect"`
	CostPerMinuteDowntime string `json:"cost_per_minute_downtime"`
	UpdatedAt             string `json:"updated_at"`
}

// TestAlertResponse result of a test alert
type TestAlertResponse struct {
	Sent bool `json:"sent"`
}
