package dto

import "shipyard-monitor/backend/internal/derivation"

// ── notification DTOs ──

// NotificationListResponse newest derived notifications with read state
type NotificationListResponse struct {
	Items               []derivation.Notification `json:"items"`
	UnreadCount         int                       `json:"unread_count"`
	PollIntervalSeconds int                       `json:"poll_interval_seconds"`
}

// MarkAllReadResponse how many notifications changed
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
