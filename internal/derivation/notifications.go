package derivation

import (
	"fmt"
	"sort"
	"time"

	"shipyard-monitor/backend/internal/model"
)

// Notification severities
const (
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeError   = "error"
)

// DefaultNotificationLimit how many notifications a list shows.
const DefaultNotificationLimit = 50

// Notification is derived from one record and one threshold; it is never stored.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	RecordID  string    `json:"record_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Comment   string    `json:"comment,omitempty"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"` // the record's created_at
	Read      bool      `json:"read"`
}

// NotificationID is reproducible from the kind and the record id.
func NotificationID(kind, recordID string) string {
	return kind + "-" + recordID
}

// DeriveNotifications emits, for every record in input order, a defect notification
// when defects exceed the limit and then a downtime notification when downtime does.
func DeriveNotifications(records []model.ProductionRecord, settings model.NotificationSettings) ([]Notification, error) {
	if err := ValidateThresholds(settings); err != nil {
		return nil, err
	}

	out := make([]Notification, 0)
	for _, r := range records {
		if ExceedsDefects(r, settings) {
			out = append(out, Notification{
				ID:        NotificationID(model.NotificationKindDefect, r.ID),
				Kind:      model.NotificationKindDefect,
				RecordID:  r.ID,
				Title:     "Defect threshold exceeded",
				Message:   fmt.Sprintf("Shift %s: %d pcs (limit: %d)", r.DateString(), r.DefectCount, settings.MaxDefects),
				Comment:   r.CommentText(),
				Type:      TypeError,
				Timestamp: r.CreatedAt,
			})
		}
		if ExceedsDowntime(r, settings) {
			out = append(out, Notification{
				ID:        NotificationID(model.NotificationKindDowntime, r.ID),
				Kind:      model.NotificationKindDowntime,
				RecordID:  r.ID,
				Title:     "Critical downtime",
				Message:   fmt.Sprintf("Shift %s: %d min (limit: %d)", r.DateString(), r.DowntimeMinutes, settings.MaxDowntime),
				Comment:   r.CommentText(),
				Type:      TypeWarning,
				Timestamp: r.CreatedAt,
			})
		}
	}
	return out, nil
}

// LatestNotifications sorts newest first and keeps at most limit entries.
// It never trusts the caller's ordering. limit <= 0 keeps everything.
func LatestNotifications(notifications []Notification, limit int) []Notification {
	sorted := make([]Notification, len(notifications))
	copy(sorted, notifications)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// MergeNotificationStates overlays persisted read/dismissed flags.
// Dismissed notifications are dropped, read ones are flagged.
func MergeNotificationStates(notifications []Notification, states map[string]model.NotificationState) []Notification {
	out := make([]Notification, 0, len(notifications))
	for _, n := range notifications {
		st, ok := states[n.ID]
		if ok && st.Dismissed {
			continue
		}
		n.Read = ok && st.Read
		out = append(out, n)
	}
	return out
}

// CountUnread counts notifications not yet read.
func CountUnread(notifications []Notification) int {
	n := 0
	for _, item := range notifications {
		if !item.Read {
			n++
		}
	}
	return n
}
