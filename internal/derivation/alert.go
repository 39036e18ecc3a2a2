package derivation

import (
	"fmt"
	"strings"

	"shipyard-monitor/backend/internal/model"
)

// ThresholdAlertText builds the outbound alert for a just-written record.
// It uses the same predicates as DeriveNotifications, so a record alerts exactly
// when it would show up in the notification list. ok is false when nothing exceeds.
func ThresholdAlertText(r model.ProductionRecord, settings model.NotificationSettings) (string, bool) {
	defects := ExceedsDefects(r, settings)
	downtime := ExceedsDowntime(r, settings)
	if !defects && !downtime {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString("⚠️ Attention! Threshold exceeded.\n")
	fmt.Fprintf(&sb, "Operator: %s\n", r.OperatorName)
	fmt.Fprintf(&sb, "Shift: %s\n", r.DateString())
	if defects {
		fmt.Fprintf(&sb, "❌ Defects: %d pcs (limit: %d)\n", r.DefectCount, settings.MaxDefects)
	}
	if downtime {
		fmt.Fprintf(&sb, "⏱️ Downtime: %d min (limit: %d)\n", r.DowntimeMinutes, settings.MaxDowntime)
	}
	if c := strings.TrimSpace(r.CommentText()); c != "" {
		fmt.Fprintf(&sb, "💬 Comment: %s", c)
	}
	return strings.TrimRight(sb.String(), "\n"), true
}
