package telegram

import (
	"fmt"
	"strings"

	"yutai_notification_bot/internal/app"
	"yutai_notification_bot/internal/domain/benefit"
	"yutai_notification_bot/internal/domain/notification"
)

// messageLimit stays under Telegram's 4096 character cap.
const messageLimit = 4000

var sortKeyLabels = map[app.SortKey]string{
	app.SortByExpiry: "期限",
	app.SortByAmount: "金額",
	app.SortByName:   "名称",
}

var sortOrderLabels = map[app.SortOrder]string{
	app.SortAsc:  "昇順",
	app.SortDesc: "降順",
}

func formatBenefitLine(b *benefit.Benefit) string {
	line := fmt.Sprintf("ID: %d | %s | %s | 期限: %s", b.ID, b.Name, notification.AmountLabel(b), b.ExpiryDate)
	if b.Memo.Valid && b.Memo.String != "" {
		line += " | メモ: " + b.Memo.String
	}
	return line
}

// formatBenefitList renders the list as one or more messages.
func formatBenefitList(benefits []*benefit.Benefit, key app.SortKey, order app.SortOrder) []string {
	lines := make([]string, 0, len(benefits)+1)
	lines = append(lines, fmt.Sprintf("--- 株主優待一覧 (%s %s, %d件) ---", sortKeyLabels[key], sortOrderLabels[order], len(benefits)))
	for _, b := range benefits {
		lines = append(lines, formatBenefitLine(b))
	}
	return chunkLines(lines, messageLimit)
}

// chunkLines joins lines with newlines into messages no longer than limit bytes.
// A single line longer than limit gets a message of its own.
func chunkLines(lines []string, limit int) []string {
	var chunks []string
	var current strings.Builder
	for _, line := range lines {
		if current.Len() > 0 && current.Len()+1+len(line) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// formatReport renders a notifier run for the operator as one or more messages.
func formatReport(report *app.Report) []string {
	lines := make([]string, 0, 1+len(report.Sent)+len(report.FailedSends)+len(report.Malformed))
	lines = append(lines, report.Summary())
	for _, r := range report.Sent {
		lines = append(lines, fmt.Sprintf("✅ %s (%s, %s)", r.Name, r.ExpiryDate, horizonLabel(r.Horizon)))
	}
	for _, f := range report.FailedSends {
		lines = append(lines, fmt.Sprintf("❌ %s (%s): %v", f.Reminder.Name, f.Reminder.ExpiryDate, f.Err))
	}
	for _, m := range report.Malformed {
		lines = append(lines, fmt.Sprintf("⚠️ ID %d %s: 期限の形式が不正です (%q)", m.BenefitID, m.Name, m.ExpiryDate))
	}
	return chunkLines(lines, messageLimit)
}

func horizonLabel(h notification.Horizon) string {
	switch h {
	case notification.HorizonOneMonth:
		return "1ヶ月前"
	case notification.HorizonTenDays:
		return "10日前"
	default:
		return string(h)
	}
}
