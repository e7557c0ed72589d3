package chat

import "time"

// ChatTurn is one user-message/bot-response exchange. Rows are write-once:
// inserted by the turn service, never updated, never deleted.
type ChatTurn struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID      string `gorm:"type:varchar(26);not null;index" json:"session_id"`
	UserMessage    string `gorm:"type:text;not null" json:"user_message"`
	BotResponse    string `gorm:"type:text;not null" json:"bot_response"`
	Timestamp      string `gorm:"type:varchar(32);not null;index" json:"timestamp"`
	MessageHash    string `gorm:"type:char(64);not null" json:"message_hash"`
	ResponseTimeMs int    `gorm:"not null;default:0" json:"response_time_ms"`
	TokensUsed     int    `gorm:"not null;default:0" json:"tokens_used"`
}

func (ChatTurn) TableName() string { return "chat_history" }

// SessionSummary caches per-session aggregates. Not authoritative: it can
// always be rebuilt by scanning chat_history.
type SessionSummary struct {
	SessionID    string    `gorm:"primaryKey;type:varchar(26)" json:"session_id"`
	MessageCount int64     `gorm:"not null;default:0" json:"message_count"`
	TotalTokens  int64     `gorm:"not null;default:0" json:"total_tokens"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SessionSummary) TableName() string { return "session_summaries" }

// RateWindow is the fixed-window submission counter for one session.
// Keeping it in the store avoids process-global mutable state.
type RateWindow struct {
	SessionID   string `gorm:"primaryKey;type:varchar(26);autoIncrement:false"`
	WindowStart int64  `gorm:"primaryKey;autoIncrement:false"`
	Count       int    `gorm:"not null;default:0"`
}

func (RateWindow) TableName() string { return "session_rate_windows" }

// Receipt is handed back after a successful submission.
type Receipt struct {
	TurnID         uint64 `json:"turn_id"`
	SessionID      string `json:"session_id"`
	UserMessage    string `json:"user_message"`
	BotResponse    string `json:"bot_response"`
	Timestamp      string `json:"timestamp"`
	MessageHash    string `json:"message_hash"`
	ResponseTimeMs int    `json:"response_time_ms"`
	TokensUsed     int    `json:"tokens_used"`
	Provider       string `json:"provider"`
}

// Verification reports a digest re-check for one stored turn. A mismatch
// is a result, not an error.
type Verification struct {
	TurnID           uint64 `json:"turn_id"`
	Verified         bool   `json:"verified"`
	StoredHash       string `json:"stored_hash"`
	RecalculatedHash string `json:"recalculated_hash"`
}

// TurnPage is one page of history, newest first, plus pagination totals.
type TurnPage struct {
	Turns      []ChatTurn `json:"turns"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalTurns int64      `json:"total_turns"`
	TotalPages int64      `json:"total_pages"`
}

// TurnEvent is published to the queue after each persisted turn.
type TurnEvent struct {
	TurnID      uint64 `json:"turn_id"`
	SessionID   string `json:"session_id"`
	MessageHash string `json:"message_hash"`
	Provider    string `json:"provider"`
	Timestamp   string `json:"timestamp"`
}

// DailyCount is one day of submission volume for the dashboard chart.
type DailyCount struct {
	Day          string `gorm:"column:day" json:"day"`
	MessageCount int64  `gorm:"column:message_count" json:"message_count"`
}

// DashboardStats is the aggregate view served to operators.
type DashboardStats struct {
	TotalTurns    int64            `json:"total_turns"`
	TotalSessions int64            `json:"total_sessions"`
	RecentTurns   []ChatTurn       `json:"recent_turns"`
	DailyCounts   []DailyCount     `json:"daily_counts"`
	TopSessions   []SessionSummary `json:"top_sessions"`
}
