package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ChatTurn{}, &SessionSummary{}, &RateWindow{})
}

func (r *Repo) InsertTurn(ctx context.Context, turn *ChatTurn) error {
	return r.db.WithContext(ctx).Create(turn).Error
}

func (r *Repo) GetTurn(ctx context.Context, id uint64) (*ChatTurn, error) {
	var t ChatTurn
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTurnNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListTurns returns turns in DESC id order (newest -> oldest). Empty
// sessionID lists across all sessions.
func (r *Repo) ListTurns(ctx context.Context, sessionID string, offset, limit int) ([]ChatTurn, error) {
	q := r.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit)
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}

	var turns []ChatTurn
	if err := q.Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

// ListTurnsAfter returns turns with id > afterID in ASC order, for batch
// table scans.
func (r *Repo) ListTurnsAfter(ctx context.Context, afterID uint64, limit int) ([]ChatTurn, error) {
	var turns []ChatTurn
	if err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&turns).Error; err != nil {
		return nil, err
	}
	return turns, nil
}

func (r *Repo) CountTurns(ctx context.Context, sessionID string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&ChatTurn{})
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repo) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ChatTurn{}).
		Distinct("session_id").
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// UpsertSummary bumps the per-session aggregates in a single statement so
// concurrent turns from one session cannot lose increments.
func (r *Repo) UpsertSummary(ctx context.Context, sessionID string, tokens int) error {
	now := time.Now().UTC()
	summary := SessionSummary{
		SessionID:    sessionID,
		MessageCount: 1,
		TotalTokens:  int64(tokens),
		UpdatedAt:    now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"message_count": gorm.Expr("message_count + 1"),
			"total_tokens":  gorm.Expr("total_tokens + ?", tokens),
			"updated_at":    now,
		}),
	}).Create(&summary).Error
}

// GetSummary returns the session's aggregates, or a zero summary when the
// session has no rows yet.
func (r *Repo) GetSummary(ctx context.Context, sessionID string) (*SessionSummary, error) {
	var s SessionSummary
	if err := r.db.WithContext(ctx).
		First(&s, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SessionSummary{SessionID: sessionID}, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) TopSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	var out []SessionSummary
	if err := r.db.WithContext(ctx).
		Order("message_count DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementRateWindow bumps the session's counter for the given window and
// returns the count after the increment. The upsert is a single statement;
// the follow-up read may observe concurrent increments, which only makes
// the limit stricter.
func (r *Repo) IncrementRateWindow(ctx context.Context, sessionID string, windowStart int64) (int, error) {
	w := RateWindow{SessionID: sessionID, WindowStart: windowStart, Count: 1}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "window_start"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(&w).Error; err != nil {
		return 0, err
	}

	var out RateWindow
	if err := r.db.WithContext(ctx).
		First(&out, "session_id = ? AND window_start = ?", sessionID, windowStart).Error; err != nil {
		return 0, err
	}
	return out.Count, nil
}

// PruneRateWindows drops counters whose window started before the cutoff.
func (r *Repo) PruneRateWindows(ctx context.Context, before int64) error {
	return r.db.WithContext(ctx).
		Where("window_start < ?", before).
		Delete(&RateWindow{}).Error
}

// DailyCounts groups turns by the date prefix of the stored timestamp,
// newest day first. substr works the same on sqlite and mysql.
func (r *Repo) DailyCounts(ctx context.Context, days int) ([]DailyCount, error) {
	if days <= 0 {
		days = 7
	}
	var out []DailyCount
	if err := r.db.WithContext(ctx).Model(&ChatTurn{}).
		Select("substr(timestamp, 1, 10) AS day, COUNT(*) AS message_count").
		Group("substr(timestamp, 1, 10)").
		Order("day DESC").
		Limit(days).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
