package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/surajkumar989/NeuralSync/internal/ai"
	"github.com/surajkumar989/NeuralSync/internal/integrity"
)

// maxMessageChars bounds submissions; measured in runes, not bytes.
const maxMessageChars = 2000

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Resolver produces the bot side of a turn. Satisfied by *ai.Resolver;
// it never fails, so submissions only depend on input and storage.
type Resolver interface {
	Resolve(ctx context.Context, message string) ai.Resolution
}

// TurnPublisher ships TurnEvents to interested consumers. Best-effort:
// publish failures are logged and never fail the turn.
type TurnPublisher interface {
	PublishTurn(ctx context.Context, ev TurnEvent) error
}

// RateLimit is the per-session fixed-window budget.
type RateLimit struct {
	PerWindow int
	Window    time.Duration
}

type Service struct {
	repo      *Repo
	resolver  Resolver
	clock     Clock
	limit     RateLimit
	publisher TurnPublisher // nil = disabled
}

func NewService(repo *Repo, resolver Resolver, clock Clock, limit RateLimit, publisher TurnPublisher) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	if limit.PerWindow <= 0 {
		limit.PerWindow = 20
	}
	if limit.Window <= 0 {
		limit.Window = time.Minute
	}
	return &Service{repo: repo, resolver: resolver, clock: clock, limit: limit, publisher: publisher}
}

// SubmitTurn validates the message, resolves a bot response, computes the
// digest over (message, response, timestamp) and persists the turn. The
// caller gets a receipt or exactly one rejection reason.
func (s *Service) SubmitTurn(ctx context.Context, sessionID, rawMessage string) (*Receipt, error) {
	message := strings.TrimSpace(rawMessage)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(message); n > maxMessageChars {
		return nil, fmt.Errorf("%w: %d chars, max %d", ErrMessageTooLong, n, maxMessageChars)
	}

	if err := s.checkRateLimit(ctx, sessionID); err != nil {
		return nil, err
	}

	res := s.resolver.Resolve(ctx, message)

	// timestamp is taken at persistence time, not request start
	timestamp := s.clock.Now().Format(TimestampLayout)
	hash := integrity.Digest(message, res.Text, timestamp)

	turn := &ChatTurn{
		SessionID:      sessionID,
		UserMessage:    message,
		BotResponse:    res.Text,
		Timestamp:      timestamp,
		MessageHash:    hash,
		ResponseTimeMs: res.ResponseTimeMs,
		TokensUsed:     res.TokensUsed,
	}
	if err := s.repo.InsertTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	// best-effort bookkeeping; never blocks the receipt
	if err := s.repo.UpsertSummary(ctx, sessionID, res.TokensUsed); err != nil {
		log.Printf("chat: summary upsert failed session=%s err=%v", sessionID, err)
	}
	if s.publisher != nil {
		ev := TurnEvent{
			TurnID:      turn.ID,
			SessionID:   sessionID,
			MessageHash: hash,
			Provider:    res.Provider,
			Timestamp:   timestamp,
		}
		if err := s.publisher.PublishTurn(ctx, ev); err != nil {
			log.Printf("chat: turn event publish failed turn=%d err=%v", turn.ID, err)
		}
	}

	return &Receipt{
		TurnID:         turn.ID,
		SessionID:      sessionID,
		UserMessage:    message,
		BotResponse:    res.Text,
		Timestamp:      timestamp,
		MessageHash:    hash,
		ResponseTimeMs: res.ResponseTimeMs,
		TokensUsed:     res.TokensUsed,
		Provider:       res.Provider,
	}, nil
}

func (s *Service) checkRateLimit(ctx context.Context, sessionID string) error {
	windowSecs := int64(s.limit.Window / time.Second)
	now := s.clock.Now().Unix()
	windowStart := now - now%windowSecs

	count, err := s.repo.IncrementRateWindow(ctx, sessionID, windowStart)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if count > s.limit.PerWindow {
		return ErrRateLimited
	}

	// first hit of a fresh window cleans up the session's stale counters
	if count == 1 {
		if err := s.repo.PruneRateWindows(ctx, windowStart-2*windowSecs); err != nil {
			log.Printf("chat: rate window prune failed err=%v", err)
		}
	}
	return nil
}

// VerifyTurn recomputes the digest of a stored turn and compares it with
// both the stored hash and the caller's claim. Verified is true only on
// three-way agreement; any mismatch is reported, never raised.
func (s *Service) VerifyTurn(ctx context.Context, id uint64, claimedHash string) (*Verification, error) {
	turn, err := s.repo.GetTurn(ctx, id)
	if err != nil {
		return nil, err
	}

	recalculated := integrity.Digest(turn.UserMessage, turn.BotResponse, turn.Timestamp)
	claimed := strings.TrimSpace(claimedHash)

	return &Verification{
		TurnID:           turn.ID,
		Verified:         recalculated == turn.MessageHash && recalculated == claimed,
		StoredHash:       turn.MessageHash,
		RecalculatedHash: recalculated,
	}, nil
}

// ListTurns pages through history, newest first. page is 1-based.
func (s *Service) ListTurns(ctx context.Context, sessionID string, page, pageSize int) (*TurnPage, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, err := s.repo.CountTurns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	turns, err := s.repo.ListTurns(ctx, sessionID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return &TurnPage{
		Turns:      turns,
		Page:       page,
		PageSize:   pageSize,
		TotalTurns: total,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

func (s *Service) SessionStats(ctx context.Context, sessionID string) (*SessionSummary, error) {
	summary, err := s.repo.GetSummary(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return summary, nil
}

func (s *Service) TopSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = 10
	}
	out, err := s.repo.TopSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	return out, nil
}

func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	total, err := s.repo.CountTurns(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	sessions, err := s.repo.CountSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	recent, err := s.repo.ListTurns(ctx, "", 0, 5)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	daily, err := s.repo.DailyCounts(ctx, 7)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	top, err := s.repo.TopSessions(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return &DashboardStats{
		TotalTurns:    total,
		TotalSessions: sessions,
		RecentTurns:   recent,
		DailyCounts:   daily,
		TopSessions:   top,
	}, nil
}

// AuditTurns rescans the whole table in id order and returns the ids whose
// stored digest no longer reproduces from the row's own fields.
func (s *Service) AuditTurns(ctx context.Context, batch int) (scanned int64, mismatched []uint64, err error) {
	if batch <= 0 {
		batch = 500
	}
	var afterID uint64
	for {
		turns, err := s.repo.ListTurnsAfter(ctx, afterID, batch)
		if err != nil {
			return scanned, mismatched, fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
		if len(turns) == 0 {
			return scanned, mismatched, nil
		}
		for _, turn := range turns {
			scanned++
			if integrity.Digest(turn.UserMessage, turn.BotResponse, turn.Timestamp) != turn.MessageHash {
				mismatched = append(mismatched, turn.ID)
			}
			afterID = turn.ID
		}
	}
}
