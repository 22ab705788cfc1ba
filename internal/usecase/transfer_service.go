package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

const defaultTransferSessionTTL = 30 * time.Minute

type TransferSessionInput struct {
	UserID   string
	LeagueID string
}

type TransferPlayerInput struct {
	UserID   string
	LeagueID string
	PlayerID string
}

// TransferSessionView is a snapshot of an open session with its cost preview.
type TransferSessionView struct {
	ID            string
	SquadID       string
	State         fantasy.TransferState
	PlannedOut    []string
	PlannedIn     []fantasy.SquadPick
	FreeTransfers int
	PointCost     int
	Remaining     int64
	OpenedAt      time.Time
	// Released lists incoming players dropped by the last un-mark.
	Released []string
}

type TransferCommitResult struct {
	Squad  fantasy.Squad
	Record fantasy.TransferRecord
}

type TransferServiceConfig struct {
	SessionTTL time.Duration
}

// transferSlot serialises every operation on one user's session.
type transferSlot struct {
	mu      sync.Mutex
	session *fantasy.TransferSession
}

type TransferService struct {
	leagueRepo   league.Repository
	playerRepo   player.Repository
	squadRepo    fantasy.Repository
	transferRepo fantasy.TransferRepository
	rules        fantasy.Rules
	sessionIDs   idgen.Generator
	recordIDs    idgen.Generator
	logger       *logging.Logger
	now          func() time.Time

	slotsMu sync.Mutex
	slots   *cache.Store[*transferSlot]
}

func NewTransferService(
	leagueRepo league.Repository,
	playerRepo player.Repository,
	squadRepo fantasy.Repository,
	transferRepo fantasy.TransferRepository,
	rules fantasy.Rules,
	sessionIDs idgen.Generator,
	recordIDs idgen.Generator,
	cfg TransferServiceConfig,
	logger *logging.Logger,
) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultTransferSessionTTL
	}

	s := &TransferService{
		leagueRepo:   leagueRepo,
		playerRepo:   playerRepo,
		squadRepo:    squadRepo,
		transferRepo: transferRepo,
		rules:        rules,
		sessionIDs:   sessionIDs,
		recordIDs:    recordIDs,
		logger:       logger.Named("transfer"),
		now:          time.Now,
	}
	s.slots = cache.NewStoreWithClock[*transferSlot](cfg.SessionTTL, func() time.Time { return s.now() })
	return s
}

// SweepExpiredSessions evicts sessions idle for longer than the session TTL
// and returns how many were dropped.
func (s *TransferService) SweepExpiredSessions(_ context.Context) int {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	return s.slots.Sweep()
}

// OpenSession starts a session against the stored squad. An open session is
// returned as is unless the squad has moved on since it was opened.
func (s *TransferService) OpenSession(ctx context.Context, input TransferSessionInput) (TransferSessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.OpenSession", attribute.String("league_id", input.LeagueID))
	defer span.End()

	input, err := normalizeTransferSessionInput(input)
	if err != nil {
		return TransferSessionView{}, err
	}
	if _, err := s.getLeague(ctx, input.LeagueID); err != nil {
		return TransferSessionView{}, err
	}

	squad, err := s.getSquad(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return TransferSessionView{}, err
	}
	if !fantasy.CompositionComplete(squad, s.rules) {
		return TransferSessionView{}, fmt.Errorf("%w: complete the squad before making transfers", ErrConflict)
	}

	key := sessionKey(input.UserID, input.LeagueID)
	slot := s.acquireSlot(ctx, key)
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.session != nil && slot.session.SquadID == squad.ID && slot.session.BaselineVersion == squad.Version {
		return s.view(slot.session, nil), nil
	}

	sessionID, err := s.sessionIDs.NewID()
	if err != nil {
		return TransferSessionView{}, fmt.Errorf("generate session id: %w", err)
	}
	slot.session = fantasy.OpenTransferSession(sessionID, squad, s.now().UTC())

	s.logger.InfoContext(ctx, "transfer session opened",
		"session_id", sessionID,
		"squad_id", squad.ID,
		"baseline_version", squad.Version,
		"free_transfers", squad.FreeTransfers,
	)
	return s.view(slot.session, nil), nil
}

func (s *TransferService) GetSession(ctx context.Context, input TransferSessionInput) (TransferSessionView, error) {
	var out TransferSessionView
	err := s.withSession(ctx, input, func(session *fantasy.TransferSession) error {
		out = s.view(session, nil)
		return nil
	})
	return out, err
}

func (s *TransferService) MarkOut(ctx context.Context, input TransferPlayerInput) (TransferSessionView, error) {
	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return TransferSessionView{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var out TransferSessionView
	err := s.withSession(ctx, TransferSessionInput{UserID: input.UserID, LeagueID: input.LeagueID}, func(session *fantasy.TransferSession) error {
		decision, released := session.MarkOut(playerID, s.rules)
		if !decision.Allowed {
			return rejection(decision)
		}
		if len(released) > 0 {
			s.logger.InfoContext(ctx, "incoming players released",
				"session_id", session.ID,
				"player_ids", released,
			)
		}
		out = s.view(session, released)
		return nil
	})
	return out, err
}

func (s *TransferService) MarkIn(ctx context.Context, input TransferPlayerInput) (TransferSessionView, error) {
	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return TransferSessionView{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var out TransferSessionView
	err := s.withSession(ctx, TransferSessionInput{UserID: input.UserID, LeagueID: input.LeagueID}, func(session *fantasy.TransferSession) error {
		pick, err := resolveCatalogPick(ctx, s.playerRepo, strings.TrimSpace(input.LeagueID), playerID)
		if err != nil {
			return err
		}
		if decision := session.MarkIn(pick, s.rules); !decision.Allowed {
			return rejection(decision)
		}
		out = s.view(session, nil)
		return nil
	})
	return out, err
}

func (s *TransferService) CancelIn(ctx context.Context, input TransferPlayerInput) (TransferSessionView, error) {
	playerID := strings.TrimSpace(input.PlayerID)
	if playerID == "" {
		return TransferSessionView{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var out TransferSessionView
	err := s.withSession(ctx, TransferSessionInput{UserID: input.UserID, LeagueID: input.LeagueID}, func(session *fantasy.TransferSession) error {
		session.CancelIn(playerID)
		out = s.view(session, nil)
		return nil
	})
	return out, err
}

// Commit applies the session to the stored squad. When the write fails the
// session is kept so the user can retry; when the squad changed underneath
// the session is dropped and a stale rejection returned.
func (s *TransferService) Commit(ctx context.Context, input TransferSessionInput) (TransferCommitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Commit", attribute.String("league_id", input.LeagueID))
	defer span.End()

	input, err := normalizeTransferSessionInput(input)
	if err != nil {
		return TransferCommitResult{}, err
	}
	leagueItem, err := s.getLeague(ctx, input.LeagueID)
	if err != nil {
		return TransferCommitResult{}, err
	}

	key := sessionKey(input.UserID, input.LeagueID)
	slot, ok := s.lookupSlot(ctx, key)
	if !ok {
		return TransferCommitResult{}, fmt.Errorf("%w: no open transfer session", ErrNotFound)
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.session == nil {
		return TransferCommitResult{}, fmt.Errorf("%w: no open transfer session", ErrNotFound)
	}

	sessionID := slot.session.ID

	current, err := s.getSquad(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return TransferCommitResult{}, err
	}

	speculative := slot.session.Clone()
	result, decision, err := speculative.Commit(current, s.rules)
	if err != nil {
		return TransferCommitResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if !decision.Allowed {
		if decision.Reason == fantasy.ReasonStaleSquad {
			s.dropSession(ctx, key, slot)
		}
		err := rejection(decision)
		recordSpanError(span, err)
		return TransferCommitResult{}, err
	}

	next := result.Squad
	next.Version = current.Version + 1
	next.UpdatedAt = s.now().UTC()
	if err := s.squadRepo.Upsert(ctx, next, current.Version); err != nil {
		if errors.Is(err, fantasy.ErrVersionConflict) {
			s.dropSession(ctx, key, slot)
			return TransferCommitResult{}, rejection(fantasy.Reject(fantasy.ReasonStaleSquad, "squad changed while committing session %s", sessionID))
		}
		s.logger.WarnContext(ctx, "transfer commit not persisted, session kept open",
			"session_id", sessionID,
			"squad_id", current.ID,
			"error", err,
		)
		recordSpanError(span, err)
		return TransferCommitResult{}, fmt.Errorf("upsert squad: %w", err)
	}

	record := fantasy.TransferRecord{
		SquadID:           next.ID,
		UserID:            next.UserID,
		LeagueID:          next.LeagueID,
		Gameweek:          leagueItem.CurrentGameweek,
		OutPlayerIDs:      result.Out,
		InPlayerIDs:       pickIDs(result.In),
		FreeTransfersUsed: result.FreeTransfersUsed,
		PointCost:         result.PointCost,
		CreatedAt:         next.UpdatedAt,
	}
	if record.ID, err = s.recordIDs.NewID(); err == nil {
		err = s.transferRepo.Append(ctx, record)
	}
	if err != nil {
		// The squad write is authoritative; the record is reconstructable from this log line.
		s.logger.ErrorContext(ctx, "transfer record not stored",
			"squad_id", record.SquadID,
			"gameweek", record.Gameweek,
			"out", record.OutPlayerIDs,
			"in", record.InPlayerIDs,
			"point_cost", record.PointCost,
			"error", err,
		)
	}

	s.dropSession(ctx, key, slot)
	s.logger.InfoContext(ctx, "transfer session committed",
		"session_id", sessionID,
		"squad_id", next.ID,
		"transfers", len(result.In),
		"free_transfers_used", result.FreeTransfersUsed,
		"point_cost", result.PointCost,
		"version", next.Version,
	)

	return TransferCommitResult{Squad: next, Record: record}, nil
}

func (s *TransferService) Discard(ctx context.Context, input TransferSessionInput) error {
	input, err := normalizeTransferSessionInput(input)
	if err != nil {
		return err
	}

	key := sessionKey(input.UserID, input.LeagueID)
	slot, ok := s.lookupSlot(ctx, key)
	if !ok {
		return nil
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.session != nil {
		slot.session.Discard()
	}
	s.dropSession(ctx, key, slot)
	return nil
}

// withSession runs fn under the session lock and refreshes the session TTL.
func (s *TransferService) withSession(ctx context.Context, input TransferSessionInput, fn func(*fantasy.TransferSession) error) error {
	input, err := normalizeTransferSessionInput(input)
	if err != nil {
		return err
	}

	key := sessionKey(input.UserID, input.LeagueID)
	slot, ok := s.lookupSlot(ctx, key)
	if !ok {
		return fmt.Errorf("%w: no open transfer session", ErrNotFound)
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.session == nil {
		return fmt.Errorf("%w: no open transfer session", ErrNotFound)
	}

	if err := fn(slot.session); err != nil {
		return err
	}
	s.refreshSlot(ctx, key, slot)
	return nil
}

func (s *TransferService) acquireSlot(ctx context.Context, key string) *transferSlot {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	slot, ok := s.slots.Get(ctx, key)
	if !ok {
		slot = &transferSlot{}
	}
	s.slots.Set(ctx, key, slot)
	return slot
}

func (s *TransferService) lookupSlot(ctx context.Context, key string) (*transferSlot, bool) {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	return s.slots.Get(ctx, key)
}

// refreshSlot extends the TTL of slot unless it expired or was replaced by a
// newer session in the meantime.
func (s *TransferService) refreshSlot(ctx context.Context, key string, slot *transferSlot) {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()
	if current, ok := s.slots.Get(ctx, key); ok && current == slot {
		s.slots.Set(ctx, key, slot)
	}
}

// dropSession must be called with slot.mu held.
func (s *TransferService) dropSession(ctx context.Context, key string, slot *transferSlot) {
	slot.session = nil

	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()
	if current, ok := s.slots.Get(ctx, key); ok && current == slot {
		s.slots.Delete(ctx, key)
	}
}

func (s *TransferService) view(session *fantasy.TransferSession, released []string) TransferSessionView {
	baseline := session.Baseline()
	return TransferSessionView{
		ID:            session.ID,
		SquadID:       session.SquadID,
		State:         session.State(),
		PlannedOut:    session.PlannedOut(),
		PlannedIn:     session.PlannedIn(),
		FreeTransfers: baseline.FreeTransfers,
		PointCost:     session.Cost(s.rules),
		Remaining:     session.Hypothetical().Remaining(),
		OpenedAt:      session.OpenedAt,
		Released:      released,
	}
}

func (s *TransferService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}

func (s *TransferService) getSquad(ctx context.Context, userID, leagueID string) (fantasy.Squad, error) {
	squad, exists, err := s.squadRepo.GetByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return fantasy.Squad{}, fmt.Errorf("%w: squad not found", ErrNotFound)
	}
	return squad, nil
}

func normalizeTransferSessionInput(input TransferSessionInput) (TransferSessionInput, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" || input.LeagueID == "" {
		return input, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}
	return input, nil
}

func sessionKey(userID, leagueID string) string {
	return "transfer:" + userID + ":" + leagueID
}

func pickIDs(picks []fantasy.SquadPick) []string {
	out := make([]string, 0, len(picks))
	for _, pick := range picks {
		out = append(out, pick.PlayerID)
	}
	return out
}
