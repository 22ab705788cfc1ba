package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

const defaultSquadName = "My Squad"

// UpsertSquadInput is the incoming payload for a bulk create/update of a squad.
type UpsertSquadInput struct {
	UserID        string
	LeagueID      string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
}

// SquadPlayerInput addresses one player in the caller's squad.
type SquadPlayerInput struct {
	UserID   string
	LeagueID string
	PlayerID string
	// SquadName is used only when the first add creates the squad.
	SquadName string
}

type SquadStatus struct {
	Squad  fantasy.Squad
	Status fantasy.Status
}

type SquadService struct {
	leagueRepo league.Repository
	playerRepo player.Repository
	squadRepo  fantasy.Repository
	rules      fantasy.Rules
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewSquadService(
	leagueRepo league.Repository,
	playerRepo player.Repository,
	squadRepo fantasy.Repository,
	rules fantasy.Rules,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SquadService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
		squadRepo:  squadRepo,
		rules:      rules,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// UpsertSquad saves a complete squad in one request. Once a league is past
// pre-season a complete squad can only change players through transfers.
func (s *SquadService) UpsertSquad(ctx context.Context, input UpsertSquadInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.UpsertSquad", attribute.String("league_id", input.LeagueID))
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Name = strings.TrimSpace(input.Name)
	input.CaptainID = strings.TrimSpace(input.CaptainID)
	input.ViceCaptainID = strings.TrimSpace(input.ViceCaptainID)

	if input.UserID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: squad name is required", ErrInvalidInput)
	}
	if len(input.PlayerIDs) == 0 {
		return fantasy.Squad{}, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}

	leagueItem, err := s.getLeague(ctx, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, err
	}

	playerIDs, err := cleanPlayerIDs(input.PlayerIDs)
	if err != nil {
		return fantasy.Squad{}, err
	}

	picks, err := s.resolvePicks(ctx, input.LeagueID, playerIDs)
	if err != nil {
		return fantasy.Squad{}, err
	}
	if err := fantasy.ValidatePicks(picks, s.rules); err != nil {
		return fantasy.Squad{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, exists, err := s.squadRepo.GetByUserAndLeague(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get existing squad: %w", err)
	}

	squad := existing
	if !exists {
		squad, err = s.newSquad(input.UserID, input.LeagueID, input.Name)
		if err != nil {
			return fantasy.Squad{}, err
		}
	} else if !samePlayers(existing, playerIDs) {
		if err := s.ensureMembershipEditable(leagueItem, existing); err != nil {
			return fantasy.Squad{}, err
		}
	}

	squad.Name = input.Name
	squad.Picks = picks
	if !squad.Has(squad.CaptainID) {
		squad.CaptainID = ""
	}
	if !squad.Has(squad.ViceCaptainID) {
		squad.ViceCaptainID = ""
	}

	var decision fantasy.Decision
	if input.CaptainID != "" {
		if squad, decision = fantasy.SetCaptain(squad, input.CaptainID); !decision.Allowed {
			return fantasy.Squad{}, rejection(decision)
		}
	}
	if input.ViceCaptainID != "" {
		if input.ViceCaptainID == input.CaptainID {
			return fantasy.Squad{}, fmt.Errorf("%w: captain and vice-captain must be different players", ErrInvalidInput)
		}
		if squad, decision = fantasy.SetViceCaptain(squad, input.ViceCaptainID); !decision.Allowed {
			return fantasy.Squad{}, rejection(decision)
		}
	}

	saved, err := s.save(ctx, squad)
	if err != nil {
		recordSpanError(span, err)
		return fantasy.Squad{}, err
	}

	s.logger.InfoContext(ctx, "squad upserted",
		"user_id", input.UserID,
		"league_id", input.LeagueID,
		"squad_id", saved.ID,
		"player_count", len(saved.Picks),
		"spent", saved.Spent(),
		"version", saved.Version,
	)

	return saved, nil
}

func (s *SquadService) GetUserSquad(ctx context.Context, userID, leagueID string) (fantasy.Squad, error) {
	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" || leagueID == "" {
		return fantasy.Squad{}, fmt.Errorf("%w: user_id and league_id are required", ErrInvalidInput)
	}

	squad, exists, err := s.squadRepo.GetByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return fantasy.Squad{}, fmt.Errorf("%w: squad not found", ErrNotFound)
	}

	return squad, nil
}

func (s *SquadService) GetSquadStatus(ctx context.Context, userID, leagueID string) (SquadStatus, error) {
	squad, err := s.GetUserSquad(ctx, userID, leagueID)
	if err != nil {
		return SquadStatus{}, err
	}

	return SquadStatus{
		Squad:  squad,
		Status: fantasy.Evaluate(squad, s.rules),
	}, nil
}

// PreviewAddPlayer answers whether the player could be added right now
// without changing anything. A user without a squad is checked against an
// empty one.
func (s *SquadService) PreviewAddPlayer(ctx context.Context, input SquadPlayerInput) (fantasy.Decision, error) {
	input, err := normalizeSquadPlayerInput(input)
	if err != nil {
		return fantasy.Decision{}, err
	}
	if _, err := s.getLeague(ctx, input.LeagueID); err != nil {
		return fantasy.Decision{}, err
	}

	pick, err := s.resolvePick(ctx, input.LeagueID, input.PlayerID)
	if err != nil {
		return fantasy.Decision{}, err
	}

	squad, exists, err := s.squadRepo.GetByUserAndLeague(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return fantasy.Decision{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		squad = fantasy.NewSquad("", input.UserID, input.LeagueID, defaultSquadName, s.rules)
	}

	return fantasy.CanAdd(squad, pick, s.rules), nil
}

// AddPlayerToSquad validates and applies one addition, creating the squad on
// the first add.
func (s *SquadService) AddPlayerToSquad(ctx context.Context, input SquadPlayerInput) (fantasy.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.AddPlayerToSquad", attribute.String("player_id", input.PlayerID))
	defer span.End()

	input, err := normalizeSquadPlayerInput(input)
	if err != nil {
		return fantasy.Squad{}, err
	}
	leagueItem, err := s.getLeague(ctx, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, err
	}

	pick, err := s.resolvePick(ctx, input.LeagueID, input.PlayerID)
	if err != nil {
		return fantasy.Squad{}, err
	}

	squad, exists, err := s.squadRepo.GetByUserAndLeague(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		name := input.SquadName
		if name == "" {
			name = defaultSquadName
		}
		if squad, err = s.newSquad(input.UserID, input.LeagueID, name); err != nil {
			return fantasy.Squad{}, err
		}
	} else if err := s.ensureMembershipEditable(leagueItem, squad); err != nil {
		return fantasy.Squad{}, err
	}

	next, decision := fantasy.Add(squad, pick, s.rules)
	if !decision.Allowed {
		err := rejection(decision)
		recordSpanError(span, err)
		return fantasy.Squad{}, err
	}

	saved, err := s.save(ctx, next)
	if err != nil {
		recordSpanError(span, err)
		return fantasy.Squad{}, err
	}

	s.logger.InfoContext(ctx, "player added to squad",
		"squad_id", saved.ID,
		"player_id", pick.PlayerID,
		"spent", saved.Spent(),
	)
	return saved, nil
}

// RemovePlayerFromSquad is idempotent: removing a non-member returns the
// stored squad unchanged without writing.
func (s *SquadService) RemovePlayerFromSquad(ctx context.Context, input SquadPlayerInput) (fantasy.Squad, error) {
	input, err := normalizeSquadPlayerInput(input)
	if err != nil {
		return fantasy.Squad{}, err
	}
	leagueItem, err := s.getLeague(ctx, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, err
	}

	squad, err := s.GetUserSquad(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, err
	}
	if !squad.Has(input.PlayerID) {
		return squad, nil
	}
	if err := s.ensureMembershipEditable(leagueItem, squad); err != nil {
		return fantasy.Squad{}, err
	}

	saved, err := s.save(ctx, fantasy.Remove(squad, input.PlayerID))
	if err != nil {
		return fantasy.Squad{}, err
	}

	s.logger.InfoContext(ctx, "player removed from squad",
		"squad_id", saved.ID,
		"player_id", input.PlayerID,
		"spent", saved.Spent(),
	)
	return saved, nil
}

func (s *SquadService) SetCaptain(ctx context.Context, input SquadPlayerInput) (fantasy.Squad, error) {
	return s.assignRole(ctx, input, "captain", fantasy.SetCaptain)
}

func (s *SquadService) SetViceCaptain(ctx context.Context, input SquadPlayerInput) (fantasy.Squad, error) {
	return s.assignRole(ctx, input, "vice_captain", fantasy.SetViceCaptain)
}

func (s *SquadService) assignRole(
	ctx context.Context,
	input SquadPlayerInput,
	role string,
	assign func(fantasy.Squad, string) (fantasy.Squad, fantasy.Decision),
) (fantasy.Squad, error) {
	input, err := normalizeSquadPlayerInput(input)
	if err != nil {
		return fantasy.Squad{}, err
	}
	if _, err := s.getLeague(ctx, input.LeagueID); err != nil {
		return fantasy.Squad{}, err
	}

	squad, err := s.GetUserSquad(ctx, input.UserID, input.LeagueID)
	if err != nil {
		return fantasy.Squad{}, err
	}

	next, decision := assign(squad, input.PlayerID)
	if !decision.Allowed {
		return fantasy.Squad{}, rejection(decision)
	}
	if next.CaptainID == squad.CaptainID && next.ViceCaptainID == squad.ViceCaptainID {
		return squad, nil
	}

	saved, err := s.save(ctx, next)
	if err != nil {
		return fantasy.Squad{}, err
	}

	s.logger.InfoContext(ctx, "squad role assigned",
		"squad_id", saved.ID,
		"role", role,
		"captain_id", saved.CaptainID,
		"vice_captain_id", saved.ViceCaptainID,
	)
	return saved, nil
}

// save bumps the version and writes with the version that was read.
func (s *SquadService) save(ctx context.Context, squad fantasy.Squad) (fantasy.Squad, error) {
	expected := squad.Version
	now := s.now().UTC()
	squad.Version = expected + 1
	squad.UpdatedAt = now
	if squad.CreatedAt.IsZero() {
		squad.CreatedAt = now
	}

	if err := squad.ValidateBasic(); err != nil {
		return fantasy.Squad{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := fantasy.ValidatePicksPartial(squad.Picks, s.rules); err != nil {
		return fantasy.Squad{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.squadRepo.Upsert(ctx, squad, expected); err != nil {
		if errors.Is(err, fantasy.ErrVersionConflict) {
			s.logger.WarnContext(ctx, "squad changed concurrently", "squad_id", squad.ID, "error", err)
			return fantasy.Squad{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return fantasy.Squad{}, fmt.Errorf("upsert squad: %w", err)
	}

	return squad, nil
}

func (s *SquadService) newSquad(userID, leagueID, name string) (fantasy.Squad, error) {
	squadID, err := s.idGen.NewID()
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("generate squad id: %w", err)
	}
	return fantasy.NewSquad(squadID, userID, leagueID, name, s.rules), nil
}

// ensureMembershipEditable allows direct membership edits during pre-season
// and while the squad has never been completed. Afterwards players change
// only through transfer sessions.
func (s *SquadService) ensureMembershipEditable(leagueItem league.League, squad fantasy.Squad) error {
	if leagueItem.CurrentGameweek == 0 {
		return nil
	}
	if !fantasy.CompositionComplete(squad, s.rules) {
		return nil
	}
	return fmt.Errorf("%w: squad is locked for gameweek %d, use a transfer session", ErrConflict, leagueItem.CurrentGameweek)
}

func (s *SquadService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

func (s *SquadService) resolvePick(ctx context.Context, leagueID, playerID string) (fantasy.SquadPick, error) {
	return resolveCatalogPick(ctx, s.playerRepo, leagueID, playerID)
}

func (s *SquadService) resolvePicks(ctx context.Context, leagueID string, playerIDs []string) ([]fantasy.SquadPick, error) {
	players, err := s.playerRepo.GetByIDs(ctx, leagueID, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	pickByPlayerID := make(map[string]fantasy.SquadPick, len(players))
	for _, p := range players {
		pickByPlayerID[p.ID] = fantasy.PickFromPlayer(p)
	}

	picks := make([]fantasy.SquadPick, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		pick, ok := pickByPlayerID[playerID]
		if !ok {
			return nil, fmt.Errorf("%w: player=%s not found in league=%s", ErrInvalidInput, playerID, leagueID)
		}
		picks = append(picks, pick)
	}

	return picks, nil
}

// resolveCatalogPick looks up one catalog player. An unknown id is a caller
// bug, not a constraint rejection.
func resolveCatalogPick(ctx context.Context, repo player.Repository, leagueID, playerID string) (fantasy.SquadPick, error) {
	item, exists, err := repo.GetByID(ctx, leagueID, playerID)
	if err != nil {
		return fantasy.SquadPick{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return fantasy.SquadPick{}, fmt.Errorf("%w: player=%s not found in league=%s", ErrInvalidInput, playerID, leagueID)
	}
	return fantasy.PickFromPlayer(item), nil
}

func normalizeSquadPlayerInput(input SquadPlayerInput) (SquadPlayerInput, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.SquadName = strings.TrimSpace(input.SquadName)

	if input.UserID == "" {
		return input, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return input, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.PlayerID == "" {
		return input, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	return input, nil
}

func samePlayers(squad fantasy.Squad, playerIDs []string) bool {
	if len(squad.Picks) != len(playerIDs) {
		return false
	}
	current := squad.PlayerIDs()
	slices.Sort(current)
	incoming := slices.Clone(playerIDs)
	slices.Sort(incoming)
	return slices.Equal(current, incoming)
}

func cleanPlayerIDs(playerIDs []string) ([]string, error) {
	cleaned := make([]string, 0, len(playerIDs))
	seen := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: duplicate player id %s", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}

	return cleaned, nil
}
