package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/fantasy-squad/external/catalogfeed"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

// priceScale converts feed prices in currency-millions to tenths.
var priceScale = decimal.NewFromInt(10)

type FeedClient interface {
	FetchTeams(ctx context.Context, externalLeagueID string) ([]catalogfeed.TeamRecord, error)
	FetchPlayers(ctx context.Context, externalLeagueID string) ([]catalogfeed.PlayerRecord, error)
}

// Source adapts the feed to usecase.CatalogSource. Records that cannot be
// made strict are rejected instead of being defaulted.
type Source struct {
	client          FeedClient
	externalLeagues map[string]string
}

// NewSource maps internal league ids to feed league ids. Leagues without a
// mapping are requested with their internal id.
func NewSource(client FeedClient, externalLeagues map[string]string) *Source {
	mapped := make(map[string]string, len(externalLeagues))
	for leagueID, externalID := range externalLeagues {
		mapped[strings.TrimSpace(leagueID)] = strings.TrimSpace(externalID)
	}
	return &Source{client: client, externalLeagues: mapped}
}

func (s *Source) FetchTeams(ctx context.Context, leagueID string) (usecase.CatalogTeamBatch, error) {
	records, err := s.client.FetchTeams(ctx, s.externalID(leagueID))
	if err != nil {
		return usecase.CatalogTeamBatch{}, err
	}

	var batch usecase.CatalogTeamBatch
	for _, record := range records {
		item := team.Team{
			ID:       strings.TrimSpace(record.Key),
			LeagueID: leagueID,
			Name:     strings.TrimSpace(record.Name),
			Short:    strings.ToUpper(strings.TrimSpace(record.ShortCode)),
		}
		if err := item.Validate(); err != nil {
			batch.Rejected = append(batch.Rejected, rejectRecord("team", record.ID, err.Error()))
			continue
		}
		batch.Teams = append(batch.Teams, item)
	}
	return batch, nil
}

func (s *Source) FetchPlayers(ctx context.Context, leagueID string) (usecase.CatalogPlayerBatch, error) {
	records, err := s.client.FetchPlayers(ctx, s.externalID(leagueID))
	if err != nil {
		return usecase.CatalogPlayerBatch{}, err
	}

	var batch usecase.CatalogPlayerBatch
	for _, record := range records {
		item, err := NormalizePlayer(leagueID, record)
		if err != nil {
			batch.Rejected = append(batch.Rejected, rejectRecord("player", record.ID, err.Error()))
			continue
		}
		batch.Players = append(batch.Players, item)
	}
	return batch, nil
}

// NormalizePlayer turns a loose feed record into a catalog player. A missing
// price rejects the record; it is never read as zero.
func NormalizePlayer(leagueID string, record catalogfeed.PlayerRecord) (player.Player, error) {
	position, ok := player.ParsePosition(strings.TrimSpace(record.Position))
	if !ok {
		return player.Player{}, fmt.Errorf("unknown position %q", record.Position)
	}

	price, err := parseDecimal(record.Price)
	if err != nil {
		return player.Player{}, fmt.Errorf("price: %w", err)
	}
	tenths := price.Mul(priceScale)
	if !tenths.Equal(tenths.Truncate(0)) {
		return player.Player{}, fmt.Errorf("price %s is finer than 0.1", price)
	}

	name := strings.TrimSpace(record.DisplayName)
	if name == "" {
		name = strings.TrimSpace(record.Name)
	}

	item := player.Player{
		ID:           strings.TrimSpace(record.Key),
		LeagueID:     leagueID,
		TeamID:       strings.TrimSpace(record.TeamKey),
		Name:         name,
		Position:     position,
		Price:        tenths.IntPart(),
		ImageURL:     strings.TrimSpace(record.ImagePath),
		Form:         optionalFloat(record.Form),
		TotalPoints:  record.TotalPoints,
		OwnershipPct: optionalFloat(record.OwnershipPct),
		TransfersIn:  record.TransfersIn,
		TransfersOut: record.TransfersOut,
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, err
	}
	return item, nil
}

func (s *Source) externalID(leagueID string) string {
	if externalID, ok := s.externalLeagues[leagueID]; ok && externalID != "" {
		return externalID
	}
	return leagueID
}

func parseDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.Decimal{}, fmt.Errorf("value is null")
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return decimal.Decimal{}, fmt.Errorf("value is empty")
		}
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// optionalFloat reads informational stats; unparseable values become zero.
func optionalFloat(raw any) float64 {
	value, err := parseDecimal(raw)
	if err != nil {
		return 0
	}
	out, _ := value.Float64()
	return out
}

func rejectRecord(kind string, externalID int64, reason string) usecase.CatalogRejection {
	return usecase.CatalogRejection{
		Kind:       kind,
		ExternalID: strconv.FormatInt(externalID, 10),
		Reason:     reason,
	}
}
