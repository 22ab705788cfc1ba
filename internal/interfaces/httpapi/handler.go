package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-squad/internal/domain/user"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// HandlerDeps groups the services exposed over HTTP. Gameweek and catalog
// sync are optional; their job routes answer 503 when they are nil.
type HandlerDeps struct {
	LeagueService      *usecase.LeagueService
	PlayerService      *usecase.PlayerService
	SquadService       *usecase.SquadService
	TransferService    *usecase.TransferService
	GameweekService    *usecase.GameweekService
	CatalogSyncService *usecase.CatalogSyncService
	Logger             *logging.Logger
}

type Handler struct {
	leagueService      *usecase.LeagueService
	playerService      *usecase.PlayerService
	squadService       *usecase.SquadService
	transferService    *usecase.TransferService
	gameweekService    *usecase.GameweekService
	catalogSyncService *usecase.CatalogSyncService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:      deps.LeagueService,
		playerService:      deps.PlayerService,
		squadService:       deps.SquadService,
		transferService:    deps.TransferService,
		gameweekService:    deps.GameweekService,
		catalogSyncService: deps.CatalogSyncService,
		logger:             logger.Named("http"),
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate rejects unknown fields as invalid input.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigStd.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

func (h *Handler) requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}
	return principal, true
}

// queryLeagueID reads the mandatory league_id query parameter.
func (h *Handler) queryLeagueID(ctx context.Context, r *http.Request) (string, error) {
	leagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	if err := h.validateRequest(ctx, leagueQuery{LeagueID: leagueID}); err != nil {
		return "", err
	}
	return leagueID, nil
}

type leagueQuery struct {
	LeagueID string `validate:"required"`
}
