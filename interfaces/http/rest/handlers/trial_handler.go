package handlers

import (
	"net/http"
	"strconv"

	"clinect-backend/application/ports"
	"clinect-backend/application/services"
	"clinect-backend/domain/trial"
	"clinect-backend/pkg/common"
	apperrors "clinect-backend/pkg/errors"
	"clinect-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TrialHandler handles trial search and lookup HTTP requests.
type TrialHandler struct {
	smartMatch      *services.SmartMatchService
	engine          *services.MatchEngine
	registry        ports.RegistryClient
	cache           ports.DocumentCache
	cacher          services.Cacher
	defaultPageSize int
	logger          *zap.Logger
}

// NewTrialHandler creates a new trial handler
func NewTrialHandler(
	smartMatch *services.SmartMatchService,
	engine *services.MatchEngine,
	registry ports.RegistryClient,
	cache ports.DocumentCache,
	cacher services.Cacher,
	defaultPageSize int,
	logger *zap.Logger,
) *TrialHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &TrialHandler{
		smartMatch:      smartMatch,
		engine:          engine,
		registry:        registry,
		cache:           cache,
		cacher:          cacher,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// Search handles GET /api/trials/search. It proxies the registry directly
// and writes every returned trial back through the cache, so plain searches
// also feed the graph.
func (h *TrialHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := ports.RegistrySearch{
		Condition: r.URL.Query().Get("condition"),
		Location:  r.URL.Query().Get("location"),
		Status:    r.URL.Query().Get("status"),
		PageSize:  h.defaultPageSize,
		PageToken: r.URL.Query().Get("pageToken"),
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			common.RespondAppError(w, apperrors.NewValidationError("pageSize must be a positive integer"))
			return
		}
		if size > trial.MaxLimit {
			size = trial.MaxLimit
		}
		q.PageSize = size
	}

	records, err := h.registry.Search(r.Context(), q)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	for _, rec := range records {
		if _, err := h.cacher.Put(r.Context(), rec); err != nil {
			h.logger.Warn("write-back failed for searched trial",
				zap.String("nctId", rec.NCTID),
				zap.Error(err),
			)
		}
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]any{
			"studies": records,
			"count":   len(records),
		},
	})
}

// SmartMatchRequest represents the request body for a smart match. Age,
// gender and maxDistance are accepted for interface compatibility but do not
// influence matching.
type SmartMatchRequest struct {
	Conditions  []string `json:"conditions" validate:"omitempty,max=20,dive,max=200"`
	Location    string   `json:"location" validate:"omitempty,max=200"`
	Status      string   `json:"status" validate:"omitempty,max=100"`
	Limit       int      `json:"limit" validate:"omitempty,min=1,max=100"`
	Age         int      `json:"age,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	MaxDistance int      `json:"maxDistance,omitempty"`
}

// SmartMatch handles POST /api/trials/smart-match
func (h *TrialHandler) SmartMatch(w http.ResponseWriter, r *http.Request) {
	var req SmartMatchRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	result, err := h.smartMatch.SmartMatch(r.Context(), trial.Criteria{
		Conditions: req.Conditions,
		Location:   req.Location,
		Status:     req.Status,
		Limit:      req.Limit,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data:    result,
	})
}

// GetTrial handles GET /api/trials/{nctID}. Detail reads go through the
// cache first; a miss falls back to the registry and the fetched trial is
// written back.
func (h *TrialHandler) GetTrial(w http.ResponseWriter, r *http.Request) {
	nctID := chi.URLParam(r, "nctID")
	if nctID == "" {
		common.RespondAppError(w, apperrors.NewValidationError("nctID is required"))
		return
	}

	rec, err := h.cache.Get(r.Context(), nctID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if rec == nil {
		rec, err = h.registry.GetStudy(r.Context(), nctID)
		if err != nil {
			common.RespondAppError(w, err)
			return
		}
		if _, err := h.cacher.Put(r.Context(), rec); err != nil {
			h.logger.Warn("write-back failed for trial detail",
				zap.String("nctId", nctID),
				zap.Error(err),
			)
		}
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data:    rec,
	})
}

// Related handles GET /api/trials/{nctID}/related
func (h *TrialHandler) Related(w http.ResponseWriter, r *http.Request) {
	nctID := chi.URLParam(r, "nctID")
	if nctID == "" {
		common.RespondAppError(w, apperrors.NewValidationError("nctID is required"))
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			common.RespondAppError(w, apperrors.NewValidationError("limit must be a positive integer"))
			return
		}
		if parsed > trial.MaxLimit {
			parsed = trial.MaxLimit
		}
		limit = parsed
	}

	related, err := h.engine.Related(r.Context(), nctID, limit)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]any{
			"nctId":   nctID,
			"related": related,
			"count":   len(related),
		},
	})
}
