package handlers

import (
	"encoding/json"
	"net/http"

	"clinect-backend/application/ports"
	"clinect-backend/pkg/auth"
	"clinect-backend/pkg/common"
	apperrors "clinect-backend/pkg/errors"
	"clinect-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SavedTrialHandler handles per-user saved-trial HTTP requests. All routes
// require an authenticated session.
type SavedTrialHandler struct {
	store  ports.SavedTrialStore
	logger *zap.Logger
}

// NewSavedTrialHandler creates a new saved trial handler
func NewSavedTrialHandler(store ports.SavedTrialStore, logger *zap.Logger) *SavedTrialHandler {
	return &SavedTrialHandler{
		store:  store,
		logger: logger,
	}
}

// SaveTrialRequest represents the request body for saving a trial
type SaveTrialRequest struct {
	NCTID     string          `json:"nctId" validate:"required,max=50"`
	TrialData json.RawMessage `json:"trialData,omitempty"`
}

// List handles GET /api/saved-trials
func (h *SavedTrialHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	saved, err := h.store.List(r.Context(), user.Username)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]any{
			"savedTrials": saved,
			"count":       len(saved),
		},
	})
}

// Save handles POST /api/saved-trials
func (h *SavedTrialHandler) Save(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	var req SaveTrialRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	created, err := h.store.Save(r.Context(), user.Username, req.NCTID, req.TrialData)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	status := http.StatusCreated
	message := "trial saved"
	if !created {
		status = http.StatusOK
		message = "trial already saved"
	}

	common.RespondJSON(w, status, common.APIResponse{
		Success: true,
		Data: map[string]string{
			"nctId":   req.NCTID,
			"message": message,
		},
	})
}

// Delete handles DELETE /api/saved-trials/{nctID}
func (h *SavedTrialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	nctID := chi.URLParam(r, "nctID")
	if nctID == "" {
		common.RespondAppError(w, apperrors.NewValidationError("nctID is required"))
		return
	}

	if err := h.store.Delete(r.Context(), user.Username, nctID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data: map[string]string{
			"nctId":   nctID,
			"message": "trial removed",
		},
	})
}
