package handlers

import (
	"net/http"

	"clinect-backend/application/ports"
	"clinect-backend/pkg/auth"
	"clinect-backend/pkg/common"
	apperrors "clinect-backend/pkg/errors"
	"clinect-backend/pkg/utils"

	"go.uber.org/zap"
)

// MedicalHistoryHandler handles per-user medical-history HTTP requests. All
// routes require an authenticated session. The history is stored for later
// pre-filling of searches; matching itself never reads it.
type MedicalHistoryHandler struct {
	store  ports.MedicalHistoryStore
	logger *zap.Logger
}

// NewMedicalHistoryHandler creates a new medical history handler
func NewMedicalHistoryHandler(store ports.MedicalHistoryStore, logger *zap.Logger) *MedicalHistoryHandler {
	return &MedicalHistoryHandler{
		store:  store,
		logger: logger,
	}
}

// SaveMedicalHistoryRequest represents the request body for saving a
// medical history. The whole profile is replaced on each save.
type SaveMedicalHistoryRequest struct {
	Age         int      `json:"age" validate:"omitempty,min=0,max=150"`
	Gender      string   `json:"gender" validate:"omitempty,max=50"`
	Location    string   `json:"location" validate:"omitempty,max=200"`
	Conditions  []string `json:"conditions" validate:"omitempty,max=50,dive,max=200"`
	Medications []string `json:"medications" validate:"omitempty,max=50,dive,max=200"`
}

// Get handles GET /api/medical-history. A user without a saved history gets
// an empty profile, not an error.
func (h *MedicalHistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	history, err := h.store.Get(r.Context(), user.Username)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if history == nil {
		history = &ports.MedicalHistory{Username: user.Username}
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data:    history,
	})
}

// Save handles POST /api/medical-history
func (h *MedicalHistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, apperrors.NewUnauthorizedError("not logged in"))
		return
	}

	var req SaveMedicalHistoryRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	history, err := h.store.Save(r.Context(), &ports.MedicalHistory{
		Username:    user.Username,
		Age:         req.Age,
		Gender:      req.Gender,
		Location:    req.Location,
		Conditions:  req.Conditions,
		Medications: req.Medications,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, common.APIResponse{
		Success: true,
		Data:    history,
	})
}
