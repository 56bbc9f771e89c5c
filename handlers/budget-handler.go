package handlers

import (
	"net/http"

	"teamup-project/microservices/governance-service/services"

	"github.com/gorilla/mux"
)

type BudgetHandler struct {
	budget    *services.BudgetService
	hierarchy *services.HierarchyService
}

func NewBudgetHandler(budget *services.BudgetService, hierarchy *services.HierarchyService) *BudgetHandler {
	return &BudgetHandler{budget: budget, hierarchy: hierarchy}
}

type availableBudgetResponse struct {
	RemainingHours int `json:"remainingHours"`
}

func (h *BudgetHandler) ProjectAvailableBudget(w http.ResponseWriter, r *http.Request) {
	project, err := h.hierarchy.GetProjectByPublicID(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	remaining, err := h.budget.AvailableProjectBudget(r.Context(), project.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availableBudgetResponse{RemainingHours: remaining})
}

func (h *BudgetHandler) MilestoneAvailableBudget(w http.ResponseWriter, r *http.Request) {
	milestone, err := h.hierarchy.GetMilestoneByPublicID(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	remaining, err := h.budget.AvailableMilestoneBudget(r.Context(), milestone.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availableBudgetResponse{RemainingHours: remaining})
}

func (h *BudgetHandler) TaskAvailableBudget(w http.ResponseWriter, r *http.Request) {
	taskID, err := objectIDVar(mux.Vars(r), "taskId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	remaining, err := h.budget.AvailableTaskBudget(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availableBudgetResponse{RemainingHours: remaining})
}
