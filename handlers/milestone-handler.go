package handlers

import (
	"encoding/json"
	"net/http"

	"teamup-project/microservices/governance-service/services"
	"teamup-project/microservices/governance-service/utils"

	"github.com/gorilla/mux"
)

type MilestoneHandler struct {
	projects    *services.ProjectService
	invitations *services.InvitationService
}

func NewMilestoneHandler(projects *services.ProjectService, invitations *services.InvitationService) *MilestoneHandler {
	return &MilestoneHandler{projects: projects, invitations: invitations}
}

func (h *MilestoneHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var req services.CreateMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	milestone, err := h.projects.CreateMilestone(r.Context(), actor, mux.Vars(r)["publicId"], req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, milestone)
}

func (h *MilestoneHandler) ListProjectMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.projects.ListProjectMilestones(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestones)
}

func (h *MilestoneHandler) GetMilestone(w http.ResponseWriter, r *http.Request) {
	milestone, err := h.projects.GetMilestone(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var patch services.MilestonePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	milestone, err := h.projects.UpdateMilestone(r.Context(), actor, mux.Vars(r)["publicId"], patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

func (h *MilestoneHandler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	if err := h.projects.DeleteMilestone(r.Context(), actor, mux.Vars(r)["publicId"]); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MilestoneHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.projects.MilestoneMembers(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MilestoneHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	vars := mux.Vars(r)
	milestone, err := h.projects.GetMilestone(r.Context(), vars["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	userID, err := objectIDVar(vars, "userId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.invitations.RemoveMember(r.Context(), actor, milestone.ID, userID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MilestoneHandler) RemoveLeader(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	milestone, err := h.projects.GetMilestone(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	updated, err := h.invitations.RemoveLeader(r.Context(), actor, milestone.ProjectID, milestone.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
