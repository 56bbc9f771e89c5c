package handlers

import (
	"encoding/json"
	"net/http"

	"teamup-project/microservices/governance-service/services"
	"teamup-project/microservices/governance-service/utils"

	"github.com/gorilla/mux"
)

type InvitationHandler struct {
	service *services.InvitationService
}

func NewInvitationHandler(service *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{service: service}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type approveRequest struct {
	FinalRate int `json:"finalRate"`
}

func (h *InvitationHandler) CreateLeaderInvitation(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var req services.CreateLeaderInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	invitation, err := h.service.CreateLeaderInvitation(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invitation)
}

func (h *InvitationHandler) GetLeaderInvitation(w http.ResponseWriter, r *http.Request) {
	invitation, err := h.service.GetLeaderInvitation(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) AcceptLeaderInvitation(w http.ResponseWriter, r *http.Request) {
	invitation, err := h.service.AcceptLeaderInvitation(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) RejectLeaderInvitation(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	invitation, err := h.service.RejectLeaderInvitation(r.Context(), mux.Vars(r)["publicId"], req.Reason)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) ApproveLeaderInvitation(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	invitation, err := h.service.ApproveLeaderInvitation(r.Context(), actor, mux.Vars(r)["publicId"], req.FinalRate)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) ListMilestoneLeaderInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.service.ListMilestoneLeaderInvitations(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (h *InvitationHandler) CreateMemberInvitation(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var req services.CreateMemberInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	invitation, err := h.service.CreateMemberInvitation(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invitation)
}

func (h *InvitationHandler) GetMemberInvitation(w http.ResponseWriter, r *http.Request) {
	invitation, err := h.service.GetMemberInvitation(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) AcceptMemberInvitation(w http.ResponseWriter, r *http.Request) {
	invitation, err := h.service.AcceptMemberInvitation(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) RejectMemberInvitation(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	invitation, err := h.service.RejectMemberInvitation(r.Context(), mux.Vars(r)["publicId"], req.Reason)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) CancelMemberInvitation(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	invitation, err := h.service.CancelMemberInvitation(r.Context(), actor, mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) ResendMemberInvitation(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	invitation, err := h.service.ResendMemberInvitation(r.Context(), actor, mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) UpdateMemberInvitation(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var patch services.MemberInvitationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	invitation, err := h.service.UpdateMemberInvitation(r.Context(), actor, mux.Vars(r)["publicId"], patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitation)
}

func (h *InvitationHandler) ListMilestoneMemberInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.service.ListMilestoneMemberInvitations(r.Context(), mux.Vars(r)["publicId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

func (h *InvitationHandler) ListMyMemberInvitations(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	invitations, err := h.service.ListUserMemberInvitations(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}
