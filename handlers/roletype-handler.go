package handlers

import (
	"encoding/json"
	"net/http"

	"teamup-project/microservices/governance-service/services"
	"teamup-project/microservices/governance-service/utils"
)

type RoleTypeHandler struct {
	service *services.RoleTypeService
}

func NewRoleTypeHandler(service *services.RoleTypeService) *RoleTypeHandler {
	return &RoleTypeHandler{service: service}
}

func (h *RoleTypeHandler) ListRoleTypes(w http.ResponseWriter, r *http.Request) {
	roleTypes, err := h.service.ListRoleTypes(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roleTypes)
}

func (h *RoleTypeHandler) CreateRoleType(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.ActorFromRequest(r); err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var req services.CreateRoleTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	roleType, err := h.service.CreateRoleType(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, roleType)
}
