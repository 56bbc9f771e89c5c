package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"teamup-project/microservices/governance-service/logging"
	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500 and gets logged; the taxonomy itself
// carries messages safe to hand to clients.
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var permissionErr *models.PermissionDeniedError
	var transitionErr *models.InvalidStateTransitionError
	var exceededErr *models.BudgetExceededError
	var belowMinErr *models.BelowMinimumBudgetError
	var notFoundErr *models.NotFoundError
	var conflictErr *models.ConflictError
	var transportErr *models.TransportError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &exceededErr):
		http.Error(w, exceededErr.Error(), http.StatusBadRequest)
	case errors.As(err, &belowMinErr):
		http.Error(w, belowMinErr.Error(), http.StatusBadRequest)
	case errors.As(err, &permissionErr):
		http.Error(w, permissionErr.Error(), http.StatusForbidden)
	case errors.As(err, &notFoundErr):
		http.Error(w, notFoundErr.Error(), http.StatusNotFound)
	case errors.As(err, &transitionErr):
		http.Error(w, transitionErr.Error(), http.StatusConflict)
	case errors.As(err, &conflictErr):
		http.Error(w, conflictErr.Error(), http.StatusConflict)
	case errors.As(err, &transportErr):
		http.Error(w, "a downstream service is unavailable", http.StatusBadGateway)
	default:
		logging.Logger.Errorf("unhandled service error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// objectIDVar parses a path variable as a Mongo object id.
func objectIDVar(vars map[string]string, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(vars[name])
	if err != nil {
		return primitive.NilObjectID, &models.ValidationError{Field: name, Message: "a valid object id is required"}
	}
	return id, nil
}
