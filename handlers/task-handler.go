package handlers

import (
	"encoding/json"
	"net/http"

	"teamup-project/microservices/governance-service/services"
	"teamup-project/microservices/governance-service/utils"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var req services.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task, err := h.service.CreateTask(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := objectIDVar(mux.Vars(r), "taskId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	task, err := h.service.GetTask(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListMilestoneTasks(w http.ResponseWriter, r *http.Request) {
	milestoneID, err := objectIDVar(mux.Vars(r), "milestoneId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	tasks, err := h.service.ListMilestoneTasks(r.Context(), milestoneID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	taskID, err := objectIDVar(mux.Vars(r), "taskId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	var patch services.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	task, err := h.service.UpdateTask(r.Context(), actor, taskID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	taskID, err := objectIDVar(mux.Vars(r), "taskId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.service.DeleteTask(r.Context(), actor, taskID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	var req services.CreateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	subtask, err := h.service.CreateSubtask(r.Context(), actor, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, subtask)
}

func (h *TaskHandler) ListTaskSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID, err := objectIDVar(mux.Vars(r), "taskId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	subtasks, err := h.service.ListTaskSubtasks(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subtasks)
}

func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	subtaskID, err := objectIDVar(mux.Vars(r), "subtaskId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	var patch services.SubtaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	subtask, err := h.service.UpdateSubtask(r.Context(), actor, subtaskID, patch)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subtask)
}

func (h *TaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "invalid or missing token", http.StatusUnauthorized)
		return
	}
	subtaskID, err := objectIDVar(mux.Vars(r), "subtaskId")
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if err := h.service.DeleteSubtask(r.Context(), actor, subtaskID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
