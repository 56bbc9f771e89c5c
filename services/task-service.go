package services

import (
	"context"
	"fmt"

	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskService owns task and subtask records. Assignees must hold an accepted
// membership on the owning milestone at assignment time; memberships removed
// afterwards leave existing assignments in place.
type TaskService struct {
	tasksCollection    *mongo.Collection
	subtasksCollection *mongo.Collection

	hierarchy   *HierarchyService
	permissions *PermissionService
	budget      *BudgetService
}

func NewTaskService(
	tasks, subtasks *mongo.Collection,
	hierarchy *HierarchyService,
	permissions *PermissionService,
	budget *BudgetService,
) *TaskService {
	return &TaskService{
		tasksCollection:    tasks,
		subtasksCollection: subtasks,
		hierarchy:          hierarchy,
		permissions:        permissions,
		budget:             budget,
	}
}

type CreateTaskRequest struct {
	MilestoneID   primitive.ObjectID `json:"milestoneId"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	AssigneeID    primitive.ObjectID `json:"assigneeId,omitempty"`
	BudgetedHours float64            `json:"budgetedHours"`
}

type TaskPatch struct {
	Name          *string             `json:"name,omitempty"`
	Description   *string             `json:"description,omitempty"`
	AssigneeID    *primitive.ObjectID `json:"assigneeId,omitempty"`
	BudgetedHours *float64            `json:"budgetedHours,omitempty"`
}

type CreateSubtaskRequest struct {
	TaskID        primitive.ObjectID `json:"taskId"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	AssigneeID    primitive.ObjectID `json:"assigneeId,omitempty"`
	BudgetedHours float64            `json:"budgetedHours"`
}

type SubtaskPatch struct {
	Name          *string             `json:"name,omitempty"`
	Description   *string             `json:"description,omitempty"`
	AssigneeID    *primitive.ObjectID `json:"assigneeId,omitempty"`
	BudgetedHours *float64            `json:"budgetedHours,omitempty"`
}

// validateAssignee rejects assignments to users without an accepted
// membership on the milestone. The zero id means unassigned and is allowed.
func validateAssignee(snapshot *models.ProjectSnapshot, milestoneID, assigneeID primitive.ObjectID) error {
	if assigneeID.IsZero() {
		return nil
	}
	milestone := snapshot.FindMilestone(milestoneID)
	if milestone == nil {
		return &models.NotFoundError{Resource: "milestone", ID: milestoneID.Hex()}
	}
	if milestone.Milestone.ActiveMember(assigneeID) == nil {
		return &models.ValidationError{Field: "assigneeId", Message: "the assignee is not an active member of the milestone"}
	}
	return nil
}

// CreateTask carves a task out of the milestone's remaining hours.
func (s *TaskService) CreateTask(ctx context.Context, actor primitive.ObjectID, req CreateTaskRequest) (*models.Task, error) {
	if req.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "a task name is required"}
	}
	milestone, err := s.hierarchy.GetMilestone(ctx, req.MilestoneID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanCreateTask(snapshot, req.MilestoneID, actor) {
		return nil, &models.PermissionDeniedError{Action: "create task"}
	}
	if err := validateAssignee(snapshot, req.MilestoneID, req.AssigneeID); err != nil {
		return nil, err
	}

	hours, err := s.budget.ValidateTaskAllocation(ctx, req.MilestoneID, req.BudgetedHours, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		MilestoneID:   req.MilestoneID,
		Name:          req.Name,
		Description:   req.Description,
		CreatorID:     actor,
		AssigneeID:    req.AssigneeID,
		BudgetedHours: hours,
	}
	result, err := s.tasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	s.hierarchy.Invalidate(milestone.ProjectID)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	return s.hierarchy.GetTask(ctx, taskID)
}

// ListMilestoneTasks returns the tasks of a milestone.
func (s *TaskService) ListMilestoneTasks(ctx context.Context, milestoneID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{"milestoneId": milestoneID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

// UpdateTask patches task fields under the owner-chain gate.
func (s *TaskService) UpdateTask(ctx context.Context, actor primitive.ObjectID, taskID primitive.ObjectID, patch TaskPatch) (*models.Task, error) {
	task, err := s.hierarchy.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	milestone, err := s.hierarchy.GetMilestone(ctx, task.MilestoneID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditTask(snapshot, task.MilestoneID, task.ID, actor) {
		return nil, &models.PermissionDeniedError{Action: "edit task"}
	}

	set := bson.M{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, &models.ValidationError{Field: "name", Message: "a task name is required"}
		}
		task.Name = *patch.Name
		set["name"] = task.Name
	}
	if patch.Description != nil {
		task.Description = *patch.Description
		set["description"] = task.Description
	}
	if patch.AssigneeID != nil {
		if err := validateAssignee(snapshot, task.MilestoneID, *patch.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = *patch.AssigneeID
		set["assigneeId"] = task.AssigneeID
	}
	if patch.BudgetedHours != nil {
		hours, err := s.budget.ValidateTaskAllocation(ctx, task.MilestoneID, *patch.BudgetedHours, task.ID)
		if err != nil {
			return nil, err
		}
		allocations, err := s.budget.subtaskAllocations(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		allocated := 0
		for _, a := range allocations {
			allocated += a.Amount
		}
		if hours < allocated {
			return nil, &models.BelowMinimumBudgetError{Proposed: hours, Minimum: allocated}
		}
		task.BudgetedHours = hours
		set["budgetedHours"] = task.BudgetedHours
	}
	if len(set) == 0 {
		return task, nil
	}

	if _, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)
	return task, nil
}

// DeleteTask removes the task and its subtasks; the hours flow back to the
// milestone pool.
func (s *TaskService) DeleteTask(ctx context.Context, actor primitive.ObjectID, taskID primitive.ObjectID) error {
	task, err := s.hierarchy.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	milestone, err := s.hierarchy.GetMilestone(ctx, task.MilestoneID)
	if err != nil {
		return err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return err
	}
	if !s.permissions.CanDeleteTask(snapshot, task.MilestoneID, task.ID, actor) {
		return &models.PermissionDeniedError{Action: "delete task"}
	}

	if _, err := s.subtasksCollection.DeleteMany(ctx, bson.M{"taskId": task.ID}); err != nil {
		return fmt.Errorf("failed to delete subtasks: %v", err)
	}
	if _, err := s.tasksCollection.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)
	return nil
}

// CreateSubtask carves a subtask out of the task's remaining hours.
func (s *TaskService) CreateSubtask(ctx context.Context, actor primitive.ObjectID, req CreateSubtaskRequest) (*models.Subtask, error) {
	if req.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "a subtask name is required"}
	}
	task, err := s.hierarchy.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	milestone, err := s.hierarchy.GetMilestone(ctx, task.MilestoneID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanCreateSubtask(snapshot, task.MilestoneID, task.ID, actor) {
		return nil, &models.PermissionDeniedError{Action: "create subtask"}
	}
	if err := validateAssignee(snapshot, task.MilestoneID, req.AssigneeID); err != nil {
		return nil, err
	}

	hours, err := s.budget.ValidateSubtaskAllocation(ctx, task.ID, req.BudgetedHours, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	subtask := &models.Subtask{
		TaskID:        task.ID,
		Name:          req.Name,
		Description:   req.Description,
		CreatorID:     actor,
		AssigneeID:    req.AssigneeID,
		BudgetedHours: hours,
	}
	result, err := s.subtasksCollection.InsertOne(ctx, subtask)
	if err != nil {
		return nil, fmt.Errorf("failed to create subtask: %v", err)
	}
	subtask.ID = result.InsertedID.(primitive.ObjectID)
	s.hierarchy.Invalidate(milestone.ProjectID)
	return subtask, nil
}

func (s *TaskService) GetSubtask(ctx context.Context, subtaskID primitive.ObjectID) (*models.Subtask, error) {
	return s.hierarchy.GetSubtask(ctx, subtaskID)
}

// ListTaskSubtasks returns the subtasks of a task.
func (s *TaskService) ListTaskSubtasks(ctx context.Context, taskID primitive.ObjectID) ([]models.Subtask, error) {
	cursor, err := s.subtasksCollection.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %v", err)
	}
	defer cursor.Close(ctx)

	var subtasks []models.Subtask
	if err := cursor.All(ctx, &subtasks); err != nil {
		return nil, fmt.Errorf("failed to decode subtasks: %v", err)
	}
	return subtasks, nil
}

// UpdateSubtask patches subtask fields under the full owner-chain gate.
func (s *TaskService) UpdateSubtask(ctx context.Context, actor primitive.ObjectID, subtaskID primitive.ObjectID, patch SubtaskPatch) (*models.Subtask, error) {
	subtask, err := s.hierarchy.GetSubtask(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	task, err := s.hierarchy.GetTask(ctx, subtask.TaskID)
	if err != nil {
		return nil, err
	}
	milestone, err := s.hierarchy.GetMilestone(ctx, task.MilestoneID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditSubtask(snapshot, task.MilestoneID, task.ID, subtask.ID, actor) {
		return nil, &models.PermissionDeniedError{Action: "edit subtask"}
	}

	set := bson.M{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, &models.ValidationError{Field: "name", Message: "a subtask name is required"}
		}
		subtask.Name = *patch.Name
		set["name"] = subtask.Name
	}
	if patch.Description != nil {
		subtask.Description = *patch.Description
		set["description"] = subtask.Description
	}
	if patch.AssigneeID != nil {
		if err := validateAssignee(snapshot, task.MilestoneID, *patch.AssigneeID); err != nil {
			return nil, err
		}
		subtask.AssigneeID = *patch.AssigneeID
		set["assigneeId"] = subtask.AssigneeID
	}
	if patch.BudgetedHours != nil {
		hours, err := s.budget.ValidateSubtaskAllocation(ctx, task.ID, *patch.BudgetedHours, subtask.ID)
		if err != nil {
			return nil, err
		}
		subtask.BudgetedHours = hours
		set["budgetedHours"] = subtask.BudgetedHours
	}
	if len(set) == 0 {
		return subtask, nil
	}

	if _, err := s.subtasksCollection.UpdateOne(ctx, bson.M{"_id": subtask.ID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)
	return subtask, nil
}

// DeleteSubtask removes the subtask; the hours flow back to the task pool.
func (s *TaskService) DeleteSubtask(ctx context.Context, actor primitive.ObjectID, subtaskID primitive.ObjectID) error {
	subtask, err := s.hierarchy.GetSubtask(ctx, subtaskID)
	if err != nil {
		return err
	}
	task, err := s.hierarchy.GetTask(ctx, subtask.TaskID)
	if err != nil {
		return err
	}
	milestone, err := s.hierarchy.GetMilestone(ctx, task.MilestoneID)
	if err != nil {
		return err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return err
	}
	if !s.permissions.CanDeleteSubtask(snapshot, task.MilestoneID, task.ID, subtask.ID, actor) {
		return &models.PermissionDeniedError{Action: "delete subtask"}
	}

	if _, err := s.subtasksCollection.DeleteOne(ctx, bson.M{"_id": subtask.ID}); err != nil {
		return fmt.Errorf("failed to delete subtask: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)
	return nil
}
