package services

import (
	"context"
	"fmt"
	"math"

	"teamup-project/microservices/governance-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectService owns project and milestone records. Milestone budgets are
// carved out of the owning project's hours, so every create and edit runs
// through the budget validation before it is persisted.
type ProjectService struct {
	projectsCollection   *mongo.Collection
	milestonesCollection *mongo.Collection
	tasksCollection      *mongo.Collection
	subtasksCollection   *mongo.Collection

	hierarchy   *HierarchyService
	permissions *PermissionService
	budget      *BudgetService
}

func NewProjectService(
	projects, milestones, tasks, subtasks *mongo.Collection,
	hierarchy *HierarchyService,
	permissions *PermissionService,
	budget *BudgetService,
) *ProjectService {
	return &ProjectService{
		projectsCollection:   projects,
		milestonesCollection: milestones,
		tasksCollection:      tasks,
		subtasksCollection:   subtasks,
		hierarchy:            hierarchy,
		permissions:          permissions,
		budget:               budget,
	}
}

type CreateProjectRequest struct {
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	AssigneeID    primitive.ObjectID `json:"assigneeId,omitempty"`
	BudgetedHours float64            `json:"budgetedHours"`
	Priority      models.Priority    `json:"priority,omitempty"`
}

type ProjectPatch struct {
	Name          *string               `json:"name,omitempty"`
	Description   *string               `json:"description,omitempty"`
	AssigneeID    *primitive.ObjectID   `json:"assigneeId,omitempty"`
	BudgetedHours *float64              `json:"budgetedHours,omitempty"`
	Status        *models.ProjectStatus `json:"status,omitempty"`
	Priority      *models.Priority      `json:"priority,omitempty"`
}

type CreateMilestoneRequest struct {
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	AssigneeID    primitive.ObjectID `json:"assigneeId,omitempty"`
	BudgetedHours float64            `json:"budgetedHours"`
	Priority      models.Priority    `json:"priority,omitempty"`
}

type MilestonePatch struct {
	Name          *string               `json:"name,omitempty"`
	Description   *string               `json:"description,omitempty"`
	AssigneeID    *primitive.ObjectID   `json:"assigneeId,omitempty"`
	BudgetedHours *float64              `json:"budgetedHours,omitempty"`
	Status        *models.ProjectStatus `json:"status,omitempty"`
	Priority      *models.Priority      `json:"priority,omitempty"`
}

// CreateProject opens a new project root. The creator is the owner; the
// budget is the pool milestones draw from.
func (s *ProjectService) CreateProject(ctx context.Context, actor primitive.ObjectID, req CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "a project name is required"}
	}
	hours := int(math.Round(req.BudgetedHours))
	if hours < 0 {
		return nil, &models.ValidationError{Field: "budgetedHours", Message: "the budget cannot be negative"}
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	project := &models.Project{
		PublicID:      uuid.NewString(),
		Name:          req.Name,
		Description:   req.Description,
		CreatorID:     actor,
		AssigneeID:    req.AssigneeID,
		BudgetedHours: hours,
		Status:        models.StatusPreparation,
		Priority:      priority,
	}
	result, err := s.projectsCollection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

// ListProjects returns every project a user owns or is assigned to.
func (s *ProjectService) ListProjects(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"creatorId": userID},
		{"assigneeId": userID},
	}}
	cursor, err := s.projectsCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, publicID string) (*models.Project, error) {
	return s.hierarchy.GetProjectByPublicID(ctx, publicID)
}

// GetProjectSnapshot returns the full nested tree used by clients to render
// the project at once.
func (s *ProjectService) GetProjectSnapshot(ctx context.Context, publicID string) (*models.ProjectSnapshot, error) {
	project, err := s.hierarchy.GetProjectByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return s.hierarchy.ProjectSnapshot(ctx, project.ID)
}

// UpdateProject patches project fields. Shrinking the budget below what
// milestones have already claimed is rejected.
func (s *ProjectService) UpdateProject(ctx context.Context, actor primitive.ObjectID, publicID string, patch ProjectPatch) (*models.Project, error) {
	project, err := s.hierarchy.GetProjectByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditProject(snapshot, actor) {
		return nil, &models.PermissionDeniedError{Action: "edit project"}
	}

	set := bson.M{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, &models.ValidationError{Field: "name", Message: "a project name is required"}
		}
		project.Name = *patch.Name
		set["name"] = project.Name
	}
	if patch.Description != nil {
		project.Description = *patch.Description
		set["description"] = project.Description
	}
	if patch.AssigneeID != nil {
		project.AssigneeID = *patch.AssigneeID
		set["assigneeId"] = project.AssigneeID
	}
	if patch.BudgetedHours != nil {
		hours := int(math.Round(*patch.BudgetedHours))
		if hours < 0 {
			return nil, &models.ValidationError{Field: "budgetedHours", Message: "the budget cannot be negative"}
		}
		allocations, err := s.budget.milestoneAllocations(ctx, project.ID)
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
		project.BudgetedHours = hours
		set["budgetedHours"] = project.BudgetedHours
	}
	if patch.Status != nil {
		project.Status = *patch.Status
		set["status"] = project.Status
	}
	if patch.Priority != nil {
		project.Priority = *patch.Priority
		set["priority"] = project.Priority
	}
	if len(set) == 0 {
		return project, nil
	}

	if _, err := s.projectsCollection.UpdateOne(ctx, bson.M{"_id": project.ID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}
	s.hierarchy.Invalidate(project.ID)
	return project, nil
}

// DeleteProject removes the project and everything under it.
func (s *ProjectService) DeleteProject(ctx context.Context, actor primitive.ObjectID, publicID string) error {
	project, err := s.hierarchy.GetProjectByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, project.ID)
	if err != nil {
		return err
	}
	if !s.permissions.CanDeleteProject(snapshot, actor) {
		return &models.PermissionDeniedError{Action: "delete project"}
	}

	for _, milestone := range snapshot.Milestones {
		for _, task := range milestone.Tasks {
			if _, err := s.subtasksCollection.DeleteMany(ctx, bson.M{"taskId": task.Task.ID}); err != nil {
				return fmt.Errorf("failed to delete subtasks: %v", err)
			}
		}
		if _, err := s.tasksCollection.DeleteMany(ctx, bson.M{"milestoneId": milestone.Milestone.ID}); err != nil {
			return fmt.Errorf("failed to delete tasks: %v", err)
		}
	}
	if _, err := s.milestonesCollection.DeleteMany(ctx, bson.M{"projectId": project.ID}); err != nil {
		return fmt.Errorf("failed to delete milestones: %v", err)
	}
	if _, err := s.projectsCollection.DeleteOne(ctx, bson.M{"_id": project.ID}); err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	s.hierarchy.Invalidate(project.ID)
	return nil
}

// CreateMilestone carves a milestone out of the project's remaining hours.
func (s *ProjectService) CreateMilestone(ctx context.Context, actor primitive.ObjectID, projectPublicID string, req CreateMilestoneRequest) (*models.Milestone, error) {
	if req.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "a milestone name is required"}
	}
	project, err := s.hierarchy.GetProjectByPublicID(ctx, projectPublicID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanCreateMilestone(snapshot, actor) {
		return nil, &models.PermissionDeniedError{Action: "create milestone"}
	}

	hours, err := s.budget.ValidateMilestoneAllocation(ctx, project.ID, req.BudgetedHours, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	milestone := &models.Milestone{
		PublicID:      uuid.NewString(),
		ProjectID:     project.ID,
		Name:          req.Name,
		Description:   req.Description,
		CreatorID:     actor,
		AssigneeID:    req.AssigneeID,
		BudgetedHours: hours,
		Status:        models.StatusPreparation,
		Priority:      priority,
		Members:       []models.MilestoneMember{},
	}
	result, err := s.milestonesCollection.InsertOne(ctx, milestone)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone: %v", err)
	}
	milestone.ID = result.InsertedID.(primitive.ObjectID)
	s.hierarchy.Invalidate(project.ID)
	return milestone, nil
}

func (s *ProjectService) GetMilestone(ctx context.Context, publicID string) (*models.Milestone, error) {
	milestone, err := s.hierarchy.GetMilestoneByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return milestone, nil
}

// ListProjectMilestones returns the milestones of a project.
func (s *ProjectService) ListProjectMilestones(ctx context.Context, projectPublicID string) ([]models.Milestone, error) {
	project, err := s.hierarchy.GetProjectByPublicID(ctx, projectPublicID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.milestonesCollection.Find(ctx, bson.M{"projectId": project.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %v", err)
	}
	defer cursor.Close(ctx)

	var milestones []models.Milestone
	if err := cursor.All(ctx, &milestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %v", err)
	}
	return milestones, nil
}

// UpdateMilestone patches milestone fields. A budget change is validated
// against the project pool with the milestone's own allocation handed back
// first, and must still cover the hours its tasks have claimed.
func (s *ProjectService) UpdateMilestone(ctx context.Context, actor primitive.ObjectID, publicID string, patch MilestonePatch) (*models.Milestone, error) {
	milestone, err := s.hierarchy.GetMilestoneByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditMilestone(snapshot, actor) {
		return nil, &models.PermissionDeniedError{Action: "edit milestone"}
	}

	set := bson.M{}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, &models.ValidationError{Field: "name", Message: "a milestone name is required"}
		}
		milestone.Name = *patch.Name
		set["name"] = milestone.Name
	}
	if patch.Description != nil {
		milestone.Description = *patch.Description
		set["description"] = milestone.Description
	}
	if patch.AssigneeID != nil {
		milestone.AssigneeID = *patch.AssigneeID
		set["assigneeId"] = milestone.AssigneeID
	}
	if patch.BudgetedHours != nil {
		hours, err := s.budget.ValidateMilestoneAllocation(ctx, milestone.ProjectID, *patch.BudgetedHours, milestone.ID)
		if err != nil {
			return nil, err
		}
		allocations, err := s.budget.taskAllocations(ctx, milestone.ID)
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
		milestone.BudgetedHours = hours
		set["budgetedHours"] = milestone.BudgetedHours
	}
	if patch.Status != nil {
		milestone.Status = *patch.Status
		set["status"] = milestone.Status
	}
	if patch.Priority != nil {
		milestone.Priority = *patch.Priority
		set["priority"] = milestone.Priority
	}
	if len(set) == 0 {
		return milestone, nil
	}

	if _, err := s.milestonesCollection.UpdateOne(ctx, bson.M{"_id": milestone.ID}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update milestone: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)
	return milestone, nil
}

// DeleteMilestone removes the milestone and its tasks; the hours flow back to
// the project pool.
func (s *ProjectService) DeleteMilestone(ctx context.Context, actor primitive.ObjectID, publicID string) error {
	milestone, err := s.hierarchy.GetMilestoneByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return err
	}
	if !s.permissions.CanDeleteMilestone(snapshot, actor) {
		return &models.PermissionDeniedError{Action: "delete milestone"}
	}

	cursor, err := s.tasksCollection.Find(ctx, bson.M{"milestoneId": milestone.ID})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %v", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return fmt.Errorf("failed to decode tasks: %v", err)
	}
	for _, task := range tasks {
		if _, err := s.subtasksCollection.DeleteMany(ctx, bson.M{"taskId": task.ID}); err != nil {
			return fmt.Errorf("failed to delete subtasks: %v", err)
		}
	}
	if _, err := s.tasksCollection.DeleteMany(ctx, bson.M{"milestoneId": milestone.ID}); err != nil {
		return fmt.Errorf("failed to delete tasks: %v", err)
	}
	if _, err := s.milestonesCollection.DeleteOne(ctx, bson.M{"_id": milestone.ID}); err != nil {
		return fmt.Errorf("failed to delete milestone: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)
	return nil
}

// MilestoneMembers returns the staffing roster of a milestone, removed
// entries included.
func (s *ProjectService) MilestoneMembers(ctx context.Context, publicID string) ([]models.MilestoneMember, error) {
	milestone, err := s.hierarchy.GetMilestoneByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if milestone.Members == nil {
		return []models.MilestoneMember{}, nil
	}
	return milestone.Members, nil
}
