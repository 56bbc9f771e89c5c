package services

import (
	"context"
	"fmt"
	"math"

	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BudgetAllocation is one child's share of a parent budget.
type BudgetAllocation struct {
	ID     primitive.ObjectID
	Amount int
}

// ComputeRemaining returns the parent budget left after the sibling
// allocations, optionally excluding one sibling. Passing the edited child's
// own id as excludeID adds its current allocation back, so keeping an
// allocation unchanged validates even when global remaining is zero.
func ComputeRemaining(parentTotal int, siblings []BudgetAllocation, excludeID primitive.ObjectID) int {
	remaining := parentTotal
	for _, s := range siblings {
		if s.ID == excludeID {
			continue
		}
		remaining -= s.Amount
	}
	return remaining
}

// ValidateProposedAmount rounds the proposed value to the nearest whole unit
// and validates it against the remaining budget and the minimum. When the
// proposal both exceeds the remaining budget and falls below the minimum,
// the exceeded error wins. Returns the rounded amount on success.
func ValidateProposedAmount(proposed float64, remaining, minimum int) (int, error) {
	amount := int(math.Round(proposed))
	if amount > remaining {
		return 0, &models.BudgetExceededError{Proposed: amount, Remaining: remaining}
	}
	if amount < minimum {
		return 0, &models.BelowMinimumBudgetError{Proposed: amount, Minimum: minimum}
	}
	return amount, nil
}

// PercentOfTotal is a display helper only; validation never clamps.
func PercentOfTotal(amount, parentTotal int) float64 {
	if parentTotal <= 0 {
		return 0
	}
	percent := float64(amount) / float64(parentTotal) * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// BudgetService answers available-budget queries against stored allocations
// and runs the containment gate for hierarchy mutations. The arithmetic
// itself is the pure functions above; this type only loads the inputs.
type BudgetService struct {
	projectsCollection   *mongo.Collection
	milestonesCollection *mongo.Collection
	tasksCollection      *mongo.Collection
	subtasksCollection   *mongo.Collection
}

func NewBudgetService(projects, milestones, tasks, subtasks *mongo.Collection) *BudgetService {
	return &BudgetService{
		projectsCollection:   projects,
		milestonesCollection: milestones,
		tasksCollection:      tasks,
		subtasksCollection:   subtasks,
	}
}

func (s *BudgetService) milestoneAllocations(ctx context.Context, projectID primitive.ObjectID) ([]BudgetAllocation, error) {
	return s.loadAllocations(ctx, s.milestonesCollection, bson.M{"projectId": projectID})
}

func (s *BudgetService) taskAllocations(ctx context.Context, milestoneID primitive.ObjectID) ([]BudgetAllocation, error) {
	return s.loadAllocations(ctx, s.tasksCollection, bson.M{"milestoneId": milestoneID})
}

func (s *BudgetService) subtaskAllocations(ctx context.Context, taskID primitive.ObjectID) ([]BudgetAllocation, error) {
	return s.loadAllocations(ctx, s.subtasksCollection, bson.M{"taskId": taskID})
}

func (s *BudgetService) loadAllocations(ctx context.Context, collection *mongo.Collection, filter bson.M) ([]BudgetAllocation, error) {
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations: %v", err)
	}
	defer cursor.Close(ctx)

	var allocations []BudgetAllocation
	for cursor.Next(ctx) {
		var doc struct {
			ID            primitive.ObjectID `bson:"_id"`
			BudgetedHours int                `bson:"budgetedHours"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode allocation: %v", err)
		}
		allocations = append(allocations, BudgetAllocation{ID: doc.ID, Amount: doc.BudgetedHours})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return allocations, nil
}

// AvailableProjectBudget returns the project hours not yet allocated to
// milestones.
func (s *BudgetService) AvailableProjectBudget(ctx context.Context, projectID primitive.ObjectID) (int, error) {
	var project models.Project
	if err := s.projectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, &models.NotFoundError{Resource: "project", ID: projectID.Hex()}
		}
		return 0, fmt.Errorf("error fetching project: %v", err)
	}
	siblings, err := s.milestoneAllocations(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return ComputeRemaining(project.BudgetedHours, siblings, primitive.NilObjectID), nil
}

// AvailableMilestoneBudget returns the milestone hours not yet allocated to
// tasks.
func (s *BudgetService) AvailableMilestoneBudget(ctx context.Context, milestoneID primitive.ObjectID) (int, error) {
	var milestone models.Milestone
	if err := s.milestonesCollection.FindOne(ctx, bson.M{"_id": milestoneID}).Decode(&milestone); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, &models.NotFoundError{Resource: "milestone", ID: milestoneID.Hex()}
		}
		return 0, fmt.Errorf("error fetching milestone: %v", err)
	}
	siblings, err := s.taskAllocations(ctx, milestoneID)
	if err != nil {
		return 0, err
	}
	return ComputeRemaining(milestone.BudgetedHours, siblings, primitive.NilObjectID), nil
}

// AvailableTaskBudget returns the task hours not yet allocated to subtasks.
func (s *BudgetService) AvailableTaskBudget(ctx context.Context, taskID primitive.ObjectID) (int, error) {
	var task models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, &models.NotFoundError{Resource: "task", ID: taskID.Hex()}
		}
		return 0, fmt.Errorf("error fetching task: %v", err)
	}
	siblings, err := s.subtaskAllocations(ctx, taskID)
	if err != nil {
		return 0, err
	}
	return ComputeRemaining(task.BudgetedHours, siblings, primitive.NilObjectID), nil
}

// ValidateMilestoneAllocation gates creating or editing a milestone budget
// against the owning project. excludeID is the milestone being edited, or
// NilObjectID on creation.
func (s *BudgetService) ValidateMilestoneAllocation(ctx context.Context, projectID primitive.ObjectID, proposed float64, excludeID primitive.ObjectID) (int, error) {
	var project models.Project
	if err := s.projectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, &models.NotFoundError{Resource: "project", ID: projectID.Hex()}
		}
		return 0, fmt.Errorf("error fetching project: %v", err)
	}
	siblings, err := s.milestoneAllocations(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return ValidateProposedAmount(proposed, ComputeRemaining(project.BudgetedHours, siblings, excludeID), 0)
}

// ValidateTaskAllocation gates creating or editing a task budget against the
// owning milestone.
func (s *BudgetService) ValidateTaskAllocation(ctx context.Context, milestoneID primitive.ObjectID, proposed float64, excludeID primitive.ObjectID) (int, error) {
	var milestone models.Milestone
	if err := s.milestonesCollection.FindOne(ctx, bson.M{"_id": milestoneID}).Decode(&milestone); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, &models.NotFoundError{Resource: "milestone", ID: milestoneID.Hex()}
		}
		return 0, fmt.Errorf("error fetching milestone: %v", err)
	}
	siblings, err := s.taskAllocations(ctx, milestoneID)
	if err != nil {
		return 0, err
	}
	return ValidateProposedAmount(proposed, ComputeRemaining(milestone.BudgetedHours, siblings, excludeID), 0)
}

// ValidateSubtaskAllocation gates creating or editing a subtask budget
// against the owning task.
func (s *BudgetService) ValidateSubtaskAllocation(ctx context.Context, taskID primitive.ObjectID, proposed float64, excludeID primitive.ObjectID) (int, error) {
	var task models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, &models.NotFoundError{Resource: "task", ID: taskID.Hex()}
		}
		return 0, fmt.Errorf("error fetching task: %v", err)
	}
	siblings, err := s.subtaskAllocations(ctx, taskID)
	if err != nil {
		return 0, err
	}
	return ValidateProposedAmount(proposed, ComputeRemaining(task.BudgetedHours, siblings, excludeID), 0)
}
