package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Task.AssigneeID references a milestone member by user id; the service layer
// rejects assignees without an accepted membership on the owning milestone.
type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MilestoneID   primitive.ObjectID `bson:"milestoneId" json:"milestoneId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	CreatorID     primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	AssigneeID    primitive.ObjectID `bson:"assigneeId" json:"assigneeId"`
	BudgetedHours int                `bson:"budgetedHours" json:"budgetedHours"`
}

// Subtask is the budget leaf; it has no further children.
type Subtask struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID        primitive.ObjectID `bson:"taskId" json:"taskId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	CreatorID     primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	AssigneeID    primitive.ObjectID `bson:"assigneeId" json:"assigneeId"`
	BudgetedHours int                `bson:"budgetedHours" json:"budgetedHours"`
}
