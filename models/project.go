package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type ProjectStatus string

const (
	StatusPreparation      ProjectStatus = "PREPARATION"
	StatusWaiting          ProjectStatus = "WAITING"
	StatusInProgress       ProjectStatus = "IN_PROGRESS"
	StatusPending          ProjectStatus = "PENDING"
	StatusCompleted        ProjectStatus = "COMPLETED"
	StatusClosed           ProjectStatus = "CLOSED"
	StatusCanceled         ProjectStatus = "CANCELED"
	StatusPendingExecution ProjectStatus = "PENDING_EXECUTION"
	StatusPendingClosure   ProjectStatus = "PENDING_CLOSURE"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

type Project struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PublicID      string             `bson:"publicId" json:"publicId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	CreatorID     primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	AssigneeID    primitive.ObjectID `bson:"assigneeId" json:"assigneeId"`
	BudgetedHours int                `bson:"budgetedHours" json:"budgetedHours"`
	Status        ProjectStatus      `bson:"status" json:"status"`
	Priority      Priority           `bson:"priority" json:"priority"`
}
