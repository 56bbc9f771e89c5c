package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// MilestoneMember is the staffing record materialized when a member (or
// leader) invitation is accepted. It is the only valid assignee target for
// tasks and subtasks of the owning milestone.
type MilestoneMember struct {
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	HourlyRate         int                `bson:"hourlyRate" json:"hourlyRate"`
	RoleTypeID         primitive.ObjectID `bson:"roleTypeId" json:"roleTypeId"`
	Status             InvitationStatus   `bson:"status" json:"status"`
	InvitationPublicID string             `bson:"invitationPublicId" json:"invitationPublicId"`
}

// Active reports whether the membership can still receive assignments.
func (m MilestoneMember) Active() bool {
	return m.Status == StatusInvitationAccepted
}

type Milestone struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PublicID      string              `bson:"publicId" json:"publicId"`
	ProjectID     primitive.ObjectID  `bson:"projectId" json:"projectId"`
	Name          string              `bson:"name" json:"name"`
	Description   string              `bson:"description" json:"description"`
	CreatorID     primitive.ObjectID  `bson:"creatorId" json:"creatorId"`
	AssigneeID    primitive.ObjectID  `bson:"assigneeId" json:"assigneeId"`
	BudgetedHours int                 `bson:"budgetedHours" json:"budgetedHours"`
	Status        ProjectStatus       `bson:"status" json:"status"`
	Priority      Priority            `bson:"priority" json:"priority"`
	LeaderID      *primitive.ObjectID `bson:"leaderId,omitempty" json:"leaderId,omitempty"`
	LeaderRate    int                 `bson:"leaderRate" json:"leaderRate"`
	LeaderStatus  InvitationStatus    `bson:"leaderStatus,omitempty" json:"leaderStatus,omitempty"`
	Members       []MilestoneMember   `bson:"members" json:"members"`
}

// ActiveMember returns the accepted membership for the given user, if any.
func (m *Milestone) ActiveMember(userID primitive.ObjectID) *MilestoneMember {
	for i := range m.Members {
		if m.Members[i].UserID == userID && m.Members[i].Active() {
			return &m.Members[i]
		}
	}
	return nil
}

// Staffed reports whether the milestone has an accepted leader. Staffing and
// budget are independent axes.
func (m *Milestone) Staffed() bool {
	return m.LeaderID != nil && m.LeaderStatus == StatusInvitationAccepted
}
