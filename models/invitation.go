package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvitationStatus string

const (
	StatusPendingInvitation  InvitationStatus = "PENDING_INVITATION"
	StatusInvitationAccepted InvitationStatus = "INVITATION_ACCEPTED"
	StatusInvitationRejected InvitationStatus = "INVITATION_REJECTED"
	StatusInvitationExpired  InvitationStatus = "INVITATION_EXPIRED"
	StatusInvitationCanceled InvitationStatus = "INVITATION_CANCELED"
	StatusRemoved            InvitationStatus = "REMOVED"
	StatusInvitationApproved InvitationStatus = "INVITATION_APPROVED"
)

type InviteeType string

const (
	InviteeFreelancer     InviteeType = "FREELANCER"
	InviteeCompanyUser    InviteeType = "COMPANY_USER"
	InviteeServiceCompany InviteeType = "SERVICE_COMPANY"
)

// InvitationBase carries the lifecycle state shared by both invitation kinds.
// The publicId is issued once, never changes, and is the only identifier an
// unauthenticated invitee may use.
type InvitationBase struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PublicID    string             `bson:"publicId" json:"publicId"`
	MilestoneID primitive.ObjectID `bson:"milestoneId" json:"milestoneId"`
	Status      InvitationStatus   `bson:"status" json:"status"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	Remark      string             `bson:"remark,omitempty" json:"remark,omitempty"`
	InvitedAt   time.Time          `bson:"invitedAt" json:"invitedAt"`
	ExpiresAt   time.Time          `bson:"expiresAt" json:"expiresAt"`
	AcceptedAt  *time.Time         `bson:"acceptedAt,omitempty" json:"acceptedAt"`
	ExpiredAt   *time.Time         `bson:"expiredAt,omitempty" json:"expiredAt"`
	RemovedAt   *time.Time         `bson:"removedAt,omitempty" json:"removedAt"`
}

// Terminal reports whether no further transition can be applied. Accepted
// records are not terminal: they may still be removed.
func (inv *InvitationBase) Terminal() bool {
	switch inv.Status {
	case StatusPendingInvitation, StatusInvitationAccepted:
		return false
	}
	return true
}

// Overdue reports whether a still-pending invitation has outlived its window.
func (inv *InvitationBase) Overdue(now time.Time) bool {
	return inv.Status == StatusPendingInvitation && !inv.ExpiresAt.IsZero() && now.After(inv.ExpiresAt)
}

// Accept moves PENDING_INVITATION to INVITATION_ACCEPTED. Re-accepting an
// already accepted record is a no-op success and leaves AcceptedAt untouched.
func (inv *InvitationBase) Accept(now time.Time) error {
	if inv.Status == StatusInvitationAccepted {
		return nil
	}
	if inv.Status != StatusPendingInvitation {
		return &InvalidStateTransitionError{From: inv.Status, Trigger: "accept"}
	}
	inv.Status = StatusInvitationAccepted
	inv.AcceptedAt = &now
	return nil
}

// Reject moves PENDING_INVITATION to INVITATION_REJECTED. A reason is
// required regardless of the current status.
func (inv *InvitationBase) Reject(reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Message: "a rejection reason is required"}
	}
	if inv.Status != StatusPendingInvitation {
		return &InvalidStateTransitionError{From: inv.Status, Trigger: "reject"}
	}
	inv.Status = StatusInvitationRejected
	inv.Remark = reason
	return nil
}

// Expire moves PENDING_INVITATION to INVITATION_EXPIRED. Driven by the clock,
// not by an actor.
func (inv *InvitationBase) Expire(now time.Time) error {
	if inv.Status != StatusPendingInvitation {
		return &InvalidStateTransitionError{From: inv.Status, Trigger: "expire"}
	}
	inv.Status = StatusInvitationExpired
	inv.ExpiredAt = &now
	return nil
}

// Cancel moves PENDING_INVITATION to INVITATION_CANCELED. Member invitations
// only; the ownership precondition is checked by the service.
func (inv *InvitationBase) Cancel(now time.Time) error {
	if inv.Status != StatusPendingInvitation {
		return &InvalidStateTransitionError{From: inv.Status, Trigger: "cancel"}
	}
	inv.Status = StatusInvitationCanceled
	inv.RemovedAt = &now
	return nil
}

// Approve moves PENDING_INVITATION to INVITATION_APPROVED. Leader invitations
// only; the project owner finalizes the leader rate through this path.
func (inv *InvitationBase) Approve(now time.Time) error {
	if inv.Status != StatusPendingInvitation {
		return &InvalidStateTransitionError{From: inv.Status, Trigger: "approve"}
	}
	inv.Status = StatusInvitationApproved
	return nil
}

// Remove moves INVITATION_ACCEPTED to REMOVED and is the only transition out
// of an accepted record.
func (inv *InvitationBase) Remove(now time.Time) error {
	if inv.Status != StatusInvitationAccepted {
		return &InvalidStateTransitionError{From: inv.Status, Trigger: "remove"}
	}
	inv.Status = StatusRemoved
	inv.RemovedAt = &now
	return nil
}

// LeaderInvitation offers the single leader slot of a milestone.
type LeaderInvitation struct {
	InvitationBase `bson:",inline"`
	LeaderID       primitive.ObjectID  `bson:"leaderId" json:"leaderId"`
	LeaderRate     int                 `bson:"leaderRate" json:"leaderRate"`
	NDATemplateID  *primitive.ObjectID `bson:"ndaTemplateId,omitempty" json:"ndaTemplateId,omitempty"`
}

// MemberInvitation offers a staffed role on a milestone, for a freelancer, a
// company, or a company user.
type MemberInvitation struct {
	InvitationBase `bson:",inline"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	HourlyRate     int                 `bson:"hourlyRate" json:"hourlyRate"`
	RoleTypeID     primitive.ObjectID  `bson:"roleTypeId" json:"roleTypeId"`
	InviteeType    InviteeType         `bson:"inviteeType" json:"inviteeType"`
	FreelancerID   *primitive.ObjectID `bson:"freelancerId,omitempty" json:"freelancerId,omitempty"`
	CompanyID      *primitive.ObjectID `bson:"companyId,omitempty" json:"companyId,omitempty"`
	CompanyUserID  *primitive.ObjectID `bson:"companyUserId,omitempty" json:"companyUserId,omitempty"`
}

// Membership converts an accepted member invitation into its staffing record.
func (inv *MemberInvitation) Membership() MilestoneMember {
	return MilestoneMember{
		UserID:             inv.UserID,
		HourlyRate:         inv.HourlyRate,
		RoleTypeID:         inv.RoleTypeID,
		Status:             inv.Status,
		InvitationPublicID: inv.PublicID,
	}
}
