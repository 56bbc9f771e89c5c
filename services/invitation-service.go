package services

import (
	"context"
	"fmt"
	"time"

	"teamup-project/microservices/governance-service/logging"
	"teamup-project/microservices/governance-service/models"
	"teamup-project/microservices/governance-service/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// invitationTTL is the window an invitee has to respond before the record is
// treated as expired.
const invitationTTL = 7 * 24 * time.Hour

// InvitationService owns the leader and member invitation records and their
// state machine. Every state change is a conditional update on the current
// status, so a concurrent transition surfaces as a ConflictError instead of
// silently overwriting the other writer.
type InvitationService struct {
	leaderInvitations    *mongo.Collection
	memberInvitations    *mongo.Collection
	milestonesCollection *mongo.Collection
	roleTypesCollection  *mongo.Collection

	hierarchy   *HierarchyService
	permissions *PermissionService
	notifier    *utils.NotificationClient
}

func NewInvitationService(
	leaderInvitations, memberInvitations, milestones, roleTypes *mongo.Collection,
	hierarchy *HierarchyService,
	permissions *PermissionService,
	notifier *utils.NotificationClient,
) *InvitationService {
	return &InvitationService{
		leaderInvitations:    leaderInvitations,
		memberInvitations:    memberInvitations,
		milestonesCollection: milestones,
		roleTypesCollection:  roleTypes,
		hierarchy:            hierarchy,
		permissions:          permissions,
		notifier:             notifier,
	}
}

type CreateLeaderInvitationRequest struct {
	MilestoneID   primitive.ObjectID  `json:"milestoneId"`
	LeaderID      primitive.ObjectID  `json:"leaderId"`
	LeaderRate    int                 `json:"leaderRate"`
	NDATemplateID *primitive.ObjectID `json:"ndaTemplateId,omitempty"`
	Message       string              `json:"message,omitempty"`
}

type CreateMemberInvitationRequest struct {
	MilestoneID   primitive.ObjectID  `json:"milestoneId"`
	UserID        primitive.ObjectID  `json:"userId"`
	HourlyRate    int                 `json:"hourlyRate"`
	RoleTypeID    primitive.ObjectID  `json:"roleTypeId"`
	InviteeType   models.InviteeType  `json:"inviteeType"`
	FreelancerID  *primitive.ObjectID `json:"freelancerId,omitempty"`
	CompanyID     *primitive.ObjectID `json:"companyId,omitempty"`
	CompanyUserID *primitive.ObjectID `json:"companyUserId,omitempty"`
	Remark        string              `json:"remark,omitempty"`
}

type MemberInvitationPatch struct {
	HourlyRate *int                `json:"hourlyRate,omitempty"`
	RoleTypeID *primitive.ObjectID `json:"roleTypeId,omitempty"`
	Remark     *string             `json:"remark,omitempty"`
}

// staffingContext loads the milestone and the owning project snapshot used by
// permission gates and cache invalidation.
func (s *InvitationService) staffingContext(ctx context.Context, milestoneID primitive.ObjectID) (*models.Milestone, *models.ProjectSnapshot, error) {
	milestone, err := s.hierarchy.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, nil, err
	}
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, milestone.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return milestone, snapshot, nil
}

// CreateLeaderInvitation stages the single leader slot of a milestone.
func (s *InvitationService) CreateLeaderInvitation(ctx context.Context, actor primitive.ObjectID, req CreateLeaderInvitationRequest) (*models.LeaderInvitation, error) {
	if req.LeaderRate <= 0 {
		return nil, &models.ValidationError{Field: "leaderRate", Message: "a positive leader rate is required"}
	}
	if req.LeaderID.IsZero() {
		return nil, &models.ValidationError{Field: "leaderId", Message: "a leader is required"}
	}

	_, snapshot, err := s.staffingContext(ctx, req.MilestoneID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditMilestone(snapshot, actor) {
		return nil, &models.PermissionDeniedError{Action: "create leader invitation"}
	}

	now := time.Now()
	invitation := &models.LeaderInvitation{
		InvitationBase: models.InvitationBase{
			PublicID:    uuid.NewString(),
			MilestoneID: req.MilestoneID,
			Status:      models.StatusPendingInvitation,
			Message:     req.Message,
			InvitedAt:   now,
			ExpiresAt:   now.Add(invitationTTL),
		},
		LeaderID:      req.LeaderID,
		LeaderRate:    req.LeaderRate,
		NDATemplateID: req.NDATemplateID,
	}

	result, err := s.leaderInvitations.InsertOne(ctx, invitation)
	if err != nil {
		return nil, fmt.Errorf("failed to create leader invitation: %v", err)
	}
	invitation.ID = result.InsertedID.(primitive.ObjectID)

	s.notify(ctx, req.LeaderID, "LEADER_INVITATION", "You have been invited to lead a milestone.")
	return invitation, nil
}

// CreateMemberInvitation stages a member role on a milestone. The payload is
// validated exhaustively per invitee type before any write.
func (s *InvitationService) CreateMemberInvitation(ctx context.Context, actor primitive.ObjectID, req CreateMemberInvitationRequest) (*models.MemberInvitation, error) {
	if req.HourlyRate <= 0 {
		return nil, &models.ValidationError{Field: "hourlyRate", Message: "a positive hourly rate is required"}
	}
	if req.RoleTypeID.IsZero() {
		return nil, &models.ValidationError{Field: "roleTypeId", Message: "a role type is required"}
	}
	switch req.InviteeType {
	case models.InviteeFreelancer:
		if req.FreelancerID == nil {
			return nil, &models.ValidationError{Field: "freelancerId", Message: "a freelancer invitation requires a freelancer reference"}
		}
	case models.InviteeCompanyUser, models.InviteeServiceCompany:
		if req.CompanyID == nil && req.CompanyUserID == nil {
			return nil, &models.ValidationError{Field: "companyId", Message: "a company-scoped invitation requires a company or company user reference"}
		}
	default:
		return nil, &models.ValidationError{Field: "inviteeType", Message: "unknown invitee type"}
	}

	if err := s.roleTypesCollection.FindOne(ctx, bson.M{"_id": req.RoleTypeID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "role type", ID: req.RoleTypeID.Hex()}
		}
		return nil, fmt.Errorf("error fetching role type: %v", err)
	}

	_, snapshot, err := s.staffingContext(ctx, req.MilestoneID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditMilestone(snapshot, actor) {
		return nil, &models.PermissionDeniedError{Action: "create member invitation"}
	}

	now := time.Now()
	invitation := &models.MemberInvitation{
		InvitationBase: models.InvitationBase{
			PublicID:    uuid.NewString(),
			MilestoneID: req.MilestoneID,
			Status:      models.StatusPendingInvitation,
			Remark:      req.Remark,
			InvitedAt:   now,
			ExpiresAt:   now.Add(invitationTTL),
		},
		UserID:        req.UserID,
		HourlyRate:    req.HourlyRate,
		RoleTypeID:    req.RoleTypeID,
		InviteeType:   req.InviteeType,
		FreelancerID:  req.FreelancerID,
		CompanyID:     req.CompanyID,
		CompanyUserID: req.CompanyUserID,
	}

	result, err := s.memberInvitations.InsertOne(ctx, invitation)
	if err != nil {
		return nil, fmt.Errorf("failed to create member invitation: %v", err)
	}
	invitation.ID = result.InsertedID.(primitive.ObjectID)

	s.notify(ctx, req.UserID, "MEMBER_INVITATION", "You have been invited to join a milestone.")
	return invitation, nil
}

// GetLeaderInvitation reads a leader invitation by its public id. An overdue
// pending record is expired before it is returned.
func (s *InvitationService) GetLeaderInvitation(ctx context.Context, publicID string) (*models.LeaderInvitation, error) {
	var invitation models.LeaderInvitation
	if err := s.leaderInvitations.FindOne(ctx, bson.M{"publicId": publicID}).Decode(&invitation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "leader invitation", ID: publicID}
		}
		return nil, fmt.Errorf("error fetching leader invitation: %v", err)
	}
	if err := s.expireIfOverdue(ctx, s.leaderInvitations, &invitation.InvitationBase); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetMemberInvitation reads a member invitation by its public id, expiring an
// overdue pending record first.
func (s *InvitationService) GetMemberInvitation(ctx context.Context, publicID string) (*models.MemberInvitation, error) {
	var invitation models.MemberInvitation
	if err := s.memberInvitations.FindOne(ctx, bson.M{"publicId": publicID}).Decode(&invitation); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "member invitation", ID: publicID}
		}
		return nil, fmt.Errorf("error fetching member invitation: %v", err)
	}
	if err := s.expireIfOverdue(ctx, s.memberInvitations, &invitation.InvitationBase); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// expireIfOverdue applies the clock-driven PENDING -> EXPIRED transition when
// a record is read past its window. There is no background scheduler; expiry
// happens lazily on the next read.
func (s *InvitationService) expireIfOverdue(ctx context.Context, collection *mongo.Collection, inv *models.InvitationBase) error {
	now := time.Now()
	if !inv.Overdue(now) {
		return nil
	}
	if err := inv.Expire(now); err != nil {
		return err
	}
	// A racing transition just means someone else resolved the record first;
	// in that case the stored state wins over the local expiry.
	result, err := collection.UpdateOne(ctx,
		bson.M{"publicId": inv.PublicID, "status": models.StatusPendingInvitation},
		bson.M{"$set": bson.M{"status": inv.Status, "expiredAt": inv.ExpiredAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to expire invitation: %v", err)
	}
	if result.ModifiedCount == 0 {
		logging.Logger.Warnf("invitation %s changed while expiring; reloading stored state", inv.PublicID)
		var stored models.InvitationBase
		if err := collection.FindOne(ctx, bson.M{"publicId": inv.PublicID}).Decode(&stored); err != nil {
			return fmt.Errorf("error reloading invitation: %v", err)
		}
		*inv = stored
	}
	return nil
}

// transition persists a state change guarded by the status the record was
// read at. ModifiedCount zero means another writer got there first.
func (s *InvitationService) transition(ctx context.Context, collection *mongo.Collection, publicID string, from models.InvitationStatus, set bson.M) error {
	result, err := collection.UpdateOne(ctx,
		bson.M{"publicId": publicID, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %v", err)
	}
	if result.MatchedCount == 0 {
		return &models.ConflictError{Message: "this invitation has already been responded to"}
	}
	return nil
}

// AcceptLeaderInvitation fills the milestone's leader slot.
func (s *InvitationService) AcceptLeaderInvitation(ctx context.Context, publicID string) (*models.LeaderInvitation, error) {
	invitation, err := s.GetLeaderInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}

	from := invitation.Status
	if err := invitation.Accept(time.Now()); err != nil {
		return nil, err
	}
	if from == models.StatusInvitationAccepted {
		// Idempotent re-accept: nothing to persist.
		return invitation, nil
	}
	if err := s.transition(ctx, s.leaderInvitations, publicID, from, bson.M{
		"status":     invitation.Status,
		"acceptedAt": invitation.AcceptedAt,
	}); err != nil {
		return nil, err
	}

	milestone, err := s.hierarchy.GetMilestone(ctx, invitation.MilestoneID)
	if err != nil {
		return nil, err
	}
	_, err = s.milestonesCollection.UpdateOne(ctx, bson.M{"_id": invitation.MilestoneID}, bson.M{"$set": bson.M{
		"leaderId":     invitation.LeaderID,
		"leaderRate":   invitation.LeaderRate,
		"leaderStatus": models.StatusInvitationAccepted,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to set milestone leader: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)

	return invitation, nil
}

// AcceptMemberInvitation materializes the membership record on the milestone.
func (s *InvitationService) AcceptMemberInvitation(ctx context.Context, publicID string) (*models.MemberInvitation, error) {
	invitation, err := s.GetMemberInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}

	from := invitation.Status
	if err := invitation.Accept(time.Now()); err != nil {
		return nil, err
	}
	if from == models.StatusInvitationAccepted {
		return invitation, nil
	}
	if err := s.transition(ctx, s.memberInvitations, publicID, from, bson.M{
		"status":     invitation.Status,
		"acceptedAt": invitation.AcceptedAt,
	}); err != nil {
		return nil, err
	}

	milestone, err := s.hierarchy.GetMilestone(ctx, invitation.MilestoneID)
	if err != nil {
		return nil, err
	}
	// Replace any stale membership for this user before pushing the fresh one.
	if _, err := s.milestonesCollection.UpdateOne(ctx, bson.M{"_id": invitation.MilestoneID},
		bson.M{"$pull": bson.M{"members": bson.M{"userId": invitation.UserID}}}); err != nil {
		return nil, fmt.Errorf("failed to clear previous membership: %v", err)
	}
	if _, err := s.milestonesCollection.UpdateOne(ctx, bson.M{"_id": invitation.MilestoneID},
		bson.M{"$push": bson.M{"members": invitation.Membership()}}); err != nil {
		return nil, fmt.Errorf("failed to add membership: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)

	return invitation, nil
}

// RejectLeaderInvitation declines the leader slot; no staffing side effect.
func (s *InvitationService) RejectLeaderInvitation(ctx context.Context, publicID, reason string) (*models.LeaderInvitation, error) {
	invitation, err := s.GetLeaderInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}
	from := invitation.Status
	if err := invitation.Reject(reason, time.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, s.leaderInvitations, publicID, from, bson.M{
		"status": invitation.Status,
		"remark": invitation.Remark,
	}); err != nil {
		return nil, err
	}
	return invitation, nil
}

// RejectMemberInvitation declines a member role; no staffing side effect.
func (s *InvitationService) RejectMemberInvitation(ctx context.Context, publicID, reason string) (*models.MemberInvitation, error) {
	invitation, err := s.GetMemberInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}
	from := invitation.Status
	if err := invitation.Reject(reason, time.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, s.memberInvitations, publicID, from, bson.M{
		"status": invitation.Status,
		"remark": invitation.Remark,
	}); err != nil {
		return nil, err
	}
	return invitation, nil
}

// ApproveLeaderInvitation is the project owner's finalization of the leader
// terms. Leader invitations only; member invitations use cancel/resend/update
// instead.
func (s *InvitationService) ApproveLeaderInvitation(ctx context.Context, actor primitive.ObjectID, publicID string, finalRate int) (*models.LeaderInvitation, error) {
	if finalRate <= 0 {
		return nil, &models.ValidationError{Field: "finalRate", Message: "a positive final rate is required"}
	}
	invitation, err := s.GetLeaderInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}

	_, snapshot, err := s.staffingContext(ctx, invitation.MilestoneID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanEditMilestone(snapshot, actor) {
		return nil, &models.PermissionDeniedError{Action: "approve leader invitation"}
	}

	from := invitation.Status
	if err := invitation.Approve(time.Now()); err != nil {
		return nil, err
	}
	invitation.LeaderRate = finalRate
	if err := s.transition(ctx, s.leaderInvitations, publicID, from, bson.M{
		"status":     invitation.Status,
		"leaderRate": invitation.LeaderRate,
	}); err != nil {
		return nil, err
	}
	s.notify(ctx, invitation.LeaderID, "LEADER_INVITATION_APPROVED", "Your leader terms have been finalized.")
	return invitation, nil
}

// CancelMemberInvitation withdraws a pending member invitation. Member
// invitations only.
func (s *InvitationService) CancelMemberInvitation(ctx context.Context, actor primitive.ObjectID, publicID string) (*models.MemberInvitation, error) {
	invitation, err := s.GetMemberInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}

	_, snapshot, err := s.staffingContext(ctx, invitation.MilestoneID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanManageStaffing(snapshot, invitation.MilestoneID, actor) {
		return nil, &models.PermissionDeniedError{Action: "cancel member invitation"}
	}

	from := invitation.Status
	if err := invitation.Cancel(time.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, s.memberInvitations, publicID, from, bson.M{
		"status":    invitation.Status,
		"removedAt": invitation.RemovedAt,
	}); err != nil {
		return nil, err
	}
	return invitation, nil
}

// ResendMemberInvitation re-notifies the invitee. The publicId and the status
// are left untouched; only a pending invitation can be resent.
func (s *InvitationService) ResendMemberInvitation(ctx context.Context, actor primitive.ObjectID, publicID string) (*models.MemberInvitation, error) {
	invitation, err := s.GetMemberInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}

	_, snapshot, err := s.staffingContext(ctx, invitation.MilestoneID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanManageStaffing(snapshot, invitation.MilestoneID, actor) {
		return nil, &models.PermissionDeniedError{Action: "resend member invitation"}
	}
	if invitation.Status != models.StatusPendingInvitation {
		return nil, &models.InvalidStateTransitionError{From: invitation.Status, Trigger: "resend"}
	}

	s.notify(ctx, invitation.UserID, "MEMBER_INVITATION", "You have a pending milestone invitation.")
	return invitation, nil
}

// UpdateMemberInvitation changes the rate/role terms of a pending member
// invitation.
func (s *InvitationService) UpdateMemberInvitation(ctx context.Context, actor primitive.ObjectID, publicID string, patch MemberInvitationPatch) (*models.MemberInvitation, error) {
	invitation, err := s.GetMemberInvitation(ctx, publicID)
	if err != nil {
		return nil, err
	}

	_, snapshot, err := s.staffingContext(ctx, invitation.MilestoneID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanManageStaffing(snapshot, invitation.MilestoneID, actor) {
		return nil, &models.PermissionDeniedError{Action: "update member invitation"}
	}
	if invitation.Status != models.StatusPendingInvitation {
		return nil, &models.InvalidStateTransitionError{From: invitation.Status, Trigger: "update"}
	}

	set := bson.M{}
	if patch.HourlyRate != nil {
		if *patch.HourlyRate <= 0 {
			return nil, &models.ValidationError{Field: "hourlyRate", Message: "a positive hourly rate is required"}
		}
		invitation.HourlyRate = *patch.HourlyRate
		set["hourlyRate"] = invitation.HourlyRate
	}
	if patch.RoleTypeID != nil {
		if err := s.roleTypesCollection.FindOne(ctx, bson.M{"_id": *patch.RoleTypeID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, &models.NotFoundError{Resource: "role type", ID: patch.RoleTypeID.Hex()}
			}
			return nil, fmt.Errorf("error fetching role type: %v", err)
		}
		invitation.RoleTypeID = *patch.RoleTypeID
		set["roleTypeId"] = invitation.RoleTypeID
	}
	if patch.Remark != nil {
		invitation.Remark = *patch.Remark
		set["remark"] = invitation.Remark
	}
	if len(set) == 0 {
		return invitation, nil
	}

	if err := s.transition(ctx, s.memberInvitations, publicID, models.StatusPendingInvitation, set); err != nil {
		return nil, err
	}
	return invitation, nil
}

// RemoveLeader clears the milestone's leader slot and marks the accepted
// leader invitation REMOVED. Task assignments are untouched.
func (s *InvitationService) RemoveLeader(ctx context.Context, actor primitive.ObjectID, projectID, milestoneID primitive.ObjectID) (*models.Milestone, error) {
	snapshot, err := s.hierarchy.ProjectSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.permissions.CanManageStaffing(snapshot, milestoneID, actor) {
		return nil, &models.PermissionDeniedError{Action: "remove milestone leader"}
	}

	var invitation models.LeaderInvitation
	err = s.leaderInvitations.FindOne(ctx, bson.M{
		"milestoneId": milestoneID,
		"status":      models.StatusInvitationAccepted,
	}).Decode(&invitation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "accepted leader invitation", ID: milestoneID.Hex()}
		}
		return nil, fmt.Errorf("error fetching leader invitation: %v", err)
	}

	from := invitation.Status
	if err := invitation.Remove(time.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, s.leaderInvitations, invitation.PublicID, from, bson.M{
		"status":    invitation.Status,
		"removedAt": invitation.RemovedAt,
	}); err != nil {
		return nil, err
	}

	_, err = s.milestonesCollection.UpdateOne(ctx, bson.M{"_id": milestoneID}, bson.M{
		"$unset": bson.M{"leaderId": ""},
		"$set":   bson.M{"leaderStatus": models.StatusRemoved, "leaderRate": 0},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clear milestone leader: %v", err)
	}
	s.hierarchy.Invalidate(projectID)

	return s.hierarchy.GetMilestone(ctx, milestoneID)
}

// RemoveMember marks the accepted membership REMOVED. Existing task and
// subtask assignments keep pointing at the removed membership; only new
// assignments are blocked.
func (s *InvitationService) RemoveMember(ctx context.Context, actor primitive.ObjectID, milestoneID, userID primitive.ObjectID) error {
	milestone, snapshot, err := s.staffingContext(ctx, milestoneID)
	if err != nil {
		return err
	}
	if !s.permissions.CanManageStaffing(snapshot, milestoneID, actor) {
		return &models.PermissionDeniedError{Action: "remove milestone member"}
	}

	var invitation models.MemberInvitation
	err = s.memberInvitations.FindOne(ctx, bson.M{
		"milestoneId": milestoneID,
		"userId":      userID,
		"status":      models.StatusInvitationAccepted,
	}).Decode(&invitation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.NotFoundError{Resource: "milestone member", ID: userID.Hex()}
		}
		return fmt.Errorf("error fetching member invitation: %v", err)
	}

	from := invitation.Status
	if err := invitation.Remove(time.Now()); err != nil {
		return err
	}
	if err := s.transition(ctx, s.memberInvitations, invitation.PublicID, from, bson.M{
		"status":    invitation.Status,
		"removedAt": invitation.RemovedAt,
	}); err != nil {
		return err
	}

	_, err = s.milestonesCollection.UpdateOne(ctx,
		bson.M{"_id": milestoneID, "members.userId": userID},
		bson.M{"$set": bson.M{"members.$.status": models.StatusRemoved}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark membership removed: %v", err)
	}
	s.hierarchy.Invalidate(milestone.ProjectID)
	return nil
}

// ListMilestoneLeaderInvitations returns every leader invitation of a
// milestone, history included.
func (s *InvitationService) ListMilestoneLeaderInvitations(ctx context.Context, milestonePublicID string) ([]models.LeaderInvitation, error) {
	milestone, err := s.hierarchy.GetMilestoneByPublicID(ctx, milestonePublicID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.leaderInvitations.Find(ctx, bson.M{"milestoneId": milestone.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list leader invitations: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.LeaderInvitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode leader invitations: %v", err)
	}
	return invitations, nil
}

// ListMilestoneMemberInvitations returns every member invitation of a
// milestone, history included.
func (s *InvitationService) ListMilestoneMemberInvitations(ctx context.Context, milestonePublicID string) ([]models.MemberInvitation, error) {
	milestone, err := s.hierarchy.GetMilestoneByPublicID(ctx, milestonePublicID)
	if err != nil {
		return nil, err
	}
	cursor, err := s.memberInvitations.Find(ctx, bson.M{"milestoneId": milestone.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list member invitations: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.MemberInvitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode member invitations: %v", err)
	}
	return invitations, nil
}

// ListUserMemberInvitations returns every member invitation addressed to a
// user.
func (s *InvitationService) ListUserMemberInvitations(ctx context.Context, userID primitive.ObjectID) ([]models.MemberInvitation, error) {
	cursor, err := s.memberInvitations.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list member invitations: %v", err)
	}
	defer cursor.Close(ctx)

	var invitations []models.MemberInvitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode member invitations: %v", err)
	}
	return invitations, nil
}

func (s *InvitationService) notify(ctx context.Context, userID primitive.ObjectID, notificationType, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, utils.Notification{
		UserID:  userID.Hex(),
		Type:    notificationType,
		Message: message,
	})
	if err != nil {
		logging.Logger.Warnf("notification dispatch failed for user %s: %v", userID.Hex(), err)
	}
}
