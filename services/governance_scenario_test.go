package services

import (
	"errors"
	"testing"
	"time"

	"teamup-project/microservices/governance-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Walks a milestone from staffing through task allocation to member removal,
// asserting the rules at each step the way the service layer composes them.
func TestStaffingAndAllocationLifecycle(t *testing.T) {
	now := time.Now()
	owner := primitive.NewObjectID()
	worker := primitive.NewObjectID()

	milestoneID := primitive.NewObjectID()
	snapshot := &models.ProjectSnapshot{
		Project: models.Project{
			ID:            primitive.NewObjectID(),
			CreatorID:     owner,
			BudgetedHours: 100,
		},
		Milestones: []models.MilestoneSnapshot{
			{Milestone: models.Milestone{
				ID:            milestoneID,
				CreatorID:     owner,
				BudgetedHours: 100,
			}},
		},
	}
	ps := NewPermissionService()

	// Invite and accept a member.
	invitation := models.MemberInvitation{
		InvitationBase: models.InvitationBase{
			PublicID:    uuid.NewString(),
			MilestoneID: milestoneID,
			Status:      models.StatusPendingInvitation,
			InvitedAt:   now,
			ExpiresAt:   now.Add(7 * 24 * time.Hour),
		},
		UserID:      worker,
		HourlyRate:  40,
		RoleTypeID:  primitive.NewObjectID(),
		InviteeType: models.InviteeFreelancer,
	}
	if err := invitation.Accept(now); err != nil {
		t.Fatalf("accepting the invitation failed: %v", err)
	}
	milestone := &snapshot.Milestones[0].Milestone
	milestone.Members = append(milestone.Members, invitation.Membership())

	if !ps.CanCreateTask(snapshot, milestoneID, worker) {
		t.Fatal("the accepted member must be able to create tasks")
	}

	// First task takes 40 of the 100 hours.
	var allocated []BudgetAllocation
	remaining := ComputeRemaining(milestone.BudgetedHours, allocated, primitive.NilObjectID)
	amount, err := ValidateProposedAmount(40, remaining, 0)
	if err != nil {
		t.Fatalf("allocating 40 of 100 must pass: %v", err)
	}
	task := models.Task{
		ID:            primitive.NewObjectID(),
		MilestoneID:   milestoneID,
		CreatorID:     worker,
		AssigneeID:    worker,
		BudgetedHours: amount,
	}
	allocated = append(allocated, BudgetAllocation{ID: task.ID, Amount: task.BudgetedHours})
	snapshot.Milestones[0].Tasks = append(snapshot.Milestones[0].Tasks, models.TaskSnapshot{Task: task})

	remaining = ComputeRemaining(milestone.BudgetedHours, allocated, primitive.NilObjectID)
	if remaining != 60 {
		t.Fatalf("expected 60 hours remaining after the first task, got %d", remaining)
	}

	// A second task of 65 oversubscribes the pool.
	_, err = ValidateProposedAmount(65, remaining, 0)
	var exceededErr *models.BudgetExceededError
	if !errors.As(err, &exceededErr) {
		t.Fatalf("allocating 65 of the remaining 60 must be rejected, got %v", err)
	}
	if exceededErr.Remaining != 60 {
		t.Fatalf("error must report 60 remaining, got %d", exceededErr.Remaining)
	}

	// Remove the member. The invitation record and the membership both flip
	// to REMOVED; the existing task assignment is left alone.
	if err := invitation.Remove(now); err != nil {
		t.Fatalf("removing the accepted member failed: %v", err)
	}
	for i := range milestone.Members {
		if milestone.Members[i].UserID == worker {
			milestone.Members[i].Status = models.StatusRemoved
		}
	}

	if milestone.ActiveMember(worker) != nil {
		t.Fatal("a removed member must not count as active")
	}
	if snapshot.Milestones[0].Tasks[0].Task.AssigneeID != worker {
		t.Fatal("removal must not rewrite existing task assignments")
	}
	if err := validateAssignee(snapshot, milestoneID, worker); err == nil {
		t.Fatal("new assignments to a removed member must be rejected")
	}

	// The removed member also loses creation rights.
	if ps.CanCreateTask(snapshot, milestoneID, worker) {
		t.Fatal("a removed member must not create tasks")
	}

	// The freed invitation record cannot be reused.
	if err := invitation.Accept(now); err == nil {
		t.Fatal("a removed invitation must not be acceptable again")
	}
}

// The milestone leader slot follows the same machine but with the approve
// path reserved for the project owner.
func TestLeaderSlotLifecycle(t *testing.T) {
	now := time.Now()
	leader := primitive.NewObjectID()
	milestoneID := primitive.NewObjectID()

	invitation := models.LeaderInvitation{
		InvitationBase: models.InvitationBase{
			PublicID:    uuid.NewString(),
			MilestoneID: milestoneID,
			Status:      models.StatusPendingInvitation,
			InvitedAt:   now,
			ExpiresAt:   now.Add(7 * 24 * time.Hour),
		},
		LeaderID:   leader,
		LeaderRate: 80,
	}

	if err := invitation.Approve(now); err != nil {
		t.Fatalf("approving a pending leader invitation failed: %v", err)
	}
	if invitation.Status != models.StatusInvitationApproved {
		t.Fatalf("expected %s, got %s", models.StatusInvitationApproved, invitation.Status)
	}

	// Approved is terminal: no accept, no second approval.
	if err := invitation.Accept(now); err == nil {
		t.Fatal("an approved invitation must not be acceptable")
	}
	if err := invitation.Approve(now); err == nil {
		t.Fatal("approval must not be repeatable")
	}

	milestone := models.Milestone{
		ID:           milestoneID,
		LeaderID:     &leader,
		LeaderRate:   invitation.LeaderRate,
		LeaderStatus: models.StatusInvitationAccepted,
	}
	if !milestone.Staffed() {
		t.Fatal("a milestone with an accepted leader must report as staffed")
	}

	milestone.LeaderStatus = models.StatusRemoved
	if milestone.Staffed() {
		t.Fatal("a milestone with a removed leader must not report as staffed")
	}
}
