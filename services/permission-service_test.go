package services

import (
	"testing"

	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type actorSet struct {
	projectOwner   primitive.ObjectID
	milestoneOwner primitive.ObjectID
	member         primitive.ObjectID
	taskOwner      primitive.ObjectID
	outsider       primitive.ObjectID
}

func buildSnapshot(actors actorSet) (*models.ProjectSnapshot, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) {
	milestoneID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()
	subtaskID := primitive.NewObjectID()

	snapshot := &models.ProjectSnapshot{
		Project: models.Project{
			ID:        primitive.NewObjectID(),
			CreatorID: actors.projectOwner,
		},
		Milestones: []models.MilestoneSnapshot{
			{
				Milestone: models.Milestone{
					ID:        milestoneID,
					CreatorID: actors.milestoneOwner,
					Members: []models.MilestoneMember{
						{UserID: actors.member, Status: models.StatusInvitationAccepted},
						{UserID: actors.outsider, Status: models.StatusRemoved},
					},
				},
				Tasks: []models.TaskSnapshot{
					{
						Task: models.Task{
							ID:          taskID,
							MilestoneID: milestoneID,
							CreatorID:   actors.taskOwner,
						},
						Subtasks: []models.Subtask{
							{ID: subtaskID, TaskID: taskID, CreatorID: actors.taskOwner},
						},
					},
				},
			},
		},
	}
	return snapshot, milestoneID, taskID, subtaskID
}

func newActorSet() actorSet {
	return actorSet{
		projectOwner:   primitive.NewObjectID(),
		milestoneOwner: primitive.NewObjectID(),
		member:         primitive.NewObjectID(),
		taskOwner:      primitive.NewObjectID(),
		outsider:       primitive.NewObjectID(),
	}
}

func TestProjectAndMilestoneMutationsAreOwnerOnly(t *testing.T) {
	ps := NewPermissionService()
	actors := newActorSet()
	snapshot, _, _, _ := buildSnapshot(actors)

	if !ps.CanEditProject(snapshot, actors.projectOwner) {
		t.Fatal("the project owner must be able to edit the project")
	}
	for _, actor := range []primitive.ObjectID{actors.milestoneOwner, actors.member, actors.outsider} {
		if ps.CanEditProject(snapshot, actor) {
			t.Fatalf("only the project owner may edit the project")
		}
		if ps.CanCreateMilestone(snapshot, actor) {
			t.Fatalf("only the project owner may create milestones")
		}
		if ps.CanEditMilestone(snapshot, actor) {
			t.Fatalf("only the project owner may edit milestones")
		}
	}
}

func TestMembershipGrantsCreateButNotEdit(t *testing.T) {
	ps := NewPermissionService()
	actors := newActorSet()
	snapshot, milestoneID, taskID, _ := buildSnapshot(actors)

	if !ps.CanCreateTask(snapshot, milestoneID, actors.member) {
		t.Fatal("an active member must be able to create tasks")
	}
	if ps.CanCreateTask(snapshot, milestoneID, actors.outsider) {
		t.Fatal("a removed membership must not grant task creation")
	}
	if ps.CanEditTask(snapshot, milestoneID, taskID, actors.member) {
		t.Fatal("membership alone must not grant task edits")
	}
	if !ps.CanEditTask(snapshot, milestoneID, taskID, actors.taskOwner) {
		t.Fatal("the task owner must be able to edit the task")
	}
	if !ps.CanEditTask(snapshot, milestoneID, taskID, actors.projectOwner) {
		t.Fatal("the project owner inherits task edit rights through the chain")
	}
}

func TestSubtaskChain(t *testing.T) {
	ps := NewPermissionService()
	actors := newActorSet()
	snapshot, milestoneID, taskID, subtaskID := buildSnapshot(actors)

	if !ps.CanCreateSubtask(snapshot, milestoneID, taskID, actors.member) {
		t.Fatal("an active member must be able to create subtasks")
	}
	if ps.CanEditSubtask(snapshot, milestoneID, taskID, subtaskID, actors.member) {
		t.Fatal("membership alone must not grant subtask edits")
	}
	if !ps.CanEditSubtask(snapshot, milestoneID, taskID, subtaskID, actors.taskOwner) {
		t.Fatal("the task owner must be able to edit its subtasks")
	}
	if !ps.CanEditSubtask(snapshot, milestoneID, taskID, subtaskID, actors.milestoneOwner) {
		t.Fatal("the milestone owner inherits subtask edit rights through the chain")
	}
}

func TestStaffingGate(t *testing.T) {
	ps := NewPermissionService()
	actors := newActorSet()
	snapshot, milestoneID, _, _ := buildSnapshot(actors)

	if !ps.CanManageStaffing(snapshot, milestoneID, actors.projectOwner) {
		t.Fatal("the project owner must be able to manage staffing")
	}
	if !ps.CanManageStaffing(snapshot, milestoneID, actors.milestoneOwner) {
		t.Fatal("the milestone owner must be able to manage staffing")
	}
	if ps.CanManageStaffing(snapshot, milestoneID, actors.member) {
		t.Fatal("members must not be able to manage staffing")
	}
}

func TestUnknownTargetsResolveToNoAccess(t *testing.T) {
	ps := NewPermissionService()
	actors := newActorSet()
	snapshot, milestoneID, _, _ := buildSnapshot(actors)

	if ps.CanEditProject(nil, actors.projectOwner) {
		t.Fatal("a missing snapshot must deny everything")
	}
	if ps.CanCreateTask(snapshot, primitive.NewObjectID(), actors.projectOwner) {
		t.Fatal("an unknown milestone must deny task creation")
	}
	if ps.CanEditTask(snapshot, milestoneID, primitive.NewObjectID(), actors.projectOwner) {
		t.Fatal("an unknown task must deny edits")
	}
}
