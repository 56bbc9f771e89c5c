package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func nestedSnapshot() (*ProjectSnapshot, primitive.ObjectID, primitive.ObjectID, primitive.ObjectID) {
	milestoneID := primitive.NewObjectID()
	taskID := primitive.NewObjectID()
	subtaskID := primitive.NewObjectID()

	snapshot := &ProjectSnapshot{
		Project: Project{ID: primitive.NewObjectID()},
		Milestones: []MilestoneSnapshot{
			{
				Milestone: Milestone{ID: milestoneID},
				Tasks: []TaskSnapshot{
					{
						Task:     Task{ID: taskID, MilestoneID: milestoneID},
						Subtasks: []Subtask{{ID: subtaskID, TaskID: taskID}},
					},
				},
			},
		},
	}
	return snapshot, milestoneID, taskID, subtaskID
}

func TestSnapshotFinders(t *testing.T) {
	snapshot, milestoneID, taskID, subtaskID := nestedSnapshot()

	milestone := snapshot.FindMilestone(milestoneID)
	if milestone == nil || milestone.Milestone.ID != milestoneID {
		t.Fatalf("expected to find milestone %s", milestoneID.Hex())
	}
	task := milestone.FindTask(taskID)
	if task == nil || task.Task.ID != taskID {
		t.Fatalf("expected to find task %s", taskID.Hex())
	}
	subtask := task.FindSubtask(subtaskID)
	if subtask == nil || subtask.ID != subtaskID {
		t.Fatalf("expected to find subtask %s", subtaskID.Hex())
	}

	if snapshot.FindMilestone(primitive.NewObjectID()) != nil {
		t.Fatal("an unknown milestone id must resolve to nil")
	}
	if milestone.FindTask(primitive.NewObjectID()) != nil {
		t.Fatal("an unknown task id must resolve to nil")
	}
	if task.FindSubtask(primitive.NewObjectID()) != nil {
		t.Fatal("an unknown subtask id must resolve to nil")
	}
}

// Cascading deletes enumerate children by walking the snapshot wrappers; the
// ids live on the embedded records, not the wrappers themselves.
func TestSnapshotChildEnumeration(t *testing.T) {
	snapshot, milestoneID, taskID, _ := nestedSnapshot()

	var milestoneIDs, taskIDs []primitive.ObjectID
	for _, milestone := range snapshot.Milestones {
		milestoneIDs = append(milestoneIDs, milestone.Milestone.ID)
		for _, task := range milestone.Tasks {
			taskIDs = append(taskIDs, task.Task.ID)
		}
	}

	if len(milestoneIDs) != 1 || milestoneIDs[0] != milestoneID {
		t.Fatalf("expected the milestone id %s, got %v", milestoneID.Hex(), milestoneIDs)
	}
	if len(taskIDs) != 1 || taskIDs[0] != taskID {
		t.Fatalf("expected the task id %s, got %v", taskID.Hex(), taskIDs)
	}
}
