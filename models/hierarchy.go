package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ProjectSnapshot is the read-only projection of a project and its nested
// milestones, tasks and subtasks. The permission resolver and budget checks
// operate on a snapshot and never mutate it.
type ProjectSnapshot struct {
	Project    Project             `json:"project"`
	Milestones []MilestoneSnapshot `json:"milestones"`
}

type MilestoneSnapshot struct {
	Milestone Milestone      `json:"milestone"`
	Tasks     []TaskSnapshot `json:"tasks"`
}

type TaskSnapshot struct {
	Task     Task      `json:"task"`
	Subtasks []Subtask `json:"subtasks"`
}

func (s *ProjectSnapshot) FindMilestone(milestoneID primitive.ObjectID) *MilestoneSnapshot {
	for i := range s.Milestones {
		if s.Milestones[i].Milestone.ID == milestoneID {
			return &s.Milestones[i]
		}
	}
	return nil
}

func (m *MilestoneSnapshot) FindTask(taskID primitive.ObjectID) *TaskSnapshot {
	for i := range m.Tasks {
		if m.Tasks[i].Task.ID == taskID {
			return &m.Tasks[i]
		}
	}
	return nil
}

func (t *TaskSnapshot) FindSubtask(subtaskID primitive.ObjectID) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			return &t.Subtasks[i]
		}
	}
	return nil
}
