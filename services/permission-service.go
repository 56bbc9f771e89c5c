package services

import (
	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PermissionService answers capability queries for an actor over a project
// snapshot. All queries are pure reads; the resolver never touches storage.
//
// Membership grants creation rights on tasks and subtasks but never
// edit/delete rights; mutation rights always walk the ownership chain.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

func isProjectOwner(p *models.ProjectSnapshot, userID primitive.ObjectID) bool {
	return p.Project.CreatorID == userID || p.Project.AssigneeID == userID
}

func isMilestoneOwner(m *models.MilestoneSnapshot, userID primitive.ObjectID) bool {
	return m.Milestone.CreatorID == userID || m.Milestone.AssigneeID == userID
}

func isMilestoneMember(m *models.MilestoneSnapshot, userID primitive.ObjectID) bool {
	return m.Milestone.ActiveMember(userID) != nil
}

func isTaskOwner(t *models.TaskSnapshot, userID primitive.ObjectID) bool {
	return t.Task.CreatorID == userID || t.Task.AssigneeID == userID
}

func isSubtaskOwner(s *models.Subtask, userID primitive.ObjectID) bool {
	return s.CreatorID == userID || s.AssigneeID == userID
}

func (ps *PermissionService) CanEditProject(p *models.ProjectSnapshot, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	return isProjectOwner(p, userID)
}

func (ps *PermissionService) CanDeleteProject(p *models.ProjectSnapshot, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	return isProjectOwner(p, userID)
}

func (ps *PermissionService) CanCreateMilestone(p *models.ProjectSnapshot, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	return isProjectOwner(p, userID)
}

func (ps *PermissionService) CanEditMilestone(p *models.ProjectSnapshot, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	return isProjectOwner(p, userID)
}

func (ps *PermissionService) CanDeleteMilestone(p *models.ProjectSnapshot, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	return isProjectOwner(p, userID)
}

// CanManageStaffing gates invitation cancel/remove operations: the project
// owner or the milestone owner.
func (ps *PermissionService) CanManageStaffing(p *models.ProjectSnapshot, milestoneID, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	if isProjectOwner(p, userID) {
		return true
	}
	milestone := p.FindMilestone(milestoneID)
	return milestone != nil && isMilestoneOwner(milestone, userID)
}

func (ps *PermissionService) CanCreateTask(p *models.ProjectSnapshot, milestoneID, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	milestone := p.FindMilestone(milestoneID)
	if milestone == nil {
		return false
	}
	return isProjectOwner(p, userID) ||
		isMilestoneOwner(milestone, userID) ||
		isMilestoneMember(milestone, userID)
}

func (ps *PermissionService) CanEditTask(p *models.ProjectSnapshot, milestoneID, taskID, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	milestone := p.FindMilestone(milestoneID)
	if milestone == nil {
		return false
	}
	task := milestone.FindTask(taskID)
	if task == nil {
		return false
	}
	return isProjectOwner(p, userID) ||
		isMilestoneOwner(milestone, userID) ||
		isTaskOwner(task, userID)
}

func (ps *PermissionService) CanDeleteTask(p *models.ProjectSnapshot, milestoneID, taskID, userID primitive.ObjectID) bool {
	return ps.CanEditTask(p, milestoneID, taskID, userID)
}

func (ps *PermissionService) CanCreateSubtask(p *models.ProjectSnapshot, milestoneID, taskID, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	milestone := p.FindMilestone(milestoneID)
	if milestone == nil {
		return false
	}
	task := milestone.FindTask(taskID)
	if task == nil {
		return false
	}
	return isProjectOwner(p, userID) ||
		isMilestoneOwner(milestone, userID) ||
		isMilestoneMember(milestone, userID) ||
		isTaskOwner(task, userID)
}

func (ps *PermissionService) CanEditSubtask(p *models.ProjectSnapshot, milestoneID, taskID, subtaskID, userID primitive.ObjectID) bool {
	if p == nil {
		return false
	}
	milestone := p.FindMilestone(milestoneID)
	if milestone == nil {
		return false
	}
	task := milestone.FindTask(taskID)
	if task == nil {
		return false
	}
	subtask := task.FindSubtask(subtaskID)
	if subtask == nil {
		return false
	}
	return isProjectOwner(p, userID) ||
		isMilestoneOwner(milestone, userID) ||
		isTaskOwner(task, userID) ||
		isSubtaskOwner(subtask, userID)
}

func (ps *PermissionService) CanDeleteSubtask(p *models.ProjectSnapshot, milestoneID, taskID, subtaskID, userID primitive.ObjectID) bool {
	return ps.CanEditSubtask(p, milestoneID, taskID, subtaskID, userID)
}
