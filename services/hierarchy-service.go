package services

import (
	"context"
	"fmt"
	"sync"

	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// HierarchyService builds read-only project projections from the hierarchy
// collections. Snapshots are cached per project and invalidated by every
// staffing or budget mutation, so permission and budget checks see fresh
// membership after an invitation transition.
type HierarchyService struct {
	projectsCollection   *mongo.Collection
	milestonesCollection *mongo.Collection
	tasksCollection      *mongo.Collection
	subtasksCollection   *mongo.Collection

	mu    sync.RWMutex
	cache map[primitive.ObjectID]*models.ProjectSnapshot
}

func NewHierarchyService(projects, milestones, tasks, subtasks *mongo.Collection) *HierarchyService {
	return &HierarchyService{
		projectsCollection:   projects,
		milestonesCollection: milestones,
		tasksCollection:      tasks,
		subtasksCollection:   subtasks,
		cache:                make(map[primitive.ObjectID]*models.ProjectSnapshot),
	}
}

// ProjectSnapshot returns the cached projection for a project, loading it on
// a miss.
func (s *HierarchyService) ProjectSnapshot(ctx context.Context, projectID primitive.ObjectID) (*models.ProjectSnapshot, error) {
	s.mu.RLock()
	snapshot, ok := s.cache[projectID]
	s.mu.RUnlock()
	if ok {
		return snapshot, nil
	}

	snapshot, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[projectID] = snapshot
	s.mu.Unlock()
	return snapshot, nil
}

// Invalidate drops the cached projection so the next read rebuilds it.
func (s *HierarchyService) Invalidate(projectID primitive.ObjectID) {
	s.mu.Lock()
	delete(s.cache, projectID)
	s.mu.Unlock()
}

func (s *HierarchyService) load(ctx context.Context, projectID primitive.ObjectID) (*models.ProjectSnapshot, error) {
	var project models.Project
	if err := s.projectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "project", ID: projectID.Hex()}
		}
		return nil, fmt.Errorf("error fetching project: %v", err)
	}

	milestones, err := s.loadMilestones(ctx, projectID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.ProjectSnapshot{Project: project}
	for _, milestone := range milestones {
		ms := models.MilestoneSnapshot{Milestone: milestone}
		tasks, err := s.loadTasks(ctx, milestone.ID)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			ts := models.TaskSnapshot{Task: task}
			subtasks, err := s.loadSubtasks(ctx, task.ID)
			if err != nil {
				return nil, err
			}
			ts.Subtasks = subtasks
			ms.Tasks = append(ms.Tasks, ts)
		}
		snapshot.Milestones = append(snapshot.Milestones, ms)
	}
	return snapshot, nil
}

func (s *HierarchyService) loadMilestones(ctx context.Context, projectID primitive.ObjectID) ([]models.Milestone, error) {
	cursor, err := s.milestonesCollection.Find(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to load milestones: %v", err)
	}
	defer cursor.Close(ctx)

	var milestones []models.Milestone
	if err := cursor.All(ctx, &milestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %v", err)
	}
	return milestones, nil
}

func (s *HierarchyService) loadTasks(ctx context.Context, milestoneID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := s.tasksCollection.Find(ctx, bson.M{"milestoneId": milestoneID})
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

func (s *HierarchyService) loadSubtasks(ctx context.Context, taskID primitive.ObjectID) ([]models.Subtask, error) {
	cursor, err := s.subtasksCollection.Find(ctx, bson.M{"taskId": taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to load subtasks: %v", err)
	}
	defer cursor.Close(ctx)

	var subtasks []models.Subtask
	if err := cursor.All(ctx, &subtasks); err != nil {
		return nil, fmt.Errorf("failed to decode subtasks: %v", err)
	}
	return subtasks, nil
}

// GetProject fetches a single project without the nested tree.
func (s *HierarchyService) GetProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.projectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "project", ID: projectID.Hex()}
		}
		return nil, fmt.Errorf("error fetching project: %v", err)
	}
	return &project, nil
}

// GetProjectByPublicID fetches a project by its public correlation id.
func (s *HierarchyService) GetProjectByPublicID(ctx context.Context, publicID string) (*models.Project, error) {
	var project models.Project
	if err := s.projectsCollection.FindOne(ctx, bson.M{"publicId": publicID}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "project", ID: publicID}
		}
		return nil, fmt.Errorf("error fetching project: %v", err)
	}
	return &project, nil
}

// GetMilestone fetches a single milestone.
func (s *HierarchyService) GetMilestone(ctx context.Context, milestoneID primitive.ObjectID) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := s.milestonesCollection.FindOne(ctx, bson.M{"_id": milestoneID}).Decode(&milestone); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "milestone", ID: milestoneID.Hex()}
		}
		return nil, fmt.Errorf("error fetching milestone: %v", err)
	}
	return &milestone, nil
}

// GetMilestoneByPublicID fetches a milestone by its public correlation id.
func (s *HierarchyService) GetMilestoneByPublicID(ctx context.Context, publicID string) (*models.Milestone, error) {
	var milestone models.Milestone
	if err := s.milestonesCollection.FindOne(ctx, bson.M{"publicId": publicID}).Decode(&milestone); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "milestone", ID: publicID}
		}
		return nil, fmt.Errorf("error fetching milestone: %v", err)
	}
	return &milestone, nil
}

// GetTask fetches a single task.
func (s *HierarchyService) GetTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "task", ID: taskID.Hex()}
		}
		return nil, fmt.Errorf("error fetching task: %v", err)
	}
	return &task, nil
}

// GetSubtask fetches a single subtask.
func (s *HierarchyService) GetSubtask(ctx context.Context, subtaskID primitive.ObjectID) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := s.subtasksCollection.FindOne(ctx, bson.M{"_id": subtaskID}).Decode(&subtask); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, &models.NotFoundError{Resource: "subtask", ID: subtaskID.Hex()}
		}
		return nil, fmt.Errorf("error fetching subtask: %v", err)
	}
	return &subtask, nil
}
