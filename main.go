package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"teamup-project/microservices/governance-service/handlers"
	"teamup-project/microservices/governance-service/logging"
	"teamup-project/microservices/governance-service/services"
	"teamup-project/microservices/governance-service/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Governance Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: MONGO_URI and MONGO_DB_NAME must be set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	projectsCollection := db.Collection("projects")
	milestonesCollection := db.Collection("milestones")
	tasksCollection := db.Collection("tasks")
	subtasksCollection := db.Collection("subtasks")
	leaderInvitationsCollection := db.Collection("leader_invitations")
	memberInvitationsCollection := db.Collection("member_invitations")
	roleTypesCollection := db.Collection("role_types")
	logging.Logger.Infof("Event ID: DB_COLLECTIONS_SET, Description: Using MongoDB database: %s", mongoDBName)

	httpClient := utils.NewHTTPClient()
	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "NotificationsServiceCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	var notifier *utils.NotificationClient
	if notificationsURL := os.Getenv("NOTIFICATIONS_SERVICE_URL"); notificationsURL != "" {
		notifier = utils.NewNotificationClient(notificationsURL, httpClient, notificationsBreaker)
	} else {
		logging.Logger.Warn("Event ID: CONFIG_WARNING, Description: NOTIFICATIONS_SERVICE_URL is not set; notifications are disabled.")
	}

	hierarchyService := services.NewHierarchyService(projectsCollection, milestonesCollection, tasksCollection, subtasksCollection)
	permissionService := services.NewPermissionService()
	budgetService := services.NewBudgetService(projectsCollection, milestonesCollection, tasksCollection, subtasksCollection)
	projectService := services.NewProjectService(projectsCollection, milestonesCollection, tasksCollection, subtasksCollection, hierarchyService, permissionService, budgetService)
	taskService := services.NewTaskService(tasksCollection, subtasksCollection, hierarchyService, permissionService, budgetService)
	invitationService := services.NewInvitationService(leaderInvitationsCollection, memberInvitationsCollection, milestonesCollection, roleTypesCollection, hierarchyService, permissionService, notifier)
	roleTypeService := services.NewRoleTypeService(roleTypesCollection)

	projectHandler := handlers.NewProjectHandler(projectService)
	milestoneHandler := handlers.NewMilestoneHandler(projectService, invitationService)
	taskHandler := handlers.NewTaskHandler(taskService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	roleTypeHandler := handlers.NewRoleTypeHandler(roleTypeService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, hierarchyService)

	r := mux.NewRouter()

	r.HandleFunc("/api/projects", projectHandler.CreateProject).Methods("POST")
	r.HandleFunc("/api/projects", projectHandler.ListProjects).Methods("GET")
	r.HandleFunc("/api/projects/{publicId}", projectHandler.GetProject).Methods("GET")
	r.HandleFunc("/api/projects/{publicId}", projectHandler.UpdateProject).Methods("PATCH")
	r.HandleFunc("/api/projects/{publicId}", projectHandler.DeleteProject).Methods("DELETE")
	r.HandleFunc("/api/projects/{publicId}/snapshot", projectHandler.GetProjectSnapshot).Methods("GET")
	r.HandleFunc("/api/projects/{publicId}/available-budget", budgetHandler.ProjectAvailableBudget).Methods("GET")
	r.HandleFunc("/api/projects/{publicId}/milestones", milestoneHandler.CreateMilestone).Methods("POST")
	r.HandleFunc("/api/projects/{publicId}/milestones", milestoneHandler.ListProjectMilestones).Methods("GET")

	r.HandleFunc("/api/milestones/{publicId}", milestoneHandler.GetMilestone).Methods("GET")
	r.HandleFunc("/api/milestones/{publicId}", milestoneHandler.UpdateMilestone).Methods("PATCH")
	r.HandleFunc("/api/milestones/{publicId}", milestoneHandler.DeleteMilestone).Methods("DELETE")
	r.HandleFunc("/api/milestones/{publicId}/available-budget", budgetHandler.MilestoneAvailableBudget).Methods("GET")
	r.HandleFunc("/api/milestones/{publicId}/members", milestoneHandler.ListMembers).Methods("GET")
	r.HandleFunc("/api/milestones/{publicId}/members/{userId}", milestoneHandler.RemoveMember).Methods("DELETE")
	r.HandleFunc("/api/milestones/{publicId}/leader", milestoneHandler.RemoveLeader).Methods("DELETE")
	r.HandleFunc("/api/milestones/{publicId}/leader-invitations", invitationHandler.ListMilestoneLeaderInvitations).Methods("GET")
	r.HandleFunc("/api/milestones/{publicId}/member-invitations", invitationHandler.ListMilestoneMemberInvitations).Methods("GET")

	r.HandleFunc("/api/tasks", taskHandler.CreateTask).Methods("POST")
	r.HandleFunc("/api/tasks/{taskId}", taskHandler.GetTask).Methods("GET")
	r.HandleFunc("/api/tasks/{taskId}", taskHandler.UpdateTask).Methods("PATCH")
	r.HandleFunc("/api/tasks/{taskId}", taskHandler.DeleteTask).Methods("DELETE")
	r.HandleFunc("/api/tasks/milestone/{milestoneId}", taskHandler.ListMilestoneTasks).Methods("GET")
	r.HandleFunc("/api/tasks/{taskId}/subtasks", taskHandler.ListTaskSubtasks).Methods("GET")
	r.HandleFunc("/api/tasks/{taskId}/available-budget", budgetHandler.TaskAvailableBudget).Methods("GET")

	r.HandleFunc("/api/subtasks", taskHandler.CreateSubtask).Methods("POST")
	r.HandleFunc("/api/subtasks/{subtaskId}", taskHandler.UpdateSubtask).Methods("PATCH")
	r.HandleFunc("/api/subtasks/{subtaskId}", taskHandler.DeleteSubtask).Methods("DELETE")

	r.HandleFunc("/api/leader-invitations", invitationHandler.CreateLeaderInvitation).Methods("POST")
	r.HandleFunc("/api/leader-invitations/{publicId}", invitationHandler.GetLeaderInvitation).Methods("GET")
	r.HandleFunc("/api/leader-invitations/{publicId}/accept", invitationHandler.AcceptLeaderInvitation).Methods("POST")
	r.HandleFunc("/api/leader-invitations/{publicId}/reject", invitationHandler.RejectLeaderInvitation).Methods("POST")
	r.HandleFunc("/api/leader-invitations/{publicId}/approve", invitationHandler.ApproveLeaderInvitation).Methods("POST")

	r.HandleFunc("/api/member-invitations", invitationHandler.CreateMemberInvitation).Methods("POST")
	r.HandleFunc("/api/member-invitations/mine", invitationHandler.ListMyMemberInvitations).Methods("GET")
	r.HandleFunc("/api/member-invitations/{publicId}", invitationHandler.GetMemberInvitation).Methods("GET")
	r.HandleFunc("/api/member-invitations/{publicId}", invitationHandler.UpdateMemberInvitation).Methods("PATCH")
	r.HandleFunc("/api/member-invitations/{publicId}/accept", invitationHandler.AcceptMemberInvitation).Methods("POST")
	r.HandleFunc("/api/member-invitations/{publicId}/reject", invitationHandler.RejectMemberInvitation).Methods("POST")
	r.HandleFunc("/api/member-invitations/{publicId}/cancel", invitationHandler.CancelMemberInvitation).Methods("POST")
	r.HandleFunc("/api/member-invitations/{publicId}/resend", invitationHandler.ResendMemberInvitation).Methods("POST")

	r.HandleFunc("/api/role-types", roleTypeHandler.ListRoleTypes).Methods("GET")
	r.HandleFunc("/api/role-types", roleTypeHandler.CreateRoleType).Methods("POST")

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
