package services

import (
	"context"
	"fmt"
	"strings"

	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoleTypeService manages the catalog member invitations draw their roles
// from. Create hands the stored record straight back to the caller, so no
// follow-up lookup is needed to learn the new id.
type RoleTypeService struct {
	roleTypesCollection *mongo.Collection
}

func NewRoleTypeService(roleTypes *mongo.Collection) *RoleTypeService {
	return &RoleTypeService{roleTypesCollection: roleTypes}
}

type CreateRoleTypeRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// ListRoleTypes returns the full catalog.
func (s *RoleTypeService) ListRoleTypes(ctx context.Context) ([]models.RoleType, error) {
	cursor, err := s.roleTypesCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list role types: %v", err)
	}
	defer cursor.Close(ctx)

	var roleTypes []models.RoleType
	if err := cursor.All(ctx, &roleTypes); err != nil {
		return nil, fmt.Errorf("failed to decode role types: %v", err)
	}
	return roleTypes, nil
}

// CreateRoleType adds a catalog entry. Codes are normalized to upper case and
// must be unique.
func (s *RoleTypeService) CreateRoleType(ctx context.Context, req CreateRoleTypeRequest) (*models.RoleType, error) {
	if req.Name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "a role type name is required"}
	}
	if req.Code == "" {
		return nil, &models.ValidationError{Field: "code", Message: "a role type code is required"}
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	err := s.roleTypesCollection.FindOne(ctx, bson.M{"code": code}).Err()
	if err == nil {
		return nil, &models.ConflictError{Message: "a role type with this code already exists"}
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("error checking role type code: %v", err)
	}

	roleType := &models.RoleType{
		Name:        req.Name,
		Code:        code,
		Description: req.Description,
	}
	result, err := s.roleTypesCollection.InsertOne(ctx, roleType)
	if err != nil {
		return nil, fmt.Errorf("failed to create role type: %v", err)
	}
	roleType.ID = result.InsertedID.(primitive.ObjectID)
	return roleType, nil
}
