package services

import (
	"context"
	"errors"
	"testing"

	"teamup-project/microservices/governance-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payload validation runs before any storage access, so a bare service is
// enough to exercise the rejection paths.
func TestCreateMemberInvitationPayloadValidation(t *testing.T) {
	s := &InvitationService{}
	actor := primitive.NewObjectID()
	freelancerID := primitive.NewObjectID()

	valid := CreateMemberInvitationRequest{
		MilestoneID:  primitive.NewObjectID(),
		UserID:       primitive.NewObjectID(),
		HourlyRate:   40,
		RoleTypeID:   primitive.NewObjectID(),
		InviteeType:  models.InviteeFreelancer,
		FreelancerID: &freelancerID,
	}

	cases := []struct {
		name   string
		mutate func(req *CreateMemberInvitationRequest)
		field  string
	}{
		{
			name:   "zero hourly rate",
			mutate: func(req *CreateMemberInvitationRequest) { req.HourlyRate = 0 },
			field:  "hourlyRate",
		},
		{
			name:   "negative hourly rate",
			mutate: func(req *CreateMemberInvitationRequest) { req.HourlyRate = -5 },
			field:  "hourlyRate",
		},
		{
			name:   "missing role type",
			mutate: func(req *CreateMemberInvitationRequest) { req.RoleTypeID = primitive.NilObjectID },
			field:  "roleTypeId",
		},
		{
			name:   "freelancer without freelancer reference",
			mutate: func(req *CreateMemberInvitationRequest) { req.FreelancerID = nil },
			field:  "freelancerId",
		},
		{
			name: "company user without company references",
			mutate: func(req *CreateMemberInvitationRequest) {
				req.InviteeType = models.InviteeCompanyUser
				req.FreelancerID = nil
			},
			field: "companyId",
		},
		{
			name: "service company without company references",
			mutate: func(req *CreateMemberInvitationRequest) {
				req.InviteeType = models.InviteeServiceCompany
				req.FreelancerID = nil
			},
			field: "companyId",
		},
		{
			name:   "unknown invitee type",
			mutate: func(req *CreateMemberInvitationRequest) { req.InviteeType = "ROBOT" },
			field:  "inviteeType",
		},
	}

	for _, tc := range cases {
		req := valid
		tc.mutate(&req)

		_, err := s.CreateMemberInvitation(context.Background(), actor, req)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected a validation error, got %v", tc.name, err)
		}
		if validationErr.Field != tc.field {
			t.Fatalf("%s: expected the error on %q, got %q", tc.name, tc.field, validationErr.Field)
		}
	}
}

func TestCreateLeaderInvitationPayloadValidation(t *testing.T) {
	s := &InvitationService{}
	actor := primitive.NewObjectID()

	_, err := s.CreateLeaderInvitation(context.Background(), actor, CreateLeaderInvitationRequest{
		MilestoneID: primitive.NewObjectID(),
		LeaderID:    primitive.NewObjectID(),
		LeaderRate:  0,
	})
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "leaderRate" {
		t.Fatalf("expected a validation error on leaderRate, got %v", err)
	}

	_, err = s.CreateLeaderInvitation(context.Background(), actor, CreateLeaderInvitationRequest{
		MilestoneID: primitive.NewObjectID(),
		LeaderRate:  60,
	})
	if !errors.As(err, &validationErr) || validationErr.Field != "leaderId" {
		t.Fatalf("expected a validation error on leaderId, got %v", err)
	}
}

func TestApproveLeaderInvitationRequiresPositiveRate(t *testing.T) {
	s := &InvitationService{}
	actor := primitive.NewObjectID()

	for _, rate := range []int{0, -10} {
		_, err := s.ApproveLeaderInvitation(context.Background(), actor, "inv-1", rate)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("final rate %d: expected a validation error, got %v", rate, err)
		}
		if validationErr.Field != "finalRate" {
			t.Fatalf("final rate %d: expected the error on finalRate, got %q", rate, validationErr.Field)
		}
	}
}
