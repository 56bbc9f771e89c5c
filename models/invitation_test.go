package models

import (
	"errors"
	"testing"
	"time"
)

func pendingInvitation(now time.Time) InvitationBase {
	return InvitationBase{
		PublicID:  "inv-1",
		Status:    StatusPendingInvitation,
		InvitedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func TestAcceptFromPending(t *testing.T) {
	now := time.Now()
	inv := pendingInvitation(now)

	if err := inv.Accept(now); err != nil {
		t.Fatalf("accept from pending failed: %v", err)
	}
	if inv.Status != StatusInvitationAccepted {
		t.Fatalf("expected status %s, got %s", StatusInvitationAccepted, inv.Status)
	}
	if inv.AcceptedAt == nil || !inv.AcceptedAt.Equal(now) {
		t.Fatalf("expected AcceptedAt %v, got %v", now, inv.AcceptedAt)
	}
}

func TestAcceptIsIdempotent(t *testing.T) {
	now := time.Now()
	inv := pendingInvitation(now)
	if err := inv.Accept(now); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	first := *inv.AcceptedAt

	later := now.Add(time.Hour)
	if err := inv.Accept(later); err != nil {
		t.Fatalf("re-accept should succeed, got: %v", err)
	}
	if !inv.AcceptedAt.Equal(first) {
		t.Fatalf("re-accept must not move AcceptedAt: had %v, got %v", first, inv.AcceptedAt)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	now := time.Now()

	for _, status := range []InvitationStatus{
		StatusPendingInvitation,
		StatusInvitationAccepted,
		StatusInvitationExpired,
	} {
		inv := pendingInvitation(now)
		inv.Status = status
		err := inv.Reject("   ", now)

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("status %s: expected a validation error for blank reason, got %v", status, err)
		}
		if inv.Status != status {
			t.Fatalf("status %s: blank reason must not change status, got %s", status, inv.Status)
		}
	}
}

func TestRejectFromPendingStoresReason(t *testing.T) {
	now := time.Now()
	inv := pendingInvitation(now)

	if err := inv.Reject("rate too low", now); err != nil {
		t.Fatalf("reject from pending failed: %v", err)
	}
	if inv.Status != StatusInvitationRejected {
		t.Fatalf("expected status %s, got %s", StatusInvitationRejected, inv.Status)
	}
	if inv.Remark != "rate too low" {
		t.Fatalf("expected remark to carry the reason, got %q", inv.Remark)
	}
}

// Every trigger against every state: the machine must reject everything it
// does not explicitly allow, and must never mutate the record on rejection.
func TestTransitionClosure(t *testing.T) {
	now := time.Now()
	allStatuses := []InvitationStatus{
		StatusPendingInvitation,
		StatusInvitationAccepted,
		StatusInvitationRejected,
		StatusInvitationExpired,
		StatusInvitationCanceled,
		StatusRemoved,
		StatusInvitationApproved,
	}

	triggers := []struct {
		name    string
		apply   func(inv *InvitationBase) error
		allowed map[InvitationStatus]InvitationStatus
	}{
		{
			name:  "accept",
			apply: func(inv *InvitationBase) error { return inv.Accept(now) },
			allowed: map[InvitationStatus]InvitationStatus{
				StatusPendingInvitation:  StatusInvitationAccepted,
				StatusInvitationAccepted: StatusInvitationAccepted,
			},
		},
		{
			name:  "reject",
			apply: func(inv *InvitationBase) error { return inv.Reject("declined", now) },
			allowed: map[InvitationStatus]InvitationStatus{
				StatusPendingInvitation: StatusInvitationRejected,
			},
		},
		{
			name:  "expire",
			apply: func(inv *InvitationBase) error { return inv.Expire(now) },
			allowed: map[InvitationStatus]InvitationStatus{
				StatusPendingInvitation: StatusInvitationExpired,
			},
		},
		{
			name:  "cancel",
			apply: func(inv *InvitationBase) error { return inv.Cancel(now) },
			allowed: map[InvitationStatus]InvitationStatus{
				StatusPendingInvitation: StatusInvitationCanceled,
			},
		},
		{
			name:  "approve",
			apply: func(inv *InvitationBase) error { return inv.Approve(now) },
			allowed: map[InvitationStatus]InvitationStatus{
				StatusPendingInvitation: StatusInvitationApproved,
			},
		},
		{
			name:  "remove",
			apply: func(inv *InvitationBase) error { return inv.Remove(now) },
			allowed: map[InvitationStatus]InvitationStatus{
				StatusInvitationAccepted: StatusRemoved,
			},
		},
	}

	for _, trigger := range triggers {
		for _, from := range allStatuses {
			inv := pendingInvitation(now)
			inv.Status = from
			err := trigger.apply(&inv)

			if want, ok := trigger.allowed[from]; ok {
				if err != nil {
					t.Fatalf("%s from %s: expected success, got %v", trigger.name, from, err)
				}
				if inv.Status != want {
					t.Fatalf("%s from %s: expected status %s, got %s", trigger.name, from, want, inv.Status)
				}
				continue
			}

			var transitionErr *InvalidStateTransitionError
			if !errors.As(err, &transitionErr) {
				t.Fatalf("%s from %s: expected an invalid transition error, got %v", trigger.name, from, err)
			}
			if transitionErr.From != from {
				t.Fatalf("%s from %s: error reports wrong origin state %s", trigger.name, from, transitionErr.From)
			}
			if inv.Status != from {
				t.Fatalf("%s from %s: rejected trigger must not change status, got %s", trigger.name, from, inv.Status)
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	cases := map[InvitationStatus]bool{
		StatusPendingInvitation:  false,
		StatusInvitationAccepted: false,
		StatusInvitationRejected: true,
		StatusInvitationExpired:  true,
		StatusInvitationCanceled: true,
		StatusRemoved:            true,
		StatusInvitationApproved: true,
	}
	for status, want := range cases {
		inv := InvitationBase{Status: status}
		if got := inv.Terminal(); got != want {
			t.Fatalf("Terminal() for %s: expected %v, got %v", status, want, got)
		}
	}
}

func TestOverdue(t *testing.T) {
	now := time.Now()
	inv := pendingInvitation(now)

	if inv.Overdue(now) {
		t.Fatal("invitation inside its window must not be overdue")
	}
	if !inv.Overdue(now.Add(8 * 24 * time.Hour)) {
		t.Fatal("pending invitation past its window must be overdue")
	}

	inv.Status = StatusInvitationAccepted
	if inv.Overdue(now.Add(8 * 24 * time.Hour)) {
		t.Fatal("only pending invitations can be overdue")
	}
}

func TestMembershipMirrorsInvitation(t *testing.T) {
	now := time.Now()
	inv := MemberInvitation{
		InvitationBase: pendingInvitation(now),
		HourlyRate:     55,
		InviteeType:    InviteeFreelancer,
	}
	if err := inv.Accept(now); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	member := inv.Membership()
	if member.HourlyRate != 55 {
		t.Fatalf("expected hourly rate 55, got %d", member.HourlyRate)
	}
	if member.Status != StatusInvitationAccepted {
		t.Fatalf("expected membership status %s, got %s", StatusInvitationAccepted, member.Status)
	}
	if member.InvitationPublicID != inv.PublicID {
		t.Fatalf("membership must reference the invitation public id")
	}
	if !member.Active() {
		t.Fatal("accepted membership must be active")
	}
}
