package services

import (
	"context"
	"testing"

	"elevateu-backend/internal/models"
)

func TestResolve_ExternalIDFirst(t *testing.T) {
	users := &fakeUserStore{users: []models.User{
		{ID: testOID(1), ExternalID: "ext_abc", Name: "Dana"},
	}}
	resolver := NewIdentityResolver(users)

	resolved, err := resolver.Resolve(context.Background(), "ext_abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.User.Name != "Dana" {
		t.Errorf("Expected Dana, got %q", resolved.User.Name)
	}
	if resolved.RawRef != "ext_abc" {
		t.Errorf("Expected raw ref preserved, got %q", resolved.RawRef)
	}
}

func TestResolve_FallsBackToInternalID(t *testing.T) {
	user := models.User{ID: testOID(2), Name: "Sam"}
	users := &fakeUserStore{users: []models.User{user}}
	resolver := NewIdentityResolver(users)

	resolved, err := resolver.Resolve(context.Background(), user.ID.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.User.Name != "Sam" {
		t.Errorf("Expected Sam, got %q", resolved.User.Name)
	}
}

func TestResolve_NotFound(t *testing.T) {
	resolver := NewIdentityResolver(&fakeUserStore{})

	tests := []struct {
		name string
		ref  string
	}{
		{"unknown ref", "nope"},
		{"empty ref", ""},
		{"whitespace ref", "   "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tc.ref)
			if _, ok := err.(*NotFoundError); !ok {
				t.Errorf("Expected NotFoundError, got %v", err)
			}
		})
	}
}

func TestResolve_IDFormsOrderedAndDeduplicated(t *testing.T) {
	user := models.User{ID: testOID(3), ExternalID: "ext_x"}
	users := &fakeUserStore{users: []models.User{user}}
	resolver := NewIdentityResolver(users)

	resolved, err := resolver.Resolve(context.Background(), "ext_x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"ext_x", user.ID.Hex()}
	if len(resolved.IDForms) != len(want) {
		t.Fatalf("Expected %d forms, got %v", len(want), resolved.IDForms)
	}
	for i, form := range want {
		if resolved.IDForms[i] != form {
			t.Errorf("Form %d: expected %q, got %q", i, form, resolved.IDForms[i])
		}
	}
}
