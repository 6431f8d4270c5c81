package roles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Superuser.HasPermission(Admin))
	assert.True(t, Admin.HasPermission(Manager))
	assert.True(t, Manager.HasPermission(Field))
	assert.False(t, Field.HasPermission(Manager))
	assert.False(t, Manager.HasPermission(Admin))
	assert.True(t, Field.HasPermission(Field))
}

func TestInvalidRoleFallsBackToFieldLevel(t *testing.T) {
	assert.Equal(t, FieldLevel, Role("intern").GetHierarchyLevel())
	assert.False(t, Role("intern").IsValid())
}

func TestCanEditAssembly(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		isOwner bool
		status  string
		want    bool
	}{
		{"owner edits own draft", Field, true, "draft", true},
		{"owner edits own rejected", Field, true, "rejected", true},
		{"owner cannot edit approved", Field, true, "approved", false},
		{"owner cannot edit pending", Manager, true, "pending_approval", false},
		{"non-owner field denied", Field, false, "draft", false},
		{"admin edits anything", Admin, false, "approved", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditAssembly(tt.role, tt.isOwner, tt.status))
		})
	}
}

func TestCanDeleteUsageLog(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local)
	today := time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		role    Role
		isOwner bool
		logDate time.Time
		want    bool
	}{
		{"field owner same day", Field, true, today, true},
		{"field owner yesterday", Field, true, yesterday, false},
		{"field non-owner same day", Field, false, today, false},
		{"manager owner yesterday", Manager, true, yesterday, true},
		{"manager non-owner", Manager, false, today, false},
		{"admin non-owner yesterday", Admin, false, yesterday, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDeleteUsageLog(tt.role, tt.isOwner, tt.logDate, now))
		})
	}
}

func TestCanGrantRole(t *testing.T) {
	assert.True(t, CanGrantRole(Superuser, Superuser))
	assert.True(t, CanGrantRole(Admin, Manager))
	assert.False(t, CanGrantRole(Admin, Admin))
	assert.False(t, CanGrantRole(Manager, Manager))
	assert.False(t, CanGrantRole(Field, Field))
}
