package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatus(t *testing.T) {
	status, err := NewStatus("pending_approval")
	assert.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, status)

	_, err = NewStatus("finished")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, StatusDraft.CanTransition(StatusPendingApproval))
	assert.True(t, StatusDraft.CanTransition(StatusApproved))
	assert.True(t, StatusPendingApproval.CanTransition(StatusApproved))
	assert.True(t, StatusPendingApproval.CanTransition(StatusRejected))
	assert.True(t, StatusRejected.CanTransition(StatusPendingApproval))

	assert.False(t, StatusApproved.CanTransition(StatusDraft))
	assert.False(t, StatusApproved.CanTransition(StatusRejected))
	assert.False(t, StatusDraft.CanTransition(StatusRejected))
	assert.False(t, StatusRejected.CanTransition(StatusApproved))
}
