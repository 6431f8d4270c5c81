package metadata

import "fmt"

// Status is the approval state of an assembly definition.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// CanTransition enforces the approval workflow: drafts and rejected
// assemblies go back through review, decisions only happen on pending ones.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusDraft:
		return to == StatusPendingApproval || to == StatusApproved
	case StatusPendingApproval:
		return to == StatusApproved || to == StatusRejected
	case StatusRejected:
		return to == StatusPendingApproval
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
