package assemblies

import (
	"fmt"

	"github.com/GabeCabrera/crewkit-sub001/pkg/metadata"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
)

// WorkflowError marks approval-workflow violations so the handler can map
// them to 400 instead of 500.
type WorkflowError struct {
	message string
}

func (e *WorkflowError) Error() string {
	return e.message
}

type AssemblyService struct {
	repo AssemblyRepository
}

func NewAssemblyService(repo AssemblyRepository) *AssemblyService {
	return &AssemblyService{repo: repo}
}

// Submit moves a draft or rejected assembly into review. Admin authors
// skip the review queue entirely.
func (s *AssemblyService) Submit(id int, actorRole roles.Role) (*models.Assembly, error) {
	assembly, err := s.repo.GetAssembly(id)
	if err != nil {
		return nil, err
	}

	target := metadata.StatusPendingApproval
	if actorRole.HasPermission(roles.Admin) {
		target = metadata.StatusApproved
	}

	if !assembly.Status.CanTransition(target) {
		return nil, &WorkflowError{
			message: fmt.Sprintf("assembly %d cannot move from %s to %s", id, assembly.Status, target),
		}
	}

	// Resubmission wipes the previous rejection reason.
	if err := s.repo.UpdateStatus(id, target, ""); err != nil {
		return nil, err
	}

	assembly.Status = target
	assembly.StatusNote = ""
	return assembly, nil
}

func (s *AssemblyService) Approve(id int) (*models.Assembly, error) {
	return s.decide(id, metadata.StatusApproved, "")
}

// Reject records the reason on the assembly so the creator can see why it
// came back.
func (s *AssemblyService) Reject(id int, reason string) (*models.Assembly, error) {
	return s.decide(id, metadata.StatusRejected, reason)
}

func (s *AssemblyService) decide(id int, target metadata.Status, note string) (*models.Assembly, error) {
	assembly, err := s.repo.GetAssembly(id)
	if err != nil {
		return nil, err
	}

	if assembly.Status != metadata.StatusPendingApproval || !assembly.Status.CanTransition(target) {
		return nil, &WorkflowError{
			message: fmt.Sprintf("assembly %d is %s, only pending assemblies can be decided", id, assembly.Status),
		}
	}

	if err := s.repo.UpdateStatus(id, target, note); err != nil {
		return nil, err
	}

	assembly.Status = target
	assembly.StatusNote = note
	return assembly, nil
}
