package repository

import (
	"errors"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

// ErrNotFound is returned for unknown record ids.
var ErrNotFound = errors.New("record not found")

type IssueRepository interface {
	Create(issue *model.Issue) error
	List() ([]model.Issue, error)
	Get(id uint) (*model.Issue, error)
	// GetWithArtifacts loads the issue together with its artifacts and their
	// approvals, as the stage gate check needs them.
	GetWithArtifacts(id uint) (*model.Issue, error)
	Save(issue *model.Issue) error
	Delete(id uint) error
	CountByPrefix(prefix string) (int64, error)
}

type ArtifactRepository interface {
	Create(artifact *model.Artifact) error
	Get(id uint) (*model.Artifact, error)
	GetByIssue(issueID uint) ([]model.Artifact, error)
	Save(artifact *model.Artifact) error
}

type ApprovalRepository interface {
	Create(approval *model.Approval) error
	Get(id uint) (*model.Approval, error)
	Save(approval *model.Approval) error
}

type AuditRepository interface {
	Create(event *model.AuditEvent) error
	List(limit int) ([]model.AuditEvent, error)
}
