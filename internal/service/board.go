package service

import (
	"errors"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/repository"
)

// ErrGateBlocked means a stage transition failed its exit criteria; the
// unmet requirements ride along on the error.
var ErrGateBlocked = errors.New("stage gate blocked")

// GateBlockedError wraps ErrGateBlocked with the missing requirements so the
// handler can return them to the caller.
type GateBlockedError struct {
	Missing []GateRequirement
}

func (e *GateBlockedError) Error() string {
	return ErrGateBlocked.Error()
}

func (e *GateBlockedError) Unwrap() error {
	return ErrGateBlocked
}

// issueKeyPrefix prefixes every board issue key.
const issueKeyPrefix = "PLC-"

// BoardService is the PLC board sub-app: Jira-like issues whose lifecycle
// stage only moves through gated transitions, with every mutation audited.
type BoardService struct {
	issueRepo    repository.IssueRepository
	artifactRepo repository.ArtifactRepository
	approvalRepo repository.ApprovalRepository
	auditRepo    repository.AuditRepository
}

func NewBoardService(
	issueRepo repository.IssueRepository,
	artifactRepo repository.ArtifactRepository,
	approvalRepo repository.ApprovalRepository,
	auditRepo repository.AuditRepository,
) *BoardService {
	return &BoardService{
		issueRepo:    issueRepo,
		artifactRepo: artifactRepo,
		approvalRepo: approvalRepo,
		auditRepo:    auditRepo,
	}
}

// CreateIssueRequest carries the caller-settable issue fields.
type CreateIssueRequest struct {
	Type              string              `json:"type" binding:"required"`
	Summary           string              `json:"summary" binding:"required"`
	Description       string              `json:"description"`
	Priority          string              `json:"priority"`
	RegulatoryImpact  string              `json:"regulatoryImpact"`
	StageExitCriteria model.ExitCriteria  `json:"stageExitCriteria"`
	EvidenceLinks     model.EvidenceLinks `json:"evidenceLinks"`
}

func (s *BoardService) CreateIssue(req CreateIssueRequest, actor string) (*model.Issue, error) {
	count, err := s.issueRepo.CountByPrefix(issueKeyPrefix)
	if err != nil {
		return nil, err
	}

	issue := &model.Issue{
		Key:               fmt.Sprintf("%s%d", issueKeyPrefix, count+1),
		Type:              req.Type,
		Summary:           req.Summary,
		Description:       req.Description,
		Status:            "open",
		PLCStage:          model.StageIntroduction,
		Priority:          req.Priority,
		RegulatoryImpact:  req.RegulatoryImpact,
		StageExitCriteria: req.StageExitCriteria,
		EvidenceLinks:     req.EvidenceLinks,
	}
	if issue.Priority == "" {
		issue.Priority = "P2"
	}
	if issue.RegulatoryImpact == "" {
		issue.RegulatoryImpact = "low"
	}

	if err := s.issueRepo.Create(issue); err != nil {
		return nil, err
	}
	s.audit(actor, "issue_created", "issue", issue.Key, model.JSONMap{"type": issue.Type})
	return issue, nil
}

func (s *BoardService) ListIssues() ([]model.Issue, error) {
	return s.issueRepo.List()
}

func (s *BoardService) GetIssue(id uint) (*model.Issue, error) {
	return s.issueRepo.GetWithArtifacts(id)
}

// UpdateIssueRequest is the PATCH surface for an issue; nil fields are left
// untouched.
type UpdateIssueRequest struct {
	Summary           *string              `json:"summary"`
	Description       *string              `json:"description"`
	Status            *string              `json:"status"`
	Priority          *string              `json:"priority"`
	RegulatoryImpact  *string              `json:"regulatoryImpact"`
	StageExitCriteria *model.ExitCriteria  `json:"stageExitCriteria"`
	EvidenceLinks     *model.EvidenceLinks `json:"evidenceLinks"`
}

func (s *BoardService) UpdateIssue(id uint, req UpdateIssueRequest, actor string) (*model.Issue, error) {
	issue, err := s.issueRepo.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Summary != nil && *req.Summary != "" {
		issue.Summary = *req.Summary
	}
	if req.Description != nil {
		issue.Description = *req.Description
	}
	if req.Status != nil && *req.Status != "" {
		issue.Status = *req.Status
	}
	if req.Priority != nil && *req.Priority != "" {
		issue.Priority = *req.Priority
	}
	if req.RegulatoryImpact != nil && *req.RegulatoryImpact != "" {
		issue.RegulatoryImpact = *req.RegulatoryImpact
	}
	if req.StageExitCriteria != nil {
		issue.StageExitCriteria = *req.StageExitCriteria
	}
	if req.EvidenceLinks != nil {
		issue.EvidenceLinks = *req.EvidenceLinks
	}

	if err := s.issueRepo.Save(issue); err != nil {
		return nil, err
	}
	s.audit(actor, "issue_updated", "issue", issue.Key, nil)
	return issue, nil
}

// Transition moves an issue to targetStage if the stage gate allows it.
// Blocked transitions return a GateBlockedError listing the unmet
// requirements; granted overrides are recorded in the audit payload.
func (s *BoardService) Transition(id uint, targetStage, overrideReason, actor string, isAdmin bool) (*model.Issue, error) {
	issue, err := s.issueRepo.GetWithArtifacts(id)
	if err != nil {
		return nil, err
	}

	allowed, missing := CheckStageGate(issue, issue.Artifacts, targetStage, overrideReason, isAdmin)
	if !allowed {
		klog.V(6).Infof("transition blocked: issue=%s, from=%s, to=%s, missing=%d", issue.Key, issue.PLCStage, targetStage, len(missing))
		return nil, &GateBlockedError{Missing: missing}
	}

	fromStage := issue.PLCStage
	issue.PLCStage = targetStage
	if err := s.issueRepo.Save(issue); err != nil {
		return nil, err
	}

	payload := model.JSONMap{"from": fromStage, "to": targetStage}
	if overrideReason != "" {
		payload["overrideReason"] = overrideReason
	}
	s.audit(actor, "stage_transition", "issue", issue.Key, payload)
	return issue, nil
}

// CreateArtifactRequest creates a governance document on an issue.
type CreateArtifactRequest struct {
	Kind    string `json:"kind" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (s *BoardService) CreateArtifact(issueID uint, req CreateArtifactRequest, actor string) (*model.Artifact, error) {
	issue, err := s.issueRepo.Get(issueID)
	if err != nil {
		return nil, err
	}
	if req.Kind != model.ArtifactLaunchChecklist && req.Kind != model.ArtifactDecisionMemo {
		return nil, fmt.Errorf("unknown artifact kind: %s", req.Kind)
	}

	artifact := &model.Artifact{
		IssueID: issue.ID,
		Kind:    req.Kind,
		Title:   req.Title,
		Content: req.Content,
		Status:  model.ArtifactStatusDraft,
	}
	if err := s.artifactRepo.Create(artifact); err != nil {
		return nil, err
	}
	s.audit(actor, "artifact_created", "artifact", fmt.Sprint(artifact.ID), model.JSONMap{"kind": artifact.Kind, "issue": issue.Key})
	return artifact, nil
}

// ApproveArtifact records an approval decision and moves the artifact status
// accordingly.
func (s *BoardService) ApproveArtifact(artifactID uint, approve bool, comment, actor string) (*model.Artifact, error) {
	artifact, err := s.artifactRepo.Get(artifactID)
	if err != nil {
		return nil, err
	}

	status := model.ApprovalApproved
	if !approve {
		status = model.ApprovalRejected
	}
	now := time.Now()
	approval := &model.Approval{
		ArtifactID: artifact.ID,
		Approver:   actor,
		Status:     status,
		Comment:    comment,
		DecidedAt:  &now,
	}
	if err := s.approvalRepo.Create(approval); err != nil {
		return nil, err
	}

	if approve {
		artifact.Status = model.ArtifactStatusApproved
	} else {
		artifact.Status = model.ArtifactStatusDraft
	}
	if err := s.artifactRepo.Save(artifact); err != nil {
		return nil, err
	}

	s.audit(actor, "artifact_"+status, "artifact", fmt.Sprint(artifact.ID), model.JSONMap{"comment": comment})
	return s.artifactRepo.Get(artifact.ID)
}

func (s *BoardService) ListAudit(limit int) ([]model.AuditEvent, error) {
	return s.auditRepo.List(limit)
}

func (s *BoardService) audit(actor, action, objectType, objectID string, payload model.JSONMap) {
	event := &model.AuditEvent{
		Actor:      actor,
		ActionType: action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Payload:    payload,
	}
	if err := s.auditRepo.Create(event); err != nil {
		klog.Errorf("audit write failed: action=%s, object=%s/%s: %v", action, objectType, objectID, err)
	}
}
