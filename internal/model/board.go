package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PLC board stages, in lifecycle order. The cycle closes from
// New Development back to Introduction.
const (
	StageIntroduction   = "Introduction"
	StageGrowth         = "Growth"
	StageMaturity       = "Maturity"
	StageDecline        = "Decline"
	StageNewDevelopment = "New Development"
)

// PLCStageOrder is the canonical ordering used for adjacency checks.
var PLCStageOrder = []string{
	StageIntroduction,
	StageGrowth,
	StageMaturity,
	StageDecline,
	StageNewDevelopment,
}

const (
	ArtifactLaunchChecklist = "launch_checklist"
	ArtifactDecisionMemo    = "decision_memo"
)

const (
	ArtifactStatusDraft     = "draft"
	ArtifactStatusInReview  = "in_review"
	ArtifactStatusApproved  = "approved"
	ArtifactStatusPublished = "published"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ExitCriterion is one checklist item an issue must clear before leaving its
// stage.
type ExitCriterion struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type ExitCriteria []ExitCriterion

func (c ExitCriteria) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (c *ExitCriteria) Scan(src any) error {
	return scanJSON(src, c)
}

// EvidenceLink is a titled URL backing a growth or maturity claim.
type EvidenceLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type EvidenceLinks []EvidenceLink

func (l EvidenceLinks) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *EvidenceLinks) Scan(src any) error {
	return scanJSON(src, l)
}

// JSONMap is a free-form JSON object column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *JSONMap) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}

// Issue is one card on the PLC board.
type Issue struct {
	ID                uint          `json:"id" gorm:"primaryKey"`
	Key               string        `json:"key" gorm:"size:50;uniqueIndex;not null"`
	Type              string        `json:"type" gorm:"size:50;not null"` // Epic, Story, Task, Bug, Decision, Risk, Experiment
	Summary           string        `json:"summary" gorm:"size:500;not null"`
	Description       string        `json:"description" gorm:"type:text"`
	Status            string        `json:"status" gorm:"size:50;default:open"` // open, in_progress, done
	PLCStage          string        `json:"plcStage" gorm:"size:50;default:Introduction"`
	Priority          string        `json:"priority" gorm:"size:10;default:P2"`
	RegulatoryImpact  string        `json:"regulatoryImpact" gorm:"size:20;default:low"` // low, med, high
	StageExitCriteria ExitCriteria  `json:"stageExitCriteria" gorm:"type:text"`
	EvidenceLinks     EvidenceLinks `json:"evidenceLinks" gorm:"type:text"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
	Artifacts         []Artifact    `json:"artifacts,omitempty" gorm:"foreignKey:IssueID"`
}

// Artifact is a governance document attached to an issue.
type Artifact struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	IssueID   uint       `json:"issueId" gorm:"index;not null"`
	Kind      string     `json:"kind" gorm:"size:50;not null"` // launch_checklist, decision_memo
	Title     string     `json:"title" gorm:"size:500;not null"`
	Content   string     `json:"content" gorm:"type:text"`
	Status    string     `json:"status" gorm:"size:50;default:draft"`
	CreatedAt time.Time  `json:"createdAt"`
	Approvals []Approval `json:"approvals,omitempty" gorm:"foreignKey:ArtifactID"`
}

type Approval struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ArtifactID uint       `json:"artifactId" gorm:"index;not null"`
	Approver   string     `json:"approver" gorm:"size:255"`
	Status     string     `json:"status" gorm:"size:50;default:pending"`
	Comment    string     `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time  `json:"createdAt"`
	DecidedAt  *time.Time `json:"decidedAt,omitempty"`
}

// AuditEvent records every externally visible mutation, from both the board
// and the analysis pipeline.
type AuditEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Actor      string    `json:"actor" gorm:"size:255"`
	ActionType string    `json:"actionType" gorm:"size:100;not null"`
	ObjectType string    `json:"objectType" gorm:"size:50;not null"`
	ObjectID   string    `json:"objectId" gorm:"size:100"`
	Payload    JSONMap   `json:"payload" gorm:"type:text"`
	CreatedAt  time.Time `json:"createdAt"`
}
