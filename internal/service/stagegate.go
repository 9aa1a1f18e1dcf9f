package service

import "github.com/Janakrish1/Plan2Ship/internal/model"

// GateRequirement describes one unmet condition blocking a stage transition.
type GateRequirement struct {
	Type    string `json:"type"` // stage_gate, data
	Message string `json:"message"`
}

func stageIndex(stage string) int {
	for i, s := range model.PLCStageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

func hasApprovedArtifact(artifacts []model.Artifact, kind string) bool {
	for _, a := range artifacts {
		if a.Kind != kind {
			continue
		}
		for _, appr := range a.Approvals {
			if appr.Status == model.ApprovalApproved {
				return true
			}
		}
	}
	return false
}

func hasArtifact(artifacts []model.Artifact, kind string) bool {
	for _, a := range artifacts {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// CheckStageGate evaluates the exit criteria for moving issue to targetStage.
// Gated transitions can be forced by an admin supplying an override reason,
// except Decline to New Development, which has no override.
//
// Rules:
//   - Introduction -> Growth: approved Launch Checklist
//   - Growth -> Maturity: at least 3 evidence links
//   - Maturity -> Decline: approved Decision Memo
//   - Decline -> New Development: approved Decision Memo (no override)
//   - New Development -> Introduction: Launch Checklist exists, any status
//   - anything else: allowed only between adjacent stages
func CheckStageGate(issue *model.Issue, artifacts []model.Artifact, targetStage, overrideReason string, isAdmin bool) (bool, []GateRequirement) {
	var missing []GateRequirement
	current := issue.PLCStage

	if stageIndex(targetStage) < 0 {
		missing = append(missing, GateRequirement{Type: "data", Message: "Unknown stage: " + targetStage})
		return false, missing
	}

	overridable := func() (bool, []GateRequirement) {
		if len(missing) > 0 && overrideReason != "" && isAdmin {
			return true, nil
		}
		return len(missing) == 0, missing
	}

	switch {
	case current == model.StageIntroduction && targetStage == model.StageGrowth:
		if !hasApprovedArtifact(artifacts, model.ArtifactLaunchChecklist) {
			missing = append(missing, GateRequirement{
				Type:    "stage_gate",
				Message: "Introduction -> Growth requires an approved Launch Checklist artifact.",
			})
		}
		return overridable()

	case current == model.StageGrowth && targetStage == model.StageMaturity:
		if len(issue.EvidenceLinks) < 3 {
			missing = append(missing, GateRequirement{
				Type:    "stage_gate",
				Message: "Growth -> Maturity requires at least 3 evidence links.",
			})
		}
		return overridable()

	case current == model.StageMaturity && targetStage == model.StageDecline:
		if !hasApprovedArtifact(artifacts, model.ArtifactDecisionMemo) {
			missing = append(missing, GateRequirement{
				Type:    "stage_gate",
				Message: "Maturity -> Decline requires an approved Decision Memo.",
			})
		}
		return overridable()

	case current == model.StageDecline && targetStage == model.StageNewDevelopment:
		if !hasApprovedArtifact(artifacts, model.ArtifactDecisionMemo) {
			missing = append(missing, GateRequirement{
				Type:    "stage_gate",
				Message: "Decline -> New Development requires an approved Decision Memo.",
			})
		}
		// No override for this transition.
		return len(missing) == 0, missing

	case current == model.StageNewDevelopment && targetStage == model.StageIntroduction:
		if !hasArtifact(artifacts, model.ArtifactLaunchChecklist) {
			missing = append(missing, GateRequirement{
				Type:    "stage_gate",
				Message: "New Development -> Introduction requires a Launch Checklist (at least in draft).",
			})
		}
		return len(missing) == 0, missing
	}

	ci, ti := stageIndex(current), stageIndex(targetStage)
	if ci >= 0 && ti >= 0 {
		diff := ci - ti
		if diff == 1 || diff == -1 {
			return true, nil
		}
		missing = append(missing, GateRequirement{Type: "data", Message: "Can only transition to adjacent stage."})
		return false, missing
	}
	return true, nil
}
