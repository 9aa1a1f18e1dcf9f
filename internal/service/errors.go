package service

import "errors"

var (
	// ErrInvalidAnalysis means the Stage 1 reply parsed but lacked a project
	// title or stage1Analysis payload.
	ErrInvalidAnalysis = errors.New("invalid analysis structure from AI")

	// ErrInvalidStage rejects stage numbers outside {2,3,4,5}.
	ErrInvalidStage = errors.New("stage must be 2, 3, 4, or 5")

	// ErrInvalidWireframeIndex rejects wireframe indexes outside the Stage 4
	// wireframe list.
	ErrInvalidWireframeIndex = errors.New("invalid wireframe index")

	// ErrNoStage4 means wireframe image generation was requested before any
	// Stage 4 analysis exists.
	ErrNoStage4 = errors.New("project has no stage 4 analysis")
)
