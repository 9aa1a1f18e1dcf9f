package eventbus

import "context"

type ProjectEventType string

const (
	ProjectCreated        ProjectEventType = "ProjectCreated"
	ProjectStageGenerated ProjectEventType = "ProjectStageGenerated"
	ProjectBrainstormed   ProjectEventType = "ProjectBrainstormed"
	ProjectDeleted        ProjectEventType = "ProjectDeleted"
)

type ProjectEvent struct {
	Type      ProjectEventType
	ProjectID string
	Title     string
	Stage     int
	Detail    map[string]any
}

type ProjectEventHandler func(ctx context.Context, event ProjectEvent) error
