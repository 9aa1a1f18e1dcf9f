package eventsubscriber

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/internal/eventbus"
	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/repository"
)

// AuditSubscriber mirrors project lifecycle events into the board's audit
// trail so analysis activity and board activity share one log.
type AuditSubscriber struct {
	auditRepo repository.AuditRepository
}

func NewAuditSubscriber(auditRepo repository.AuditRepository) *AuditSubscriber {
	return &AuditSubscriber{auditRepo: auditRepo}
}

var auditActions = map[eventbus.ProjectEventType]string{
	eventbus.ProjectCreated:        "project_created",
	eventbus.ProjectStageGenerated: "project_stage_generated",
	eventbus.ProjectBrainstormed:   "project_brainstormed",
	eventbus.ProjectDeleted:        "project_deleted",
}

// Register subscribes the audit handler to every project event type.
func (s *AuditSubscriber) Register(bus *eventbus.Bus) {
	for eventType := range auditActions {
		bus.Subscribe(eventType, s.handle)
	}
}

func (s *AuditSubscriber) handle(ctx context.Context, event eventbus.ProjectEvent) error {
	action, ok := auditActions[event.Type]
	if !ok {
		return nil
	}

	payload := model.JSONMap{"title": event.Title}
	if event.Stage > 0 {
		payload["stage"] = event.Stage
	}
	for key, value := range event.Detail {
		payload[key] = value
	}

	record := &model.AuditEvent{
		Actor:      "pipeline",
		ActionType: action,
		ObjectType: "project",
		ObjectID:   event.ProjectID,
		Payload:    payload,
	}
	if err := s.auditRepo.Create(record); err != nil {
		klog.Errorf("audit write failed for %s: %v", event.Type, err)
		return err
	}
	klog.V(6).Infof("audited project event: type=%s, project=%s", event.Type, event.ProjectID)
	return nil
}
