package auditlogs

import (
	"context"

	"github.com/sirupsen/logrus"
)

const LogExporterName = "log"

// LogExporter writes audit events to the structured log.
type LogExporter struct {
	logger *logrus.Logger
}

func NewLogExporter(logger *logrus.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

func (e *LogExporter) Name() string { return LogExporterName }

func (e *LogExporter) ValidateConfig(map[string]interface{}) error { return nil }

func (e *LogExporter) WithSettings(map[string]interface{}) (Exporter, error) {
	return e, nil
}

func (e *LogExporter) Export(_ context.Context, evt *Event) error {
	fields := logrus.Fields{
		"audit_type":   evt.Event.Type,
		"audit_status": evt.Event.Status,
		"actor_id":     evt.Actor.ID,
		"target_type":  evt.Target.Type,
		"target_id":    evt.Target.ID,
	}
	if evt.Context.IPAddress != "" {
		fields["ip"] = evt.Context.IPAddress
	}
	if ua := evt.Context.UserAgent; ua != nil {
		fields["device"] = ua.Device
		fields["browser"] = ua.Browser
	}
	for k, v := range evt.Metadata {
		fields["meta_"+k] = v
	}
	e.logger.WithFields(fields).Info(evt.Event.Description)
	return nil
}

func (e *LogExporter) Close() {}
