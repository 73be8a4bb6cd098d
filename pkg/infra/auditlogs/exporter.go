package auditlogs

import (
	"context"
	"fmt"
)

//go:generate mockery --name=Exporter --dir=. --output=./mocks --filename=exporter_mock.go --case=underscore --with-expecter
type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Export(ctx context.Context, evt *Event) error
	Close()
}

type ExporterLocator struct {
	exporters map[string]Exporter
}

type ExporterLocatorOption func(*ExporterLocator)

func WithExporter(e Exporter) ExporterLocatorOption {
	return func(l *ExporterLocator) {
		l.exporters[e.Name()] = e
	}
}

func NewExporterLocator(opts ...ExporterLocatorOption) *ExporterLocator {
	l := &ExporterLocator{exporters: make(map[string]Exporter)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetExporter validates settings and returns a configured exporter.
func (l *ExporterLocator) GetExporter(name string, settings map[string]interface{}) (Exporter, error) {
	base, ok := l.exporters[name]
	if !ok {
		return nil, fmt.Errorf("unknown audit exporter: %s", name)
	}
	if err := base.ValidateConfig(settings); err != nil {
		return nil, err
	}
	return base.WithSettings(settings)
}
