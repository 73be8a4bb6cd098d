package mocks

import (
	"context"

	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/stretchr/testify/mock"
)

type Exporter struct {
	mock.Mock
}

func (m *Exporter) Name() string {
	return m.Called().String(0)
}

func (m *Exporter) ValidateConfig(settings map[string]interface{}) error {
	return m.Called(settings).Error(0)
}

func (m *Exporter) WithSettings(settings map[string]interface{}) (auditlogs.Exporter, error) {
	args := m.Called(settings)
	exp, _ := args.Get(0).(auditlogs.Exporter)
	return exp, args.Error(1)
}

func (m *Exporter) Export(ctx context.Context, evt *auditlogs.Event) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *Exporter) Close() {
	m.Called()
}
