package server

import (
	"fmt"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/prometheus"
	"github.com/NeuralTrust/FollowerManager/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	APIServer struct {
		*BaseServer
	}
)

func NewAPIServer(di APIServerDI) (*APIServer, error) {
	if di.Config.Metrics.Enabled {
		prometheus.Initialize(prometheus.MetricsConfig{
			EnableLatency:  di.Config.Metrics.EnableLatency,
			EnablePerRoute: di.Config.Metrics.EnablePerRoute,
		})
	}
	base := NewBaseServer(di.Config, di.Logger)
	if err := base.WithRouters(di.Routers...); err != nil {
		return nil, fmt.Errorf("failed to build routes: %w", err)
	}
	return &APIServer{BaseServer: base}, nil
}

// Run blocks serving the api. The metrics listener is started first.
func (s *APIServer) Run() error {
	s.startMetrics()
	addr := fmt.Sprintf(":%d", s.Config.Server.Port)
	s.Logger.WithFields(logrus.Fields{
		"addr": addr,
		"mode": s.Config.App.Mode,
	}).Info("starting api server")
	return s.Router.Listen(addr)
}

func (s *APIServer) Shutdown() error {
	s.stopMetrics()
	return s.Router.Shutdown()
}
