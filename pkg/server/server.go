package server

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/config"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/prometheus"
	"github.com/NeuralTrust/FollowerManager/pkg/server/router"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	bodyLimit    = 4 << 20
	readTimeout  = 60 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 2 * time.Minute
)

type Server interface {
	Run() error
	Shutdown() error
}

// BaseServer owns the public fiber app and, when enabled, a second app
// exposing /metrics on the metrics port.
type BaseServer struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Router  *fiber.App
	metrics *fiber.App
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	app := fiber.New(fiber.Config{
		AppName:               "follower-manager",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
	})
	app.Server().NoDefaultServerHeader = true
	return &BaseServer{Config: cfg, Logger: logger, Router: app}
}

// WithRouters mounts every router and joins their build errors.
func (s *BaseServer) WithRouters(routers ...router.ServerRouter) error {
	var errs []error
	for _, r := range routers {
		if err := r.BuildRoutes(s.Router); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *BaseServer) startMetrics() {
	if !s.Config.Metrics.Enabled {
		s.Logger.Info("prometheus metrics disabled")
		return
	}
	if s.metrics != nil {
		return
	}

	exposition := fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(prometheus.Gatherer(), promhttp.HandlerOpts{}),
	)
	s.metrics = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.metrics.Use(recover.New())
	s.metrics.Get("/metrics", func(c *fiber.Ctx) error {
		exposition(c.Context())
		return nil
	})

	addr := fmt.Sprintf(":%d", s.Config.Server.MetricsPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		// the api keeps serving without metrics
		s.Logger.WithError(err).WithField("addr", addr).Error("failed to bind metrics listener")
		s.metrics = nil
		return
	}
	s.Logger.WithField("addr", addr).Info("serving prometheus metrics")
	go func() {
		if err := s.metrics.Listener(ln); err != nil {
			s.Logger.WithError(err).Error("metrics server stopped")
		}
	}()
}

func (s *BaseServer) stopMetrics() {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.Shutdown(); err != nil {
		s.Logger.WithError(err).Warn("failed to stop metrics server")
	}
}
