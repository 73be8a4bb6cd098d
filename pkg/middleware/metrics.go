package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	metricsWorkers   = 2
	metricsQueueSize = 1024
	collapsedRoute   = "all"
)

type requestSample struct {
	method  string
	route   string
	status  int
	elapsed time.Duration
}

type metricsMiddleware struct {
	logger  *logrus.Logger
	samples chan requestSample
}

// NewMetricsMiddleware counts requests and their latency. Samples are
// recorded by background workers; when they fall behind samples are
// dropped rather than slowing requests.
func NewMetricsMiddleware(logger *logrus.Logger) Middleware {
	m := &metricsMiddleware{
		logger:  logger,
		samples: make(chan requestSample, metricsQueueSize),
	}
	for i := 0; i < metricsWorkers; i++ {
		go m.record()
	}
	return m
}

func (m *metricsMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		c.Locals(common.LatencyContextKey, start)

		err := c.Next()

		s := requestSample{
			method:  c.Method(),
			route:   collapsedRoute,
			status:  statusOf(c, err),
			elapsed: time.Since(start),
		}
		if prometheus.Config.EnablePerRoute {
			s.route = c.Route().Path
		}
		select {
		case m.samples <- s:
		default:
			m.logger.Warn("metrics queue full, sample dropped")
		}
		return err
	}
}

func (m *metricsMiddleware) record() {
	for s := range m.samples {
		prometheus.RequestTotal.WithLabelValues(s.method, s.route, strconv.Itoa(s.status)).Inc()
		if prometheus.Config.EnableLatency {
			prometheus.RequestLatency.WithLabelValues(s.method, s.route).Observe(float64(s.elapsed.Milliseconds()))
		}
	}
}

// statusOf is the status fiber's error handler will write for err.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
