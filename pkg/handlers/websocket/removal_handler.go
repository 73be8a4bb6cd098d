package websocket

import (
	"context"
	"errors"
	"time"

	appAuth "github.com/NeuralTrust/FollowerManager/pkg/app/auth"
	appFollower "github.com/NeuralTrust/FollowerManager/pkg/app/follower"
	"github.com/NeuralTrust/FollowerManager/pkg/common"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/platform"
	"github.com/NeuralTrust/FollowerManager/pkg/domain/user"
	"github.com/NeuralTrust/FollowerManager/pkg/handlers/http/request"
	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	infraWs "github.com/NeuralTrust/FollowerManager/pkg/infra/websocket"
	"github.com/NeuralTrust/FollowerManager/pkg/middleware"
	"github.com/NeuralTrust/FollowerManager/pkg/utils"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const DefaultRequestTimeout = 30 * time.Second

type removalHandler struct {
	logger         *logrus.Logger
	authenticator  appAuth.Authenticator
	remover        appFollower.Remover
	auditService   auditlogs.Service
	requestTimeout time.Duration
}

// NewRemovalHandler streams the progress of a follower removal. The client
// sends one RemovalRequest; the server answers with progress frames after
// every batch and a final result. Closing the socket cancels the run.
func NewRemovalHandler(
	logger *logrus.Logger,
	authenticator appAuth.Authenticator,
	remover appFollower.Remover,
	auditService auditlogs.Service,
	requestTimeout time.Duration,
) Handler {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &removalHandler{
		logger:         logger,
		authenticator:  authenticator,
		remover:        remover,
		auditService:   auditService,
		requestTimeout: requestTimeout,
	}
}

func (h *removalHandler) Handle(conn *websocket.Conn) {
	if limiter, ok := conn.Locals(common.WebsocketLimiterKey).(*infraWs.ConnectionLimiter); ok {
		defer limiter.Release()
	}
	defer conn.Close()

	reqCtx := requestContext(conn)
	log := h.logger.WithFields(logrus.Fields{
		"ip":         reqCtx.IPAddress,
		"request_id": reqCtx.RequestID,
	})
	out := &writer{conn: conn}

	if err := out.send(ServerMessage{Type: MessageConnected, Message: "Send a removal request to start"}); err != nil {
		log.WithError(err).Debug("client went away before handshake completed")
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(h.requestTimeout))
	var msg RemovalRequest
	if err := conn.ReadJSON(&msg); err != nil {
		log.WithError(err).Debug("failed to read removal request")
		out.fail("Invalid JSON payload", nil)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u, _, err := h.authenticator.Authenticate(ctx, msg.Token)
	if err != nil {
		if text := middleware.CredentialMessage(err); text != "" {
			out.fail(text, nil)
			return
		}
		log.WithError(err).Error("failed to authenticate websocket client")
		out.fail("Internal server error", nil)
		return
	}

	removeReq, err := msg.ToRemoveRequest()
	if err != nil {
		var verr *request.ValidationError
		if errors.As(err, &verr) {
			out.fail(verr.Message, verr.Fields)
			return
		}
		out.fail(err.Error(), nil)
		return
	}

	// Any read error after this point means the client closed the socket.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	defer func() {
		_ = conn.Close()
		<-readerDone
	}()

	log = log.WithField("user_id", u.ID)
	result, err := h.remover.Remove(ctx, u, removeReq, func(p appFollower.Progress) {
		if err := out.send(ServerMessage{Type: MessageProgress, Progress: &p}); err != nil {
			log.WithError(err).Debug("failed to send removal progress")
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Info("client disconnected, removal cancelled")
			return
		}
		log.WithError(err).Error("websocket removal failed")
		out.fail(removalErrorMessage(err), nil)
		return
	}

	h.emitAuditLog(u, reqCtx, removeReq.Reason, result)
	if err := out.send(ServerMessage{Type: MessageResult, Result: result}); err != nil {
		log.WithError(err).Warn("failed to deliver removal result")
		return
	}
	out.close(websocket.CloseNormalClosure, "removal complete")
}

func (h *removalHandler) emitAuditLog(u *user.User, reqCtx auditlogs.Context, reason string, result *appFollower.RemovalResult) {
	if h.auditService == nil {
		return
	}
	actor := auditlogs.Actor{ID: u.ID.String(), Name: u.Username, Type: auditlogs.ActorTypeUser}
	h.auditService.Emit(auditlogs.NewRemovalEvent(
		actor,
		reqCtx,
		result.RemovalID.String(),
		reason,
		result.RemovedCount,
		result.FailedCount,
	))
}

func removalErrorMessage(err error) string {
	switch {
	case errors.Is(err, appFollower.ErrNoFollowersSelected):
		return "At least one follower must be selected"
	case errors.Is(err, appFollower.ErrReasonRequired):
		return "Removal reason is required"
	case errors.Is(err, platform.ErrUnauthorized):
		return "Platform authorization expired, please sign in again"
	case errors.Is(err, platform.ErrRateLimited):
		return "Platform rate limit exceeded, try again later"
	default:
		return "Failed to remove followers"
	}
}

// requestContext reads the handshake headers, which the connection keeps
// after the fiber context is released.
func requestContext(conn *websocket.Conn) auditlogs.Context {
	return auditlogs.Context{
		IPAddress: conn.IP(),
		UserAgent: utils.ParseUserAgent(
			conn.Headers(fiber.HeaderUserAgent),
			conn.Headers(fiber.HeaderAcceptLanguage),
		),
		RequestID: conn.Headers(common.RequestIDHeader),
	}
}
