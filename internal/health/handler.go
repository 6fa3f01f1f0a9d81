package health

import (
	"context"
	"net/http"
	"time"

	httputil "detailbay/pkg/http"
	"detailbay/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Handler struct {
	mongo *mongo.Client
	redis *redis.Client
	log   *logger.Logger
}

func NewHandler(mongoClient *mongo.Client, redisClient *redis.Client, log *logger.Logger) *Handler {
	return &Handler{
		mongo: mongoClient,
		redis: redisClient,
		log:   log,
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/health", h.Health)
	router.HandlerFunc(http.MethodGet, "/ready", h.Ready)
}

// Health reports process liveness only.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports dependency health. Mongo is required; the cache is reported
// but never fails readiness since the service degrades without it.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"mongo": "ok", "redis": "ok"}
	status := http.StatusOK

	if err := h.mongo.Ping(ctx, readpref.Primary()); err != nil {
		h.log.Error("Readiness check failed: mongo unreachable", "error", err)
		checks["mongo"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if h.redis == nil {
		checks["redis"] = "disabled"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
	}

	_ = httputil.WriteJSON(w, status, checks)
}
