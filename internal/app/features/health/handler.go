package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ezdash/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB             Pinger // nil when sessions live in cookies
	SessionBackend string
	Log            *zap.Logger
}

// NewHandler constructs a health Handler. db may be nil.
func NewHandler(db Pinger, sessionBackend string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:             db,
		SessionBackend: sessionBackend,
		Log:            logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status         string `json:"status"`
	SessionBackend string `json:"session_backend"`
	Database       string `json:"database"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "session_backend":"mongo", "database":"connected" }
//
// With cookie sessions the database is "not_used". On a failed ping: 503 and
//
//	{ "status":"error", "session_backend":"mongo", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:         "ok",
		SessionBackend: h.SessionBackend,
		Database:       "not_used",
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
		defer cancel()

		if err := h.DB.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Database unavailable"
			resp.Error = err.Error()
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		resp.Database = "connected"
	}

	_ = json.NewEncoder(w).Encode(resp)
}
