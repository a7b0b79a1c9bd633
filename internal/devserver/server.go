// Package devserver is an in-memory implementation of the todo REST contract,
// used for local development and as the backend in client tests.
package devserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tgienger/todo/internal/models"
)

// Server serves the task collection under a single base path.
type Server struct {
	basePath string
	store    *memoryStore
	logger   *zap.Logger
	srv      *fasthttp.Server
}

// errorBody is the payload for non-2xx responses.
type errorBody struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}

// New creates a server for the collection at basePath (e.g. "/todo").
func New(basePath string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	basePath = "/" + strings.Trim(basePath, "/")

	s := &Server{
		basePath: basePath,
		store:    newMemoryStore(),
		logger:   logger,
	}
	s.srv = &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "todo-devserver",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Seed inserts tasks as-is, keeping their IDs and timestamps.
func (s *Server) Seed(tasks ...models.Task) {
	s.store.seed(tasks...)
}

// Handler returns the routed request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	r := router.New()
	r.GET(s.basePath, s.listTasks)
	r.POST(s.basePath, s.createTask)
	r.PATCH(s.basePath+"/{id}", s.updateTask)
	r.DELETE(s.basePath+"/{id}", s.deleteTask)
	return s.withRequestLog(r.Handler)
}

// ListenAndServe serves on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("dev server started", zap.String("address", addr), zap.String("base_path", s.basePath))
	return s.srv.ListenAndServe(addr)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}

func (s *Server) withRequestLog(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		reqID := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID")))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx.Response.Header.Set("X-Request-ID", reqID)

		next(ctx)

		s.logger.Info("request",
			zap.String("request_id", reqID),
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) listTasks(ctx *fasthttp.RequestCtx) {
	s.respondJSON(ctx, http.StatusOK, s.store.list())
}

func (s *Server) createTask(ctx *fasthttp.RequestCtx) {
	var req models.NewTask
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.respondError(ctx, http.StatusBadRequest, "INVALID", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.respondError(ctx, http.StatusBadRequest, "INVALID", "title is required")
		return
	}
	s.respondJSON(ctx, http.StatusCreated, s.store.create(req))
}

func (s *Server) updateTask(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	var patch models.TaskPatch
	if err := json.Unmarshal(ctx.PostBody(), &patch); err != nil {
		s.respondError(ctx, http.StatusBadRequest, "INVALID", "invalid payload")
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		s.respondError(ctx, http.StatusBadRequest, "INVALID", "title must not be empty")
		return
	}

	task, err := s.store.update(id, patch)
	if err != nil {
		s.respondError(ctx, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	s.respondJSON(ctx, http.StatusOK, task)
}

func (s *Server) deleteTask(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if err := s.store.delete(id); err != nil {
		s.respondError(ctx, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (s *Server) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (s *Server) respondError(ctx *fasthttp.RequestCtx, status int, code, msg string) {
	s.respondJSON(ctx, status, errorBody{Status: "error", Code: code, Error: msg})
}
