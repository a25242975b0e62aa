package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/salehjg/tilemul/internal/device"
)

// Server exposes the multiply runtime over HTTP.
type Server struct {
	store   *JobStore
	service *Service
}

func NewServer(store *JobStore, service *Service) *Server {
	if store == nil {
		store = NewJobStore()
	}
	return &Server{store: store, service: service}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/multiply", s.handleMultiply)
	e.GET("/v1/jobs", s.handleListJobs)
	e.GET("/v1/jobs/:id", s.handleGetJob)
	e.GET("/v1/devices", s.handleDevices)
}

func (s *Server) handleMultiply(c *echo.Context) error {
	if s.service == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "multiply service not configured")
	}
	req, err := decodeJSON[MultiplyRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	job, err := s.service.Multiply(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return writeBadRequest(c, err.Error())
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	job = s.store.Put(job)
	return writeJSON(c, http.StatusOK, job)
}

func (s *Server) handleListJobs(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, JobList{
		Object: "list",
		Data:   s.store.List(),
	})
}

func (s *Server) handleGetJob(c *echo.Context) error {
	id := c.Param("id")
	job, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "job not found")
	}
	return writeJSON(c, http.StatusOK, job)
}

func (s *Server) handleDevices(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, DevicesResponse{
		Object:  "list",
		Devices: []string{device.Grid, device.CPU},
		Host:    device.Host(),
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode request: %w", err)
	}
	return v, nil
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(status, echo.MIMEApplicationJSON, b)
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return writeJSON(c, status, map[string]any{
		"error": APIError{
			Message: msg,
			Type:    errType,
		},
	})
}
