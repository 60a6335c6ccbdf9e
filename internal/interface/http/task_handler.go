package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/response"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

type TaskHandler struct {
	Svc    *app.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *app.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

// optionalString tells an absent field apart from an explicit null or "".
type optionalString struct {
	Set   bool
	Value string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// createTaskRequest has no owner field; an owner sent by the client is dropped.
type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	DueDate     optionalString `json:"dueDate"`
	Status      *string        `json:"status"`
}

// List GET /tasks?q=&status=
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.List(c.Request.Context(), callerID(c), app.ListTasksInput{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "tasks", gin.H{"count": len(tasks)})
}

// Search GET /tasks/search?q=&size=
func (h *TaskHandler) Search(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, h.Logger, validation.NewError("size", "must be a positive integer"))
			return
		}
		size = n
	}
	tasks, err := h.Svc.Search(c.Request.Context(), callerID(c), c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks, "search results", gin.H{"count": len(tasks)})
}

// Get GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "task", nil)
}

// Create POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	due, err := helpers.ParseDate(req.DueDate)
	if err != nil {
		respondError(c, h.Logger, validation.NewError("dueDate", "must be a valid date"))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), callerID(c), app.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "task created", nil)
}

// Update PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in := app.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.DueDate.Set {
		due, err := helpers.ParseDate(req.DueDate.Value)
		if err != nil {
			respondError(c, h.Logger, validation.NewError("dueDate", "must be a valid date"))
			return
		}
		in.DueDate = due
		in.ClearDueDate = due == nil
	}
	t, err := h.Svc.Update(c.Request.Context(), callerID(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "task updated", nil)
}

// Delete DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true}, "task deleted", nil)
}
