package fakeapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const deadlineLayout = "02-01-2006"

// Record is a todo as the fake API stores and serves it.
type Record struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
}

type todoRequest struct {
	Title    string `json:"title" binding:"required,max=30"`
	Priority string `json:"priority" binding:"required,oneof=Low Medium High"`
	Deadline string `json:"deadline" binding:"required"`
	Status   string `json:"status" binding:"required,oneof='Not Started' 'In Progress' Completed"`
}

func (r todoRequest) record(id string) Record {
	return Record{
		ID:       id,
		Title:    r.Title,
		Priority: r.Priority,
		Deadline: r.Deadline,
		Status:   r.Status,
	}
}

func (s *Server) bindTodo(c *gin.Context) (todoRequest, bool) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, http.StatusBadRequest, err.Error())
		return req, false
	}
	if _, err := time.Parse(deadlineLayout, req.Deadline); err != nil {
		abort(c, http.StatusBadRequest, "deadline must be dd-MM-yyyy")
		return req, false
	}
	return req, true
}

func (s *Server) handleListTodos(c *gin.Context) {
	c.JSON(http.StatusOK, s.Todos())
}

func (s *Server) handleCreateTodo(c *gin.Context) {
	req, ok := s.bindTodo(c)
	if !ok {
		return
	}

	rec := req.record(uuid.NewString())
	s.mu.Lock()
	s.todos[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	s.mu.Unlock()

	s.logger.Info().
		Str("todo_id", rec.ID).
		Msg("created todo")
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleUpdateTodo(c *gin.Context) {
	id := c.Param("id")
	req, ok := s.bindTodo(c)
	if !ok {
		return
	}

	s.mu.Lock()
	_, exists := s.todos[id]
	rec := req.record(id)
	if exists {
		s.todos[id] = rec
	}
	s.mu.Unlock()

	if !exists {
		s.logger.Warn().
			Str("todo_id", id).
			Msg("todo not found")
		abort(c, http.StatusNotFound, "todo not found")
		return
	}
	s.logger.Info().
		Str("todo_id", id).
		Msg("updated todo")
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	_, exists := s.todos[id]
	if exists {
		delete(s.todos, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if !exists {
		s.logger.Warn().
			Str("todo_id", id).
			Msg("todo not found")
		abort(c, http.StatusNotFound, "todo not found")
		return
	}
	s.logger.Info().
		Str("todo_id", id).
		Msg("deleted todo")
	c.Status(http.StatusNoContent)
}

// Todos returns a snapshot in creation order.
func (s *Server) Todos() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.todos[id])
	}
	return out
}

// Seed stores a todo directly, bypassing validation.
func (s *Server) Seed(title, priority, deadline, status string) Record {
	rec := Record{
		ID:       uuid.NewString(),
		Title:    title,
		Priority: priority,
		Deadline: deadline,
		Status:   status,
	}
	s.mu.Lock()
	s.todos[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	s.mu.Unlock()
	return rec
}
