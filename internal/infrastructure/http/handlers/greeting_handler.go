package handlers

import (
	"net/http"

	"hello-world/internal/infrastructure/logger"
)

type GreetingHandler struct {
	logger logger.Logger
}

func NewGreetingHandler(logger logger.Logger) *GreetingHandler {
	return &GreetingHandler{
		logger: logger,
	}
}

// GET /hello
func (h *GreetingHandler) Hello(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, "hello")
}

// GET /world
func (h *GreetingHandler) World(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, "world")
}
