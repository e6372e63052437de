package handlers

import (
	"log"
	"net/http"

	"github.com/dom/hops-games/internal/service"
)

type ScheduleHandler struct {
	schedulerService *service.SchedulerService
}

func NewScheduleHandler(schedulerService *service.SchedulerService) *ScheduleHandler {
	return &ScheduleHandler{schedulerService: schedulerService}
}

func (h *ScheduleHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.schedulerService.Run(r.Context())
	if err != nil {
		log.Printf("ERROR [schedule.Run] mode=%s: %v", h.schedulerService.Mode(), err)
		http.Error(w, "Failed to schedule games", http.StatusInternalServerError)
		return
	}

	writeJSON(w, result.StatusCode, result)
}
