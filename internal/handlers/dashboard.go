package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/app"
	"github.com/shrimpsizemoose/festboard/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	service *app.Service
}

func NewDashboardHandler(service *app.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.Dashboard(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.Dashboard(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("standings-%s.xlsx", time.Now().UTC().Format("20060102-1504"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteStandingsWorkbook(w, standings); err != nil {
		logger.Error.Printf("Failed to write standings workbook: %v", err)
	}
}
