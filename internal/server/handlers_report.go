package server

import (
	"net/http"
	"strconv"

	"github.com/bobmcallan/saveplan/internal/services/report"
)

// handleReportChart handles POST /api/report/chart.
func (s *Server) handleReportChart(w http.ResponseWriter, r *http.Request) {
	var body explainRequest
	if !DecodeJSON(w, r, &body) {
		return
	}
	png, err := report.RenderAllocationChart(body.Result)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeBinary(w, "image/png", png)
}

// handleReportPDF handles POST /api/report/pdf.
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	var body explainRequest
	if !DecodeJSON(w, r, &body) {
		return
	}
	data, err := report.RenderPDF(body.Inputs, body.Result, body.Explanation, s.app.Clock.Now())
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="savings-plan.pdf"`)
	writeBinary(w, "application/pdf", data)
}

func writeBinary(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
