// Package httpapi exposes the two extraction pipelines over plain HTTP:
// query parameters in, a JSON error or a downloadable text file out.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"sdvext-backend/lib/extract"
	"sdvext-backend/lib/telemetry"
	kgssvc "sdvext-backend/services/kgs"
	pwsvc "sdvext-backend/services/pw"

	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("sdvext.services.httpapi")

type Service struct {
	kgs kgssvc.Service
	pw  pwsvc.Service
}

func NewService(kgs kgssvc.Service, pw pwsvc.Service) Service {
	return Service{kgs: kgs, pw: pw}
}

func (s Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/kgs/get_batches", s.handleKgsBatches)
	mux.HandleFunc("/kgs/extract", s.handleKgsExtract)
	mux.HandleFunc("/pw/get_batches", s.handlePwBatches)
	mux.HandleFunc("/pw/extract", s.handlePwExtract)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response body", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func serveAttachment(w http.ResponseWriter, r *http.Request, path, filename string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}

func (s Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Server is running",
	})
}

func (s Service) handleKgsBatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "kgs:get_batches")
	defer span.End()

	credentials := r.URL.Query().Get("credentials")
	if credentials == "" {
		writeError(w, http.StatusBadRequest, "Credentials are required")
		return
	}

	courses, err := s.kgs.ListBatches(ctx, credentials)
	if errors.Is(err, extract.ErrAuthFailed) {
		writeError(w, http.StatusUnauthorized, "Login failed")
		return
	}
	if err != nil || len(courses) == 0 {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		writeError(w, http.StatusNotFound, "Failed to fetch batches or no batches found")
		return
	}

	type batchInfo struct {
		BatchID   json.Number `json:"batch_id"`
		BatchName string      `json:"batch_name"`
	}
	batches := make([]batchInfo, len(courses))
	for i, course := range courses {
		batches[i] = batchInfo{BatchID: course.ID, BatchName: course.Title}
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

func (s Service) handleKgsExtract(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "kgs:extract")
	defer span.End()

	credentials := r.URL.Query().Get("credentials")
	batchID := r.URL.Query().Get("batch_id")
	if credentials == "" || batchID == "" {
		writeError(w, http.StatusBadRequest, "Credentials and batch_id are required")
		return
	}

	path, report, err := s.kgs.Extract(ctx, credentials, batchID)
	if errors.Is(err, extract.ErrAuthFailed) {
		writeError(w, http.StatusUnauthorized, "Login failed")
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, extractStatus(err), "No content found or extraction failed")
		return
	}

	slog.InfoContext(ctx, "sending file",
		"path", path,
		"emitted", report.Count(extract.OutcomeEmitted),
		"skipped", report.Count(extract.OutcomeSkipped),
		"fetch_failed", report.Count(extract.OutcomeFetchFailed),
	)
	serveAttachment(w, r, path, kgssvc.FileName(batchID))
}

func (s Service) handlePwBatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "pw:get_batches")
	defer span.End()

	authCode := r.URL.Query().Get("auth_code")
	if authCode == "" {
		writeError(w, http.StatusBadRequest, "Authentication code is required")
		return
	}

	batches, err := s.pw.ListBatches(ctx, authCode)
	if errors.Is(err, extract.ErrTokenRejected) {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if err != nil || len(batches) == 0 {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		writeError(w, http.StatusNotFound, "No batches found or failed to fetch")
		return
	}

	type batchInfo struct {
		BatchID   string `json:"batch_id"`
		BatchName string `json:"batch_name"`
		Price     string `json:"price"`
	}
	out := make([]batchInfo, len(batches))
	for i, batch := range batches {
		out[i] = batchInfo{BatchID: batch.ID, BatchName: batch.Name, Price: batch.Price}
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": out})
}

func (s Service) handlePwExtract(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "pw:extract")
	defer span.End()

	authCode := r.URL.Query().Get("auth_code")
	batchID := r.URL.Query().Get("batch_id")
	contentTypeTag := r.URL.Query().Get("content_type")
	if authCode == "" || batchID == "" || contentTypeTag == "" {
		writeError(w, http.StatusBadRequest, "auth_code, batch_id, and content_type are required")
		return
	}
	contentType, err := pwsvc.ParseContentType(contentTypeTag)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, report, err := s.pw.Extract(ctx, authCode, batchID, contentType)
	if errors.Is(err, extract.ErrTokenRejected) {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, extractStatus(err), "No content found or extraction failed")
		return
	}

	slog.InfoContext(ctx, "sending file",
		"path", path,
		"emitted", report.Count(extract.OutcomeEmitted),
		"skipped", report.Count(extract.OutcomeSkipped),
		"truncated", report.Truncated,
	)
	serveAttachment(w, r, path, pwsvc.FileName(batchID, contentType))
}

// extractStatus maps a non-auth pipeline failure onto an HTTP status:
// traversal outcomes are 404, anything left (file IO and the like) is
// a 500.
func extractStatus(err error) int {
	var upstream *extract.UpstreamError
	if errors.Is(err, extract.ErrNoContent) || errors.As(err, &upstream) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
