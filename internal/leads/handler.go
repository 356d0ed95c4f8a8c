package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vantrung/equipment-site/pkg/logging"
)

const (
	msgSubmitted       = "Gửi thành công! Chúng tôi sẽ liên hệ lại với bạn trong thời gian sớm nhất."
	msgValidation      = "Vui lòng điền đầy đủ thông tin. Họ tên và số điện thoại là bắt buộc."
	msgPersistFailed   = "Có lỗi xảy ra. Vui lòng thử lại sau hoặc gọi trực tiếp cho chúng tôi."
	msgInvalidBody     = "Invalid request body"
	maxRequestBodySize = 64 << 10
)

// Submitter is the part of Collector the handler depends on.
type Submitter interface {
	Submit(ctx context.Context, fields Fields, action Action, source string, productID *string) (*SubmitResult, error)
}

// Handler handles HTTP requests for leads
type Handler struct {
	submitter Submitter
	logger    *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(submitter Submitter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		submitter: submitter,
		logger:    logger,
	}
}

// SubmitResponse is returned for an accepted lead.
type SubmitResponse struct {
	Lead     *Lead  `json:"lead"`
	Notified bool   `json:"notified"`
	Message  string `json:"message"`
}

// ErrorResponse is returned for rejected submissions.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// CreateLead handles POST /api/leads requests
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return
	}

	action, _ := ParseAction(req.Action)
	var productID *string
	if req.ProductID != "" {
		productID = &req.ProductID
	}

	result, err := h.submitter.Submit(r.Context(), req.Fields(), action, req.Source, productID)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: msgValidation, Fields: verr.Fields})
			return
		}
		// The store error is logged by the collector and never echoed back.
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: msgPersistFailed})
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Lead:     result.Lead,
		Notified: result.Notified,
		Message:  msgSubmitted,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
