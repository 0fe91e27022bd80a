package registration

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/skillforge/academy-backend/internal/model/registration"
	"github.com/skillforge/academy-backend/internal/service/notifier"
	"github.com/skillforge/academy-backend/internal/service/staging"
	"github.com/skillforge/academy-backend/pkg/utils"
)

// receiptField is the multipart key the registration page uses for the
// payment receipt upload.
const receiptField = "Payment Receipt"

// Notifier delivers one email per accepted submission.
type Notifier interface {
	Send(ctx context.Context, sub registration.Submission, receipt *registration.Receipt) error
}

// Handler accepts registration form posts and relays them to the notifier.
type Handler struct {
	notifier Notifier
	store    *staging.Store
	maxBytes int64
}

// New creates the registration handler.
func New(n Notifier, store *staging.Store, maxBytes int64) *Handler {
	return &Handler{notifier: n, store: store, maxBytes: maxBytes}
}

// RegisterRoutes mounts the submission endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/send-payment", h.handleSendPayment)
}

func (h *Handler) handleSendPayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		log.Printf("[registration] multipart parse failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "form_parse_error")
		return
	}

	sub := registration.FromForm(url.Values(r.MultipartForm.Value))
	if fieldErrs := sub.Validate(); len(fieldErrs) > 0 {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_error",
			"details": fieldErrs,
		})
		return
	}

	receipt, staged, ok := h.stageReceipt(w, r)
	if !ok {
		return
	}

	if err := h.notifier.Send(r.Context(), sub, receipt); err != nil {
		// Underlying relay detail stays in the server log; the staged
		// receipt is left for the sweeper.
		log.Printf("[registration] delivery failed for %s: %v", sub.Email, err)
		code := "internal_error"
		if errors.Is(err, notifier.ErrDelivery) {
			code = "mail_delivery_error"
		}
		utils.RespondError(w, http.StatusInternalServerError, code)
		return
	}

	if staged != nil {
		h.store.Release(*staged)
	}

	log.Printf("[registration] notified for %s", sub.Email)
	utils.RespondSuccess(w)
}

// stageReceipt writes the optional receipt upload into the staging area.
// A missing file is not an error; the submission simply has no attachment.
func (h *Handler) stageReceipt(w http.ResponseWriter, r *http.Request) (*registration.Receipt, *staging.StagedFile, bool) {
	file, header, err := r.FormFile(receiptField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, true
	}
	if err != nil {
		log.Printf("[registration] receipt read failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "form_parse_error")
		return nil, nil, false
	}
	defer file.Close()

	staged, err := h.store.Save(header.Filename, file)
	if errors.Is(err, staging.ErrTooLarge) {
		utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "validation_error",
			"details": []registration.FieldError{
				{Field: receiptField, Message: "file exceeds the upload size limit"},
			},
		})
		return nil, nil, false
	}
	if err != nil {
		log.Printf("[registration] staging failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "form_parse_error")
		return nil, nil, false
	}

	receipt := &registration.Receipt{Filename: header.Filename, Path: staged.Path}
	return receipt, &staged, true
}
