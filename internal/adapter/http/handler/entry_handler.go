package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/backoffice/treasury/internal/adapter/http/dto"
	"github.com/backoffice/treasury/internal/domain"
	"github.com/backoffice/treasury/internal/infrastructure/metrics"
	"github.com/backoffice/treasury/internal/usecase"
)

// LedgerService defines the behavior needed by EntryHandler.
type LedgerService interface {
	PostEntry(ctx context.Context, input usecase.PostEntryInput) (*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	GetEntriesByReference(ctx context.Context, referenceID string) ([]*domain.Entry, error)
	ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.Entry, error)
	CheckConsistency(ctx context.Context) ([]domain.BalanceDrift, error)
}

// EntryHandler handles ledger entry HTTP requests.
type EntryHandler struct {
	ledgerUC LedgerService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(ledgerUC LedgerService) *EntryHandler {
	return &EntryHandler{ledgerUC: ledgerUC}
}

// Post appends one entry to the ledger.
func (h *EntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.PostEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to post entry")
		return
	}

	metrics.EntryPosted(string(entry.Type))
	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.ledgerUC.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to get entry")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists entries matching query filters, newest first.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := entryFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	entries, err := h.ledgerUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// ListByAccount lists one account's entries, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	filter, err := entryFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}
	filter.AccountID = chi.URLParam(r, "id")

	entries, err := h.ledgerUC.ListEntries(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// ListByReference lists the entries sharing a reference, e.g. both legs of
// a transfer.
func (h *EntryHandler) ListByReference(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerUC.GetEntriesByReference(r.Context(), chi.URLParam(r, "referenceID"))
	if err != nil {
		writeDomainError(w, err, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

// Consistency runs the ledger-wide balance consistency check.
func (h *EntryHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	drifts, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to check consistency")
		return
	}

	metrics.DriftsObserved(len(drifts))
	writeJSON(w, http.StatusOK, dto.ConsistencyFromDrifts(drifts))
}

func entryFilterFromQuery(r *http.Request) (domain.EntryFilter, error) {
	q := r.URL.Query()

	filter := domain.EntryFilter{
		AccountID:  q.Get("account_id"),
		CategoryID: q.Get("category_id"),
		Direction:  domain.Direction(q.Get("direction")),
		Type:       domain.TransactionType(q.Get("type")),
		Search:     q.Get("search"),
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.EntryFilter{}, err
		}
		filter.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.EntryFilter{}, err
		}
		filter.To = t
	}

	return filter, nil
}
