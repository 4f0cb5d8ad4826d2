package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"caja/internal/core"
)

// entryRequest is the JSON body for creating or replacing an entry. Amount and
// quantity come in as raw numbers and are re-validated as strings so a bad
// value gets the precise domain error instead of a generic decode failure.
type entryRequest struct {
	ID          string      `json:"id"`
	Kind        string      `json:"type"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Quantity    json.Number `json:"quantity"`
	Account     string      `json:"paymentMethod"`
	Date        string      `json:"date"`
}

func (req entryRequest) raw() core.RawEntry {
	return core.RawEntry{
		ID:          req.ID,
		Kind:        req.Kind,
		Description: req.Description,
		Amount:      req.Amount.String(),
		Quantity:    req.Quantity.String(),
		Account:     req.Account,
		Date:        req.Date,
	}
}

// windowFromQuery builds the reporting window from ?filter=&start=&end=.
func windowFromQuery(r *http.Request) (core.Window, error) {
	q := r.URL.Query()
	return core.ParseWindow(q.Get("filter"), q.Get("start"), q.Get("end"))
}

type entriesResponse struct {
	Entries []core.Entry `json:"entries"`
	Credits []core.Entry `json:"credits"`
	Debits  []core.Entry `json:"debits"`
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entries, err := s.ledger.List(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "List entries failed", "error", err)
		writeError(w, err)
		return
	}

	credits, debits := core.Partition(entries)
	writeJSON(w, http.StatusOK, entriesResponse{
		Entries: emptyIfNil(entries),
		Credits: emptyIfNil(credits),
		Debits:  emptyIfNil(debits),
	})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	// IDs are assigned server-side on creation; replacing goes through PUT.
	req.ID = ""

	e, err := s.ledger.Save(r.Context(), req.raw())
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	req.ID = r.PathValue("id")

	e, err := s.ledger.Save(r.Context(), req.raw())
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	Accounts     []core.AccountBalance `json:"accounts"`
	TotalBSF     decimal.Decimal       `json:"totalBsf"`
	TotalUSD     decimal.Decimal       `json:"totalUsd"`
	ExchangeRate decimal.Decimal       `json:"exchangeRate"`
	USDEstimate  *decimal.Decimal      `json:"usdEstimate,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cacheKey := r.URL.RawQuery
	if cached, ok := s.summaryCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	report, err := s.ledger.Report(r.Context(), window)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary failed", "error", err)
		writeError(w, err)
		return
	}

	resp := summaryResponse{
		Accounts:     report.Summary.Accounts,
		TotalBSF:     report.Summary.TotalBSF,
		TotalUSD:     report.Summary.TotalUSD,
		ExchangeRate: report.Rate.Rate,
	}
	if report.USDSet {
		usd := report.USD
		resp.USDEstimate = &usd
	}
	s.summaryCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRate(w http.ResponseWriter, r *http.Request) {
	rate, err := s.ledger.Rate(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Get rate failed", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

type rateRequest struct {
	ExchangeRate json.Number `json:"exchangeRate"`
}

func (s *Server) handleSetRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	setting, err := s.ledger.SetRate(r.Context(), req.ExchangeRate.String())
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, setting)
}

func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ledger.Export(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export failed", "error", err)
		writeError(w, err)
		return
	}
	if snap.Entries == nil {
		snap.Entries = []core.Entry{}
	}
	w.Header().Set("Content-Disposition", `attachment; filename="ledger-snapshot.json"`)
	writeJSON(w, http.StatusOK, snap)
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap core.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		// A malformed transaction date fails during decoding, before batch
		// validation runs; report it as a batch problem, not a syntax one.
		if errors.Is(err, core.ErrInvalidDate) {
			writeError(w, fmt.Errorf("%w: %w", core.ErrImportBatchInvalid, err))
			return
		}
		writeBadRequest(w, "invalid JSON body")
		return
	}

	n, err := s.ledger.Import(r.Context(), snap)
	if err != nil {
		writeError(w, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, importResponse{Imported: n})
}

func emptyIfNil(entries []core.Entry) []core.Entry {
	if entries == nil {
		return []core.Entry{}
	}
	return entries
}
