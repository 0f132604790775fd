package gym

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/Spok95/cinema-bot/internal/billing"
	"github.com/Spok95/cinema-bot/internal/domain/checkins"
	"github.com/Spok95/cinema-bot/internal/domain/invoices"
	"github.com/Spok95/cinema-bot/internal/domain/members"
)

type MemberStore interface {
	Create(ctx context.Context, name, email string, joinDate time.Time, baseFee float64) (*members.Member, error)
	List(ctx context.Context) ([]members.Member, error)
	SetStatus(ctx context.Context, id int64, status members.Status) error
}

type CheckInStore interface {
	Log(ctx context.Context, memberID int64, at time.Time) error
	ListByMember(ctx context.Context, memberID int64) ([]checkins.CheckIn, error)
}

type InvoiceStore interface {
	ListByMember(ctx context.Context, memberID int64) ([]invoices.Invoice, error)
	SetStatus(ctx context.Context, id int64, status string) error
}

type BillingRunner interface {
	GenerateMonthlyInvoices(ctx context.Context, asOf time.Time) ([]billing.InvoiceSummary, error)
}

// Handler — HTTP-интерфейс клубного биллинга. Последний результат прогона
// держим в памяти: из него собирается Excel-отчёт.
type Handler struct {
	log      *slog.Logger
	members  MemberStore
	checkins CheckInStore
	invoices InvoiceStore
	engine   BillingRunner

	mu        sync.Mutex
	lastRun   []billing.InvoiceSummary
	lastRunAt time.Time
}

func NewHandler(log *slog.Logger, m MemberStore, c CheckInStore, i InvoiceStore, e BillingRunner) *Handler {
	return &Handler{log: log, members: m, checkins: c, invoices: i, engine: e}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/members", h.createMember)
	r.Get("/members", h.listMembers)
	r.Post("/members/{id}/status", h.setMemberStatus)
	r.Post("/members/{id}/checkins", h.logCheckIn)
	r.Get("/members/{id}/checkins", h.listCheckIns)
	r.Get("/members/{id}/invoices", h.listInvoices)
	r.Post("/billing/run", h.runBilling)
	r.Get("/billing/report.xlsx", h.billingReport)
	r.Get("/payments/pay", h.payInvoice)
	r.Post("/seed", h.seed)
	return r
}

type seededMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// seed наполняет базу демо-данными за предыдущий месяц: один член клуба
// с регулярными посещениями, второй — с единственным визитом в начале
// периода (то есть с разрывом и штрафом при прогоне биллинга).
func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now().UTC()
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodStart := firstOfCurrent.AddDate(0, -1, 0)
	periodEnd := firstOfCurrent.AddDate(0, 0, -1)

	demo := []struct {
		name, email string
		fee         float64
		visitEvery  int // дни между посещениями; 0 — один визит в начале
	}{
		{"Alice Johnson", "alice@example.com", 50, 3},
		{"Bob Smith", "bob@example.com", 40, 0},
	}

	var created []seededMember
	for _, d := range demo {
		m, err := h.members.Create(ctx, d.name, d.email, periodStart, d.fee)
		if err != nil {
			h.log.Error("seed member failed", "name", d.name, "err", err)
			h.writeError(w, http.StatusInternalServerError, "seeding failed")
			return
		}

		visits := []time.Time{periodStart}
		if d.visitEvery > 0 {
			visits = visits[:0]
			for day := periodStart; !day.After(periodEnd); day = day.AddDate(0, 0, d.visitEvery) {
				visits = append(visits, day)
			}
		}
		for _, day := range visits {
			if err := h.checkins.Log(ctx, m.ID, day.Add(9*time.Hour)); err != nil {
				h.log.Error("seed check-in failed", "member_id", m.ID, "err", err)
				h.writeError(w, http.StatusInternalServerError, "seeding failed")
				return
			}
		}
		created = append(created, seededMember{ID: m.ID, Name: m.Name})
	}
	h.writeJSON(w, http.StatusCreated, created)
}

type createMemberRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	JoinDate string  `json:"join_date"`
	BaseFee  float64 `json:"base_monthly_fee"`
}

func (h *Handler) createMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" {
		h.writeError(w, http.StatusBadRequest, "name and email are required")
		return
	}
	if req.BaseFee < 0 {
		h.writeError(w, http.StatusBadRequest, "base_monthly_fee must be non-negative")
		return
	}

	joinDate := time.Now().UTC()
	if req.JoinDate != "" {
		var err error
		joinDate, err = time.Parse("2006-01-02", req.JoinDate)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "join_date must be YYYY-MM-DD")
			return
		}
	}

	m, err := h.members.Create(r.Context(), req.Name, req.Email, joinDate, req.BaseFee)
	if err != nil {
		h.log.Error("create member failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create member")
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	list, err := h.members.List(r.Context())
	if err != nil {
		h.log.Error("list members failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if list == nil {
		list = []members.Member{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setMemberStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	status := members.Status(req.Status)
	if status != members.StatusActive && status != members.StatusFrozen {
		h.writeError(w, http.StatusBadRequest, "status must be 'active' or 'frozen'")
		return
	}
	if err := h.members.SetStatus(r.Context(), id, status); err != nil {
		h.log.Error("set member status failed", "member_id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

type logCheckInRequest struct {
	At string `json:"at"` // RFC3339; пусто — текущий момент
}

func (h *Handler) logCheckIn(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}

	var req logCheckInRequest
	// тело опционально: пустой запрос — чек-ин "сейчас"
	_ = json.NewDecoder(r.Body).Decode(&req)

	at := time.Now().UTC()
	if req.At != "" {
		var err error
		at, err = time.Parse(time.RFC3339, req.At)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "at must be RFC3339")
			return
		}
	}

	if err := h.checkins.Log(r.Context(), id, at); err != nil {
		h.log.Error("log check-in failed", "member_id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to log check-in")
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"checked_in_at": at.Format(time.RFC3339)})
}

func (h *Handler) listCheckIns(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}
	list, err := h.checkins.ListByMember(r.Context(), id)
	if err != nil {
		h.log.Error("list check-ins failed", "member_id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list check-ins")
		return
	}
	if list == nil {
		list = []checkins.CheckIn{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberID(w, r)
	if !ok {
		return
	}
	list, err := h.invoices.ListByMember(r.Context(), id)
	if err != nil {
		h.log.Error("list invoices failed", "member_id", id, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}
	if list == nil {
		list = []invoices.Invoice{}
	}
	h.writeJSON(w, http.StatusOK, list)
}

// runBilling выставляет счета за предыдущий календарный месяц.
// as_of принимается параметром для прогонов за прошлые периоды.
func (h *Handler) runBilling(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if s := r.URL.Query().Get("as_of"); s != "" {
		var err error
		asOf, err = time.Parse("2006-01-02", s)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
	}

	created, err := h.engine.GenerateMonthlyInvoices(r.Context(), asOf)
	if err != nil {
		h.log.Error("billing run failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "billing run failed")
		return
	}

	h.mu.Lock()
	h.lastRun = created
	h.lastRunAt = asOf
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, map[string]any{
		"invoices_created": len(created),
		"invoices":         created,
	})
}

// payInvoice эмулирует успешную оплату:
// /payments/pay?invoice=123 -> invoices.status='paid' плюс HTML-подтверждение.
func (h *Handler) payInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceStr := r.URL.Query().Get("invoice")
	if invoiceStr == "" {
		h.writeError(w, http.StatusBadRequest, "missing invoice parameter")
		return
	}
	invoiceID, err := strconv.ParseInt(invoiceStr, 10, 64)
	if err != nil || invoiceID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid invoice parameter")
		return
	}

	if err := h.invoices.SetStatus(r.Context(), invoiceID, invoices.StatusPaid); err != nil {
		if errors.Is(err, invoices.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		h.log.Error("failed to mark invoice as paid", "invoice_id", invoiceID, "err", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update invoice status")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w,
		"<html><body><h1>Payment successful</h1><p>Invoice #%d has been marked as paid.</p></body></html>",
		invoiceID,
	)
}

func (h *Handler) memberID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid member id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("write response failed", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, map[string]string{"error": msg})
}
