package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/cinema-bot/internal/domain/members"
)

// PenaltyRate — надбавка за пропуск 4+ дней подряд.
const PenaltyRate = 0.20

// MemberDirectory — справочник членов клуба.
type MemberDirectory interface {
	ListActive(ctx context.Context) ([]members.Member, error)
}

// CheckInLedger отдаёт уникальные календарные даты посещений по возрастанию
// в диапазоне [from, to] включительно.
type CheckInLedger interface {
	Dates(ctx context.Context, memberID int64, from, to time.Time) ([]time.Time, error)
}

type InvoiceWriter interface {
	Create(ctx context.Context, memberID int64, periodStart, periodEnd time.Time, base, penalty, total float64, issueDate time.Time) (int64, error)
}

type InvoiceSummary struct {
	MemberName string  `json:"name"`
	Base       float64 `json:"base"`
	Penalty    float64 `json:"penalty"`
	Total      float64 `json:"total"`
}

type Engine struct {
	members  MemberDirectory
	ledger   CheckInLedger
	invoices InvoiceWriter
	log      *slog.Logger
}

func NewEngine(m MemberDirectory, l CheckInLedger, i InvoiceWriter, log *slog.Logger) *Engine {
	return &Engine{members: m, ledger: l, invoices: i, log: log}
}

// HasPenalty проверяет, был ли в периоде [periodStart, periodEnd] разрыв
// посещений в 4+ полных дня. Разрыв в 5 дней между соседними датами
// (включая границы периода) означает ровно 4 дня без посещений:
// даты 1-е и 6-е -> пропущены 2,3,4,5. Пустой период — максимальный разрыв.
func (e *Engine) HasPenalty(ctx context.Context, memberID int64, periodStart, periodEnd time.Time) (bool, error) {
	dates, err := e.ledger.Dates(ctx, memberID, periodStart, periodEnd)
	if err != nil {
		return false, fmt.Errorf("list check-in dates: %w", err)
	}
	if len(dates) == 0 {
		return true, nil
	}

	all := make([]time.Time, 0, len(dates)+2)
	all = append(all, toDate(periodStart))
	for _, d := range dates {
		all = append(all, toDate(d))
	}
	all = append(all, toDate(periodEnd))

	for i := 0; i < len(all)-1; i++ {
		if daysBetween(all[i], all[i+1]) >= 5 {
			return true, nil
		}
	}
	return false, nil
}

// GenerateMonthlyInvoices выставляет счета за предыдущий календарный месяц
// относительно asOf. Повторный запуск за тот же период создаст дубликаты —
// защиты от двойного биллинга нет (намеренно, см. DESIGN.md).
func (e *Engine) GenerateMonthlyInvoices(ctx context.Context, asOf time.Time) ([]InvoiceSummary, error) {
	firstOfCurrent := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := firstOfCurrent.AddDate(0, 0, -1)
	periodStart := time.Date(periodEnd.Year(), periodEnd.Month(), 1, 0, 0, 0, 0, time.UTC)

	active, err := e.members.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}

	created := []InvoiceSummary{}
	for _, m := range active {
		joinDate := toDate(m.JoinDate)
		if joinDate.After(periodEnd) {
			// ещё не был членом в расчётном периоде
			continue
		}

		// Вступившего в середине месяца проверяем только с даты вступления
		checkStart := periodStart
		if joinDate.After(checkStart) {
			checkStart = joinDate
		}

		hasPenalty, err := e.HasPenalty(ctx, m.ID, checkStart, periodEnd)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", m.ID, err)
		}

		penalty := 0.0
		if hasPenalty {
			penalty = m.BaseMonthlyFee * PenaltyRate
		}
		total := m.BaseMonthlyFee + penalty

		if _, err := e.invoices.Create(ctx, m.ID, periodStart, periodEnd, m.BaseMonthlyFee, penalty, total, toDate(asOf)); err != nil {
			return nil, fmt.Errorf("create invoice for member %d: %w", m.ID, err)
		}
		e.log.Info("invoice created",
			"member_id", m.ID, "penalty", penalty, "total", total,
			"period_start", periodStart.Format("2006-01-02"),
			"period_end", periodEnd.Format("2006-01-02"))

		created = append(created, InvoiceSummary{
			MemberName: m.Name,
			Base:       m.BaseMonthlyFee,
			Penalty:    penalty,
			Total:      total,
		})
	}
	return created, nil
}

func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween — число полных дней между двумя календарными датами.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
