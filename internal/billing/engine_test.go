package billing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Spok95/cinema-bot/internal/domain/members"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeDirectory struct {
	all []members.Member
}

func (f *fakeDirectory) ListActive(_ context.Context) ([]members.Member, error) {
	var out []members.Member
	for _, m := range f.all {
		if m.Status == members.StatusActive {
			out = append(out, m)
		}
	}
	return out, nil
}

type datesQuery struct {
	memberID int64
	from, to time.Time
}

type fakeLedger struct {
	dates   map[int64][]time.Time
	queries []datesQuery
}

func (f *fakeLedger) Dates(_ context.Context, memberID int64, from, to time.Time) ([]time.Time, error) {
	f.queries = append(f.queries, datesQuery{memberID, from, to})
	var out []time.Time
	for _, d := range f.dates[memberID] {
		if !d.Before(from) && !d.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

type createdInvoice struct {
	memberID    int64
	periodStart time.Time
	periodEnd   time.Time
	base        float64
	penalty     float64
	total       float64
	issueDate   time.Time
}

type fakeInvoices struct {
	created []createdInvoice
}

func (f *fakeInvoices) Create(_ context.Context, memberID int64, periodStart, periodEnd time.Time, base, penalty, total float64, issueDate time.Time) (int64, error) {
	f.created = append(f.created, createdInvoice{memberID, periodStart, periodEnd, base, penalty, total, issueDate})
	return int64(len(f.created)), nil
}

func newTestEngine(dir *fakeDirectory, led *fakeLedger, inv *fakeInvoices) *Engine {
	return NewEngine(dir, led, inv, slog.New(slog.DiscardHandler))
}

func daily(from, to time.Time) []time.Time {
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func TestHasPenalty(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.January, 31)

	tests := []struct {
		name string
		ins  []time.Time
		from time.Time
		to   time.Time
		want bool
	}{
		{"no check-ins at all", nil, start, end, true},
		{"every single day", daily(start, end), start, end, false},
		{"day 1 and day 6, gap of exactly 5", []time.Time{date(2024, time.January, 1), date(2024, time.January, 6)}, start, date(2024, time.January, 6), true},
		{"day 1 and day 5, gap of 4", []time.Time{date(2024, time.January, 1), date(2024, time.January, 5)}, start, date(2024, time.January, 5), false},
		{"gap in the middle", append(daily(start, date(2024, time.January, 10)), daily(date(2024, time.January, 16), end)...), start, end, true},
		{"gap at the start boundary", daily(date(2024, time.January, 6), end), start, end, true},
		{"gap at the end boundary", daily(start, date(2024, time.January, 26)), start, end, true},
		// все разрывы ровно по 4 дня (и 2 дня на правой границе) — штрафа нет
		{"four-day gaps everywhere survive", []time.Time{
			date(2024, time.January, 1), date(2024, time.January, 5),
			date(2024, time.January, 9), date(2024, time.January, 13),
			date(2024, time.January, 17), date(2024, time.January, 21),
			date(2024, time.January, 25), date(2024, time.January, 29),
		}, start, end, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			led := &fakeLedger{dates: map[int64][]time.Time{1: tc.ins}}
			e := newTestEngine(&fakeDirectory{}, led, &fakeInvoices{})
			got, err := e.HasPenalty(context.Background(), 1, tc.from, tc.to)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestGenerateMonthlyInvoices_PreviousCalendarMonth(t *testing.T) {
	dir := &fakeDirectory{all: []members.Member{
		{ID: 1, Name: "Jim", Status: members.StatusActive, JoinDate: date(2023, time.June, 1), BaseMonthlyFee: 50},
	}}
	led := &fakeLedger{dates: map[int64][]time.Time{
		1: daily(date(2024, time.February, 1), date(2024, time.February, 29)),
	}}
	inv := &fakeInvoices{}
	e := newTestEngine(dir, led, inv)

	// любой день марта -> период весь февраль (високосный 2024)
	got, err := e.GenerateMonthlyInvoices(context.Background(), date(2024, time.March, 15))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, InvoiceSummary{MemberName: "Jim", Base: 50, Penalty: 0, Total: 50}, got[0])

	require.Len(t, inv.created, 1)
	require.Equal(t, date(2024, time.February, 1), inv.created[0].periodStart)
	require.Equal(t, date(2024, time.February, 29), inv.created[0].periodEnd)
	require.Equal(t, date(2024, time.March, 15), inv.created[0].issueDate)
}

func TestGenerateMonthlyInvoices_PenaltyArithmetic(t *testing.T) {
	dir := &fakeDirectory{all: []members.Member{
		{ID: 1, Name: "Pam", Status: members.StatusActive, JoinDate: date(2023, time.June, 1), BaseMonthlyFee: 50},
	}}
	// ни одного посещения за февраль -> штраф 20%
	led := &fakeLedger{dates: map[int64][]time.Time{}}
	inv := &fakeInvoices{}
	e := newTestEngine(dir, led, inv)

	got, err := e.GenerateMonthlyInvoices(context.Background(), date(2024, time.March, 1))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, 10.0, got[0].Penalty, 1e-9)
	require.InDelta(t, 60.0, got[0].Total, 1e-9)
}

func TestGenerateMonthlyInvoices_SkipsNotYetJoined(t *testing.T) {
	dir := &fakeDirectory{all: []members.Member{
		{ID: 1, Name: "Dwight", Status: members.StatusActive, JoinDate: date(2024, time.March, 2), BaseMonthlyFee: 60},
		{ID: 2, Name: "Angela", Status: members.StatusFrozen, JoinDate: date(2023, time.June, 1), BaseMonthlyFee: 60},
	}}
	inv := &fakeInvoices{}
	e := newTestEngine(dir, &fakeLedger{dates: map[int64][]time.Time{}}, inv)

	got, err := e.GenerateMonthlyInvoices(context.Background(), date(2024, time.March, 15))
	require.NoError(t, err)
	require.Empty(t, got)
	require.Empty(t, inv.created)
}

func TestGenerateMonthlyInvoices_MidPeriodJoinerWindow(t *testing.T) {
	join := date(2024, time.February, 20)
	dir := &fakeDirectory{all: []members.Member{
		{ID: 1, Name: "Kevin", Status: members.StatusActive, JoinDate: join, BaseMonthlyFee: 40},
	}}
	led := &fakeLedger{dates: map[int64][]time.Time{
		1: daily(join, date(2024, time.February, 29)),
	}}
	inv := &fakeInvoices{}
	e := newTestEngine(dir, led, inv)

	got, err := e.GenerateMonthlyInvoices(context.Background(), date(2024, time.March, 3))
	require.NoError(t, err)
	require.Len(t, got, 1)
	// окно проверки начинается с даты вступления, а не с начала периода
	require.Len(t, led.queries, 1)
	require.Equal(t, join, led.queries[0].from)
	require.Equal(t, date(2024, time.February, 29), led.queries[0].to)
	// иначе разрыв 1-20 февраля дал бы штраф
	require.Zero(t, got[0].Penalty)
	// в инвойсе при этом фигурирует полный календарный период
	require.Equal(t, date(2024, time.February, 1), inv.created[0].periodStart)
}

// Повторный запуск за тот же период создаёт дубликаты — фиксируем текущее
// поведение, а не желаемое (см. DESIGN.md).
func TestGenerateMonthlyInvoices_RerunDuplicates(t *testing.T) {
	dir := &fakeDirectory{all: []members.Member{
		{ID: 1, Name: "Jim", Status: members.StatusActive, JoinDate: date(2023, time.June, 1), BaseMonthlyFee: 50},
	}}
	inv := &fakeInvoices{}
	e := newTestEngine(dir, &fakeLedger{dates: map[int64][]time.Time{}}, inv)

	asOf := date(2024, time.March, 1)
	_, err := e.GenerateMonthlyInvoices(context.Background(), asOf)
	require.NoError(t, err)
	_, err = e.GenerateMonthlyInvoices(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, inv.created, 2)
}
