package invoices

import "time"

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Invoice после создания не меняется; исключение — статус при оплате.
type Invoice struct {
	ID            int64
	MemberID      int64
	PeriodStart   time.Time
	PeriodEnd     time.Time
	BaseAmount    float64
	PenaltyAmount float64
	TotalAmount   float64
	Status        string
	IssueDate     time.Time
}
