package members

import "time"

type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
)

type Member struct {
	ID             int64
	Name           string
	Email          string
	JoinDate       time.Time // календарная дата, время всегда 00:00 UTC
	BaseMonthlyFee float64
	Status         Status
	CreatedAt      time.Time
}
