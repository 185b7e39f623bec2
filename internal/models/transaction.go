package models

import "time"

// Transaction payment states. Transactions are created UNPAID and may later
// be reconciled to PAID; there are no further states.
const (
	StatusUnpaid = "UNPAID"
	StatusPaid   = "PAID"
)

// PaymentTypeNone is the initial payment type before reconciliation.
const PaymentTypeNone = "N/A"

// EVTransaction is a billed charging transaction. CostCOP, MeterKWh and
// AppliedRate are fixed at creation and never recomputed, even if pricing
// rules change afterwards. Only Status, PaymentType and PaymentDate are
// mutated during payment reconciliation.
type EVTransaction struct {
	ID              string     `db:"id" json:"id"`
	Station         string     `db:"station" json:"station"`
	Connector       string     `db:"connector" json:"connector"`
	Account         string     `db:"account" json:"account"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         time.Time  `db:"end_time" json:"end_time"`
	MeterKWh        float64    `db:"meter_kwh" json:"meter_kwh"`
	CostCOP         int64      `db:"cost_cop" json:"cost_cop"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	AppliedRate     float64    `db:"applied_rate" json:"applied_rate"`
	Status          string     `db:"status" json:"status"`
	PaymentType     string     `db:"payment_type" json:"payment_type"`
	PaymentDate     *time.Time `db:"payment_date" json:"payment_date,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
