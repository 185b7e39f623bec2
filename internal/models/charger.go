package models

import "time"

// Connector is a plug on a charger. Type is free text and is the literal
// match key against PricingRule.Connector, so "CCS2" and "ccs2" price
// differently on purpose.
type Connector struct {
	ID      int     `db:"id" json:"id"`
	Type    string  `db:"type" json:"type"`
	PowerKW float64 `db:"power_kw" json:"power_kw"`
	Status  string  `db:"status" json:"status"`
}

// EVCharger is a charging station in the operator's network.
type EVCharger struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name"`
	Location   string      `db:"location" json:"location"`
	Status     string      `db:"status" json:"status"`
	Connectors []Connector `db:"connectors" json:"connectors"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}
