package model

import (
	"fmt"
	"strings"
	"time"
)

// QuoteStatus is the lifecycle state of a customer quote.
type QuoteStatus string

const (
	QuoteStatusNew       QuoteStatus = "NEW"
	QuoteStatusAssigned  QuoteStatus = "ASSIGNED"
	QuoteStatusDone      QuoteStatus = "DONE"
	QuoteStatusCancelled QuoteStatus = "CANCELLED"
)

// ParseQuoteStatus accepts a known status in any letter case. An empty value
// is an error; callers decide whether empty means NEW.
func ParseQuoteStatus(raw string) (QuoteStatus, error) {
	s := QuoteStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case QuoteStatusNew, QuoteStatusAssigned, QuoteStatusDone, QuoteStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("unknown quote status %q", raw)
}

// Terminal reports whether the quote is closed.
func (s QuoteStatus) Terminal() bool {
	return s == QuoteStatusDone || s == QuoteStatusCancelled
}

// CanTransitionTo reports whether a quote may move from s to next.
//
// In lenient mode every known status may follow any other, which is what lets
// a fixpoint assignment reopen a DONE quote. Strict mode keeps closed quotes
// closed and never moves a quote back to NEW once it left it.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus, strict bool) bool {
	if !strict || s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	return next != QuoteStatusNew
}

// Quote is a customer repair-cost estimate. Price is the only monetary
// record: line items carry no price snapshot.
type Quote struct {
	ID            int64       `gorm:"primaryKey" json:"id"`
	ModelID       int64       `gorm:"index;not null" json:"model_id"`
	FixpointID    *int64      `gorm:"index" json:"fixpoint_id"`
	Price         float64     `json:"price"`
	City          string      `gorm:"size:128" json:"city"`
	CustomerName  string      `gorm:"size:256" json:"customer_name"`
	CustomerEmail string      `gorm:"size:256" json:"customer_email"`
	Status        QuoteStatus `gorm:"size:32;not null;index" json:"status"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
}

// QuoteRepairLine links a quote to one selected repair.
type QuoteRepairLine struct {
	QuoteID  int64 `gorm:"primaryKey;autoIncrement:false"`
	RepairID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	Position int   `gorm:"not null"`
}

// TableName keeps the historical table name.
func (QuoteRepairLine) TableName() string { return "quote_repairs" }

// FixpointSummary is the part of a fixpoint printed on a quote document.
type FixpointSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// QuoteView is the read shape of a quote: the row joined with its model name
// and the names of its repairs.
type QuoteView struct {
	ID            int64            `json:"id"`
	ModelID       int64            `json:"model_id"`
	Model         string           `json:"model"`
	FixpointID    *int64           `json:"fixpoint_id"`
	Price         float64          `json:"price"`
	City          string           `json:"city"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	Status        QuoteStatus      `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	RepairIDs     []int64          `json:"repair_ids"`
	Repairs       []string         `json:"repairs"`
	Repair        string           `json:"repair"`
	Fixpoint      *FixpointSummary `json:"fixpoint,omitempty"`
}

// StatsOverview is the aggregate over all quotes handed to reporting.
type StatsOverview struct {
	Total         int64   `json:"total"`
	NewCount      int64   `json:"new_count"`
	AssignedCount int64   `json:"assigned_count"`
	DoneCount     int64   `json:"done_count"`
	TotalAmount   float64 `json:"total_amount"`
}
