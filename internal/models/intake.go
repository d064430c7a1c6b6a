package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Customer type constants
const (
	CustomerTypeRetailer    CustomerType = "retailer"
	CustomerTypeEndConsumer CustomerType = "end_consumer"
)

// Warranty status constants
const (
	WarrantyIn  WarrantyStatus = "in_warranty"
	WarrantyOut WarrantyStatus = "out_of_warranty"
)

// PurchaseDateLayout is the wire layout of IntakeRecord.PurchaseDate
const PurchaseDateLayout = "2006-01-02"

// CustomerType distinguishes shops from the people who use the equipment
type CustomerType string

// ParseCustomerType accepts the canonical values and the legacy form values
// ("lojista", "consumidor_final").
func ParseCustomerType(s string) (CustomerType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "retailer", "lojista":
		return CustomerTypeRetailer, nil
	case "end_consumer", "consumidor_final":
		return CustomerTypeEndConsumer, nil
	default:
		return "", ErrInvalidInput(fmt.Sprintf("invalid customer_type: %s (must be 'retailer' or 'end_consumer')", s))
	}
}

// Valid reports whether t is one of the closed set of customer types
func (t CustomerType) Valid() bool {
	return t == CustomerTypeRetailer || t == CustomerTypeEndConsumer
}

// WarrantyStatus tells whether the unit is still covered
type WarrantyStatus string

// ParseWarrantyStatus validates a warranty status string
func ParseWarrantyStatus(s string) (WarrantyStatus, error) {
	switch WarrantyStatus(strings.ToLower(strings.TrimSpace(s))) {
	case WarrantyIn:
		return WarrantyIn, nil
	case WarrantyOut:
		return WarrantyOut, nil
	default:
		return "", ErrInvalidInput(fmt.Sprintf("invalid warranty_status: %s (must be 'in_warranty' or 'out_of_warranty')", s))
	}
}

// Valid reports whether w is one of the closed set of warranty states
func (w WarrantyStatus) Valid() bool {
	return w == WarrantyIn || w == WarrantyOut
}

// Date is a calendar date without time of day or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string. The second result is false when the
// input is empty or not a real calendar date.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	t, err := time.Parse(PurchaseDateLayout, s)
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// DaysUntil returns the number of calendar days from d to other, negative
// when other is earlier. Both dates are pinned to UTC midnight so
// daylight-saving shifts cannot skew the count.
func (d Date) DaysUntil(other Date) int {
	from := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	to := time.Date(other.Year, other.Month, other.Day, 0, 0, 0, 0, time.UTC)
	return int((to.Unix() - from.Unix()) / 86400)
}

// Format renders the date as DD/MM/YYYY
func (d Date) Format() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// IntakeRecord is one customer's support intake, alive for a single form fill
type IntakeRecord struct {
	CustomerName      string         `json:"customer_name" validate:"required"`
	CustomerPhone     string         `json:"customer_phone" validate:"required"`
	PurchaseDate      string         `json:"purchase_date,omitempty"`
	StoreName         string         `json:"store_name" validate:"required"`
	ConsoleModel      string         `json:"console_model"`
	DefectDescription string         `json:"defect_description" validate:"required"`
	WarrantyStatus    WarrantyStatus `json:"warranty_status" validate:"required,oneof=in_warranty out_of_warranty"`
	CustomerType      CustomerType   `json:"customer_type" validate:"required,oneof=retailer end_consumer"`
}

// Normalize trims free-text fields and maps legacy enum spellings
func (r *IntakeRecord) Normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.PurchaseDate = strings.TrimSpace(r.PurchaseDate)
	r.StoreName = strings.TrimSpace(r.StoreName)
	r.DefectDescription = strings.TrimSpace(r.DefectDescription)
	if ct, err := ParseCustomerType(string(r.CustomerType)); err == nil {
		r.CustomerType = ct
	}
	if ws, err := ParseWarrantyStatus(string(r.WarrantyStatus)); err == nil {
		r.WarrantyStatus = ws
	}
}

// PurchaseDateValue returns the parsed purchase date, if any
func (r *IntakeRecord) PurchaseDateValue() (Date, bool) {
	return ParseDate(r.PurchaseDate)
}

// HasModel reports whether the record's console model is in models
func (r *IntakeRecord) HasModel(models []string) bool {
	return slices.Contains(models, r.ConsoleModel)
}

// ReconcileModel keeps ConsoleModel pointing at a configured model. When the
// current value is not in models it is replaced by the first entry, or by the
// empty string when models is empty. It reports whether a repair happened.
func (r *IntakeRecord) ReconcileModel(models []string) bool {
	if r.HasModel(models) {
		return false
	}
	if len(models) == 0 {
		if r.ConsoleModel == "" {
			return false
		}
		r.ConsoleModel = ""
		return true
	}
	r.ConsoleModel = models[0]
	return true
}
