// internal/domain/models/sparepart.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SparePart is one spare-part order tracked through its procurement
// lifecycle: document prepared, order on process, part arrived, part
// installed. Records are created and mutated only by admins; operators
// see a read-only view.
type SparePart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped

	Specification string `bson:"specification" json:"specification"`
	Machine       string `bson:"machine" json:"machine"`
	Quantity      int    `bson:"quantity" json:"quantity"`
	OrderedBy     string `bson:"ordered_by" json:"ordered_by"`
	OrderDate     time.Time `bson:"order_date" json:"order_date"`
	Vendor        string `bson:"vendor" json:"vendor"`
	Plant         string `bson:"plant" json:"plant"`

	WorkOrderNumber string `bson:"work_order_number,omitempty" json:"work_order_number,omitempty"`
	Urgency         string `bson:"urgency" json:"urgency"` // "normal" or "urgent"
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`

	// The ordered progress pipeline. See CanToggleStep for the rules
	// that gate flipping each flag.
	DocumentComplete     bool `bson:"document_complete" json:"document_complete"`
	OnProcessComplete    bool `bson:"on_process_complete" json:"on_process_complete"`
	ArrivedComplete      bool `bson:"arrived_complete" json:"arrived_complete"`
	InstallationComplete bool `bson:"installation_complete" json:"installation_complete"`

	// Admin-controlled archive flag. Hidden records stay in the store but
	// are excluded from operator views unless the admin shows archives.
	HiddenFromOperator bool `bson:"hidden_from_operator" json:"hidden_from_operator"`

	// Set on records created through a bulk spreadsheet import so an
	// import run can be identified later.
	ImportBatchID string `bson:"import_batch_id,omitempty" json:"import_batch_id,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Urgency values.
const (
	UrgencyNormal = "normal"
	UrgencyUrgent = "urgent"
)

// Progress step identifiers, in pipeline order.
const (
	StepDocument     = "document"
	StepOnProcess    = "on_process"
	StepArrived      = "arrived"
	StepInstallation = "installation"
)

// Arrived reports whether the part has arrived. The waiting/arrived
// status shown on dashboards is derived from this flag alone.
func (sp *SparePart) Arrived() bool {
	return sp.ArrivedComplete
}

// IsUrgent reports whether the record carries the urgent flag.
func (sp *SparePart) IsUrgent() bool {
	return sp.Urgency == UrgencyUrgent
}

// CanToggleStep reports whether the given progress step may be toggled
// for this record. Steps form an ordered pipeline: a later step cannot be
// set before its predecessor is complete.
//
// Exception: urgent records waive the predecessor requirement for the
// on-process and arrived steps. This is a deliberate business rule (an
// urgent order can be pushed through before its document is complete),
// not a missing check. Installation always requires arrival, urgent or
// not.
func (sp *SparePart) CanToggleStep(step string) bool {
	switch step {
	case StepDocument:
		return true
	case StepOnProcess:
		return sp.IsUrgent() || sp.DocumentComplete
	case StepArrived:
		return sp.IsUrgent() || sp.OnProcessComplete
	case StepInstallation:
		return sp.ArrivedComplete
	default:
		return false
	}
}
