package domain

import (
	"github.com/rs/xid"
)

// Category is the intent taxonomy for customer messages.
type Category string

const (
	CategoryLove        Category = "Love"
	CategoryGrievance   Category = "Grievance"
	CategoryOrderInfo   Category = "Order Information"
	CategoryProductInfo Category = "Product Information"
	CategoryFact        Category = "Fact"
	CategoryBusiness    Category = "Business Queries"
	CategoryHiring      Category = "Hiring"
	CategoryOthers      Category = "Others"
)

// Action is the recommended handling channel for a classified message.
type Action string

const (
	ActionEmail     Action = "Email"
	ActionDMComment Action = "DM/Comment"
	ActionCRMTicket Action = "CRM Ticket"
)

// Status indicates whether a classified row can be handled without a human.
type Status string

const (
	StatusAutomated   Status = "Automated"
	StatusNeedsReview Status = "Needs Review"
)

// AutomationThreshold is the minimum confidence for the Automated status.
const AutomationThreshold = 75

// Classification is the merged outcome of a pipeline run for one message.
type Classification struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Response   string   `json:"response"`
	Action     Action   `json:"action"`
}

// Row is the unit of work: one user-entered message plus its classification
// outcome. A row is either fully unclassified (all classification fields
// empty, Confidence nil) or fully classified; partial states are not stored.
type Row struct {
	ID         string   `json:"id"`
	Message    string   `json:"message"`
	Category   Category `json:"category"`
	Confidence *float64 `json:"confidence"`
	Response   string   `json:"response"`
	Action     Action   `json:"action"`
}

// NewRow creates an empty, unclassified row with a fresh stable identifier.
func NewRow() Row {
	return Row{ID: xid.New().String()}
}

// Classified reports whether the row carries a classification outcome.
func (r Row) Classified() bool {
	return r.Confidence != nil
}

// Status derives the automation status of the row. It is computed from the
// confidence alone and deliberately ignores the action channel; the two are
// independent signals and may disagree.
func (r Row) Status() Status {
	if !r.Classified() {
		return ""
	}
	if *r.Confidence >= AutomationThreshold {
		return StatusAutomated
	}
	return StatusNeedsReview
}

// Reset returns the row to the unclassified state, message included. The
// stable identifier is regenerated so that any classification still in
// flight for the old content cannot be written back onto the cleared row.
func (r *Row) Reset() {
	r.ID = xid.New().String()
	r.Message = ""
	r.Category = ""
	r.Confidence = nil
	r.Response = ""
	r.Action = ""
}

// Apply merges a classification outcome into the row.
func (r *Row) Apply(c Classification) {
	confidence := c.Confidence
	r.Category = c.Category
	r.Confidence = &confidence
	r.Response = c.Response
	r.Action = c.Action
}

// Categories lists the taxonomy used by the staged categorization schema.
func Categories() []Category {
	return []Category{
		CategoryLove,
		CategoryGrievance,
		CategoryOrderInfo,
		CategoryProductInfo,
		CategoryBusiness,
		CategoryHiring,
		CategoryOthers,
	}
}

// Actions lists the valid handling channels.
func Actions() []Action {
	return []Action{ActionEmail, ActionDMComment, ActionCRMTicket}
}
