package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// StringList is a JSON-encoded list of strings stored in a text column.
// Used for methodology code lists on deliverables and sprint deliverables.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// ExtractedBudget holds contract financials returned by the extraction
// collaborator.
type ExtractedBudget struct {
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
	VATIncluded bool    `json:"vat_included"`
	VATRate     int     `json:"vat_rate"`
}

type ExtractedPaymentStage struct {
	StageNumber int     `json:"stage_number"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Trigger     string  `json:"trigger"`
}

type ExtractedDuration struct {
	Weeks     int    `json:"weeks"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type ExtractedDeliverable struct {
	Number                 string   `json:"number"`
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	SuggestedMethodologies []string `json:"suggested_methodologies"`
}

type ExtractedMethodology struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Details  string `json:"details"`
}

// ExtractedData is the structured payload produced by contract extraction.
// It is validated at the ingestion boundary and then stored as-is on the
// contract document; content is never corrected or normalized.
type ExtractedData struct {
	Budget          ExtractedBudget         `json:"budget"`
	PaymentStages   []ExtractedPaymentStage `json:"payment_stages"`
	Duration        ExtractedDuration       `json:"duration"`
	Deliverables    []ExtractedDeliverable  `json:"deliverables"`
	Methodologies   []ExtractedMethodology  `json:"methodologies"`
	ConfidenceScore int                     `json:"confidence_score"`
}

// Validate checks shape only: required fields present and numeric fields
// sane. Garbage content is accepted.
func (d *ExtractedData) Validate() error {
	if d.Budget.Total < 0 {
		return errors.New("budget total must not be negative")
	}
	if d.ConfidenceScore < 0 || d.ConfidenceScore > 100 {
		return errors.New("confidence score must be between 0 and 100")
	}
	for i, stage := range d.PaymentStages {
		if stage.StageNumber < 1 {
			return fmt.Errorf("payment stage %d: stage_number must be >= 1", i+1)
		}
		if stage.Amount <= 0 {
			return fmt.Errorf("payment stage %d: amount must be positive", i+1)
		}
	}
	for i, deliv := range d.Deliverables {
		if deliv.Title == "" {
			return fmt.Errorf("deliverable %d: title is required", i+1)
		}
	}
	for i, meth := range d.Methodologies {
		if meth.Code == "" {
			return fmt.Errorf("methodology %d: code is required", i+1)
		}
	}
	return nil
}

func (d ExtractedData) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *ExtractedData) Scan(value interface{}) error {
	if value == nil {
		*d = ExtractedData{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("cannot scan %T into ExtractedData", value)
	}
}
