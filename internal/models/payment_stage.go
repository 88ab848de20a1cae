package models

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentInvoiced PaymentStatus = "invoiced"
	PaymentPaid     PaymentStatus = "paid"
	PaymentClosed   PaymentStatus = "closed"
)

// paymentStatusOrder defines the forward-only progression of a stage.
var paymentStatusOrder = map[PaymentStatus]int{
	PaymentPending:  0,
	PaymentInvoiced: 1,
	PaymentPaid:     2,
	PaymentClosed:   3,
}

// CanTransitionTo reports whether moving from s to next goes forward.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	from, ok := paymentStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := paymentStatusOrder[next]
	if !ok {
		return false
	}
	return to > from
}

// PaymentStage is one contracted payment. The sum of stage amounts is
// informational and not reconciled against the project budget.
type PaymentStage struct {
	ID          uint64  `gorm:"primarykey" json:"id"`
	ProjectID   uint64  `gorm:"not null;index" json:"project_id"`
	StageNumber int     `gorm:"not null" json:"stage_number"`
	Amount      float64 `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string  `gorm:"type:text" json:"description"`
	Trigger     string  `gorm:"type:text" json:"trigger"`

	Status              PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	InvoiceSentDate     *time.Time    `json:"invoice_sent_date"`
	PaymentReceivedDate *time.Time    `json:"payment_received_date"`

	IsFromContract bool      `gorm:"default:false" json:"is_from_contract"`
	CreatedAt      time.Time `json:"created_at"`

	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
