package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidProjectCode(t *testing.T) {
	valid := []string{
		"2170.ACM.acme",
		"2171.БНК.bank-of-something",
		"0001.XYZ.x1",
		"2172.ПРМ.пример-клиента",
	}
	for _, code := range valid {
		require.True(t, ValidProjectCode(code), code)
	}

	invalid := []string{
		"",
		"2170.ACM",
		"217.ACM.acme",
		"2170.AC.acme",
		"2170.acm.acme",
		"2170.ACM.Acme",
		"2170.ACM.-acme",
		"2170.ACME.acme",
		"2170 ACM acme",
	}
	for _, code := range invalid {
		require.False(t, ValidProjectCode(code), code)
	}
}

func TestProjectTicker(t *testing.T) {
	p := &Project{ProjectCode: "2170.ACM.acme"}
	require.Equal(t, "ACM", p.Ticker())

	malformed := &Project{ProjectCode: "nonsense"}
	require.Equal(t, "XXX", malformed.Ticker())
}

func TestPaymentStatusTransitions(t *testing.T) {
	require.True(t, PaymentPending.CanTransitionTo(PaymentInvoiced))
	require.True(t, PaymentPending.CanTransitionTo(PaymentClosed))
	require.True(t, PaymentInvoiced.CanTransitionTo(PaymentPaid))
	require.True(t, PaymentPaid.CanTransitionTo(PaymentClosed))

	// No reverse or idempotent transitions.
	require.False(t, PaymentInvoiced.CanTransitionTo(PaymentPending))
	require.False(t, PaymentPaid.CanTransitionTo(PaymentInvoiced))
	require.False(t, PaymentClosed.CanTransitionTo(PaymentPaid))
	require.False(t, PaymentPending.CanTransitionTo(PaymentPending))

	require.False(t, PaymentStatus("unknown").CanTransitionTo(PaymentPaid))
	require.False(t, PaymentPending.CanTransitionTo(PaymentStatus("unknown")))
}

func TestChecklistItemState(t *testing.T) {
	item := &SetupChecklistItem{}
	require.Equal(t, ChecklistNotStarted, item.State())

	item.IsCompleted = true
	require.Equal(t, ChecklistCompleted, item.State())

	item.IsApproved = true
	require.Equal(t, ChecklistApproved, item.State())
}

func TestIsApprover(t *testing.T) {
	for _, name := range Approvers {
		require.True(t, IsApprover(name))
	}
	require.False(t, IsApprover("Посторонний Человек"))
	require.False(t, IsApprover(""))
}

func TestChecklistTemplateShape(t *testing.T) {
	require.Len(t, ChecklistTemplate, 10)
	for i, item := range ChecklistTemplate {
		require.Equal(t, i+1, item.ItemNumber)
		require.NotEmpty(t, item.Title)
	}
}

func TestExtractedDataValidate(t *testing.T) {
	data := ExtractedData{
		Budget:          ExtractedBudget{Total: 1000000, Currency: "RUB"},
		ConfidenceScore: 95,
		PaymentStages: []ExtractedPaymentStage{
			{StageNumber: 1, Amount: 500000},
			{StageNumber: 2, Amount: 500000},
		},
		Deliverables: []ExtractedDeliverable{{Number: "3.1", Title: "Анализ рынка"}},
	}
	require.NoError(t, data.Validate())

	bad := data
	bad.ConfidenceScore = 150
	require.Error(t, bad.Validate())

	bad = data
	bad.PaymentStages = []ExtractedPaymentStage{{StageNumber: 0, Amount: 100}}
	require.Error(t, bad.Validate())

	bad = data
	bad.Deliverables = []ExtractedDeliverable{{Number: "1"}}
	require.Error(t, bad.Validate())
}

func TestValidDependencyType(t *testing.T) {
	for _, dt := range []DependencyType{DependencyFinishToStart, DependencyStartToStart, DependencyFinishToFinish, DependencyStartToFinish} {
		require.True(t, ValidDependencyType(dt))
	}
	require.False(t, ValidDependencyType("XX"))
}
