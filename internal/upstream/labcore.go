package upstream

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Test-order statuses as emitted by the lab-core service. "Reviewed By AI"
// counts as completed for dashboard purposes.
const (
	OrderStatusCreated    = "Created"
	OrderStatusPending    = "Pending"
	OrderStatusInProgress = "In Progress"
	OrderStatusCompleted  = "Completed"
	OrderStatusReviewedAI = "Reviewed By AI"
)

// TestOrder is one laboratory test order.
type TestOrder struct {
	ID        string    `json:"id"`
	TestType  string    `json:"testType"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Completed reports whether the order has a terminal, reviewed result.
func (o TestOrder) Completed() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusReviewedAI
}

// Pending reports whether the order is still in flight.
func (o TestOrder) Pending() bool {
	switch o.Status {
	case OrderStatusCreated, OrderStatusPending, OrderStatusInProgress:
		return true
	}
	return false
}

// MedicalRecord is one patient medical record; a new record stands in for a
// new patient in trend charts.
type MedicalRecord struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Patient is one registered patient.
type Patient struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// LabCore is the client for the laboratory core service.
type LabCore struct {
	*Client
}

func NewLabCore(baseURL string, timeout time.Duration, logger *zap.Logger) *LabCore {
	return &LabCore{Client: NewClient(baseURL, timeout, logger)}
}

func (s *LabCore) ListTestOrders(ctx context.Context, token string) ([]TestOrder, error) {
	var raw json.RawMessage
	if err := s.get(ctx, token, "/TestOrder/getList", nil, &raw); err != nil {
		return nil, err
	}
	var orders []TestOrder
	if err := itemsOrArray(raw, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *LabCore) ListMedicalRecords(ctx context.Context, token string) ([]MedicalRecord, error) {
	var raw json.RawMessage
	if err := s.get(ctx, token, "/MedicalRecord/getList", nil, &raw); err != nil {
		return nil, err
	}
	var records []MedicalRecord
	if err := itemsOrArray(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *LabCore) ListPatients(ctx context.Context, token string) ([]Patient, error) {
	var raw json.RawMessage
	if err := s.get(ctx, token, "/Patient/getAll", nil, &raw); err != nil {
		return nil, err
	}
	var patients []Patient
	if err := itemsOrArray(raw, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}
