package schedule

import (
	"github.com/crewbook/crewbook-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type MarkCollectedRequest struct {
	ScheduleID      string `json:"-"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

func (r *MarkCollectedRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ScheduleID) {
		errs = append(errs, validator.ValidationError{Field: "schedule_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.ScheduleID) {
		errs = append(errs, validator.ValidationError{Field: "schedule_id", Message: "must be a valid UUID"})
	}
	if r.ExpectedVersion != nil && *r.ExpectedVersion < 0 {
		errs = append(errs, validator.ValidationError{Field: "expected_version", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetAssignmentPaidRequest struct {
	AssignmentID    string `json:"-"`
	Paid            *bool  `json:"paid"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

func (r *SetAssignmentPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssignmentID) {
		errs = append(errs, validator.ValidationError{Field: "assignment_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.AssignmentID) {
		errs = append(errs, validator.ValidationError{Field: "assignment_id", Message: "must be a valid UUID"})
	}
	if r.Paid == nil {
		errs = append(errs, validator.ValidationError{Field: "paid", Message: "is required"})
	}
	if r.ExpectedVersion != nil && *r.ExpectedVersion < 0 {
		errs = append(errs, validator.ValidationError{Field: "expected_version", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransitionResponse struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
	Changed bool   `json:"changed"`
	State   string `json:"state"`
	At      string `json:"at"`
}

type ScheduleDetailResponse struct {
	ID               string                     `json:"id"`
	Title            string                     `json:"title"`
	StartDate        string                     `json:"start_date"`
	EndDate          string                     `json:"end_date"`
	Category         string                     `json:"category"`
	Type             string                     `json:"type"`
	ClientID         *string                    `json:"client_id,omitempty"`
	ClientName       *string                    `json:"client_name,omitempty"`
	ContractAmount   *decimal.Decimal           `json:"contract_amount,omitempty"`
	Revenue          decimal.Decimal            `json:"revenue"`
	CollectionStatus string                     `json:"collection_status"`
	DueDate          string                     `json:"due_date"`
	Version          int64                      `json:"version"`
	TotalHours       float64                    `json:"total_hours"`
	TotalPay         decimal.Decimal            `json:"total_pay"`
	Assignments      []AssignmentDetailResponse `json:"assignments"`
}

type AssignmentDetailResponse struct {
	ID             string          `json:"id"`
	WorkerID       string          `json:"worker_id"`
	WorkerName     string          `json:"worker_name"`
	HourlyWage     decimal.Decimal `json:"hourly_wage"`
	Withholding    bool            `json:"withholding"`
	Hours          float64         `json:"hours"`
	GrossPay       decimal.Decimal `json:"gross_pay"`
	Withheld       decimal.Decimal `json:"withheld"`
	NetPay         decimal.Decimal `json:"net_pay"`
	FuelAllowance  decimal.Decimal `json:"fuel_allowance"`
	OtherAllowance decimal.Decimal `json:"other_allowance"`
	TotalPay       decimal.Decimal `json:"total_pay"`
	Paid           bool            `json:"paid"`
	Version        int64           `json:"version"`
}
