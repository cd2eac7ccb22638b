// Package domain holds the core entities of the transaction ledger and
// the validation rules applied when records enter the system.
package domain

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Transaction type enum. Creation and aggregation both use the singular
// form; no other spelling is valid anywhere in the system.
const (
	TypeDeposit    = "Deposit"
	TypeWithdrawal = "Withdrawal"
	TypeTransfer   = "Transfer"
	TypePayment    = "Payment"
)

// TransactionTypes lists the known types in the fixed order used by the
// summary breakdown and the dashboard pie chart.
var TransactionTypes = []string{TypeDeposit, TypeWithdrawal, TypeTransfer, TypePayment}

// StatusCompleted is the only status value with ledger semantics; anything
// else (including absence) is carried through for display only.
const StatusCompleted = "Completed"

// AmountDetails is the money value object attached to both ends of a
// transaction. TransactionAmount is strictly positive for valid records.
type AmountDetails struct {
	TransactionAmount   float64 `json:"transactionAmount"`
	TransactionCurrency string  `json:"transactionCurrency"`
	Country             string  `json:"country"`
}

// DeviceData describes the device/network context of one side of a
// transaction. It is opaque to search and aggregation and is carried
// through unchanged.
type DeviceData struct {
	BatteryLevel     float64 `json:"batteryLevel,omitempty"`
	DeviceLatitude   float64 `json:"deviceLatitude,omitempty"`
	DeviceLongitude  float64 `json:"deviceLongitude,omitempty"`
	IPAddress        string  `json:"ipAddress,omitempty"`
	DeviceIdentifier string  `json:"deviceIdentifier,omitempty"`
	VPNUsed          bool    `json:"vpnUsed,omitempty"`
	OperatingSystem  string  `json:"operatingSystem,omitempty"`
	DeviceMaker      string  `json:"deviceMaker,omitempty"`
	DeviceModel      string  `json:"deviceModel,omitempty"`
	DeviceYear       string  `json:"deviceYear,omitempty"`
	AppVersion       string  `json:"appVersion,omitempty"`
}

// Tag is a key/value annotation. Order is preserved for display but has
// no semantic meaning.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Transaction is the canonical ledger entity. Once created it is never
// mutated; updates are out of scope for this service.
type Transaction struct {
	TransactionID            string         `json:"transactionId"`
	Type                     string         `json:"type"`
	Timestamp                int64          `json:"timestamp"` // epoch milliseconds
	OriginUserID             string         `json:"originUserId,omitempty"`
	DestinationUserID        string         `json:"destinationUserId"`
	OriginAmountDetails      *AmountDetails `json:"originAmountDetails"`
	DestinationAmountDetails *AmountDetails `json:"destinationAmountDetails"`
	OriginDeviceData         *DeviceData    `json:"originDeviceData,omitempty"`
	DestinationDeviceData    *DeviceData    `json:"destinationDeviceData,omitempty"`
	PromotionCodeUsed        *bool          `json:"promotionCodeUsed,omitempty"`
	Reference                string         `json:"reference,omitempty"`
	Description              string         `json:"description,omitempty"`
	Tags                     []Tag          `json:"tags,omitempty"`
	OriginEmail              string         `json:"originEmail,omitempty"`
	DestinationEmail         string         `json:"destinationEmail,omitempty"`
	Status                   string         `json:"status,omitempty"`
}

// OriginAmount returns the origin transaction amount, or 0 when the
// amount details are missing. Used by aggregation, which skips such
// records from volume math but still counts them.
func (t *Transaction) OriginAmount() float64 {
	if t.OriginAmountDetails == nil {
		return 0
	}
	return t.OriginAmountDetails.TransactionAmount
}

// CreateTransactionRequest carries the caller-supplied fields of a new
// transaction. ID and timestamp are always assigned server-side.
type CreateTransactionRequest struct {
	Type                     string         `json:"type"`
	OriginUserID             string         `json:"originUserId"`
	DestinationUserID        string         `json:"destinationUserId"`
	OriginAmountDetails      *AmountDetails `json:"originAmountDetails"`
	DestinationAmountDetails *AmountDetails `json:"destinationAmountDetails"`
	OriginDeviceData         *DeviceData    `json:"originDeviceData"`
	DestinationDeviceData    *DeviceData    `json:"destinationDeviceData"`
	PromotionCodeUsed        *bool          `json:"promotionCodeUsed"`
	Reference                string         `json:"reference"`
	Description              string         `json:"description"`
	Tags                     []Tag          `json:"tags"`
	OriginEmail              string         `json:"originEmail"`
	DestinationEmail         string         `json:"destinationEmail"`
}

// NewTransaction validates a creation request and materializes the
// transaction, assigning a fresh UUID and the current epoch-ms timestamp.
// The request itself is never mutated.
func NewTransaction(req *CreateTransactionRequest) (*Transaction, error) {
	if req == nil {
		return nil, &ErrValidation{Field: "body", Message: "missing or invalid fields"}
	}
	if !isKnownType(req.Type) {
		return nil, &ErrValidation{Field: "type", Message: "must be one of Deposit, Withdrawal, Transfer, Payment"}
	}
	if req.DestinationUserID == "" {
		return nil, &ErrValidation{Field: "destinationUserId", Message: "required"}
	}
	if req.Description == "" {
		return nil, &ErrValidation{Field: "description", Message: "required"}
	}
	if err := validateAmountDetails("originAmountDetails", req.OriginAmountDetails); err != nil {
		return nil, err
	}
	if err := validateAmountDetails("destinationAmountDetails", req.DestinationAmountDetails); err != nil {
		return nil, err
	}
	if req.DestinationEmail == "" {
		return nil, &ErrValidation{Field: "destinationEmail", Message: "required"}
	}
	if err := validateEmail("destinationEmail", req.DestinationEmail); err != nil {
		return nil, err
	}
	if req.OriginEmail != "" {
		if err := validateEmail("originEmail", req.OriginEmail); err != nil {
			return nil, err
		}
	}

	return &Transaction{
		TransactionID:            uuid.NewString(),
		Type:                     req.Type,
		Timestamp:                time.Now().UnixMilli(),
		OriginUserID:             req.OriginUserID,
		DestinationUserID:        req.DestinationUserID,
		OriginAmountDetails:      req.OriginAmountDetails,
		DestinationAmountDetails: req.DestinationAmountDetails,
		OriginDeviceData:         req.OriginDeviceData,
		DestinationDeviceData:    req.DestinationDeviceData,
		PromotionCodeUsed:        req.PromotionCodeUsed,
		Reference:                req.Reference,
		Description:              req.Description,
		Tags:                     req.Tags,
		OriginEmail:              req.OriginEmail,
		DestinationEmail:         req.DestinationEmail,
	}, nil
}

func isKnownType(t string) bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

func validateAmountDetails(field string, d *AmountDetails) error {
	if d == nil {
		return &ErrValidation{Field: field, Message: "required"}
	}
	if d.TransactionAmount <= 0 {
		return &ErrValidation{Field: field + ".transactionAmount", Message: "must be positive"}
	}
	if d.TransactionCurrency == "" {
		return &ErrValidation{Field: field + ".transactionCurrency", Message: "required"}
	}
	if d.Country == "" {
		return &ErrValidation{Field: field + ".country", Message: "required"}
	}
	return nil
}

func validateEmail(field, value string) error {
	if _, err := mail.ParseAddress(value); err != nil {
		return &ErrValidation{Field: field, Message: "invalid email address"}
	}
	return nil
}
