package models

import "time"

type VerificationStatus string

const (
	StatusPass VerificationStatus = "PASS"
	StatusFail VerificationStatus = "FAIL"
)

// Verification is one attempt to validate an item against its catalog record.
// QRCodeData is only set when Status is PASS.
type Verification struct {
	ID           string             `json:"id" bson:"_id"`
	Barcode      string             `json:"barcode" bson:"barcode"`
	Status       VerificationStatus `json:"status" bson:"status"`
	Reason       string             `json:"reason,omitempty" bson:"reason,omitempty"`
	QRCodeData   string             `json:"qrCodeData,omitempty" bson:"qr_code_data,omitempty"`
	CustomerID   string             `json:"customerId,omitempty" bson:"customer_id,omitempty"`
	Customer     *Customer          `json:"customer,omitempty" bson:"-"`
	ScanCount    int                `json:"scanCount" bson:"scan_count"`
	ExpiredScans int                `json:"expiredScans" bson:"expired_scans"`
	Timestamp    time.Time          `json:"timestamp" bson:"timestamp"`
}
