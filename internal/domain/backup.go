package domain

import "time"

// BackupSnapshot captures the order and certificate state ahead of an
// administrative rewrite, so a reset can be audited and undone by hand.
type BackupSnapshot struct {
	ID           string
	Reason       string
	Orders       []*Order
	Certificates []*CertificateRecord
	CreatedAt    time.Time
}
