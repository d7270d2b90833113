// Package entities contains the BaseLinker domain objects decoded from API
// responses.
package entities

import (
	"fmt"
	"time"
)

// LogType identifies the kind of event recorded in the order journal.
type LogType int

// Journal event types reported by getJournalList.
const (
	LogTypeOrderCreated LogType = iota + 1
	LogTypeDOFDownloaded
	LogTypePayment
	LogTypeOrderRemoved
	LogTypeOrderMerged
	LogTypeOrderSplit
	LogTypeInvoiceIssued
	LogTypeReceiptIssued
	LogTypePackageCreated
	LogTypePackageDeleted
	LogTypeDeliveryDataEdited
	LogTypeProductAdded
	LogTypeProductEdited
	LogTypeProductRemoved
	LogTypeBuyerBlacklisted
	LogTypeOrderDataEdited
	LogTypeOrderCopied
	LogTypeStatusChanged
	LogTypeInvoiceDeleted
	LogTypeReceiptDeleted
	LogTypeInvoiceDataEdited
)

var logTypeNames = map[LogType]string{
	LogTypeOrderCreated:       "order_created",
	LogTypeDOFDownloaded:      "dof_downloaded",
	LogTypePayment:            "payment",
	LogTypeOrderRemoved:       "order_removed",
	LogTypeOrderMerged:        "order_merged",
	LogTypeOrderSplit:         "order_split",
	LogTypeInvoiceIssued:      "invoice_issued",
	LogTypeReceiptIssued:      "receipt_issued",
	LogTypePackageCreated:     "package_created",
	LogTypePackageDeleted:     "package_deleted",
	LogTypeDeliveryDataEdited: "delivery_data_edited",
	LogTypeProductAdded:       "product_added",
	LogTypeProductEdited:      "product_edited",
	LogTypeProductRemoved:     "product_removed",
	LogTypeBuyerBlacklisted:   "buyer_blacklisted",
	LogTypeOrderDataEdited:    "order_data_edited",
	LogTypeOrderCopied:        "order_copied",
	LogTypeStatusChanged:      "status_changed",
	LogTypeInvoiceDeleted:     "invoice_deleted",
	LogTypeReceiptDeleted:     "receipt_deleted",
	LogTypeInvoiceDataEdited:  "invoice_data_edited",
}

// String returns a snake_case name for known types and "log_type(N)" otherwise.
func (t LogType) String() string {
	if name, ok := logTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("log_type(%d)", int(t))
}

// Log is a single order journal entry.
type Log struct {
	// LogID increases monotonically and is used as the journal cursor.
	LogID int64 `json:"log_id"`

	// LogType is the event kind.
	LogType LogType `json:"log_type"`

	// OrderID is the order the event belongs to.
	OrderID int64 `json:"order_id"`

	// ObjectID is event specific: the status ID for status changes,
	// the package ID for package events, the invoice ID for invoices.
	ObjectID int64 `json:"object_id"`

	// Date is the event time in unix seconds.
	Date int64 `json:"date"`
}

// Time returns Date as a time.Time.
func (l Log) Time() time.Time {
	return time.Unix(l.Date, 0)
}
