package entity

import "slices"

// PaymentStatus is the payment lifecycle vocabulary.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusProcessing PaymentStatus = "Processing"
	PaymentStatusCompleted  PaymentStatus = "Completed"
	PaymentStatusFailed     PaymentStatus = "Failed"
	PaymentStatusCancelled  PaymentStatus = "Cancelled"
)

var paymentStatuses = []PaymentStatus{
	PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
	PaymentStatusFailed, PaymentStatusCancelled,
}

// IsValid reports whether the status belongs to the vocabulary.
func (s PaymentStatus) IsValid() bool {
	return slices.Contains(paymentStatuses, s)
}

// PaymentStatuses lists the vocabulary.
func PaymentStatuses() []PaymentStatus {
	return slices.Clone(paymentStatuses)
}

// PaymentMethod is the accepted payment instrument vocabulary.
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
	PaymentMethodDebitCard    PaymentMethod = "Debit Card"
	PaymentMethodPayPal       PaymentMethod = "PayPal"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodCash         PaymentMethod = "Cash"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal,
	PaymentMethodBankTransfer, PaymentMethodCash,
}

// IsValid reports whether the method belongs to the vocabulary.
func (m PaymentMethod) IsValid() bool {
	return slices.Contains(paymentMethods, m)
}

// PaymentMethods lists the vocabulary.
func PaymentMethods() []PaymentMethod {
	return slices.Clone(paymentMethods)
}

// ShippingStatus is the delivery lifecycle vocabulary.
type ShippingStatus string

const (
	ShippingStatusPreparing      ShippingStatus = "Preparing"
	ShippingStatusShipped        ShippingStatus = "Shipped"
	ShippingStatusInTransit      ShippingStatus = "In Transit"
	ShippingStatusOutForDelivery ShippingStatus = "Out for Delivery"
	ShippingStatusDelivered      ShippingStatus = "Delivered"
	ShippingStatusFailed         ShippingStatus = "Failed"
	ShippingStatusReturned       ShippingStatus = "Returned"
)

var shippingStatuses = []ShippingStatus{
	ShippingStatusPreparing, ShippingStatusShipped, ShippingStatusInTransit,
	ShippingStatusOutForDelivery, ShippingStatusDelivered, ShippingStatusFailed,
	ShippingStatusReturned,
}

// IsValid reports whether the status belongs to the vocabulary.
func (s ShippingStatus) IsValid() bool {
	return slices.Contains(shippingStatuses, s)
}

// ShippingStatuses lists the vocabulary.
func ShippingStatuses() []ShippingStatus {
	return slices.Clone(shippingStatuses)
}

// ComplaintStatus is the complaint handling vocabulary.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "In Progress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
	ComplaintStatusRejected   ComplaintStatus = "Rejected"
	ComplaintStatusClosed     ComplaintStatus = "Closed"
)

var complaintStatuses = []ComplaintStatus{
	ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved,
	ComplaintStatusRejected, ComplaintStatusClosed,
}

// IsValid reports whether the status belongs to the vocabulary.
func (s ComplaintStatus) IsValid() bool {
	return slices.Contains(complaintStatuses, s)
}

// ComplaintStatuses lists the vocabulary.
func ComplaintStatuses() []ComplaintStatus {
	return slices.Clone(complaintStatuses)
}
