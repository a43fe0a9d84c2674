package request

// CaptureCallbackRequest is the processor's webhook body. Deliveries are
// at-least-once; the reconcile path absorbs duplicates.
type CaptureCallbackRequest struct {
	IntentID       string `json:"intent_id" binding:"required"`
	Status         string `json:"status" binding:"required,oneof=succeeded failed"`
	ProcessorTxnID string `json:"txn_id,omitempty"`
}
