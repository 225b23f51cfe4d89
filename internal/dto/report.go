package dto

// SlotDescriptor describes one discovered bookable slot. Agents send
// whatever the booking system exposed; only Date/Time are well-known.
type SlotDescriptor map[string]interface{}

// ReportRequest is an agent's notification of discovered slots.
type ReportRequest struct {
	TaskID     int64                  `json:"task_id" validate:"required"`
	SchoolID   string                 `json:"school_id" validate:"required"`
	DetectedAt string                 `json:"detected_at" validate:"required"`
	SlotsFound []SlotDescriptor       `json:"slots_found"`
	AgentMeta  map[string]interface{} `json:"agent_meta"`
}

// ReportAck acknowledges a report. Applied is false when the referenced
// task does not exist; the report is accepted either way and leaves no
// durable record of its own.
type ReportAck struct {
	ReceiptID  string `json:"receipt_id"`
	TaskID     int64  `json:"task_id"`
	SlotsFound int    `json:"slots_found"`
	Applied    bool   `json:"applied"`
}
