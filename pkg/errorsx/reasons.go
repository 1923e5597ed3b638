package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonConnect        ReasonCode = "connect"
	ReasonConnectTimeout ReasonCode = "connect_timeout"
	ReasonSend           ReasonCode = "send"
	ReasonReceive        ReasonCode = "receive"
	ReasonInvalidState   ReasonCode = "invalid_state"
	ReasonProtocol       ReasonCode = "protocol"
	ReasonFinishTimeout  ReasonCode = "finish_timeout"

	ReasonBatchRequest ReasonCode = "batch_request"
	ReasonBatchStatus  ReasonCode = "batch_status"
	ReasonBatchDecode  ReasonCode = "batch_decode"

	ReasonPreprocess ReasonCode = "preprocess"

	ReasonDrainTimeout ReasonCode = "drain_timeout"
)
