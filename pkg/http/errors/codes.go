package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Game errors
	ErrCodeInvalidPhase      = "invalid_phase"
	ErrCodeOfferPending      = "offer_pending"
	ErrCodeNoPendingOffer    = "no_pending_offer"
	ErrCodeCardInFlight      = "card_in_flight"
	ErrCodeAnswerInFlight    = "answer_in_flight"
	ErrCodeNoCurrentQuestion = "no_current_question"
	ErrCodeInvalidAnswer     = "invalid_answer"
	ErrCodeUnknownPlayer     = "unknown_player"
	ErrCodeNoActiveCard      = "no_active_card"
	ErrCodeDuplicateQuestion = "duplicate_question"

	// Question bank errors
	ErrCodeExhaustedPool     = "exhausted_pool"
	ErrCodeQuestionBankEmpty = "question_bank_empty"
	ErrCodeReloadFailed      = "reload_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError    = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Feature availability
	ErrCodeFeatureNotAvailable = "feature_not_available"
)
