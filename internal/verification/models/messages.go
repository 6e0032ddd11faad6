package models

// User-facing messages. The manual review message reads as a success on
// purpose: a possible impersonator must not learn the attempt failed.
const (
	MessageVerified             = "Account verified"
	MessageUnderAge             = "You must be older to participate"
	MessageIneligiblePostalCode = "Citizens from this postal code cannot participate"
	MessageDocumentMismatch     = "Your account is already verified with a different document"
	MessageManualReview         = "Thank you for requesting your maximum security code (only required for the final votes). In a few days we will send it to the address featuring in the data we have on file."
	MessageValidation           = "Please check the form and try again"
)

// Message returns the text shown to the citizen for o.
func Message(o Outcome) string {
	switch v := o.(type) {
	case Verified:
		return MessageVerified
	case Rejected:
		switch v.Reason {
		case ReasonUnderAge:
			return MessageUnderAge
		case ReasonIneligiblePostalCode:
			return MessageIneligiblePostalCode
		case ReasonDocumentMismatch:
			return MessageDocumentMismatch
		}
	case ManualReviewRequested:
		return MessageManualReview
	case ValidationError:
		if v.Message != "" {
			return v.Message
		}
		return MessageValidation
	}
	return ""
}
