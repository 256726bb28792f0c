package bazi

// Error codes carried by apperrors.AppError values returned from this package.
const (
	// CodeInvalidInput marks a rejected birth moment or malformed symbol.
	CodeInvalidInput = "invalid_input"
	// CodeCalendarError marks a calendar store that could not be queried.
	CodeCalendarError = "calendar_error"
	CodeCanceled      = "canceled"
)
