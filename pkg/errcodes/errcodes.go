package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Admin API outcomes.
	AuthFailed       failure.ErrorCode = "AuthFailed"
	FetchFailed      failure.ErrorCode = "FetchFailed"
	ActionFailed     failure.ErrorCode = "ActionFailed"
	ActionInProgress failure.ErrorCode = "ActionInProgress"
	SessionExpired   failure.ErrorCode = "SessionExpired"

	InvalidDealStatus failure.ErrorCode = "InvalidDealStatus"
	InvalidDealID     failure.ErrorCode = "InvalidDealID"
	InvalidView       failure.ErrorCode = "InvalidView"
)
