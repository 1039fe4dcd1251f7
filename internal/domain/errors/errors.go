package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbiddenRole       = errors.New("operation not allowed for role")
	ErrAlreadyProcessed    = errors.New("already processed")
	ErrStaleResolution     = errors.New("account resolution does not match account details")
	ErrBackendUnreachable  = errors.New("backend unreachable")
	ErrDraftChanged        = errors.New("withdrawal draft changed concurrently")
)

// User-facing messages surfaced by the wallet flows.
const (
	MsgMinCustomDeposit   = "Minimum custom deposit is %d coins"
	MsgSelectPackage      = "Please select a coin package"
	MsgInvalidPayment     = "Invalid payment amount"
	MsgSelectBank         = "Please select a bank"
	MsgAccountDigits      = "Account number must be 10 digits"
	MsgVerifyFailed       = "Account verification failed"
	MsgNotVerified        = "Please verify your account before withdrawing"
	MsgMissingFields      = "Please fill in all withdrawal details"
	MsgStaleResolution    = "Please verify the account details again"
	MsgMinWithdrawal      = "Minimum withdrawal is %d coins"
	MsgInsufficient       = "Insufficient balance"
	MsgInvalidAmount      = "Amount must be a whole number of coins"
	MsgUnreachable        = "Unable to reach the server, check your connection"
	MsgGeneric            = "Something went wrong, please try again"
	MsgDepositFailed      = "Deposit could not be completed"
	MsgWithdrawalFailed   = "Withdrawal failed"
	MsgPaymentNotComplete = "Payment was not completed"
	MsgSignIn             = "Please sign in again"
	MsgForbiddenRole      = "This action is not available for your role"
	MsgAlreadyProcessed   = "This request was already processed"
	MsgNotFound           = "Not found"
	MsgTooManyRequests    = "Too many attempts, please wait a moment"
	MsgBadRequest         = "Invalid request"
	MsgDraftChanged       = "Your withdrawal details changed, please review them and try again"
)

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validation builds a ValidationError with a user-facing message.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationWrap builds a ValidationError that also matches err with errors.Is.
func ValidationWrap(err error, message string) error {
	return &ValidationError{Message: message, Err: err}
}

// BackendError is a non-2xx response from the REST backend. Message is taken
// from the {message|error} body when present.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: status %d", e.Status)
	}
	return fmt.Sprintf("backend error: status %d: %s", e.Status, e.Message)
}

func (e *BackendError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthenticated
	case 404:
		return ErrNotFound
	}
	return nil
}

// ProviderError is a non-2xx response from the checkout provider. It never
// unwraps to a session error: a provider 401 means the wallet's own
// credentials were rejected, not the user's.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("checkout provider error: status %d", e.Status)
	}
	return fmt.Sprintf("checkout provider error: status %d: %s", e.Status, e.Message)
}

// MalformedResponseError reports a payload that did not match its schema.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// UserMessage picks the message to show for err, falling back when the
// error carries none.
func UserMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	if errors.Is(err, ErrBackendUnreachable) {
		return MsgUnreachable
	}
	return fallback
}
