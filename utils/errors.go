package utils

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ztrue/tracerr"
)

// Kind is one of the five error categories this module's error-handling
// design distinguishes: a pure operation's failure mode (Codec,
// Validation, Logic) or a batched network operation's per-item failure
// (Network, Verifier). Every Error this module raises carries exactly
// one Kind, so a caller can branch on failure category without parsing
// a message string.
type Kind int

const (
	CodecError Kind = iota
	ValidationError
	NetworkError
	VerifierError
	LogicError
)

func (k Kind) String() string {
	switch k {
	case CodecError:
		return "codec"
	case ValidationError:
		return "validation"
	case NetworkError:
		return "network"
	case VerifierError:
		return "verifier"
	case LogicError:
		return "logic"
	default:
		return "unknown"
	}
}

// Error is the error type this module's own pure operations and
// invariant checks return. Every distinct failure condition gets its
// own package-level Error value, registered once via the New*Error
// constructor matching its Kind.
type Error struct {
	Kind        Kind
	Code        string
	Description string
	Details     string
}

var knownErrorCodes = Set[string]{}

func newError(kind Kind, code string, description string) Error {
	if knownErrorCodes.Has(code) {
		panic("Duplicate error: " + code)
	}
	knownErrorCodes.Add(code)
	return Error{Kind: kind, Code: code, Description: description}
}

// NewCodecError registers a CodecError: truncation, garbage at EOF, an
// unknown-but-required tag, or an oversized declared length (spec §7.1).
func NewCodecError(code string, description string) Error {
	return newError(CodecError, code, description)
}

// NewValidationError registers a ValidationError: a structural check of
// a Timestamp value failed — a missing or extra field, or a digest
// whose length doesn't match its algorithm (spec §7.2).
func NewValidationError(code string, description string) Error {
	return newError(ValidationError, code, description)
}

// NewNetworkError registers a NetworkError: a transport failure talking
// to a calendar or a blockchain explorer — timeout, DNS, TLS, or a
// non-2xx response (spec §7.3).
func NewNetworkError(code string, description string) Error {
	return newError(NetworkError, code, description)
}

// NewVerifierError registers a VerifierError: a blockchain lookup
// returned a response this module could not reconcile with the leaf
// being verified (spec §7.4).
func NewVerifierError(code string, description string) Error {
	return newError(VerifierError, code, description)
}

// NewLogicError registers a LogicError: an invariant violation, such as
// invoking Verify on a Timestamp that has no non-pending leaf
// (spec §7.5).
func NewLogicError(code string, description string) Error {
	return newError(LogicError, code, description)
}

func (err Error) Error() string {
	text := err.Kind.String() + ": " + err.Code
	if err.Description != "" {
		text = text + " - " + err.Description
	}
	if err.Details != "" {
		text = text + " : " + err.Details
	}
	return text
}

func (err Error) Is(target error) bool {
	var otherErr Error
	if errors.As(target, &otherErr) {
		return otherErr.Code == err.Code
	}
	return false
}

// AddDetails returns a copy of err carrying additional free-text detail
// (such as a byte offset or field name). Panics if err already carries
// details, so a value returned by AddDetails cannot be given more.
func (err Error) AddDetails(details string) Error {
	if err.Details != "" {
		panic("Cannot re-add details to an error")
	}
	newErr := err
	newErr.Details = details
	return newErr
}

// HTTPError is a NetworkError raised by the calendar and verifier HTTP
// clients for a non-2xx response. Transport failures are reported with
// each package's own ErrorNetworkError instead.
type HTTPError struct {
	Status  int
	URL     string
	Method  string
	Code    string
	Details string
	Raw     string
}

// Kind reports that every HTTPError is, by construction, a NetworkError.
func (err HTTPError) Kind() Kind { return NetworkError }

func (err HTTPError) Error() string {
	s := fmt.Sprintf("HTTP error: status: %d", err.Status)
	if err.Code != "" {
		s += "; code: " + err.Code
	}
	if err.Details != "" {
		s += "; details: " + err.Details
	}
	if err.URL != "" {
		s += "; url: " + err.URL
	}
	if err.Method != "" {
		s += "; method: " + err.Method
	}
	if err.Raw != "" {
		s += "; raw: " + err.Raw
	}
	return s
}

func (err HTTPError) Is(target error) bool {
	var httpErrorTarget HTTPError
	if errors.As(target, &httpErrorTarget) {
		return httpErrorTarget.Status == err.Status && httpErrorTarget.Code == err.Code
	}
	return false
}

// Diagnostic is a JSON-able rendering of any error this module can
// return, suitable for embedding in a cross-language caller's own error
// reporting. Kind always names one of the five categories from spec §7,
// even for an error this module didn't originate (rendered as "unknown").
type Diagnostic struct {
	Kind        string `json:"kind"`
	Status      int    `json:"status"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Raw         string `json:"raw"`
	Stack       string `json:"stack"`
}

func (d Diagnostic) Error() string {
	res, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf(`{"code": "DIAGNOSTIC_SERIALIZATION_ERROR", "details": "%s"}`, err)
	}
	return string(res)
}

// ToDiagnostic renders any error produced by this module into a
// Diagnostic. Returns nil if err is nil.
func ToDiagnostic(err error) *Diagnostic {
	if err == nil {
		return nil
	}
	var httpError HTTPError
	if errors.As(err, &httpError) {
		return &Diagnostic{
			Kind:    httpError.Kind().String(),
			Status:  httpError.Status,
			Code:    httpError.Code,
			Details: fmt.Sprintf("%s; %s %s", httpError.Details, httpError.Method, httpError.URL),
			Raw:     httpError.Raw,
			Stack:   tracerr.Sprint(err),
		}
	}
	var domainError Error
	if errors.As(err, &domainError) {
		return &Diagnostic{
			Kind:        domainError.Kind.String(),
			Code:        domainError.Code,
			Description: domainError.Description,
			Details:     domainError.Details,
			Stack:       tracerr.Sprint(err),
		}
	}
	return &Diagnostic{
		Kind:    "unknown",
		Code:    "OTHER_ERROR",
		Details: err.Error(),
		Stack:   tracerr.Sprint(err),
	}
}
