package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "codec", CodecError.String())
	assert.Equal(t, "validation", ValidationError.String())
	assert.Equal(t, "network", NetworkError.String())
	assert.Equal(t, "verifier", VerifierError.String())
	assert.Equal(t, "logic", LogicError.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestDomainErrorConstructorsTagTheirKind(t *testing.T) {
	codec := NewCodecError("TEST_CODEC_ERROR", "truncated input")
	validation := NewValidationError("TEST_VALIDATION_ERROR", "wrong digest length")
	network := NewNetworkError("TEST_NETWORK_ERROR", "calendar unreachable")
	verifier := NewVerifierError("TEST_VERIFIER_ERROR", "inconsistent merkle root")
	logic := NewLogicError("TEST_LOGIC_ERROR", "shrink invoked without the chain")

	assert.Equal(t, CodecError, codec.Kind)
	assert.Equal(t, ValidationError, validation.Kind)
	assert.Equal(t, NetworkError, network.Kind)
	assert.Equal(t, VerifierError, verifier.Kind)
	assert.Equal(t, LogicError, logic.Kind)
}

func TestErrorIsAndAddDetails(t *testing.T) {
	err1 := NewValidationError("TEST_ERROR_1", "Error1")
	err2 := NewValidationError("TEST_ERROR_2", "Error2")

	err1a := err1.AddDetails("a")
	err1b := err1.AddDetails("b")
	err2a := err2.AddDetails("a")

	assert.ErrorIs(t, err1a, err1)  // proper use of Is
	assert.ErrorIs(t, err1a, err1b) // weird use of Is: only Code is compared
	assert.NotErrorIs(t, err1a, err2)
	assert.NotErrorIs(t, err1a, err2a)

	assert.Equal(t, "validation: TEST_ERROR_1 - Error1 : a", err1a.Error())
	assert.Equal(t, "validation: TEST_ERROR_1 - Error1", err1.Error())

	assert.NotErrorIs(t, err1a, errors.New("Error1"))

	assert.Panics(t, func() { err1a.AddDetails("c") })
}

func TestNewErrorPanicsOnDuplicateCode(t *testing.T) {
	_ = NewCodecError("TEST_DUPLICATE_ERROR", "duplicate error")
	assert.Panics(t, func() {
		_ = NewValidationError("TEST_DUPLICATE_ERROR", "duplicate error")
	})
}

func TestHTTPErrorIsNetworkKind(t *testing.T) {
	httpError404 := HTTPError{Status: 404, Code: "CODE404", Details: "details"}
	httpError500 := HTTPError{Status: 500, Code: "CODE500", Details: "details"}
	httpErrorOther404 := HTTPError{Status: 404, Code: "CODE404"}
	httpErrorDifferent404 := HTTPError{Status: 404, Code: "CODE404_2", Details: "details"}

	assert.Equal(t, NetworkError, httpError404.Kind())
	assert.ErrorIs(t, httpError404, httpErrorOther404)
	assert.NotErrorIs(t, httpErrorDifferent404, httpErrorOther404)
	assert.NotErrorIs(t, httpError404, httpError500)

	assert.Equal(t, "HTTP error: status: 404; code: CODE404; details: details", httpError404.Error())
	assert.Equal(t, "HTTP error: status: 404; code: CODE404", httpErrorOther404.Error())

	assert.NotErrorIs(t, httpError404, errors.New("CODE404"))
}

func TestToDiagnosticCarriesKind(t *testing.T) {
	assert.Nil(t, ToDiagnostic(nil))

	verifierErr := NewVerifierError("TEST_DIAGNOSTIC", "diag").AddDetails("x")
	diag := ToDiagnostic(verifierErr)
	assert.Equal(t, "verifier", diag.Kind)
	assert.Equal(t, "TEST_DIAGNOSTIC", diag.Code)
	assert.Equal(t, "x", diag.Details)

	httpErr := HTTPError{Status: 500, Code: "BOOM", URL: "https://example.com", Method: "GET"}
	diag = ToDiagnostic(httpErr)
	assert.Equal(t, "network", diag.Kind)
	assert.Equal(t, 500, diag.Status)
	assert.Equal(t, "BOOM", diag.Code)

	diag = ToDiagnostic(errors.New("plain"))
	assert.Equal(t, "unknown", diag.Kind)
	assert.Equal(t, "OTHER_ERROR", diag.Code)
	assert.Equal(t, "plain", diag.Details)
}
