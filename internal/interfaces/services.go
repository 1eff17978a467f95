package interfaces

import (
	"encoding/json"
	"fmt"

	"fcbox-relay/internal/api"
	"fcbox-relay/internal/models"
)

// LockerVendor is the outbound gateway to the fcbox consumer API. Every
// method is stateless; a failed call returns a typed error (TransportError
// or ParseError) which the handler layer converts into a structured
// success:false body — the gateway never panics and never returns a partial
// result alongside an error.
type LockerVendor interface {
	// FetchChallenge retrieves signing parameters for a phone number,
	// including the public key reconstructed from the vendor's five
	// reordered fragments.
	FetchChallenge(phoneNumber string) (*models.Challenge, error)

	// SendCode submits a signed verification-code request and returns the
	// raw vendor body.
	SendCode(phoneNumber, sliderTicket, sliderRandstr, sign string) (json.RawMessage, error)

	// Login submits a signed login and extracts the session token from the
	// Authorization response header; a missing header yields an empty token,
	// not an error.
	Login(phoneNumber, verificationCode, sign string) (*models.LoginResult, error)

	// QueryCompleted fetches a vendor-paginated page of picked-up orders.
	QueryCompleted(authorization string, page, pageSize int) (*models.PageQueryResponse, error)

	// QueryPending fetches the full un-paginated waiting-pickup tree.
	QueryPending(authorization string) (*models.WaitPickResponse, error)

	// CabinetInfo looks up the visual layout of a cabinet.
	CabinetInfo(authorization, cabinetCode string) (*models.ActionResult, error)

	// OpenBox asks the vendor to open the box holding a package.
	OpenBox(authorization string, req api.OpenBoxRequest) (*models.ActionResult, error)
}

// TransportError reports a vendor call that produced no usable body:
// network failure, non-200 status, or an empty response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("vendor %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a vendor body that could not be decoded.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vendor %s: malformed response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
