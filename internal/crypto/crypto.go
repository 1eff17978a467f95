// Package crypto implements the fcbox request-signing protocol: an MD5
// digest of an endpoint-specific concatenation, encrypted with RSA
// PKCS#1 v1.5 under a vendor-supplied public key.
//
// MD5 and PKCS#1 v1.5 are mandated by the vendor's existing client
// protocol. They are compatibility requirements, not security choices;
// substituting a stronger digest or padding produces signatures the
// vendor rejects.
package crypto

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"

	"fcbox-relay/internal/protocol"
)

// SigningContext carries the fields concatenated into the pre-hash string.
// It is built per request, signed and discarded; field order inside the
// pre-hash string is fixed per endpoint variant and must match the vendor
// byte-for-byte.
type SigningContext struct {
	PhoneNumber      string
	VerificationCode string
	SliderTicket     string
	SliderRandstr    string
	Timestamp        string
	ClientIP         string
	RequestCode      string
}

// sendCodePrehash builds the pre-hash string for the verification-code
// send. The slider variant inserts the human-verification ticket pair
// between the type code and the timestamp.
func (sc SigningContext) sendCodePrehash(withSlider bool) string {
	if withSlider {
		return protocol.NationCode + sc.PhoneNumber + protocol.SMSTypeCode +
			sc.SliderTicket + sc.SliderRandstr +
			sc.Timestamp + sc.ClientIP + sc.RequestCode + protocol.OpCode
	}
	return protocol.NationCode + sc.PhoneNumber + protocol.SMSTypeCode +
		sc.Timestamp + sc.ClientIP + sc.RequestCode + protocol.OpCode
}

// loginPrehash builds the pre-hash string for the login call.
func (sc SigningContext) loginPrehash() string {
	return protocol.NationCode + sc.PhoneNumber + sc.VerificationCode + protocol.LoginTypeCode +
		sc.Timestamp + sc.ClientIP + sc.RequestCode + protocol.OpCode
}

// signable prepends country code and phone number to the hex digest of the
// pre-hash string; this is the exact plaintext the vendor expects encrypted.
func (sc SigningContext) signable(prehash string) string {
	sum := md5.Sum([]byte(prehash))
	return protocol.NationCode + sc.PhoneNumber + hex.EncodeToString(sum[:])
}

// SignatureError reports a failed encryption step after key resolution
// succeeded.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signature encryption failed: %v", e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// CryptoService produces the sign parameter for the fcbox auth endpoints.
type CryptoService struct {
	logger *slog.Logger
}

func NewCryptoService(logger *slog.Logger) *CryptoService {
	return &CryptoService{logger: logger}
}

// SignSendCode signs a verification-code request. withSlider selects the
// pre-hash variant and must match the challenge's needSliderCode flag.
func (c *CryptoService) SignSendCode(sc SigningContext, withSlider bool, key *rsa.PublicKey) (string, error) {
	return c.encrypt(sc.signable(sc.sendCodePrehash(withSlider)), key)
}

// SignLogin signs a login request.
func (c *CryptoService) SignLogin(sc SigningContext, key *rsa.PublicKey) (string, error) {
	return c.encrypt(sc.signable(sc.loginPrehash()), key)
}

func (c *CryptoService) encrypt(signable string, key *rsa.PublicKey) (string, error) {
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, key, []byte(signable))
	if err != nil {
		return "", &SignatureError{Err: err}
	}
	sign := base64.StdEncoding.EncodeToString(ciphertext)
	c.logger.Debug("signed request",
		slog.String("component", "crypto"),
		slog.Int("signable_len", len(signable)),
		slog.Int("sign_len", len(sign)))
	return sign, nil
}
