package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// The challenge key material arrives as five reordered fragments whose
// concatenation may be a full PEM block, a headerless PEM body, or raw
// base64 DER. Resolution is an ordered list of named strategies; the first
// one that yields a usable key wins, and the aggregate failure preserves the
// first strategy's diagnostic (the most informative one).

// KeyFormatError reports that no key-parsing strategy succeeded. Err is the
// error from the first strategy attempted.
type KeyFormatError struct {
	Err error
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("unrecognized public key format: %v", e.Err)
}

func (e *KeyFormatError) Unwrap() error { return e.Err }

type keyStrategy struct {
	name  string
	parse func(raw string) (*rsa.PublicKey, error)
}

var keyStrategies = []keyStrategy{
	{"pem", parsePEM},
	{"wrapped-pem", parseWrappedPEM},
	{"raw-der", parseRawDER},
}

// ResolvePublicKey normalizes a key string of unknown encoding into an RSA
// public key. Each strategy either fully succeeds or fully fails; there is
// no partial acceptance.
func ResolvePublicKey(raw string) (*rsa.PublicKey, error) {
	raw = strings.TrimSpace(raw)
	var first error
	for _, st := range keyStrategies {
		key, err := st.parse(raw)
		if err == nil {
			return key, nil
		}
		if first == nil {
			first = fmt.Errorf("%s: %w", st.name, err)
		}
	}
	return nil, &KeyFormatError{Err: first}
}

// parsePEM handles key material that already carries PEM headers.
func parsePEM(raw string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return parsePKIX(block.Bytes)
}

// parseWrappedPEM handles a bare base64 PEM body by adding the standard
// PUBLIC KEY markers and retrying.
func parseWrappedPEM(raw string) (*rsa.PublicKey, error) {
	wrapped := "-----BEGIN PUBLIC KEY-----\n" + raw + "\n-----END PUBLIC KEY-----"
	return parsePEM(wrapped)
}

// parseRawDER handles key material that is base64-encoded DER with no PEM
// framing at all.
func parseRawDER(raw string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return parsePKIX(der)
}

func parsePKIX(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key: %T", pub)
	}
	return rsaPub, nil
}
