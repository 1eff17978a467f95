package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
)

func testKeyMaterial(t *testing.T) (*rsa.PublicKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}
	return &key.PublicKey, base64.StdEncoding.EncodeToString(der)
}

func TestResolvePublicKeyEncodings(t *testing.T) {
	want, derBase64 := testKeyMaterial(t)

	der, _ := base64.StdEncoding.DecodeString(derBase64)
	fullPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	cases := []struct {
		name string
		raw  string
	}{
		{"full PEM", fullPEM},
		{"headerless PEM body", derBase64},
		{"surrounding whitespace", "\n  " + derBase64 + "  \n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolvePublicKey(tc.raw)
			if err != nil {
				t.Fatalf("ResolvePublicKey failed: %v", err)
			}
			if got.N.Cmp(want.N) != 0 || got.E != want.E {
				t.Errorf("resolved key does not match original")
			}
		})
	}
}

func TestResolvePublicKeyGarbage(t *testing.T) {
	_, err := ResolvePublicKey("definitely not a key")
	if err == nil {
		t.Fatal("expected failure for garbage input")
	}
	var kfe *KeyFormatError
	if !errors.As(err, &kfe) {
		t.Fatalf("expected KeyFormatError, got %T: %v", err, err)
	}
	// The aggregate failure carries the first strategy's diagnostic.
	if !strings.Contains(err.Error(), "pem") {
		t.Errorf("expected first-strategy diagnostic in %q", err.Error())
	}
}

func TestResolvePublicKeyRejectsNonRSA(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate EC key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal EC key: %v", err)
	}
	_, err = ResolvePublicKey(base64.StdEncoding.EncodeToString(der))
	if err == nil {
		t.Fatal("expected failure for non-RSA key")
	}
	var kfe *KeyFormatError
	if !errors.As(err, &kfe) {
		t.Fatalf("expected KeyFormatError, got %T: %v", err, err)
	}
}

func TestResolvePublicKeyValidBase64InvalidDER(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("valid base64, invalid DER"))
	if _, err := ResolvePublicKey(raw); err == nil {
		t.Fatal("expected failure: a strategy must fully succeed or fully fail")
	}
}
