package mail

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/emersion/go-msgauth/dkim"
)

// DKIMSigner adds a DKIM-Signature header to outbound messages.
type DKIMSigner struct {
	opts *dkim.SignOptions
}

// NewDKIMSigner signs for domain with the key published under selector.
func NewDKIMSigner(domain, selector string, key crypto.Signer) *DKIMSigner {
	return &DKIMSigner{opts: &dkim.SignOptions{
		Domain:   domain,
		Selector: selector,
		Signer:   key,
		HeaderKeys: []string{
			"From", "To", "Subject", "Date", "Message-ID",
			"MIME-Version", "Content-Type", "Content-Transfer-Encoding",
		},
	}}
}

// Sign returns msg with the signature header prepended.
func (d *DKIMSigner) Sign(msg []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := dkim.Sign(&out, bytes.NewReader(msg), d.opts); err != nil {
		logging.WarnLog("DKIM signing failed for domain %s: %v", d.opts.Domain, err)
		return nil, fmt.Errorf("dkim sign: %w", err)
	}
	return out.Bytes(), nil
}

// LoadDKIMKey reads a PEM encoded PKCS#8 (RSA or Ed25519) or PKCS#1 RSA key.
func LoadDKIMKey(path string) (crypto.Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDKIMKey(raw)
}

// ParseDKIMKey parses PEM key material.
func ParseDKIMKey(pemBytes []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("dkim: no PEM block found")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("dkim: unsupported key type %T", key)
		}
		return signer, nil
	default:
		return nil, fmt.Errorf("dkim: unsupported PEM block %q", block.Type)
	}
}
