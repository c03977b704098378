package mail

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"io"
	"mime"
	"net"
	netmail "net/mail"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-msgauth/dkim"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	from string
	to   []string
	data []byte
}

// captureBackend accepts every message and hands it to the test.
type captureBackend struct {
	msgs chan received
}

func (b *captureBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &captureSession{msgs: b.msgs}, nil
}

type captureSession struct {
	msgs chan received
	cur  received
}

func (s *captureSession) Reset()        { s.cur = received{} }
func (s *captureSession) Logout() error { return nil }

func (s *captureSession) Mail(from string, _ *smtp.MailOptions) error {
	s.cur.from = from
	return nil
}

func (s *captureSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.cur.to = append(s.cur.to, to)
	return nil
}

func (s *captureSession) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.cur.data = b
	s.msgs <- s.cur
	return nil
}

func startSMTP(t *testing.T) (string, chan received) {
	t.Helper()
	be := &captureBackend{msgs: make(chan received, 1)}
	srv := smtp.NewServer(be)
	srv.Domain = "localhost"
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second
	srv.AllowInsecureAuth = true

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	return ln.Addr().String(), be.msgs
}

func TestComposeReset(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := composeReset("no-reply@casacomfort.test", "alice@example.com", "https://shop.test/auth/reset?token=abc", now)

	assert.Contains(t, string(raw), "\r\n\r\n")
	assert.NotContains(t, strings.ReplaceAll(string(raw), "\r\n", ""), "\n")

	msg, err := netmail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "no-reply@casacomfort.test", msg.Header.Get("From"))
	assert.Equal(t, "alice@example.com", msg.Header.Get("To"))

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, resetSubject, subject)

	date, err := msg.Header.Date()
	require.NoError(t, err)
	assert.True(t, date.Equal(now))
	assert.True(t, strings.HasSuffix(msg.Header.Get("Message-ID"), "@casacomfort.test>"))

	body, err := io.ReadAll(msg.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "https://shop.test/auth/reset?token=abc")
}

func TestSender_DeliversResetMail(t *testing.T) {
	addr, msgs := startSMTP(t)

	s := NewSender(Config{Addr: addr, From: "no-reply@casacomfort.test", Timeout: 5 * time.Second}, nil)
	require.NoError(t, s.SendPasswordReset(context.Background(), "alice@example.com", "https://shop.test/r?token=abc"))

	select {
	case m := <-msgs:
		assert.Equal(t, "no-reply@casacomfort.test", m.from)
		assert.Equal(t, []string{"alice@example.com"}, m.to)
		assert.Contains(t, string(m.data), "https://shop.test/r?token=abc")
	case <-time.After(5 * time.Second):
		t.Fatal("no message delivered")
	}
}

func TestSender_UnreachableRelay(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	s := NewSender(Config{Addr: addr, From: "no-reply@casacomfort.test", Timeout: 2 * time.Second}, nil)
	assert.Error(t, s.SendPasswordReset(context.Background(), "alice@example.com", "https://shop.test/r"))
}

func TestSender_AuthOnlyWithUsername(t *testing.T) {
	assert.Nil(t, NewSender(Config{}, nil).auth())
	assert.NotNil(t, NewSender(Config{Username: "u", Password: "p"}, nil).auth())
}

func TestDKIMSigner_SignsVerifiably(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer := NewDKIMSigner("casacomfort.test", "mail", priv)
	raw := composeReset("no-reply@casacomfort.test", "alice@example.com", "https://shop.test/r", time.Now())

	signed, err := signer.Sign(raw)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(signed, []byte("DKIM-Signature:")))

	record := "v=DKIM1; k=ed25519; p=" + base64.StdEncoding.EncodeToString(pub)
	verifications, err := dkim.VerifyWithOptions(bytes.NewReader(signed), &dkim.VerifyOptions{
		LookupTXT: func(domain string) ([]string, error) {
			assert.Equal(t, "mail._domainkey.casacomfort.test", domain)
			return []string{record}, nil
		},
	})
	require.NoError(t, err)
	require.Len(t, verifications, 1)
	assert.NoError(t, verifications[0].Err)
	assert.Equal(t, "casacomfort.test", verifications[0].Domain)
}

func TestParseDKIMKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	key, err := ParseDKIMKey(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	require.NoError(t, err)
	assert.NotNil(t, key.Public())

	_, err = ParseDKIMKey([]byte("not pem"))
	assert.Error(t, err)

	_, err = ParseDKIMKey(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1}}))
	assert.Error(t, err)
}
