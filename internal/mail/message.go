package mail

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"strings"
	"time"
)

const resetSubject = "Restablece tu contraseña de Casa Comfort"

const resetBody = `Hola,

Hemos recibido una solicitud para restablecer la contraseña de tu cuenta de Casa Comfort.
Abre el siguiente enlace para elegir una nueva contraseña:

%s

Si no has sido tú, puedes ignorar este mensaje.

Casa Comfort
`

// composeReset builds an RFC 5322 message with CRLF line endings.
func composeReset(from, to, link string, now time.Time) []byte {
	var b bytes.Buffer
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}

	header("From", from)
	header("To", to)
	header("Subject", mime.QEncoding.Encode("utf-8", resetSubject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", messageID(from, now))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body := fmt.Sprintf(resetBody, link)
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}

func messageID(from string, now time.Time) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 {
		domain = strings.Trim(from[i+1:], "<> ")
	}
	rnd := make([]byte, 8)
	_, _ = rand.Read(rnd)
	return fmt.Sprintf("<%d.%s@%s>", now.UnixNano(), hex.EncodeToString(rnd), domain)
}
