package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"finreview/internal/models"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

var addressPattern = regexp.MustCompile(`<(.+?)>`)

// ExtractAddress pulls the bare address out of a sender string like
// "Name <user@example.com>".
func ExtractAddress(sender string) string {
	if m := addressPattern.FindStringSubmatch(sender); m != nil {
		return m[1]
	}
	return strings.TrimSpace(sender)
}

// ParseMessage decodes one raw RFC822 message into its sender, subject, and
// PDF attachments. Subject and sender headers may carry non-ASCII encoded
// words; the charset import above registers the decoders. A malformed part is
// logged and skipped, never aborts the whole message.
func ParseMessage(raw []byte, logger *zap.Logger) (*models.IncomingMessage, error) {
	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	defer reader.Close()

	subject, err := reader.Header.Subject()
	if err != nil {
		// Fall back to the raw header value when decoding fails
		subject = reader.Header.Get("Subject")
	}

	sender := ""
	if addrs, err := reader.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		sender = addrs[0].Address
	} else {
		sender = ExtractAddress(reader.Header.Get("From"))
	}

	msg := &models.IncomingMessage{
		Sender:  sender,
		Subject: subject,
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if message.IsUnknownCharset(err) {
			// Recoverable: the part is still returned, later parts still
			// arrive. A PDF after a mis-labeled text part must not be lost.
			logger.Warn("Unknown charset in message part, skipping it", zap.Error(err))
			continue
		}
		if err != nil {
			logger.Warn("Malformed message part, skipping remainder", zap.Error(err))
			break
		}

		filename, ok := pdfFilename(part)
		if !ok {
			continue
		}

		data, err := io.ReadAll(part.Body)
		if err != nil {
			logger.Warn("Failed to read PDF attachment",
				zap.String("filename", filename),
				zap.Error(err),
			)
			continue
		}

		msg.Attachments = append(msg.Attachments, models.Attachment{
			Filename: filename,
			Data:     data,
		})
	}

	return msg, nil
}

// pdfFilename reports whether the part is a PDF carrying a filename.
// A PDF attachment without a filename is skipped: there is nothing to key
// the working-directory file by.
func pdfFilename(part *mail.Part) (string, bool) {
	switch header := part.Header.(type) {
	case *mail.AttachmentHeader:
		contentType, _, err := header.ContentType()
		if err != nil || contentType != "application/pdf" {
			return "", false
		}
		filename, err := header.Filename()
		if err != nil || filename == "" {
			return "", false
		}
		return filename, true
	case *mail.InlineHeader:
		contentType, params, err := header.ContentType()
		if err != nil || contentType != "application/pdf" {
			return "", false
		}
		if name := params["name"]; name != "" {
			return name, true
		}
		return "", false
	default:
		return "", false
	}
}
