package models

// IncomingMessage is the transient view of one inbox message: decoded sender
// and subject plus its PDF attachments, in part order. It exists only for the
// duration of one poll cycle; attachments outlive it as files on disk.
type IncomingMessage struct {
	Sender      string
	Subject     string
	Attachments []Attachment
}

type Attachment struct {
	Filename string
	Data     []byte
}
