// Package mailbox connects to the monitored IMAP inbox and parses fetched
// messages into their PDF attachments.
package mailbox

import (
	"context"
	"fmt"
	"time"

	"finreview/pkg/config"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"
)

// Mailbox opens one session per poll cycle.
type Mailbox interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is the capability surface the poller needs: search unseen, fetch a
// raw message, flag it as seen.
type Session interface {
	SearchUnseen(since time.Time) ([]uint32, error)
	Fetch(id uint32) ([]byte, error)
	MarkSeen(id uint32) error
	Close() error
}

type IMAPMailbox struct {
	cfg    *config.MailboxConfig
	logger *zap.Logger
}

func NewIMAPMailbox(cfg *config.MailboxConfig, logger *zap.Logger) *IMAPMailbox {
	return &IMAPMailbox{
		cfg:    cfg,
		logger: logger,
	}
}

func (m *IMAPMailbox) Connect(_ context.Context) (Session, error) {
	client, err := imapclient.DialTLS(m.cfg.Host, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial IMAP server %s: %w", m.cfg.Host, err)
	}

	if err := client.Login(m.cfg.Address, m.cfg.Password).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("IMAP login rejected: %w", err)
	}

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to select inbox: %w", err)
	}

	m.logger.Debug("IMAP session established", zap.String("host", m.cfg.Host))

	return &imapSession{client: client, logger: m.logger}, nil
}

type imapSession struct {
	client *imapclient.Client
	logger *zap.Logger
}

func (s *imapSession) SearchUnseen(since time.Time) ([]uint32, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   since,
	}

	data, err := s.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("IMAP search failed: %w", err)
	}

	uids := data.AllUIDs()
	ids := make([]uint32, len(uids))
	for i, uid := range uids {
		ids[i] = uint32(uid)
	}

	return ids, nil
}

func (s *imapSession) Fetch(id uint32) ([]byte, error) {
	bodySection := &imap.FetchItemBodySection{}
	options := &imap.FetchOptions{
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	messages, err := s.client.Fetch(imap.UIDSetNum(imap.UID(id)), options).Collect()
	if err != nil {
		return nil, fmt.Errorf("IMAP fetch failed: %w", err)
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("message %d not found", id)
	}

	raw := messages[0].FindBodySection(bodySection)
	if raw == nil {
		return nil, fmt.Errorf("message %d has no body", id)
	}

	return raw, nil
}

func (s *imapSession) MarkSeen(id uint32) error {
	flags := &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}

	if err := s.client.Store(imap.UIDSetNum(imap.UID(id)), flags, nil).Close(); err != nil {
		return fmt.Errorf("failed to mark message %d as seen: %w", id, err)
	}

	return nil
}

func (s *imapSession) Close() error {
	if err := s.client.Logout().Wait(); err != nil {
		return s.client.Close()
	}
	return nil
}
