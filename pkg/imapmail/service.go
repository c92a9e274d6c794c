package imapmail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"

	"mailboard/internal/kanban/domain"
)

// CredentialStore supplies IMAP credentials per user.
type CredentialStore interface {
	Credentials(ctx context.Context, userID string) (username, password string, err error)
}

// Service is the IMAP-backed mail provider. It connects per call: IMAP
// sessions are stateful and cheap enough for this engine's access pattern.
//
// Message ids are IMAP UIDs of the INBOX mailbox rendered as decimal strings.
type Service struct {
	addr   string
	useTLS bool
	creds  CredentialStore
}

func NewService(addr string, useTLS bool, creds CredentialStore) *Service {
	return &Service{
		addr:   addr,
		useTLS: useTLS,
		creds:  creds,
	}
}

func (s *Service) connect(ctx context.Context, userID string) (*client.Client, error) {
	username, password, err := s.creds.Credentials(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("no imap credentials for user %s: %w", userID, err)
	}

	var c *client.Client
	if s.useTLS {
		host := s.addr
		if idx := strings.LastIndex(host, ":"); idx >= 0 {
			host = host[:idx]
		}
		c, err = client.DialTLS(s.addr, &tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		})
	} else {
		c, err = client.Dial(s.addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := c.Login(username, password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}
	return c, nil
}

// IsConnected reports whether the user has stored IMAP credentials.
func (s *Service) IsConnected(ctx context.Context, userID string) bool {
	username, password, err := s.creds.Credentials(ctx, userID)
	return err == nil && username != "" && password != ""
}

// ListInboxMessages returns up to max of the most recent INBOX messages,
// newest first.
func (s *Service) ListInboxMessages(ctx context.Context, userID string, max int) ([]*domain.MessageSummary, error) {
	c, err := s.connect(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer c.Logout() //nolint:errcheck

	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	if max <= 0 {
		max = 50
	}
	start := uint32(1)
	if mbox.Messages > uint32(max) {
		start = mbox.Messages - uint32(max) + 1
	}
	seqSet := new(imap.SeqSet)
	seqSet.AddRange(start, mbox.Messages)

	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchInternalDate, imap.FetchUid, imap.FetchBodyStructure}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	var summaries []*domain.MessageSummary
	for msg := range messages {
		summaries = append(summaries, toSummary(msg))
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Sequence order is oldest first; callers expect newest first.
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}
	return summaries, nil
}

// GetMessage fetches one message by UID including its parsed body.
func (s *Service) GetMessage(ctx context.Context, userID, emailID string) (*domain.MessageDetail, error) {
	uid, err := strconv.ParseUint(emailID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", emailID, err)
	}

	c, err := s.connect(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer c.Logout() //nolint:errcheck

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("failed to select INBOX: %w", err)
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uint32(uid))

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchInternalDate, imap.FetchUid, section.FetchItem()}
	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", emailID, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("message %s not found", emailID)
	}

	detail := &domain.MessageDetail{MessageSummary: *toSummary(msg)}
	if raw := readBody(msg); len(raw) > 0 {
		env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
		if err != nil {
			log.Printf("[IMAP] Failed to parse message %s: %v", emailID, err)
			detail.Body = string(raw)
		} else {
			detail.Body = env.Text
			if detail.Body == "" {
				detail.Body = env.HTML
			}
			for _, att := range env.Attachments {
				detail.Attachments = append(detail.Attachments, domain.AttachmentInfo{
					ID:       att.ContentID,
					Filename: att.FileName,
					MimeType: att.ContentType,
					Size:     int64(len(att.Content)),
				})
			}
			detail.HasAttachments = len(detail.Attachments) > 0
		}
	}
	return detail, nil
}

// ApplyLabels is a no-op: plain IMAP has no label concept, and board state is
// authoritative anyway.
func (s *Service) ApplyLabels(ctx context.Context, userID, emailID string, add, remove []string) error {
	return nil
}

func toSummary(msg *imap.Message) *domain.MessageSummary {
	summary := &domain.MessageSummary{
		ID:         strconv.FormatUint(uint64(msg.Uid), 10),
		ReceivedAt: msg.InternalDate,
	}
	if msg.Envelope != nil {
		summary.Subject = msg.Envelope.Subject
		if summary.ReceivedAt.IsZero() {
			summary.ReceivedAt = msg.Envelope.Date
		}
		if len(msg.Envelope.From) > 0 {
			addr := msg.Envelope.From[0]
			if addr.PersonalName != "" {
				summary.From = fmt.Sprintf("%s <%s>", addr.PersonalName, addr.Address())
			} else {
				summary.From = addr.Address()
			}
		}
	}
	for _, flag := range msg.Flags {
		switch flag {
		case imap.SeenFlag:
			summary.IsRead = true
		case imap.FlaggedFlag:
			summary.IsStarred = true
		}
	}
	if msg.BodyStructure != nil {
		summary.HasAttachments = hasAttachmentParts(msg.BodyStructure)
	}
	return summary
}

func hasAttachmentParts(bs *imap.BodyStructure) bool {
	if strings.EqualFold(bs.Disposition, "attachment") {
		return true
	}
	for _, part := range bs.Parts {
		if hasAttachmentParts(part) {
			return true
		}
	}
	return false
}

func readBody(msg *imap.Message) []byte {
	for _, literal := range msg.Body {
		data, err := io.ReadAll(literal)
		if err == nil && len(data) > 0 {
			return data
		}
	}
	return nil
}
