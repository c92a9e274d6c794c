package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"mailboard/internal/kanban/domain"
)

// TokenStore supplies OAuth tokens per user and persists refreshed access
// tokens.
type TokenStore interface {
	Tokens(ctx context.Context, userID string) (accessToken, refreshToken string, err error)
	UpdateAccessToken(ctx context.Context, userID string, token *oauth2.Token) error
}

// Service is the Gmail-backed mail provider.
type Service struct {
	clientID     string
	clientSecret string
	tokens       TokenStore
}

func NewService(clientID, clientSecret string, tokens TokenStore) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokens:       tokens,
	}
}

// notifyTokenSource wraps an oauth2 token source and persists the access
// token whenever the underlying source refreshes it.
type notifyTokenSource struct {
	src     oauth2.TokenSource
	current *oauth2.Token
	userID  string
	store   TokenStore
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.store.UpdateAccessToken(context.Background(), s.userID, t); err != nil {
			log.Printf("[Gmail] Failed to persist refreshed token for user %s: %v", s.userID, err)
		}
	}
	return t, nil
}

// client builds a Gmail API client with the user's stored tokens.
func (s *Service) client(ctx context.Context, userID string) (*gmail.Service, error) {
	accessToken, refreshToken, err := s.tokens.Tokens(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("no gmail tokens for user %s: %w", userID, err)
	}

	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	// Force a refresh check when we can refresh.
	if refreshToken != "" {
		token.Expiry = time.Now()
	}

	cfg := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}
	source := &notifyTokenSource{
		src:     cfg.TokenSource(ctx, token),
		current: token,
		userID:  userID,
		store:   s.tokens,
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, source)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return srv, nil
}

// IsConnected reports whether the user has stored Gmail tokens. No API call:
// token validity is checked on first use.
func (s *Service) IsConnected(ctx context.Context, userID string) bool {
	accessToken, refreshToken, err := s.tokens.Tokens(ctx, userID)
	if err != nil {
		return false
	}
	return accessToken != "" || refreshToken != ""
}

// ListInboxMessages returns up to max messages from the INBOX label, newest
// first, with full metadata for board caching.
func (s *Service) ListInboxMessages(ctx context.Context, userID string, max int) ([]*domain.MessageSummary, error) {
	srv, err := s.client(ctx, userID)
	if err != nil {
		return nil, err
	}

	if max <= 0 {
		max = 50
	}
	if max > 500 {
		max = 500 // Gmail API maximum
	}

	resp, err := srv.Users.Messages.List("me").LabelIds("INBOX").MaxResults(int64(max)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}
	if len(resp.Messages) == 0 {
		return nil, nil
	}

	// Fetch details in parallel, preserving list order.
	summaries := make([]*domain.MessageSummary, len(resp.Messages))
	semaphore := make(chan struct{}, 10)
	done := make(chan int, len(resp.Messages))

	for i, msg := range resp.Messages {
		go func(i int, msgID string) {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			full, err := srv.Users.Messages.Get("me", msgID).Format("full").Context(ctx).Do()
			if err != nil {
				log.Printf("[Gmail] Failed to fetch message %s: %v", msgID, err)
				done <- i
				return
			}
			summaries[i] = toSummary(full)
			done <- i
		}(i, msg.Id)
	}
	for range resp.Messages {
		<-done
	}

	result := make([]*domain.MessageSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary != nil {
			result = append(result, summary)
		}
	}
	return result, nil
}

// GetMessage fetches one message including its decoded body.
func (s *Service) GetMessage(ctx context.Context, userID, emailID string) (*domain.MessageDetail, error) {
	srv, err := s.client(ctx, userID)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", emailID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", emailID, err)
	}

	body, isHTML := extractBody(msg.Payload)
	if isHTML {
		body = stripHTML(body)
	}

	return &domain.MessageDetail{
		MessageSummary: *toSummary(msg),
		Body:           body,
		Attachments:    extractAttachments(msg.Payload),
	}, nil
}

// ApplyLabels adds and removes labels on a message.
func (s *Service) ApplyLabels(ctx context.Context, userID, emailID string, add, remove []string) error {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}
	srv, err := s.client(ctx, userID)
	if err != nil {
		return err
	}

	req := &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}
	if _, err := srv.Users.Messages.Modify("me", emailID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to modify message labels: %w", err)
	}
	return nil
}

func toSummary(msg *gmail.Message) *domain.MessageSummary {
	return &domain.MessageSummary{
		ID:             msg.Id,
		Subject:        getHeader(msg.Payload.Headers, "Subject"),
		From:           getHeader(msg.Payload.Headers, "From"),
		Snippet:        strings.TrimSpace(msg.Snippet),
		ReceivedAt:     time.Unix(msg.InternalDate/1000, 0),
		IsRead:         !hasLabel(msg.LabelIds, "UNREAD"),
		IsStarred:      hasLabel(msg.LabelIds, "STARRED"),
		HasAttachments: len(extractAttachments(msg.Payload)) > 0,
		LabelIDs:       msg.LabelIds,
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

// extractBody walks the MIME tree and returns the message body, HTML
// preferred over plain text.
func extractBody(payload *gmail.MessagePart) (string, bool) {
	if payload == nil {
		return "", false
	}
	if payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data), payload.MimeType == "text/html"
		}
	}

	var htmlBody, plainBody string
	var walk func(parts []*gmail.MessagePart)
	walk = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Body != nil && part.Body.Data != "" {
				data, err := base64.URLEncoding.DecodeString(part.Body.Data)
				if err == nil {
					switch part.MimeType {
					case "text/html":
						htmlBody = string(data)
					case "text/plain":
						plainBody = string(data)
					}
				}
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(payload.Parts)

	if htmlBody != "" {
		return htmlBody, true
	}
	return plainBody, false
}

func extractAttachments(payload *gmail.MessagePart) []domain.AttachmentInfo {
	if payload == nil {
		return nil
	}
	var attachments []domain.AttachmentInfo
	var walk func(parts []*gmail.MessagePart)
	walk = func(parts []*gmail.MessagePart) {
		for _, part := range parts {
			if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
				attachments = append(attachments, domain.AttachmentInfo{
					ID:       part.Body.AttachmentId,
					Filename: part.Filename,
					MimeType: part.MimeType,
					Size:     part.Body.Size,
				})
			}
			if len(part.Parts) > 0 {
				walk(part.Parts)
			}
		}
	}
	walk(payload.Parts)
	return attachments
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

func stripHTML(body string) string {
	text := htmlTagRe.ReplaceAllString(body, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	return strings.Join(strings.Fields(text), " ")
}

func hasLabel(labels []string, labelID string) bool {
	for _, label := range labels {
		if label == labelID {
			return true
		}
	}
	return false
}
