// Package mail wraps an IMAP mailbox behind the small read-only surface
// the email tools need: connect, fetch a date window, disconnect.
package mail

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
	"go.uber.org/zap"

	"github.com/hanneskern95-jpg/AI-assistant/pkg/logger"
)

// maxBodyChars caps how much of each message body is kept. Summarization
// prompts do not need full threads and the model context is finite.
const maxBodyChars = 1000

// Config holds the IMAP connection parameters.
type Config struct {
	Addr     string // host:port, TLS assumed
	Username string
	Password string
}

// Configured reports whether all connection parameters are present.
func (c Config) Configured() bool {
	return c.Addr != "" && c.Username != "" && c.Password != ""
}

// Message is one fetched mail, trimmed to the fields summarization uses.
type Message struct {
	Sender  string    `json:"sender"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
}

// Client is a logged-in IMAP session. Not safe for concurrent use; the
// mail assistant serializes its tool calls.
type Client struct {
	conn   *imapclient.Client
	logger *zap.Logger
}

// Connect dials the server over TLS and logs in.
func Connect(cfg Config) (*Client, error) {
	log := logger.Get()

	conn, err := imapclient.DialTLS(cfg.Addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Addr, err)
	}

	if err := conn.Login(cfg.Username, cfg.Password); err != nil {
		_ = conn.Logout()
		return nil, fmt.Errorf("login as %s: %w", cfg.Username, err)
	}

	log.Info("IMAP session established",
		zap.String("addr", cfg.Addr),
		zap.String("user", cfg.Username),
	)
	return &Client{conn: conn, logger: log}, nil
}

// Close logs out and drops the connection.
func (c *Client) Close() error {
	return c.conn.Logout()
}

// FetchWindow returns inbox messages received between daysFrom and daysTo
// days ago (daysFrom older than daysTo; daysTo of 0 means today). Bodies
// are fetched with peek so messages stay unread, and truncated to keep
// downstream prompts bounded.
func (c *Client) FetchWindow(daysFrom, daysTo int) ([]Message, error) {
	if daysFrom < daysTo {
		daysFrom, daysTo = daysTo, daysFrom
	}

	if _, err := c.conn.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("select inbox: %w", err)
	}

	now := time.Now()
	criteria := imap.NewSearchCriteria()
	criteria.Since = now.AddDate(0, 0, -daysFrom)
	// SentBefore/Before are exclusive, so push the upper bound one day out
	// to include daysTo itself.
	criteria.Before = now.AddDate(0, 0, -daysTo+1)

	ids, err := c.conn.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("search inbox: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{
		BodyPartName: imap.BodyPartName{Specifier: imap.TextSpecifier},
		Peek:         true,
	}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.conn.Fetch(seqset, items, messages)
	}()

	var out []Message
	for msg := range messages {
		if msg == nil || msg.Envelope == nil {
			continue
		}
		out = append(out, Message{
			Sender:  formatSender(msg.Envelope),
			Subject: msg.Envelope.Subject,
			Date:    msg.Envelope.Date,
			Body:    readBody(msg, section),
		})
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch inbox: %w", err)
	}

	c.logger.Debug("Fetched mail window",
		zap.Int("days_from", daysFrom),
		zap.Int("days_to", daysTo),
		zap.Int("messages", len(out)),
	)
	return out, nil
}

func formatSender(env *imap.Envelope) string {
	if len(env.From) == 0 {
		return "unknown"
	}
	from := env.From[0]
	addr := from.Address()
	if from.PersonalName != "" {
		return fmt.Sprintf("%s <%s>", from.PersonalName, addr)
	}
	return addr
}

func readBody(msg *imap.Message, section *imap.BodySectionName) string {
	body := msg.GetBody(section)
	if body == nil {
		return ""
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > maxBodyChars {
		// Cut on a rune boundary so a multi-byte character is never split.
		cut := maxBodyChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}
	return text
}
