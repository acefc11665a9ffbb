// Package notify delivers best-effort vote notifications to a Telegram chat.
//
// Delivery is decoupled from request handling through a bounded intake
// queue drained by a background worker: Notify never blocks, never returns
// an error, and drops messages when the queue is full. Failures of any kind
// (network, timeout, non-2xx, missing credentials) never reach the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/CHOCOLAnyo/pca-devops-lab/internal/config"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/obs"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	sendTimeout    = 1 * time.Second
	intakeBuffer   = 64
)

// telegramMessage is the sendMessage payload shape.
type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notifier sends version-tagged messages to a pre-configured Telegram chat.
type Notifier struct {
	version string
	token   string
	chatID  string
	apiBase string
	client  *http.Client

	intake       chan string
	shuttingDown atomic.Bool
	pending      atomic.Int64

	enqueued  atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a Notifier from the Telegram credentials in cfg. Empty
// credentials yield a Notifier whose Notify is a silent no-op.
func New(cfg config.Config) *Notifier {
	return &Notifier{
		version: cfg.Version,
		token:   cfg.TelegramToken,
		chatID:  cfg.TelegramChatID,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: sendTimeout},
		intake:  make(chan string, intakeBuffer),
	}
}

// NewWithAPIBase is like New but points deliveries at apiBase instead of
// the Telegram API. Used by tests.
func NewWithAPIBase(cfg config.Config, apiBase string) *Notifier {
	n := New(cfg)
	n.apiBase = apiBase
	return n
}

// Start runs the delivery worker until ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	go n.run(ctx)
}

func (n *Notifier) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-n.intake:
			n.deliver(msg)
			n.delivered.Add(1)
			n.pending.Add(-1)
		}
	}
}

// Notify queues message for delivery. It returns immediately and never
// fails the caller: without credentials, during shutdown or with a full
// queue the message is silently discarded.
func (n *Notifier) Notify(message string) {
	if n.token == "" || n.chatID == "" {
		return
	}
	if n.shuttingDown.Load() {
		return
	}
	n.pending.Add(1)
	select {
	case n.intake <- message:
		n.enqueued.Add(1)
	default:
		n.pending.Add(-1)
		n.dropped.Add(1)
	}
}

// deliver posts one message to the Telegram sendMessage endpoint. All
// failures are swallowed; the client enforces the 1s timeout.
func (n *Notifier) deliver(message string) {
	payload := telegramMessage{
		ChatID: n.chatID,
		Text:   "[" + n.version + "] " + message,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	url := n.apiBase + "/bot" + n.token + "/sendMessage"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		obs.Logger.Debug("notify_send_failed", "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		obs.Logger.Debug("notify_send_failed", "status", resp.StatusCode)
	}
}

// CloseIntake disallows future enqueues.
func (n *Notifier) CloseIntake() { n.shuttingDown.Store(true) }

// DrainUntil blocks until every queued message has been handed to the
// Telegram endpoint, or ctx expires. It reports whether the drain completed.
func (n *Notifier) DrainUntil(ctx context.Context) bool {
	t := time.NewTicker(20 * time.Millisecond)
	defer t.Stop()
	for {
		if n.pending.Load() == 0 {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
}

// Metrics returns the enqueue, delivery and drop counters.
func (n *Notifier) Metrics() (enqueued, delivered, dropped uint64) {
	return n.enqueued.Load(), n.delivered.Load(), n.dropped.Load()
}
