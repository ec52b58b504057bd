package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
)

const (
	// ChangeChannel is the NOTIFY channel the finance triggers publish to.
	ChangeChannel = "finance_changes"

	reconnectInterval    = 5 * time.Second
	listenerPingInterval = 90 * time.Second
	subscriberBuffer     = 16
)

// changeNotification is the JSON payload built by notify_finance_change().
type changeNotification struct {
	Table     string `json:"table"`
	Operation string `json:"operation"`
	ID        string `json:"id"`
}

func decodeChangeNotification(extra string) (domain.ChangeEvent, error) {
	var n changeNotification
	if err := json.Unmarshal([]byte(extra), &n); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("invalid change payload: %w", err)
	}
	if n.Table == "" {
		return domain.ChangeEvent{}, fmt.Errorf("change payload has no table")
	}
	return domain.ChangeEvent{Table: n.Table, Operation: n.Operation, RowID: n.ID}, nil
}

// ChangeListener relays PostgreSQL notifications to in-process subscribers.
// Slow subscribers miss events rather than stalling the relay.
type ChangeListener struct {
	connStr string
	logger  *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan domain.ChangeEvent
	nextID int
}

var _ portsrepo.ChangeFeed = (*ChangeListener)(nil)

// NewChangeListener creates a listener for the given connection string. Call Start to begin relaying.
func NewChangeListener(connStr string, logger *slog.Logger) *ChangeListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeListener{
		connStr: connStr,
		logger:  logger.With("component", "change_listener"),
		subs:    make(map[int]chan domain.ChangeEvent),
	}
}

// Subscribe registers a subscriber until ctx is done.
func (l *ChangeListener) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch := make(chan domain.ChangeEvent, subscriberBuffer)

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

func (l *ChangeListener) publish(evt domain.ChangeEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Start runs the listen loop in the background until ctx is done.
func (l *ChangeListener) Start(ctx context.Context) {
	go l.run(ctx)
	l.logger.Info("Change listener started", "channel", ChangeChannel)
}

func (l *ChangeListener) run(ctx context.Context) {
	for {
		l.connectAndListen(ctx)

		select {
		case <-ctx.Done():
			l.logger.Info("Change listener stopped")
			return
		case <-time.After(reconnectInterval):
			l.logger.Info("Reconnecting change listener")
		}
	}
}

func (l *ChangeListener) connectAndListen(ctx context.Context) {
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			l.logger.Debug("Connected to notification channel")
		case pq.ListenerEventDisconnected:
			l.logger.Warn("Disconnected from notification channel", "error", err)
		case pq.ListenerEventReconnected:
			l.logger.Info("Reconnected to notification channel")
		case pq.ListenerEventConnectionAttemptFailed:
			l.logger.Warn("Notification connection attempt failed", "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(ChangeChannel); err != nil {
		l.logger.Error("Failed to listen on channel", "channel", ChangeChannel, "error", err)
		return
	}

	ping := time.NewTicker(listenerPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-listener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// pq sends nil after a reconnect; events may have been missed.
				l.publish(domain.ChangeEvent{Table: "*", Operation: "RESYNC"})
				continue
			}
			evt, err := decodeChangeNotification(n.Extra)
			if err != nil {
				l.logger.Warn("Dropping change notification", "error", err)
				continue
			}
			l.publish(evt)
		case <-ping.C:
			go func() {
				if err := listener.Ping(); err != nil {
					l.logger.Warn("Listener ping failed", "error", err)
				}
			}()
		}
	}
}
