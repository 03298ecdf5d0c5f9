package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/simonyos/toolrunner/internal/agent"
)

// NATSConfig contains NATS connection configuration.
type NATSConfig struct {
	URL            string        `json:"url" yaml:"url"`
	CredsFile      string        `json:"creds_file,omitempty" yaml:"creds_file,omitempty"`
	Token          string        `json:"token,omitempty" yaml:"token,omitempty"`
	ConnectTimeout time.Duration `json:"connect_timeout,omitempty" yaml:"connect_timeout,omitempty"`
	ReconnectWait  time.Duration `json:"reconnect_wait,omitempty" yaml:"reconnect_wait,omitempty"`
	MaxReconnects  int           `json:"max_reconnects,omitempty" yaml:"max_reconnects,omitempty"`
}

// DefaultNATSConfig returns the default NATS configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:            nats.DefaultURL, // "nats://localhost:4222"
		ConnectTimeout: 5 * time.Second,
		ReconnectWait:  2 * time.Second,
		MaxReconnects:  60,
	}
}

// Publisher sends run events to NATS. It implements agent.EventHandler and
// is safe for concurrent use.
type Publisher struct {
	mu   sync.RWMutex
	conn *nats.Conn
}

var _ agent.EventHandler = (*Publisher)(nil)

// Connect establishes a connection to the NATS server.
func Connect(config NATSConfig) (*Publisher, error) {
	if config.URL == "" {
		config.URL = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.Name("toolrunner"),
		nats.Timeout(config.ConnectTimeout),
		nats.ReconnectWait(config.ReconnectWait),
		nats.MaxReconnects(config.MaxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats connection lost, attempting to reconnect")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			if err := nc.LastError(); err != nil {
				log.Warn().Err(err).Msg("nats connection closed")
				return
			}
			log.Debug().Msg("nats connection closed")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("nats error")
		}),
	}

	if config.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(config.CredsFile))
	}

	if config.Token != "" {
		opts = append(opts, nats.Token(config.Token))
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConnectionFailed, err)
	}

	log.Debug().Str("url", conn.ConnectedUrl()).Msg("nats connected")
	return &Publisher{conn: conn}, nil
}

// Publish sends one event on its run subject.
func (p *Publisher) Publish(e agent.Event) error {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	data, err := NewMessage(e).Encode()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := conn.Publish(Subject(e), data); err != nil {
		return fmt.Errorf("%w: %s", ErrPublishFailed, err)
	}
	return nil
}

// HandleEvent publishes the event; failures are logged, never returned to the run.
func (p *Publisher) HandleEvent(e agent.Event) {
	if err := p.Publish(e); err != nil {
		log.Warn().Err(err).Str("run_id", e.RunID).Str("kind", string(e.Kind)).Msg("event not published")
	}
}

// Subscribe delivers the events of one run, or of every run when runID is
// empty. Messages that cannot be decoded are logged and skipped.
func (p *Publisher) Subscribe(runID string, handler func(*Message)) (*nats.Subscription, error) {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	return conn.Subscribe(RunSubject(runID), func(msg *nats.Msg) {
		m, err := DecodeMessage(msg.Data)
		if err != nil {
			log.Warn().Err(err).Str("subject", msg.Subject).Msg("failed to decode event")
			return
		}
		handler(m)
	})
}

// Flush waits until the server has processed every published event.
func (p *Publisher) Flush(timeout time.Duration) error {
	p.mu.RLock()
	conn := p.conn
	p.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.FlushTimeout(timeout)
}

// IsConnected returns true if connected to NATS.
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains pending events and closes the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	conn := p.conn
	p.conn = nil
	p.mu.Unlock()

	if conn == nil {
		return nil
	}
	if err := conn.Drain(); err != nil {
		conn.Close()
		return err
	}
	return nil
}
