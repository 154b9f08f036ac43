package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// RelayConfig holds JetStream settings for the room event relay.
type RelayConfig struct {
	URL           string
	StreamName    string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
	MaxAge        time.Duration
	MaxMsgs       int64
	Replicas      int
}

// DefaultRelayConfig returns default relay configuration.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		URL:           nats.DefaultURL,
		StreamName:    "ROOM_EVENTS",
		SubjectPrefix: "room.events",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
		MaxAge:        24 * time.Hour,
		MaxMsgs:       -1,
		Replicas:      1,
	}
}

// JetStreamRelay mirrors every outbound room event onto a JetStream
// stream, subject room.events.<code>. It is an egress feed for
// dashboards and analytics; the session engine never reads it back and
// room correctness does not depend on it.
type JetStreamRelay struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config RelayConfig
}

// NewJetStreamRelay connects to NATS and ensures the event stream
// exists.
func NewJetStreamRelay(cfg RelayConfig) (*JetStreamRelay, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	r := &JetStreamRelay{nc: nc, js: js, config: cfg}

	if err := r.ensureStream(context.Background()); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return r, nil
}

func (r *JetStreamRelay) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:        r.config.StreamName,
		Description: "Room event feed",
		Subjects:    []string{fmt.Sprintf("%s.>", r.config.SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      r.config.MaxAge,
		MaxMsgs:     r.config.MaxMsgs,
		Storage:     jetstream.FileStorage,
		Replicas:    r.config.Replicas,
	}

	if _, err := r.js.Stream(ctx, r.config.StreamName); err != nil {
		if _, err = r.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", r.config.StreamName).Msg("created JetStream stream")
	}
	return nil
}

// Publish mirrors one room event onto the stream. Failures are logged
// and swallowed; the websocket broadcast already happened.
func (r *JetStreamRelay) Publish(event *RoomEvent) {
	subject := fmt.Sprintf("%s.%s", r.config.SubjectPrefix, event.RoomCode)

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("marshal relay event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = r.js.PublishMsg(ctx, &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(event.Type)},
			"Room-Code":  []string{event.RoomCode},
			"Event-ID":   []string{event.ID},
		},
	},
		jetstream.WithMsgID(event.ID),
		jetstream.WithExpectStream(r.config.StreamName),
	)
	if err != nil {
		log.Error().
			Err(err).
			Str("subject", subject).
			Str("event_type", string(event.Type)).
			Msg("publish room event to JetStream")
	}
}

// Close drains the NATS connection.
func (r *JetStreamRelay) Close() {
	r.nc.Close()
}
