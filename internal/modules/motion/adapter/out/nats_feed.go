package out

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"parkwatch/internal/modules/motion/domain"
	motionout "parkwatch/internal/modules/motion/port/out"
	apperrors "parkwatch/internal/platform/errors"
)

// OdometryMessage is the JSON payload published on the odometry subject.
// Stamp is the external clock in seconds and may be omitted.
type OdometryMessage struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	VX    float64  `json:"vx"`
	VY    float64  `json:"vy"`
	Stamp *float64 `json:"stamp,omitempty"`
}

func (m OdometryMessage) Reading() domain.Reading {
	r := domain.Reading{X: m.X, Y: m.Y, VX: m.VX, VY: m.VY}
	if m.Stamp != nil {
		r.Stamp = domain.StampFromSeconds(*m.Stamp)
		r.HasStamp = true
	}
	return r
}

// DecodeOdometry parses one odometry payload.
func DecodeOdometry(data []byte) (domain.Reading, error) {
	var msg OdometryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return domain.Reading{}, fmt.Errorf("%w: decode odometry: %v", apperrors.ErrInvalidInput, err)
	}
	return msg.Reading(), nil
}

// NATSFeed subscribes to odometry published on a core NATS subject.
type NATSFeed struct {
	url     string
	subject string
}

func NewNATSFeed(url, subject string) motionout.Feed {
	return &NATSFeed{url: url, subject: subject}
}

func (f *NATSFeed) Run(ctx context.Context, sink func(domain.Reading)) error {
	closed := make(chan struct{})
	conn, err := nats.Connect(f.url,
		nats.Name("parkwatch"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("odometry feed disconnected", "err", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("odometry feed reconnected", "url", c.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
	)
	if err != nil {
		return fmt.Errorf("%w: nats connect: %v", apperrors.ErrFeedUnavailable, err)
	}

	sub, err := conn.Subscribe(f.subject, func(msg *nats.Msg) {
		r, err := DecodeOdometry(msg.Data)
		if err != nil {
			slog.Debug("dropping odometry message", "subject", msg.Subject, "err", err)
			return
		}
		sink(r)
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: subscribe %s: %v", apperrors.ErrFeedUnavailable, f.subject, err)
	}

	select {
	case <-ctx.Done():
		_ = sub.Unsubscribe()
		_ = conn.Drain()
		return nil
	case <-closed:
		return fmt.Errorf("%w: nats connection closed", apperrors.ErrFeedUnavailable)
	}
}
