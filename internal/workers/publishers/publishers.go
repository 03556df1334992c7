// Package publishers forwards station records to NATS.
package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/ChiaYuChang/pwsscraper/internal/workers"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultSubject   = "pwsscraper.records"
	MinRetryInterval = 100 * time.Millisecond
	MaxRetryTimes    = 3
	// MaxRetryWait bounds the time one Publish call spends retrying.
	MaxRetryWait = time.Second
)

var permanentErrors = []error{
	nats.ErrInvalidConnection,
	nats.ErrConnectionClosed,
	nats.ErrConnectionDraining,
	nats.ErrBadSubject,
	nats.ErrMaxPayload,
	nats.ErrHeadersNotSupported,
}

// IsPermanent reports whether err is a publish failure that a retry cannot fix.
func IsPermanent(err error) bool {
	for _, target := range permanentErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Publisher publishes every RecordMessage on <Subject>.<station token>.
type Publisher struct {
	Conn       *nats.Conn
	Tracer     trace.Tracer
	Subject    string
	MaxRetries int
	MaxWait    time.Duration
}

func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{
		Conn:       nc,
		Tracer:     otel.Tracer("github.com/ChiaYuChang/pwsscraper/internal/workers/publishers"),
		Subject:    subject,
		MaxRetries: MaxRetryTimes,
		MaxWait:    MaxRetryWait,
	}
}

// SubjectToken turns a station name into a single NATS subject token:
// lower case, with every run of other characters replaced by "_".
func SubjectToken(name string) string {
	sb := strings.Builder{}
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			sb.WriteRune(r)
			sep = false
			continue
		}
		if !sep && sb.Len() > 0 {
			sb.WriteByte('_')
			sep = true
		}
	}
	token := strings.TrimRight(sb.String(), "_")
	if token == "" {
		return "unknown"
	}
	return token
}

func (p *Publisher) SubjectOf(station string) string {
	return p.Subject + "." + SubjectToken(station)
}

// Publish implements workers.Sink. Transient failures are retried with
// backoff for at most MaxRetries times and MaxWait in total; permanent
// failures return at once.
func (p *Publisher) Publish(ctx context.Context, msg workers.RecordMessage) error {
	subject := p.SubjectOf(msg.Station)
	ctx, span := p.Tracer.Start(ctx, "Publisher.Publish",
		trace.WithAttributes(
			attribute.String("subject", subject),
			attribute.String("pws.run_id", msg.RunID.String()),
		),
	)
	defer span.End()

	headers := nats.Header{}
	otel.GetTextMapPropagator().
		Inject(ctx, propagation.HeaderCarrier(headers))

	data, err := json.Marshal(msg)
	if err != nil {
		return ec.ErrMarshalFailed.Clone().Warp(err)
	}

	m := &nats.Msg{Subject: subject, Data: data, Header: headers}
	var deadline <-chan time.Time
	if p.MaxWait > 0 {
		timer := time.NewTimer(p.MaxWait)
		defer timer.Stop()
		deadline = timer.C
	}

	for retry := 0; ; retry++ {
		if err = p.Conn.PublishMsg(m); err == nil {
			return nil
		}
		if IsPermanent(err) || retry >= p.MaxRetries {
			span.RecordError(err)
			return ec.ErrNetwork.Clone().
				WithMessage("failed to publish station record").
				WithDetails("subject: "+subject, fmt.Sprintf("attempts: %d", retry+1)).
				Warp(err)
		}

		select {
		case <-ctx.Done():
			return ec.ErrNetwork.Clone().
				WithMessage("publish canceled").
				Warp(ctx.Err())
		case <-deadline:
			span.RecordError(err)
			return ec.ErrNetwork.Clone().
				WithMessage("publish retry budget exhausted").
				WithDetails("subject: "+subject, fmt.Sprintf("attempts: %d", retry+1)).
				Warp(err)
		case <-time.After(MinRetryInterval << retry):
		}
	}
}
