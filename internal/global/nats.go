package global

import (
	"fmt"
	"regexp"
	"time"

	"github.com/nats-io/nats.go"
)

const NATSLogSubject = "pwsscraper.logs"

var levelRe = regexp.MustCompile(`"level"\s*:\s*"(\w+)"`)

// ConnectNats dials the NATS server used for log fan-out.
func ConnectNats(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("pwsscraper"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(3),
	)
}

// NatsLogWriter publishes every zerolog line on <Subject>.<level>.
type NatsLogWriter struct {
	Conn    *nats.Conn
	Subject string
}

// LogLevelOf returns the value of the "level" field of a JSON log line, or
// "unknown".
func LogLevelOf(p []byte) string {
	matches := levelRe.FindSubmatch(p)
	if len(matches) < 2 {
		return "unknown"
	}
	return string(matches[1])
}

// SubjectOf returns the subject a log line is published on.
func (w *NatsLogWriter) SubjectOf(p []byte) string {
	subject := w.Subject
	if subject == "" {
		subject = NATSLogSubject
	}
	return fmt.Sprintf("%s.%s", subject, LogLevelOf(p))
}

func (w *NatsLogWriter) Write(p []byte) (n int, err error) {
	if w.Conn == nil {
		return 0, nats.ErrConnectionClosed
	}

	// zerolog reuses p once Write returns
	data := make([]byte, len(p))
	copy(data, p)
	if err := w.Conn.Publish(w.SubjectOf(p), data); err != nil {
		return 0, err
	}
	return len(p), nil
}
