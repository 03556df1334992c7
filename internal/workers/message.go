package workers

import (
	"time"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/internal/scrapers"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/google/uuid"
)

// RecordMessage is the payload handed to a Sink for every station.
type RecordMessage struct {
	RunID      uuid.UUID            `json:"run_id"`
	Station    string               `json:"station"`
	URL        string               `json:"url"`
	StatusCode int                  `json:"status_code,omitempty"`
	Record     models.StationRecord `json:"record"`
	Error      *ec.Error            `json:"error,omitempty"`
	ScrapedAt  time.Time            `json:"scraped_at"`
}

func NewRecordMessage(runID uuid.UUID, r *scrapers.StationResult, at time.Time) RecordMessage {
	return RecordMessage{
		RunID:      runID,
		Station:    r.Name,
		URL:        r.URL,
		StatusCode: r.StatusCode,
		Record:     r.Record,
		Error:      r.Error,
		ScrapedAt:  at.UTC(),
	}
}
