// Package ingest subscribes to a NATS subject carrying roster submissions,
// parses each one, and stores the outcome.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"ftl_checker/internal/duty"
	"ftl_checker/internal/registry"
	"ftl_checker/internal/storage"
	"ftl_checker/pkg/logger"
)

// Submission is the JSON envelope published on the roster subject.
type Submission struct {
	CrewID     string `json:"crew_id"`
	Source     string `json:"source,omitempty"`
	ReceivedAt string `json:"received_at,omitempty"` // RFC3339; defaults to now
	Text       string `json:"text"`
}

// Ingestor consumes roster submissions and persists parse results.
type Ingestor struct {
	registry *registry.Registry
	archive  *storage.DB
	store    *storage.Store
	log      *logger.Logger
}

// New creates an ingestor. The archive and store may be nil when the
// corresponding backend is not configured; parsing still runs and the
// outcome is logged.
func New(reg *registry.Registry, archive *storage.DB, store *storage.Store, log *logger.Logger) *Ingestor {
	return &Ingestor{
		registry: reg,
		archive:  archive,
		store:    store,
		log:      log.Named("ingest"),
	}
}

// Run connects to NATS and consumes submissions until the context is
// cancelled. The subscription is drained on shutdown so in-flight messages
// finish.
func (in *Ingestor) Run(ctx context.Context, url, subject string) error {
	nc, err := nats.Connect(url,
		nats.Name("ftl-roster-ingest"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}
	defer nc.Close()

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		in.handle(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}

	in.log.Info("consuming roster submissions",
		logger.String("url", url),
		logger.String("subject", subject))

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		in.log.Warn("drain subscription", logger.Error(err))
	}
	return nil
}

func (in *Ingestor) handle(ctx context.Context, data []byte) {
	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		in.log.Warn("malformed submission", logger.Error(err))
		return
	}
	if sub.Text == "" {
		in.log.Warn("submission without roster text", logger.String("crew_id", sub.CrewID))
		return
	}

	receivedAt := time.Now().UTC()
	if sub.ReceivedAt != "" {
		if t, err := time.Parse(time.RFC3339, sub.ReceivedAt); err == nil {
			receivedAt = t
		}
	}

	parser := in.registry.Detect(sub.Text)
	if parser == nil {
		in.log.Error("no parser available")
		return
	}
	result := parser.Parse(sub.Text, receivedAt)

	in.log.Info("roster parsed",
		logger.String("crew_id", sub.CrewID),
		logger.String("format", parser.Name()),
		logger.Bool("success", result.Success),
		logger.Int("duty_days", result.Summary.TotalDays),
		logger.Int("parse_errors", len(result.Errors)))

	if in.archive != nil {
		_, err := in.archive.Insert(storage.InsertParams{
			ReceivedAt: receivedAt,
			CrewID:     sub.CrewID,
			Format:     parser.Name(),
			Success:    result.Success,
			DutyDays:   result.Summary.TotalDays,
			Segments:   result.Summary.TotalSegments,
			RawText:    sub.Text,
			Result:     result,
			Errors:     result.Errors,
		})
		if err != nil {
			in.log.Error("archive roster", logger.Error(err))
		}
	}

	if in.store != nil && sub.CrewID != "" {
		in.updateCrewState(ctx, sub.CrewID, result.DutyPeriods)
	}
}

// updateCrewState replaces the stored duty days covered by this submission.
func (in *Ingestor) updateCrewState(ctx context.Context, crewID string, periods []duty.Period) {
	if err := in.store.PG.UpsertCrew(ctx, storage.Crew{CrewID: crewID}); err != nil {
		in.log.Error("upsert crew", logger.String("crew_id", crewID), logger.Error(err))
		return
	}
	for _, p := range periods {
		if err := in.store.PG.UpsertDutyPeriod(ctx, crewID, p); err != nil {
			in.log.Error("upsert duty period",
				logger.String("crew_id", crewID),
				logger.String("date", p.Date),
				logger.Error(err))
		}
	}
}
