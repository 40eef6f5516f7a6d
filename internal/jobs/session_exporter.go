package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"interviewmaster/server/internal/storage"
)

// watermark records how many sessions earlier runs already exported.
const watermarkKey = "interview_master_export_watermark"

// SessionExporterJob periodically dumps newly completed interview
// sessions to JSONL files for offline analysis.
type SessionExporterJob struct {
	store  *storage.Gateway
	raw    *storage.Store
	config *ExporterConfig
	logger *zap.Logger
	cron   *cron.Cron
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool   // Whether to run exports
}

func NewSessionExporterJob(store *storage.Gateway, raw *storage.Store, config *ExporterConfig, logger *zap.Logger) *SessionExporterJob {
	return &SessionExporterJob{
		store:  store,
		raw:    raw,
		config: config,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start begins the scheduled export job
func (sej *SessionExporterJob) Start() error {
	if !sej.config.ExportEnabled {
		sej.logger.Info("session export is disabled, skipping scheduler")
		return nil
	}

	sej.logger.Info("starting session exporter", zap.String("schedule", sej.config.Schedule))

	_, err := sej.cron.AddFunc(sej.config.Schedule, func() {
		if err := sej.RunExport(); err != nil {
			sej.logger.Error("export job failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	sej.cron.Start()
	return nil
}

// Stop stops the scheduled export job
func (sej *SessionExporterJob) Stop() {
	if sej.cron != nil {
		sej.cron.Stop()
		sej.logger.Info("session exporter stopped")
	}
}

// RunExport writes all sessions beyond the watermark to one JSONL file
// and moves the watermark. Nothing new is a no-op, not an error.
func (sej *SessionExporterJob) RunExport() error {
	sessions := sej.store.Sessions()
	exported := sej.readWatermark()

	if exported > len(sessions) {
		// The list shrank (store was cleared); start over.
		exported = 0
	}
	pending := sessions[exported:]
	if len(pending) == 0 {
		sej.logger.Info("no new sessions to export")
		return nil
	}

	if err := os.MkdirAll(sej.config.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	lines := make([]byte, 0, len(pending)*256)
	for _, session := range pending {
		line, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
		}
		lines = append(lines, line...)
		lines = append(lines, '\n')
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("sessions_export_%s.jsonl", timestamp)
	path := filepath.Join(sej.config.ExportDir, filename)

	if err := os.WriteFile(path, lines, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	if err := sej.raw.Set(watermarkKey, strconv.Itoa(len(sessions))); err != nil {
		return fmt.Errorf("failed to advance export watermark: %w", err)
	}

	sej.logger.Info("exported sessions",
		zap.Int("count", len(pending)),
		zap.String("file", path))
	return nil
}

// RunManual runs an export on demand.
func (sej *SessionExporterJob) RunManual() error {
	return sej.RunExport()
}

func (sej *SessionExporterJob) readWatermark() int {
	value, found, err := sej.raw.Get(watermarkKey)
	if err != nil || !found {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
