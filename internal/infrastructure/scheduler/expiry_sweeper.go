package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	appinv "github.com/bloodbank/backend/internal/application/inventory"
	"github.com/bloodbank/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// InventorySweeper is the slice of the inventory service the sweeper needs
type InventorySweeper interface {
	SweepExpired(ctx context.Context) (*appinv.SweepResult, error)
	GetExpiringSoon(ctx context.Context) ([]appinv.BloodUnitResponse, error)
}

// Notifier delivers the daily near-expiry report
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// ExpirySweeper periodically retires expired blood units and raises a daily
// near-expiry report so stock about to lapse gets used first.
type ExpirySweeper struct {
	cfg       config.SchedulerConfig
	service   InventorySweeper
	notifier  Notifier
	recipient string
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastAlerted string // date of the last near-expiry report
}

// NewExpirySweeper creates a new ExpirySweeper. The notifier and recipient are
// optional; without them the near-expiry report is only logged.
func NewExpirySweeper(cfg config.SchedulerConfig, service InventorySweeper, logger *zap.Logger) *ExpirySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpirySweeper{
		cfg:     cfg,
		service: service,
		logger:  logger.Named("sweeper"),
	}
}

// SetNotifier wires the daily near-expiry report to a notifier
func (s *ExpirySweeper) SetNotifier(notifier Notifier, recipient string) {
	s.notifier = notifier
	s.recipient = recipient
}

// Start launches the sweep loop
func (s *ExpirySweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Expiry sweeper started",
		zap.Duration("sweep_interval", s.cfg.SweepInterval),
		zap.Int("near_expiry_alert_hour", s.cfg.NearExpiryAlertHour),
	)
	return nil
}

// Stop stops the sweep loop, waiting for an in-flight sweep to finish
func (s *ExpirySweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Expiry sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ExpirySweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	// Sweep once at startup so a long-stopped instance catches up immediately
	s.sweep(ctx)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
			s.maybeAlert(ctx, time.Now())
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	result, err := s.service.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("Expiry sweep failed", zap.Error(err))
		return
	}
	if result.Expired > 0 {
		s.logger.Info("Expiry sweep retired units",
			zap.Int("scanned", result.Scanned),
			zap.Int("expired", result.Expired),
		)
	}
}

// maybeAlert sends the near-expiry report once per day at the configured hour
func (s *ExpirySweeper) maybeAlert(ctx context.Context, now time.Time) {
	currentDate := now.Format("2006-01-02")

	s.mu.Lock()
	alreadySent := s.lastAlerted == currentDate
	s.mu.Unlock()

	if alreadySent || now.Hour() != s.cfg.NearExpiryAlertHour {
		return
	}

	units, err := s.service.GetExpiringSoon(ctx)
	if err != nil {
		s.logger.Error("Near-expiry lookup failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.lastAlerted = currentDate
	s.mu.Unlock()

	if len(units) == 0 {
		return
	}

	s.logger.Warn("Units approaching expiry", zap.Int("count", len(units)))

	if s.notifier == nil || s.recipient == "" {
		return
	}
	subject := fmt.Sprintf("%d blood units approaching expiry", len(units))
	if err := s.notifier.Notify(ctx, s.recipient, subject, formatNearExpiryReport(units)); err != nil {
		s.logger.Error("Failed to send near-expiry report", zap.Error(err))
	}
}

func formatNearExpiryReport(units []appinv.BloodUnitResponse) string {
	var b strings.Builder
	b.WriteString("The following units expire soon and should be used first:\n\n")
	for _, u := range units {
		fmt.Fprintf(&b, "- %s (%s, %s ml): %d day(s) left, expires %s\n",
			u.BatchNumber, u.BloodType, u.Quantity.String(),
			u.DaysUntilExpiry, u.ExpiresAt.Format("2006-01-02"))
	}
	return b.String()
}
