package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/inventario-scan/internal/application/inventory"
	"github.com/jhoicas/inventario-scan/pkg/logger"
)

// Reconciler es la pasada de reconciliación que se agenda.
type Reconciler interface {
	Run(ctx context.Context) (inventory.ReconcileReport, error)
}

// Scheduler agenda el barrido periódico de movimientos con códigos sin registrar.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	reconciler Reconciler
	timeout    time.Duration
	log        *logger.Logger
}

// New construye el scheduler. spec acepta cron de 5 campos o descriptores (@every 15m, @hourly).
func New(spec string, reconciler Reconciler, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	// Una pasada lenta no se solapa con la siguiente.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return &Scheduler{
		cron:       c,
		spec:       spec,
		reconciler: reconciler,
		timeout:    5 * time.Minute,
		log:        log,
	}
}

// Start registra el job y arranca el cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("scheduler: expresión %q inválida: %w", s.spec, err)
	}
	s.log.Info().Str("spec", s.spec).Msg("reconciliación agendada")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine la pasada en curso (o a que ctx expire).
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("reconciliación en curso interrumpida por el apagado")
	}
}

// RunOnce ejecuta una pasada con timeout.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.reconciler.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reconciliación fallida")
		return
	}
	s.log.Info().
		Int("scanned", report.Scanned).
		Int("flagged", report.Flagged).
		Int("completed", report.Completed).
		Int("failed", report.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("reconciliación terminada")
}
