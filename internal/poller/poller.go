// Package poller drives the inbox loop: sleep, scan, sleep. Each scan cycle
// opens one mailbox session, walks unseen messages from the trailing 24-hour
// window, saves PDF attachments, and hands them to the pipeline through a
// bounded worker pool.
package poller

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finreview/internal/mailbox"
	"finreview/pkg/config"

	"go.uber.org/zap"
)

// Processor is the pipeline entry point invoked once per attachment.
type Processor interface {
	Process(ctx context.Context, pdfPath, senderEmail, subject string)
}

// lookback bounds the unseen search to recently received mail.
const lookback = 24 * time.Hour

type Poller struct {
	mailbox   mailbox.Mailbox
	processor Processor
	cfg       *config.PollerConfig
	logger    *zap.Logger

	sem chan struct{}
	wg  sync.WaitGroup
}

func New(mb mailbox.Mailbox, processor Processor, cfg *config.PollerConfig, logger *zap.Logger) *Poller {
	if err := os.MkdirAll(cfg.IncomingDir, 0o755); err != nil {
		logger.Warn("Failed to create incoming directory", zap.Error(err))
	}

	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}

	return &Poller{
		mailbox:   mb,
		processor: processor,
		cfg:       cfg,
		logger:    logger,
		sem:       make(chan struct{}, workers),
	}
}

// Run alternates between Idle and Scanning until ctx is cancelled, then
// waits for in-flight pipeline work to finish. Scan failures never stop the
// loop; the next interval retries.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Inbox poller started",
		zap.Duration("interval", p.cfg.Interval),
		zap.Int("workers", cap(p.sem)),
	)

	for {
		p.Scan(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("Inbox poller stopping")
			p.wg.Wait()
			return
		case <-time.After(p.cfg.Interval):
		}
	}
}

// Scan performs one poll cycle.
func (p *Poller) Scan(ctx context.Context) {
	session, err := p.mailbox.Connect(ctx)
	if err != nil {
		p.logger.Error("Mailbox connection failed", zap.Error(err))
		return
	}
	defer session.Close()

	ids, err := session.SearchUnseen(time.Now().Add(-lookback))
	if err != nil {
		p.logger.Error("Mailbox search failed", zap.Error(err))
		return
	}

	p.logger.Info("Found unseen messages", zap.Int("count", len(ids)))

	for _, id := range ids {
		p.handleMessage(ctx, session, id)
	}
}

func (p *Poller) handleMessage(ctx context.Context, session mailbox.Session, id uint32) {
	raw, err := session.Fetch(id)
	if err != nil {
		p.logger.Error("Failed to fetch message", zap.Uint32("id", id), zap.Error(err))
		return
	}

	msg, err := mailbox.ParseMessage(raw, p.logger)
	if err != nil {
		p.logger.Warn("Unparseable message, marking seen and skipping",
			zap.Uint32("id", id),
			zap.Error(err),
		)
		if err := session.MarkSeen(id); err != nil {
			p.logger.Error("Failed to mark message as seen", zap.Uint32("id", id), zap.Error(err))
		}
		return
	}

	p.logger.Info("Processing message",
		zap.Uint32("id", id),
		zap.String("sender", msg.Sender),
		zap.String("subject", msg.Subject),
		zap.Int("pdf_attachments", len(msg.Attachments)),
	)

	for _, attachment := range msg.Attachments {
		path := filepath.Join(p.cfg.IncomingDir, filepath.Base(attachment.Filename))
		if err := os.WriteFile(path, attachment.Data, 0o644); err != nil {
			p.logger.Error("Failed to save attachment",
				zap.String("filename", attachment.Filename),
				zap.Error(err),
			)
			continue
		}
		p.submit(ctx, path, msg.Sender, msg.Subject)
	}

	// Mark seen before the pipeline finishes: at-most-once delivery, so a
	// crash mid-processing never re-delivers the same message forever.
	if err := session.MarkSeen(id); err != nil {
		p.logger.Error("Failed to mark message as seen", zap.Uint32("id", id), zap.Error(err))
	}
}

// submit queues one pipeline invocation. The semaphore bounds concurrency;
// queueing is unbounded. The job runs on a detached context: cancelling the
// run context stops the loop, not work already accepted, which would
// otherwise turn a live analysis into an error email mid-shutdown.
func (p *Poller) submit(ctx context.Context, path, sender, subject string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		p.processor.Process(context.WithoutCancel(ctx), path, sender, subject)
	}()
}

// Wait blocks until all submitted pipeline work has completed.
func (p *Poller) Wait() {
	p.wg.Wait()
}
