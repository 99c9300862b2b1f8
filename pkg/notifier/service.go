package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/notify/pkg/async"
	"github.com/campuskit/notify/pkg/channel"
	"github.com/campuskit/notify/pkg/delivery"
	"github.com/campuskit/notify/pkg/logger"
	"github.com/campuskit/notify/pkg/notification"
	"github.com/campuskit/notify/pkg/preferences"
	"github.com/campuskit/notify/pkg/scheduler"
	"github.com/campuskit/notify/pkg/template"
)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithScheduler enables scheduled sends.
func WithScheduler(s *scheduler.Scheduler) ServiceOption {
	return func(svc *Service) { svc.scheduler = s }
}

// WithDeduper sets the dedup backend. Defaults to in-process.
func WithDeduper(d delivery.Deduper) ServiceOption {
	return func(svc *Service) { svc.deduper = d }
}

// WithDedupWindow sets how long repeat templated sends are suppressed.
func WithDedupWindow(w time.Duration) ServiceOption {
	return func(svc *Service) {
		if w > 0 {
			svc.dedupWindow = w
		}
	}
}

// WithSendTimeout bounds each adapter call.
func WithSendTimeout(d time.Duration) ServiceOption {
	return func(svc *Service) {
		if d > 0 {
			svc.sendTimeout = d
		}
	}
}

// WithRetryBackoff sets the base delay for retry backoff; attempt n waits
// base * 2^(n-1).
func WithRetryBackoff(base time.Duration) ServiceOption {
	return func(svc *Service) {
		if base > 0 {
			svc.retryBase = base
		}
	}
}

// WithPool sets the worker pool for background dispatch.
func WithPool(p *Pool) ServiceOption {
	return func(svc *Service) {
		if p != nil {
			svc.pool = p
		}
	}
}

// WithServiceLogger sets the logger.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(svc *Service) { svc.log = log }
}

// WithServiceClock overrides the time source, used in tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(svc *Service) { svc.now = now }
}

// Service is the send pipeline: it renders content, resolves preferences
// per recipient, fans out to channel adapters, and records every outcome.
// High priority and above dispatches synchronously; everything else goes
// through the worker pool.
type Service struct {
	notifications notification.Storage
	templates     template.Storage
	renderer      *template.Renderer
	resolver      *preferences.Resolver
	registry      *channel.Registry
	tracker       *delivery.Tracker
	deduper       delivery.Deduper
	directory     RecipientDirectory
	scheduler     *scheduler.Scheduler
	pool          *Pool

	dedupWindow time.Duration
	sendTimeout time.Duration
	retryBase   time.Duration
	now         func() time.Time
	log         *slog.Logger
}

// NewService assembles the send pipeline.
func NewService(
	notifications notification.Storage,
	templates template.Storage,
	resolver *preferences.Resolver,
	registry *channel.Registry,
	tracker *delivery.Tracker,
	directory RecipientDirectory,
	opts ...ServiceOption,
) *Service {
	svc := &Service{
		notifications: notifications,
		templates:     templates,
		renderer:      template.NewRenderer(),
		resolver:      resolver,
		registry:      registry,
		tracker:       tracker,
		deduper:       delivery.NewMemoryDeduper(),
		directory:     directory,
		pool:          NewPool(8),
		dedupWindow:   delivery.DefaultDedupWindow,
		sendTimeout:   15 * time.Second,
		retryBase:     30 * time.Second,
		now:           time.Now,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Pool exposes the worker pool for shutdown.
func (s *Service) Pool() *Pool { return s.pool }

// Send validates a request, persists the notification, and either
// dispatches it now or hands it to the scheduler.
func (s *Service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if len(req.RecipientIDs) == 0 {
		return nil, ErrNoRecipients
	}

	recipients, err := s.directory.Lookup(ctx, req.RecipientIDs)
	if err != nil {
		return nil, err
	}

	n, missing, err := s.buildNotification(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, *n); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}

	result := &SendResult{NotificationID: n.ID, MissingVariables: missing}

	if n.ScheduledAt != nil && n.ScheduledAt.After(s.now()) {
		if s.scheduler == nil {
			return nil, ErrSchedulingUnavailable
		}
		job, err := s.scheduler.Schedule(ctx, *n, recipients, req.Recurrence, req.Every)
		if err != nil {
			return nil, err
		}
		result.Scheduled = true
		result.JobID = &job.ID
		return result, nil
	}

	// Anything below high priority can wait its turn; the rest blocks the
	// caller until every channel was tried once.
	if n.Priority.AtLeast(notification.PriorityHigh) {
		if err := s.Dispatch(ctx, n, recipients); err != nil {
			return nil, err
		}
		result.Dispatched = true
		if history, err := s.tracker.History(ctx, n.ID); err == nil {
			result.Statuses = statusMap(history)
		}
		return result, nil
	}

	dispatch := *n
	if err := s.pool.Submit(func(poolCtx context.Context) {
		if err := s.Dispatch(poolCtx, &dispatch, recipients); err != nil {
			s.log.LogAttrs(poolCtx, slog.LevelError, "background dispatch failed",
				logger.NotificationID(dispatch.ID), logger.Error(err))
		}
	}); err != nil {
		return nil, err
	}
	result.Queued = true
	return result, nil
}

// FireJob dispatches a scheduled job; wired as the scheduler's FireFunc.
// Recurring jobs mint a fresh notification per occurrence so every firing
// gets its own attempt rows instead of colliding with the previous run's.
// The scheduler's claim already guarantees single firing, so this path does
// not consult the dedup window.
func (s *Service) FireJob(ctx context.Context, job scheduler.Job) error {
	n := job.Notification
	if job.Recurring() {
		n.ID = uuid.New()
		n.IsSent = false
		n.SentAt = nil
		n.CreatedAt = s.now()
		if err := s.notifications.Create(ctx, n); err != nil {
			return fmt.Errorf("store occurrence: %w", err)
		}
	}
	return s.dispatch(ctx, &n, job.Recipients, false)
}

// buildNotification turns a request into a persisted-shape notification,
// rendering templates and applying template defaults.
func (s *Service) buildNotification(ctx context.Context, req SendRequest) (*notification.Notification, []string, error) {
	n := &notification.Notification{
		ID:          uuid.New(),
		TemplateID:  req.TemplateID,
		Title:       req.Title,
		Body:        req.Body,
		HTML:        req.HTML,
		Category:    req.Category,
		Priority:    req.Priority,
		Channels:    req.Channels,
		ScheduledAt: req.ScheduledAt,
		ExpiresAt:   req.ExpiresAt,
		Metadata:    req.Metadata,
		CreatedAt:   s.now(),
	}

	var missing []string
	if req.TemplateID != "" {
		tpl, err := s.templates.Get(ctx, req.TemplateID)
		if err != nil {
			return nil, nil, err
		}

		var content notification.Content
		content, missing = s.renderer.Render(tpl, req.Variables, "")
		n.Title = content.Title
		n.Body = content.Body
		n.HTML = content.HTML

		if n.Category == "" {
			n.Category = tpl.Category
		}
		if n.Priority == "" {
			n.Priority = tpl.DefaultPriority
		}
		if len(n.Channels) == 0 {
			n.Channels = append([]notification.Channel(nil), tpl.DefaultChannels...)
		}

		// Keep the variables with the record so localized variants can be
		// re-rendered at dispatch time.
		if len(req.Variables) > 0 {
			if n.Metadata == nil {
				n.Metadata = make(map[string]any, len(req.Variables))
			}
			for k, v := range req.Variables {
				if _, exists := n.Metadata[k]; !exists {
					n.Metadata[k] = v
				}
			}
		}
	} else if n.Title == "" && n.Body == "" {
		return nil, nil, ErrNoContent
	}

	if n.Category == "" {
		n.Category = notification.CategorySystem
	}
	if n.Priority == "" {
		n.Priority = notification.PriorityNormal
	}

	if !n.Category.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidCategory, n.Category)
	}
	if !n.Priority.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidPriority, n.Priority)
	}
	if len(n.Channels) == 0 {
		return nil, nil, ErrNoChannels
	}
	for _, ch := range n.Channels {
		if !ch.Valid() {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidChannel, ch)
		}
	}
	return n, missing, nil
}

// Dispatch fans a notification out to its recipients and records every
// outcome. It returns once each (recipient, channel) pair was tried once;
// retries continue in the pool.
func (s *Service) Dispatch(ctx context.Context, n *notification.Notification, recipients []notification.Recipient) error {
	return s.dispatch(ctx, n, recipients, true)
}

func (s *Service) dispatch(ctx context.Context, n *notification.Notification, recipients []notification.Recipient, dedup bool) error {
	now := s.now()

	if n.IsExpired(now) {
		for _, rec := range recipients {
			for _, ch := range n.Channels {
				if err := s.tracker.Audit(ctx, n, rec.ID, ch, delivery.StatusSkipped, "expired"); err != nil {
					s.log.LogAttrs(ctx, slog.LevelError, "failed to record expired skip",
						logger.NotificationID(n.ID), logger.Error(err))
				}
			}
		}
		return nil
	}

	for _, rec := range recipients {
		if err := s.dispatchRecipient(ctx, n, rec, dedup); err != nil {
			return err
		}
	}

	if err := s.notifications.MarkSent(ctx, n.ID, s.now()); err != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "failed to mark notification sent",
			logger.NotificationID(n.ID), logger.Error(err))
	}
	return nil
}

func (s *Service) dispatchRecipient(ctx context.Context, n *notification.Notification, rec notification.Recipient, dedup bool) error {
	if dedup && n.TemplateID != "" && s.deduper != nil {
		ok, err := s.deduper.Claim(ctx, delivery.DedupKey(n.TemplateID, rec.ID), s.dedupWindow)
		if err != nil {
			return fmt.Errorf("dedup claim: %w", err)
		}
		if !ok {
			for _, ch := range n.Channels {
				if err := s.tracker.Audit(ctx, n, rec.ID, ch, delivery.StatusSkipped, "duplicate within window"); err != nil {
					return err
				}
			}
			s.log.LogAttrs(ctx, slog.LevelDebug, "duplicate notification suppressed",
				logger.NotificationID(n.ID),
				logger.RecipientID(rec.ID),
				logger.TemplateID(n.TemplateID),
			)
			return nil
		}
	}

	res, err := s.resolver.Resolve(ctx, n, rec)
	if err != nil {
		return fmt.Errorf("resolve preferences: %w", err)
	}

	for ch, reason := range res.Filtered {
		if err := s.tracker.Audit(ctx, n, rec.ID, ch, delivery.StatusSuppressed, string(reason)); err != nil {
			return err
		}
	}

	content := s.contentFor(ctx, n, rec)

	futures := make([]*async.Future[struct{}], 0, len(res.Effective))
	for _, ch := range res.Effective {
		futures = append(futures, async.Go(ctx, ch, func(ctx context.Context, ch notification.Channel) (struct{}, error) {
			s.sendChannel(ctx, n, rec, content, ch)
			return struct{}{}, nil
		}))
	}
	_, _ = async.WaitAll(futures...)
	return nil
}

// contentFor localizes templated content for recipients with a language
// preference; everyone else gets the notification's stored rendering.
func (s *Service) contentFor(ctx context.Context, n *notification.Notification, rec notification.Recipient) notification.Content {
	content := n.Content()
	if n.TemplateID == "" || rec.Language == "" {
		return content
	}

	tpl, err := s.templates.Get(ctx, n.TemplateID)
	if err != nil {
		return content
	}

	localized, _ := s.renderer.Render(tpl, variablesFromMetadata(n.Metadata), rec.Language)
	content.Title = localized.Title
	content.Body = localized.Body
	content.HTML = localized.HTML
	return content
}

func (s *Service) sendChannel(ctx context.Context, n *notification.Notification, rec notification.Recipient, content notification.Content, ch notification.Channel) {
	adapter, err := s.registry.Adapter(ch)
	if err != nil {
		if auditErr := s.tracker.Audit(ctx, n, rec.ID, ch, delivery.StatusSkipped, "no adapter configured"); auditErr != nil {
			s.log.LogAttrs(ctx, slog.LevelError, "failed to record skipped channel",
				logger.NotificationID(n.ID), logger.Error(auditErr))
		}
		return
	}

	attempt, err := s.tracker.Begin(ctx, n, rec.ID, ch)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "failed to open delivery attempt",
			logger.NotificationID(n.ID), logger.Channel(string(ch)), logger.Error(err))
		return
	}

	s.attemptSend(ctx, attempt.ID, adapter, rec, content)
}

// attemptSend runs one wire call and records the outcome. Retryable
// failures with budget left re-enter through the pool with exponential
// backoff; permanent ones are recorded as bounced.
func (s *Service) attemptSend(ctx context.Context, attemptID uuid.UUID, adapter channel.Adapter, rec notification.Recipient, content notification.Content) {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	result, err := adapter.Send(sendCtx, rec, content)
	cancel()

	if err == nil {
		if _, err := s.tracker.Succeed(ctx, attemptID, result.ProviderRef); err != nil {
			s.log.LogAttrs(ctx, slog.LevelError, "failed to record sent attempt", logger.Error(err))
		}
		return
	}

	if !channel.IsRetryable(err) {
		if _, bounceErr := s.tracker.Bounce(ctx, attemptID, err.Error()); bounceErr != nil {
			s.log.LogAttrs(ctx, slog.LevelError, "failed to record bounced attempt", logger.Error(bounceErr))
		}
		return
	}

	attempt, retry, failErr := s.tracker.Fail(ctx, attemptID, err.Error())
	if failErr != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "failed to record failed attempt", logger.Error(failErr))
		return
	}
	if !retry {
		return
	}

	delay := s.retryBase << (attempt.AttemptCount - 1)
	if submitErr := s.pool.SubmitAfter(delay, func(poolCtx context.Context) {
		s.attemptSend(poolCtx, attemptID, adapter, rec, content)
	}); submitErr != nil {
		s.log.LogAttrs(ctx, slog.LevelWarn, "retry dropped, pool stopped",
			logger.AttemptCount(attempt.AttemptCount), logger.Error(submitErr))
	}
}

// statusMap folds attempt rows into the per-recipient per-channel shape
// the send result reports.
func statusMap(attempts []delivery.Attempt) map[string]map[notification.Channel]delivery.Status {
	if len(attempts) == 0 {
		return nil
	}
	out := make(map[string]map[notification.Channel]delivery.Status)
	for _, a := range attempts {
		byChannel, ok := out[a.RecipientID]
		if !ok {
			byChannel = make(map[notification.Channel]delivery.Status)
			out[a.RecipientID] = byChannel
		}
		byChannel[a.Channel] = a.Status
	}
	return out
}

// variablesFromMetadata recovers string variables for re-rendering a
// localized variant. Non-string metadata values are formatted.
func variablesFromMetadata(metadata map[string]any) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	vars := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if str, ok := v.(string); ok {
			vars[k] = str
			continue
		}
		vars[k] = fmt.Sprint(v)
	}
	return vars
}
