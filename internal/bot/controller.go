// ABOUTME: The posting-cycle controller: an explicit state machine driving one
// ABOUTME: gate-generate-filter-publish-persist-sleep iteration, looping until cancelled.
package bot

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/hoshiko-bot/hoshiko/internal/clock"
	"github.com/hoshiko-bot/hoshiko/internal/config"
	"github.com/hoshiko-bot/hoshiko/internal/content"
	"github.com/hoshiko-bot/hoshiko/internal/dedupe"
	"github.com/hoshiko-bot/hoshiko/internal/gate"
	"github.com/hoshiko-bot/hoshiko/internal/models"
	"github.com/hoshiko-bot/hoshiko/internal/publish"
	"github.com/hoshiko-bot/hoshiko/internal/storage"
)

// State names one phase of the posting cycle.
type State int

const (
	StateIdle State = iota
	StateGating
	StateGenerating
	StateFiltering
	StatePublishing
	StatePersisting
	StateSleeping
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGating:
		return "gating"
	case StateGenerating:
		return "generating"
	case StateFiltering:
		return "filtering"
	case StatePublishing:
		return "publishing"
	case StatePersisting:
		return "persisting"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// SkipReason distinguishes why a cycle ended without a post. Skips are
// expected conditions, not errors; none of them ever stops the loop.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipQuietHours    SkipReason = "quiet_hours"
	SkipRateLimited   SkipReason = "rate_limited"
	SkipNoContent     SkipReason = "no_content"
	SkipDuplicate     SkipReason = "duplicate"
	SkipPublishFailed SkipReason = "publish_failed"
	// SkipStorageError marks a cycle whose publish succeeded but whose state
	// writes failed. The post happened, so Posted stays true; the reason is
	// surfaced so operators notice the durable state is behind.
	SkipStorageError SkipReason = "storage_error"
)

// Outcome summarizes one completed cycle.
type Outcome struct {
	Posted   bool
	Skip     SkipReason
	PostID   string
	Text     string
	Category models.Category
}

// Status is a read-only snapshot served by the status API.
type Status struct {
	State           string                    `json:"state"`
	Cycle           int                       `json:"cycle"`
	Simulation      bool                      `json:"simulation"`
	MonthKey        string                    `json:"month_key"`
	MonthCount      int                       `json:"month_count"`
	MonthCeiling    int                       `json:"month_ceiling"`
	TotalPosts      int                       `json:"total_posts"`
	PostsByCategory map[models.Category]int   `json:"posts_by_category"`
	LastPostTime    *time.Time                `json:"last_post_time,omitempty"`
	LastSkipReason  string                    `json:"last_skip_reason,omitempty"`
}

// Controller owns the single references to all durable state and runs the
// posting loop. One cycle fully completes or is skipped before the next
// begins; only the status snapshot is shared with other goroutines.
type Controller struct {
	cfg       *config.Config
	store     *storage.Store
	filter    *dedupe.Filter
	limiter   *gate.RateLimiter
	generator content.Generator
	news      *content.NewsClient
	publisher publish.Publisher
	analytics models.Analytics
	logger    *slog.Logger

	rng     *rand.Rand
	clock   clock.Clock
	sleepFn func(ctx context.Context, d time.Duration) error // overridable for testing

	mu     sync.Mutex // guards status only
	status Status
}

// New wires a controller from its collaborators. news may be nil when no
// headline source is configured. The clock should be the same one given to
// the rate limiter and news client so all time decisions agree; nil uses the
// system clock.
func New(
	cfg *config.Config,
	store *storage.Store,
	filter *dedupe.Filter,
	limiter *gate.RateLimiter,
	generator content.Generator,
	news *content.NewsClient,
	publisher publish.Publisher,
	analytics models.Analytics,
	clk clock.Clock,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.System
	}
	c := &Controller{
		cfg:       cfg,
		store:     store,
		filter:    filter,
		limiter:   limiter,
		generator: generator,
		news:      news,
		publisher: publisher,
		analytics: analytics,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:     clk,
		sleepFn:   sleepCtx,
	}
	c.refreshStatus(StateIdle, 0, Outcome{})
	return c
}

// Run executes cycles forever, sleeping the configured interval between
// them, until the context is cancelled. Per-cycle failures never abort the
// loop.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("posting agent starting",
		"personality", c.cfg.PersonalityMode,
		"interval", c.cfg.Interval(),
		"monthly_ceiling", c.cfg.MaxPostsPerMonth,
		"simulation", c.cfg.SimulationMode,
	)
	if c.cfg.QuietHoursStart != c.cfg.QuietHoursEnd {
		c.logger.Info("quiet hours enabled",
			"start", c.cfg.QuietHoursStart, "end", c.cfg.QuietHoursEnd)
	}

	cycle := 0
	for {
		cycle++
		outcome := c.runCycle(ctx, cycle)
		if ctx.Err() != nil {
			c.logger.Info("shutting down")
			return nil
		}
		if outcome.Posted {
			c.logger.Info("cycle posted",
				"cycle", cycle, "post_id", outcome.PostID, "category", outcome.Category)
		} else {
			c.logger.Debug("cycle skipped", "cycle", cycle, "reason", outcome.Skip)
		}

		if err := c.sleepFn(ctx, c.cfg.Interval()); err != nil {
			c.logger.Info("shutting down")
			return nil
		}
	}
}

// RunOnce executes a single cycle immediately; used by the one-shot command.
func (c *Controller) RunOnce(ctx context.Context) Outcome {
	return c.runCycle(ctx, 1)
}

// Status returns the latest snapshot for the status API.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// cycleData carries in-flight candidate state between machine states.
type cycleData struct {
	category models.Category
	prompt   string
	imageB64 string
	post     *models.Post
	outcome  Outcome
}

// runCycle drives the state machine Gating → Generating → Filtering →
// Publishing → Persisting → Sleeping. Every skip path jumps straight to
// Sleeping with a reason.
func (c *Controller) runCycle(ctx context.Context, cycle int) Outcome {
	data := &cycleData{}
	state := StateGating

	for {
		c.refreshStatus(state, cycle, data.outcome)
		switch state {
		case StateGating:
			state = c.stepGating(data)
		case StateGenerating:
			state = c.stepGenerating(ctx, data)
		case StateFiltering:
			state = c.stepFiltering(data)
		case StatePublishing:
			state = c.stepPublishing(ctx, data)
		case StatePersisting:
			state = c.stepPersisting(data)
		case StateSleeping:
			return data.outcome
		}
	}
}

// stepGating checks quiet hours first, then the monthly cap. The order is
// fixed so simultaneous denials always report quiet hours.
func (c *Controller) stepGating(data *cycleData) State {
	now := c.clock()
	if gate.IsQuiet(c.cfg.QuietHoursStart, c.cfg.QuietHoursEnd, now.Hour()) {
		c.logger.Debug("in quiet hours, skipping", "hour", now.Hour())
		data.outcome.Skip = SkipQuietHours
		return StateSleeping
	}
	if !c.limiter.TryReserve() {
		counter := c.limiter.Counter()
		c.logger.Warn("monthly limit reached",
			"count", counter.Count, "ceiling", c.limiter.Ceiling())
		data.outcome.Skip = SkipRateLimited
		return StateSleeping
	}
	return StateGenerating
}

// stepGenerating picks a category and prompt, optionally attaches an image,
// and asks the content source for a candidate. No usable content is a skip,
// not a failure.
func (c *Controller) stepGenerating(ctx context.Context, data *cycleData) State {
	data.category = content.PickCategory(c.rng, c.news != nil)
	if data.category == models.CategoryNews {
		headline, err := c.news.TopHeadline(ctx, c.rng)
		if err != nil {
			c.logger.Warn("headline fetch failed, using creative prompt", "error", err)
			data.category = content.PickCategory(c.rng, false)
			data.prompt = content.PickPrompt(c.rng, data.category)
		} else {
			data.prompt = content.HeadlinePrompt(headline)
		}
	} else {
		data.prompt = content.PickPrompt(c.rng, data.category)
	}

	imagePath, imageB64, err := content.PickRandomImage(c.cfg.ImageFolder, c.cfg.MaxImageSize, c.rng)
	if err != nil {
		c.logger.Warn("image selection failed", "error", err)
	}
	data.imageB64 = imageB64

	text, err := c.generator.Generate(ctx, content.Request{
		Category: data.category,
		Prompt:   data.prompt,
		ImageB64: data.imageB64,
	})
	if err != nil {
		c.logger.Warn("content generation failed", "error", err)
		data.outcome.Skip = SkipNoContent
		return StateSleeping
	}
	if text == "" {
		c.logger.Debug("no text generated")
		data.outcome.Skip = SkipNoContent
		return StateSleeping
	}

	data.post = models.NewPost(text, data.category, imagePath, c.clock())
	return StateFiltering
}

// stepFiltering rejects candidates too similar to recent history. The
// rejected candidate is never published or persisted. Hashtag decoration
// happens after the similarity check so tags never mask a duplicate.
func (c *Controller) stepFiltering(data *cycleData) State {
	if match := c.filter.Check(data.post.Text); match != nil {
		c.logger.Info("candidate too similar to history, skipping",
			"similarity", match.Similarity)
		data.outcome.Skip = SkipDuplicate
		return StateSleeping
	}
	data.post.Text = content.MaybeHashtag(c.rng, data.post.Text, data.category, c.cfg.UseHashtags)
	return StatePublishing
}

// stepPublishing hands the post to the publisher. Failure mutates nothing:
// memory, counter, and analytics stay exactly as they were.
func (c *Controller) stepPublishing(ctx context.Context, data *cycleData) State {
	id, err := c.publisher.Publish(ctx, data.post)
	if err != nil {
		c.logger.Warn("publish failed", "error", err)
		data.outcome.Skip = SkipPublishFailed
		return StateSleeping
	}
	data.outcome.PostID = id
	return StatePersisting
}

// stepPersisting advances all durable state for a confirmed publish: the
// memory window, the monthly counter, and analytics, each flushed to disk.
// A write failure is logged and reported as storage_error, but the publish
// already happened, so the cycle still counts as posted.
func (c *Controller) stepPersisting(data *cycleData) State {
	now := c.clock()
	rec := models.NewPostRecord(data.post.Text, data.category, c.cfg.PersonalityMode, now)
	c.filter.Remember(rec)
	counter := c.limiter.Confirm()
	c.analytics.RecordPost(data.category, now)

	if err := c.store.SaveMemory(c.filter.Records()); err != nil {
		c.logger.Warn("failed to persist memory", "error", err)
		data.outcome.Skip = SkipStorageError
	}
	if err := c.store.SaveCounter(counter); err != nil {
		c.logger.Warn("failed to persist counter", "error", err)
		data.outcome.Skip = SkipStorageError
	}
	if err := c.store.SaveAnalytics(c.analytics); err != nil {
		c.logger.Warn("failed to persist analytics", "error", err)
		data.outcome.Skip = SkipStorageError
	}

	data.outcome.Posted = true
	data.outcome.Text = data.post.Text
	data.outcome.Category = data.category
	return StateSleeping
}

// refreshStatus publishes a snapshot for concurrent readers.
func (c *Controller) refreshStatus(state State, cycle int, outcome Outcome) {
	counter := c.limiter.Counter()
	byCategory := make(map[models.Category]int, len(c.analytics.PostsByCategory))
	for k, v := range c.analytics.PostsByCategory {
		byCategory[k] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = Status{
		State:           state.String(),
		Cycle:           cycle,
		Simulation:      c.cfg.SimulationMode,
		MonthKey:        counter.MonthKey,
		MonthCount:      counter.Count,
		MonthCeiling:    c.limiter.Ceiling(),
		TotalPosts:      c.analytics.TotalPosts,
		PostsByCategory: byCategory,
		LastPostTime:    c.analytics.LastPostTime,
		LastSkipReason:  string(outcome.Skip),
	}
}

// sleepCtx waits for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
