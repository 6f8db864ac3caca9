package pipeline

import (
	"context"
	"sync"
	"time"

	inputredis "github.com/markotrapani/impact-score-calculator/internal/input/redis"
	"github.com/markotrapani/impact-score-calculator/internal/logger"
	"github.com/markotrapani/impact-score-calculator/internal/metrics"
	"github.com/markotrapani/impact-score-calculator/internal/rules"
	"github.com/markotrapani/impact-score-calculator/internal/scorestate"
	"github.com/markotrapani/impact-score-calculator/internal/scoring"
	"github.com/markotrapani/impact-score-calculator/internal/transform/ticketjson"
	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

// RedisScorePipeline consumes ticket payloads from Redis, scores them and
// writes batched results.
type RedisScorePipeline struct {
	consumer      *inputredis.Consumer
	engine        rules.Engine
	scorer        *scoring.Scorer
	writer        ResultWriter
	state         *scorestate.RedisStore
	baseOverrides models.Overrides
	workers       int
	batchSize     int
	flushInterval time.Duration
}

type scoreWorkItem struct {
	result *models.Result
}

// NewRedisScorePipeline creates a pipeline for streaming ticket scoring.
// state may be nil when score persistence is disabled.
func NewRedisScorePipeline(consumer *inputredis.Consumer, engine rules.Engine, scorer *scoring.Scorer, writer ResultWriter, state *scorestate.RedisStore, baseOverrides models.Overrides, workers, batchSize int, flushInterval time.Duration) *RedisScorePipeline {
	return &RedisScorePipeline{
		consumer:      consumer,
		engine:        engine,
		scorer:        scorer,
		writer:        writer,
		state:         state,
		baseOverrides: baseOverrides,
		workers:       workers,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Run starts the pipeline loop.
func (p *RedisScorePipeline) Run(ctx context.Context) error {
	logger.Infof("Redis score pipeline started")

	if p.workers <= 0 {
		p.workers = 4
	}
	if p.batchSize <= 0 {
		p.batchSize = 100
	}
	if p.flushInterval <= 0 {
		p.flushInterval = 2 * time.Second
	}

	msgCh := make(chan []byte, p.workers*4)
	workCh := make(chan scoreWorkItem, p.workers*4)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.readLoop(ctx, msgCh)
		close(msgCh)
	}()

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.workerLoop(msgCh, workCh)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.writeLoop(ctx, workCh)
	}()

	<-ctx.Done()
	close(workCh)
	wg.Wait()
	return ctx.Err()
}

// Close releases pipeline resources.
func (p *RedisScorePipeline) Close() error {
	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			logger.Errorf("Failed to close result writer: %v", err)
		}
	}
	if p.state != nil {
		if err := p.state.Close(); err != nil {
			logger.Errorf("Failed to close score state: %v", err)
		}
	}
	if p.consumer != nil {
		return p.consumer.Close()
	}
	return nil
}

func (p *RedisScorePipeline) readLoop(ctx context.Context, out chan<- []byte) {
	for {
		payload, err := p.consumer.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Errorf("Failed to pop redis message: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if payload == nil {
			continue
		}
		out <- payload
	}
}

func (p *RedisScorePipeline) workerLoop(in <-chan []byte, out chan<- scoreWorkItem) {
	for payload := range in {
		ticket, err := ticketjson.Parse(payload)
		if err != nil {
			metrics.ParseFailures.Inc()
			logger.Warnf("Failed to parse ticket payload: %v", err)
			continue
		}

		var tags []models.TicketTag
		if p.engine != nil {
			tags = p.engine.Apply(ticket)
		}
		overrides := ApplyTags(ticket, tags, p.baseOverrides)

		result := p.scorer.Evaluate(ticket, overrides)
		result.Tags = tags

		metrics.TicketsScored.WithLabelValues(result.PriorityLevel).Inc()
		metrics.FinalScores.Observe(result.FinalScore)

		out <- scoreWorkItem{result: result}
	}
}

func (p *RedisScorePipeline) writeLoop(ctx context.Context, in <-chan scoreWorkItem) {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	var batch []*models.Result

	flush := func() {
		if len(batch) == 0 {
			return
		}
		for {
			if err := p.writer.WriteResults(batch); err != nil {
				metrics.WriteFailures.Inc()
				logger.Errorf("Failed to write results: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(1 * time.Second):
				}
				continue
			}
			break
		}
		if p.state != nil {
			// State persistence is best effort; the results already reached
			// the primary writer.
			if err := p.state.WriteResults(batch); err != nil {
				logger.Errorf("Failed to update score state: %v", err)
			}
		}
		batch = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-ticker.C:
			flush()
		case item, ok := <-in:
			if !ok {
				flush()
				return
			}
			if item.result != nil {
				batch = append(batch, item.result)
			}
			if len(batch) >= p.batchSize {
				flush()
			}
		}
	}
}

// ApplyTags folds rule-engine tags into the ticket and its overrides: a
// managed-service tag disclaims SLA ownership and label tags append to the
// ticket labels.
func ApplyTags(ticket *models.Ticket, tags []models.TicketTag, base models.Overrides) models.Overrides {
	overrides := base
	for _, tag := range tags {
		if tag.Category == "managed-service" {
			overrides.ManagedServiceNoSLA = true
		}
		if tag.Label != "" && !ticket.HasLabel(tag.Label) {
			ticket.Labels = append(ticket.Labels, tag.Label)
		}
	}
	return overrides
}
