package queue

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Worker runs Asynq task handlers (receipt and welcome email, event publish).
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
	log zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, h *Handlers, concurrency int, log zerolog.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 2
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		LogLevel:    asynq.InfoLevel,
		Queues:      map[string]int{"default": 1},
	})
	return &Worker{srv: srv, mux: newMux(h), log: log}
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	w.log.Info().Msg("task worker started")
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
