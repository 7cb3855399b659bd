// Package gatewaysim is a sandbox stand-in for the payment gateway. It
// accepts checkout jobs, waits a moment as a real shopper would, then
// delivers a signed IPN confirmation to the merchant endpoint. Intended for
// local development and demos only.
package gatewaysim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nhatminh-dev/drinkstore/internal/vnpay"
)

type CheckoutJob struct {
	TxnRef string
	Amount int64
}

type Worker struct {
	ID         int
	WorkerPool chan chan CheckoutJob
	JobChannel chan CheckoutJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan CheckoutJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan CheckoutJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(CheckoutJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing checkout", "worker_id", w.ID, "txn_ref", job.TxnRef)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	IPNURL          string
	HashSecret      string
	TmnCode         string
	SuccessRate     float32
	CallbackTimeout time.Duration
	MaxWorkers      int
	JobQueueSize    int
}

type Simulator struct {
	ipnURL          string
	hashSecret      []byte
	tmnCode         string
	successRate     float32
	callbackTimeout time.Duration
	logger          *slog.Logger

	jobQueue   chan CheckoutJob
	workerPool chan chan CheckoutJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewSimulator(config Config, logger *slog.Logger) *Simulator {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	successRate := config.SuccessRate
	if successRate <= 0 || successRate > 1 {
		successRate = 0.9
	}

	callbackTimeout := config.CallbackTimeout
	if callbackTimeout <= 0 {
		callbackTimeout = 10 * time.Second
	}

	sim := &Simulator{
		ipnURL:          config.IPNURL,
		hashSecret:      []byte(config.HashSecret),
		tmnCode:         config.TmnCode,
		successRate:     successRate,
		callbackTimeout: callbackTimeout,
		logger:          logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan CheckoutJob, jobQueueSize),
		workerPool: make(chan chan CheckoutJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	sim.startWorkerPool()

	return sim
}

func (s *Simulator) startWorkerPool() {
	s.once.Do(func() {
		for i := 0; i < s.maxWorkers; i++ {
			worker := NewWorker(i, s.workerPool, s.logger)
			worker.Start(s.ctx, &s.wg, s.processCheckout)
		}

		s.wg.Add(1)
		go s.dispatch()

		s.logger.Info("gateway simulator worker pool started",
			"max_workers", s.maxWorkers,
			"queue_size", cap(s.jobQueue))
	})
}

func (s *Simulator) dispatch() {
	defer s.wg.Done()

	for {
		select {
		case job := <-s.jobQueue:
			select {
			case jobChannel := <-s.workerPool:
				select {
				case jobChannel <- job:

				case <-s.ctx.Done():
					s.logger.Info("dispatcher shutting down")
					return
				}
			case <-s.ctx.Done():
				s.logger.Info("dispatcher shutting down")
				return
			}
		case <-s.ctx.Done():
			s.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (s *Simulator) Shutdown() {
	s.logger.Info("shutting down gateway simulator")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("gateway simulator shutdown complete")
}

// EnqueueCheckout schedules a simulated shopper for the given payment
// attempt. Amount is in major currency units, matching the order total.
func (s *Simulator) EnqueueCheckout(txnRef string, amount int64) error {
	job := CheckoutJob{TxnRef: txnRef, Amount: amount}

	select {
	case s.jobQueue <- job:
		s.logger.Info("checkout queued",
			"txn_ref", txnRef,
			"amount", amount,
			"queue_length", len(s.jobQueue))
		return nil
	default:
		s.logger.Warn("checkout queue full",
			"txn_ref", txnRef,
			"queue_capacity", cap(s.jobQueue))
		return fmt.Errorf("checkout queue full, please try again later")
	}
}

func (s *Simulator) processCheckout(job CheckoutJob) {
	delay := time.Duration(1+rand.Intn(4)) * time.Second

	select {
	case <-time.After(delay):

	case <-s.ctx.Done():
		s.logger.Info("checkout cancelled", "txn_ref", job.TxnRef)
		return
	}

	responseCode := vnpay.ResponseCodeSuccess
	if rand.Float32() >= s.successRate {
		responseCode = "24"
		s.logger.Info("simulated shopper abandoned checkout",
			"txn_ref", job.TxnRef,
			"delay_seconds", delay.Seconds())
	} else {
		s.logger.Info("simulated shopper completed checkout",
			"txn_ref", job.TxnRef,
			"delay_seconds", delay.Seconds())
	}

	s.deliverIPN(job, responseCode)
}

// deliverIPN signs and sends the confirmation the way the real gateway
// does: every field under the vnp_ namespace, query-encoded, GET request.
func (s *Simulator) deliverIPN(job CheckoutJob, responseCode string) {
	select {
	case <-s.ctx.Done():
		s.logger.Info("IPN delivery cancelled", "txn_ref", job.TxnRef)
		return
	default:
	}

	now := time.Now()
	params := []vnpay.Param{
		{Key: vnpay.FieldAmount, Value: strconv.FormatInt(job.Amount*100, 10)},
		{Key: vnpay.FieldBankCode, Value: "NCB"},
		{Key: vnpay.FieldBankTranNo, Value: fmt.Sprintf("VNP%08d", rand.Intn(100000000))},
		{Key: vnpay.FieldCardType, Value: "ATM"},
		{Key: vnpay.FieldOrderInfo, Value: "Sandbox checkout " + job.TxnRef},
		{Key: vnpay.FieldPayDate, Value: vnpay.FormatTimestamp(now)},
		{Key: vnpay.FieldResponseCode, Value: responseCode},
		{Key: vnpay.FieldTmnCode, Value: s.tmnCode},
		{Key: vnpay.FieldTransactionNo, Value: strconv.Itoa(10000000 + rand.Intn(90000000))},
		{Key: vnpay.FieldTxnStatus, Value: responseCode},
		{Key: vnpay.FieldTxnRef, Value: job.TxnRef},
	}

	canonical := vnpay.Canonicalize(params)
	hash := vnpay.Sign(s.hashSecret, canonical)
	target := s.ipnURL + "?" + canonical + "&" + vnpay.FieldSecureHash + "=" + hash

	ctx, cancel := context.WithTimeout(s.ctx, s.callbackTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		s.logger.Error("failed to create IPN request", "error", err, "txn_ref", job.TxnRef)
		return
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		s.logger.Error("IPN delivery failed", "error", err, "txn_ref", job.TxnRef)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		s.logger.Info("IPN delivered",
			"txn_ref", job.TxnRef,
			"response_code", responseCode,
			"status_code", resp.StatusCode)
	} else {
		s.logger.Warn("IPN delivery rejected",
			"txn_ref", job.TxnRef,
			"status_code", resp.StatusCode)
	}
}
