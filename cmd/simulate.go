package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhatminh-dev/drinkstore/internal/gatewaysim"
	"github.com/nhatminh-dev/drinkstore/pkg/logger"
)

var (
	simTxnRef string
	simAmount int64
	simWait   time.Duration
)

// simulateCmd plays the gateway's part against a running server: it signs
// an IPN confirmation with the configured secret and delivers it to the
// local IPN endpoint. Sandbox use only.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Deliver a simulated gateway confirmation",
	Long:  `Sign and deliver a sandbox IPN confirmation for a payment attempt to the local server.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		if simTxnRef == "" || simAmount <= 0 {
			log.Fatal("both --txn-ref and a positive --amount are required")
		}

		logger.Init(cfg.Observability.Logging.Format)

		sim := gatewaysim.NewSimulator(gatewaysim.Config{
			IPNURL:     cfg.Server.BaseURL + "/api/v1/payments/ipn",
			HashSecret: cfg.VNPay.HashSecret,
			TmnCode:    cfg.VNPay.TmnCode,
		}, logger.LoggerWrapper())

		if err := sim.EnqueueCheckout(simTxnRef, simAmount); err != nil {
			log.Fatalf("failed to queue checkout: %v", err)
		}

		fmt.Printf("simulated checkout queued for %s, waiting up to %s for delivery\n", simTxnRef, simWait)
		time.Sleep(simWait)
		sim.Shutdown()
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simTxnRef, "txn-ref", "", "transaction reference from a created payment URL")
	simulateCmd.Flags().Int64Var(&simAmount, "amount", 0, "order total in VND major units")
	simulateCmd.Flags().DurationVar(&simWait, "wait", 10*time.Second, "how long to wait for the confirmation to be delivered")
}
