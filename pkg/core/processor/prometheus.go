package processor

import (
	"github.com/hellochain/hello-go/pkg/core/programerr"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring service.
var (
	// processedInstructions prometheus metric.
	processedInstructions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of processed instructions by type and result",
			Name:      "processed_instructions_total",
			Namespace: "hellogo",
		},
		[]string{"instruction", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		processedInstructions,
	)
}

func updateProcessedMetric(ins string, err error) {
	processedInstructions.WithLabelValues(ins, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch programerr.Code(err) {
	case programerr.CodeOK:
		return "ok"
	case programerr.CodeInvalidInstruction:
		return "invalid_instruction"
	case programerr.CodeInvalidEncoding:
		return "invalid_encoding"
	case programerr.CodeMissingRequiredSignature:
		return "missing_signature"
	case programerr.CodeBufferSizeMismatch:
		return "buffer_size_mismatch"
	case programerr.CodeMessageTooLong:
		return "message_too_long"
	case programerr.CodeNotEnoughAccountKeys:
		return "not_enough_accounts"
	case programerr.CodeArithmeticOverflow:
		return "overflow"
	case programerr.CodeAccountAliased:
		return "account_aliased"
	default:
		return "error"
	}
}
