package services

import (
	"context"
	"log/slog"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/middleware"
)

// loggingMovementNotifier emits a structured log line for every recorded
// movement. Read layers that cache balances can swap in their own notifier.
type loggingMovementNotifier struct{}

// NewLoggingMovementNotifier creates the default MovementNotifier.
func NewLoggingMovementNotifier() portssvc.MovementNotifier {
	return &loggingMovementNotifier{}
}

var _ portssvc.MovementNotifier = (*loggingMovementNotifier)(nil)

func (n *loggingMovementNotifier) MovementRecorded(ctx context.Context, movement domain.Movement) {
	logger := middleware.GetLoggerFromCtx(ctx)
	attrs := []any{
		slog.String("movement_id", movement.MovementID),
		slog.String("type", string(movement.Type)),
		slog.String("amount", movement.Amount.String()),
		slog.String("currency", string(movement.Currency)),
	}
	if movement.SourceAccountID != nil {
		attrs = append(attrs, slog.String("source_account_id", *movement.SourceAccountID))
	}
	if movement.DestinationAccountID != nil {
		attrs = append(attrs, slog.String("destination_account_id", *movement.DestinationAccountID))
	}
	logger.Info("Movement recorded", attrs...)
}
