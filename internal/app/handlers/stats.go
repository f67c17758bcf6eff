package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/ghala/internal/service"
)

// StatsHandler обрабатывает GET /api/stats
func StatsHandler(log *slog.Logger, statsService service.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.StatsHandler"
		logger := log.With(slog.String("op", op))

		p, ok := principalFrom(w, r, logger)
		if !ok {
			return
		}

		stats, err := statsService.GetStats(r.Context(), p)
		if err != nil {
			writeError(w, logger, err, "failed to get stats")
			return
		}
		writeJSON(w, logger, http.StatusOK, stats)
	}
}
