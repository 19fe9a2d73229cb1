package controllers

import (
	"net/http"

	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/api/validators"
	"github.com/fruitify/fruitify-backend/internal/notify/telegram"
	"github.com/fruitify/fruitify-backend/pkg/logger"
)

type telegramTestRequest struct {
	Text string `json:"text" validate:"required"`
}

type telegramTestView struct {
	Success   bool    `json:"success"`
	Attempts  int     `json:"attempts"`
	ElapsedMs int64   `json:"elapsedMs"`
	Error     *string `json:"error,omitempty"`
}

// AdminTelegramLogs serves the delivery audit trail, newest first.
func AdminTelegramLogs(notifier *telegram.Notifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := notifier.RecentLogs(r.Context(), validators.QueryInt(r, "limit", 50))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]telegramLogView, 0, len(logs))
		for i := range logs {
			views = append(views, newTelegramLogView(&logs[i]))
		}
		responses.WriteSuccess(w, views)
	}
}

// AdminTelegramTest fires a one-off chat message through the full retry
// pipeline so operators can verify credentials without placing an order.
func AdminTelegramTest(notifier *telegram.Notifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req telegramTestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := notifier.SendTest(r.Context(), req.Text)
		view := telegramTestView{
			Success:   result.Success,
			Attempts:  result.Attempts,
			ElapsedMs: result.Elapsed.Milliseconds(),
		}
		if result.Err != nil {
			msg := result.Err.Error()
			view.Error = &msg
		}
		responses.WriteSuccess(w, view)
	}
}
