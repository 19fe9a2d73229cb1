package controllers

import (
	"net/http"

	"github.com/fruitify/fruitify-backend/api/responses"
	"github.com/fruitify/fruitify-backend/api/validators"
	"github.com/fruitify/fruitify-backend/internal/users"
	"github.com/fruitify/fruitify-backend/pkg/logger"
)

// AdminUserList serves the registered customer roster.
func AdminUserList(repo users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := repo.List(r.Context(), validators.QueryInt(r, "limit", 0))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]userView, 0, len(list))
		for i := range list {
			views = append(views, newUserView(&list[i]))
		}
		responses.WriteSuccess(w, views)
	}
}
