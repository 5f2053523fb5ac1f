package main

import (
	"net/http"

	"souq/internal/i18n"
)

// healthCheckHandler godoc
//
//	@Summary		Health check
//	@Description	Reports service status, environment and version
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/v1/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) rootRedirectHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/"+string(i18n.Default)+"/", http.StatusFound)
}
