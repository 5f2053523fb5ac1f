package main

import (
	"fmt"
	"net/http"
)

// createTokenHandler godoc
//
//	@Summary		Creates an admin token
//	@Description	Exchanges the admin's basic credentials for a bearer token
//	@Tags			authentication
//	@Produce		json
//	@Success		200	{object}	map[string]string	"token"
//	@Failure		401	{object}	error
//	@Failure		500	{object}	error
//	@Security		BasicAuth
//	@Router			/v1/authentication/token [post]
func (app *application) createTokenHandler(w http.ResponseWriter, r *http.Request) {
	user, pass, err := basicCredentials(r)
	if err != nil {
		app.unauthorizedBasicErrorResponse(w, r, err)
		return
	}
	if !app.checkAdmin(user, pass) {
		app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials for %q", user))
		return
	}

	token, err := app.authenticator.GenerateToken(user)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"token": token}); err != nil {
		app.internalServerError(w, r, err)
	}
}
