// Package handlers turns HTTP requests into commands and queries.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"docspace/application/commands/bus"
	querybus "docspace/application/queries/bus"
	"docspace/pkg/auth"
	"docspace/pkg/common"
	pkgerrors "docspace/pkg/errors"
	"docspace/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxJSONBody = 4 << 20

// base carries what every resource handler needs.
type base struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

func newBase(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *pkgerrors.ErrorHandler, logger *zap.Logger) base {
	return base{commandBus: commandBus, queryBus: queryBus, errors: errs, logger: logger}
}

// userID returns the authenticated caller or writes a 401.
func (b base) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		b.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return user.UserID, true
}

// decode reads a JSON body into v and validates its struct tags.
func (b base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			b.errors.Handle(w, r, pkgerrors.NewValidationError("request body is required"))
			return false
		}
		b.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body").WithCause(err))
		return false
	}
	if err := utils.ValidateStruct(v); err != nil {
		b.errors.Handle(w, r, err)
		return false
	}
	return true
}

func (b base) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) bool {
	if err := b.commandBus.Send(r.Context(), cmd); err != nil {
		b.errors.Handle(w, r, err)
		return false
	}
	return true
}

func (b base) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) (interface{}, bool) {
	result, err := b.queryBus.Ask(r.Context(), q)
	if err != nil {
		b.errors.Handle(w, r, err)
		return nil, false
	}
	return result, true
}

// respondQuery answers with the query result, or with the error it produced.
func (b base) respondQuery(w http.ResponseWriter, r *http.Request, status int, q querybus.Query) {
	result, ok := b.ask(w, r, q)
	if !ok {
		return
	}
	common.RespondJSON(w, status, result)
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
