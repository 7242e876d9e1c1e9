// Package httpin is the HTTP entry point: it adapts a raw request into the
// dispatch engine's terms and serializes the engine's result into the
// protocol's response shapes.
package httpin

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/botize/appserver/server/dispatch"
	"github.com/botize/appserver/server/incoming"
	"github.com/botize/appserver/utils"
	"github.com/botize/appserver/utils/httputils"
)

type Handler struct {
	Router *mux.Router

	dispatcher *dispatch.Service
	log        utils.Logger
	devMode    bool
}

func NewHandler(dispatcher *dispatch.Service, log utils.Logger, devMode bool) *Handler {
	h := &Handler{
		Router:     mux.NewRouter(),
		dispatcher: dispatcher,
		log:        log,
		devMode:    devMode,
	}

	h.Router.HandleFunc("/", h.handleCommand)
	h.Router.NotFoundHandler = http.NotFoundHandler()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Router.ServeHTTP(w, r)
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	req := incoming.NewRequest(r.Context(), h.log)

	defer func() {
		if x := recover(); x != nil {
			stack := string(debug.Stack())

			req.Log.Errorw(
				"Recovered from a panic in an HTTP handler",
				"url", r.URL.String(),
				"error", x,
				"stack", stack,
			)

			txt := "Paniced while handling the request. "
			if h.devMode {
				txt += fmt.Sprintf("Error: %v. Stack: %v", x, stack)
			} else {
				txt += "Please check the server logs for more details."
			}
			http.Error(w, txt, http.StatusInternalServerError)
		}
	}()

	if user, password, ok := r.BasicAuth(); ok {
		req = req.WithBasicAuth(user, password)
	}

	params, err := requestParams(r)
	if err != nil {
		httputils.WriteError(w, err)
		return
	}

	result, err := h.dispatcher.ProcessCommand(req, r.Method, params)
	if err != nil {
		h.writeCommandError(req, w, err)
		return
	}

	writeResult(w, result)
}

// requestParams extracts the command parameters: the query string for GET,
// the form body for POST.
func requestParams(r *http.Request) (url.Values, error) {
	switch r.Method {
	case http.MethodGet:
		return r.URL.Query(), nil

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			return nil, utils.NewInvalidError("failed to parse request parameters")
		}
		return r.PostForm, nil

	default:
		return nil, utils.NewInvalidError("Invalid HTTP verb")
	}
}

func (h *Handler) writeCommandError(req *incoming.Request, w http.ResponseWriter, err error) {
	var challenge *dispatch.AuthChallengeError
	if errors.As(err, &challenge) {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", challenge.Realm))
		http.Error(w, challenge.Error(), http.StatusUnauthorized)
		return
	}

	status := httputils.ErrorToStatus(err)
	if status == http.StatusInternalServerError {
		req.Log.WithError(err).Errorw("command failed")
	} else {
		req.Log.WithError(err).Debugw("command rejected")
	}
	httputils.WriteError(w, err)
}
