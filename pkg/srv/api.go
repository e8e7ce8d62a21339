/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// go-lwl API
//
// RESTful APIs to decode fault data captures
//
//	Schemes: http
//	Host: localhost:8000
//	Version: 1.0.0
//
//	Consumes:
//	- text/plain
//
//	Produces:
//	- application/json
//
// swagger:meta
package srv

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-lwl/pkg/capture"
	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/config"
	"jinr.ru/greenlab/go-lwl/pkg/decode"
	"jinr.ru/greenlab/go-lwl/pkg/log"
	"jinr.ru/greenlab/go-lwl/pkg/state"
)

const (
	// MaxCaptureSize is the largest request body accepted by /api/decode
	MaxCaptureSize = 16 << 20
	requestName    = "request"
	shutdownPeriod = 5 * time.Second
)

//go:embed swagger.json
var swaggerJSON []byte

// ReportStore keeps decoded reports. It is satisfied by *state.State.
type ReportStore interface {
	PutReport(v *decode.ReportView) error
	GetReport(id string) (*decode.ReportView, error)
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	catalog *catalog.Catalog
	decoder *decode.Decoder
	store   ReportStore
}

// NewApiServer checks the embedded API document and prepares the routes.
// Requests share cat and the decoder, each decode has its own session.
func NewApiServer(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, store ReportStore, opts ...decode.Option) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s", cfg.ApiEndpoint())
	if _, err := loads.Analyzed(swaggerJSON, ""); err != nil {
		return nil, ErrApiDocument{Err: err}
	}
	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		catalog: cat,
		decoder: decode.NewDecoder(cat, opts...),
		store:   store,
	}
	s.configureRouter()
	return s, nil
}

// Handler is the router wrapped with request logging and panic recovery.
func (s *ApiServer) Handler() http.Handler {
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.LoggingHandler(log.Writer(), s.Router))
}

// Run serves until the context is done.
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s", s.Config.ApiEndpoint())
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    s.Config.ApiEndpoint(),
	}
	go func() {
		<-s.Context.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("Error while shutting down API server: %s", err)
		}
	}()
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Decoded report
// swagger:response reportResp
type RespReport struct {
	// in:body
	Body decode.ReportView
}

// Error Bad Request
// swagger:response badReq
type ReqBadRequest struct {
	// in:body
	Body struct {
		// HTTP status code 400 -  Bad Request
		Code int `json:"code"`
	}
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation POST /decode decode decode
	// ---
	// summary: Decode a fault data capture and store the report
	// responses:
	//   "200":
	//     "$ref": "#/responses/reportResp"
	//   "400":
	//     "$ref": "#/responses/badReq"
	subRouter.HandleFunc("/decode", s.handleDecode()).Methods("POST")
	// swagger:operation GET /reports/{id} reports getReport
	// ---
	// summary: Return a stored report
	subRouter.HandleFunc("/reports/{id}", s.handleReport()).Methods("GET")
	// swagger:operation GET /catalog/messages catalog getMessages
	// ---
	// summary: Return the LWL message catalog
	subRouter.HandleFunc("/catalog/messages", s.handleMessages()).Methods("GET")

	s.Router.HandleFunc("/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(swaggerJSON)
	}).Methods("GET")
	s.Router.Handle("/docs", middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     "docs",
		SpecURL:  "/swagger.json",
		Title:    "go-lwl API",
	}, http.NotFoundHandler())).Methods("GET")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

func (s *ApiServer) handleDecode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling decode request")
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxCaptureSize))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var report *decode.Report
		if r.URL.Query().Get("dump") == "true" {
			dump, err := capture.LoadDump(bytes.NewReader(body), requestName)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			report, err = s.decoder.DecodeBuffer(dump.Data, dump.Put)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		} else {
			blob, err := capture.Load(bytes.NewReader(body), requestName)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			// a framing error is part of the report
			report, _ = s.decoder.Decode(blob)
		}

		v := report.View()
		v.ID = uuid.NewString()
		if s.store != nil {
			if err := s.store.PutReport(v); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		writeJSON(w, v)
	}
}

func (s *ApiServer) handleReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		log.Debug("Handling report request: %s", id)
		if s.store == nil {
			http.Error(w, ErrNoStore{}.Error(), http.StatusNotFound)
			return
		}
		v, err := s.store.GetReport(id)
		var notFound state.ErrReportNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, v)
	}
}

func (s *ApiServer) handleMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling catalog messages request")
		writeJSON(w, s.catalog.Messages.Descriptors())
	}
}
