package graphql

import (
	"encoding/json"
	"net/http"

	"yatube/pkg/logger"

	"github.com/graphql-go/graphql"
)

// Handler serves POST /query. The caller identity comes from the request
// context, so it must run behind the session middleware.
type Handler struct {
	schema graphql.Schema
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func NewHandler(r *Resolver) (*Handler, error) {
	schema, err := NewSchema(r)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debug("decode graphql request", "error", err)
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	res := graphql.Do(graphql.Params{
		Context:        r.Context(),
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
	})
	if res.HasErrors() {
		log.Info("graphql request finished with errors", "errors", len(res.Errors))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error("encode graphql response", "error", err)
	}
}
