package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neogenz/pulpe-sub001/internal/editable"
)

type createRec struct {
	Name string `json:"name"`
}

type updateRec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// fakeAPI records the last bulk request it received.
type fakeAPI struct {
	ownerID string
	auth    string
	body    map[string]json.RawMessage
	decoded Request[createRec, updateRec]
}

func newServer(t *testing.T, api *fakeAPI, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/budgets/{ownerID}/lines/bulk-operations", func(w http.ResponseWriter, req *http.Request) {
		api.ownerID = chi.URLParam(req, "ownerID")
		api.auth = req.Header.Get("Authorization")
		var raw map[string]json.RawMessage
		dec := json.NewDecoder(req.Body)
		assert.NoError(t, dec.Decode(&raw))
		api.body = raw
		data, _ := json.Marshal(raw)
		assert.NoError(t, json.Unmarshal(data, &api.decoded))
		handler(w, req)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sampleBatch() editable.Batch[createRec, updateRec] {
	return editable.Batch[createRec, updateRec]{
		Create: []createRec{{Name: "Gym"}},
		Update: []updateRec{{ID: "l1", Name: "Rent"}},
		Delete: []string{"l3"},
	}
}

func TestEndpoint_Path(t *testing.T) {
	ep := NewEndpoint[createRec, updateRec, rec](NewClient("http://x"), "budgets", "b 1", "")
	assert.Equal(t, "/budgets/b%201/lines/bulk-operations", ep.Path())

	tx := NewEndpoint[createRec, updateRec, rec](NewClient("http://x"), "budgets", "b1", "transactions")
	assert.Equal(t, "/budgets/b1/transactions/bulk-operations", tx.Path())
}

func TestEndpoint_Submit(t *testing.T) {
	api := &fakeAPI{}
	srv := newServer(t, api, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response[rec]{Data: Result[rec]{
			Created: []rec{{ID: "l9", Name: "Gym"}},
			Updated: []rec{{ID: "l1", Name: "Rent"}},
			Deleted: []string{"l3"},
		}})
	})

	client := NewClient(srv.URL+"/", WithToken("secret"), WithTimeout(5*time.Second))
	ep := NewEndpoint[createRec, updateRec, rec](client, "budgets", "b1", "")

	res, err := ep.Submit(context.Background(), sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, "b1", api.ownerID)
	assert.Equal(t, "Bearer secret", api.auth)
	assert.Equal(t, sampleBatch(), api.decoded.Batch)
	assert.NotContains(t, api.body, "propagateToBudgets", "flag is omitted unless set")

	require.Len(t, res.Created, 1)
	assert.Equal(t, "l9", res.Created[0].ID)
	assert.Equal(t, []string{"l3"}, res.Deleted)
	assert.Nil(t, res.Propagation)
}

func TestEndpoint_Propagation(t *testing.T) {
	api := &fakeAPI{}
	srv := newServer(t, api, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response[rec]{Data: Result[rec]{
			Propagation: &PropagationSummary{AffectedBudgetIDs: []string{"b1", "b2"}, AffectedBudgetsCount: 2},
		}})
	})

	ep := NewEndpoint[createRec, updateRec, rec](NewClient(srv.URL), "budgets", "t1", "")
	ep.SetPropagation(true)

	res, err := ep.Submit(context.Background(), sampleBatch())
	require.NoError(t, err)
	require.NotNil(t, api.decoded.PropagateToBudgets)
	assert.True(t, *api.decoded.PropagateToBudgets)
	require.NotNil(t, res.Propagation)
	assert.Equal(t, 2, res.Propagation.AffectedBudgetsCount)
}

func TestEndpoint_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantMsg string
	}{
		{"message field", http.StatusUnprocessableEntity, map[string]string{"message": "amount must be positive"}, "amount must be positive"},
		{"error field", http.StatusBadRequest, map[string]string{"error": "bad payload"}, "bad payload"},
		{"no body", http.StatusInternalServerError, nil, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			srv := newServer(t, api, func(w http.ResponseWriter, _ *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})

			ep := NewEndpoint[createRec, updateRec, rec](NewClient(srv.URL), "budgets", "b1", "")
			_, err := ep.Submit(context.Background(), sampleBatch())
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, "/budgets/b1/lines/bulk-operations", apiErr.Endpoint)
		})
	}
}

func TestEndpoint_MalformedResponse(t *testing.T) {
	api := &fakeAPI{}
	srv := newServer(t, api, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{not json"))
	})

	ep := NewEndpoint[createRec, updateRec, rec](NewClient(srv.URL), "budgets", "b1", "")
	_, err := ep.Submit(context.Background(), sampleBatch())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}

func TestEndpoint_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ep := NewEndpoint[createRec, updateRec, rec](NewClient("http://127.0.0.1:1"), "budgets", "b1", "")
	_, err := ep.Submit(ctx, sampleBatch())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
