package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailsOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/horarios-ncombio/4521/2024-03-12", r.URL.Path)
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		fmt.Fprint(w, `{"response": {
			"SituacaoComboio": "Em circulação",
			"DuracaoViagem": "00:57",
			"Operador": "FERTAGUS",
			"Origem": "ROMA-AREEIRO",
			"Destino": "SETÚBAL",
			"NodesPassagemComboio": [
				{"NomeEstacao": "ROMA-AREEIRO", "ComboioPassou": true, "HoraProgramada": "08:21", "NodeID": 9466035},
				{"NomeEstacao": "PRAGAL", "ComboioPassou": false, "HoraProgramada": "08:34", "NodeID": 9417087}
			]
		}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	details := c.Details(context.Background(), "4521", "2024-03-12")
	require.NotNil(t, details)
	assert.Equal(t, "Em circulação", details.Status)
	require.Len(t, details.Nodes, 2)
	assert.True(t, details.Nodes[0].Passed)
	assert.Equal(t, int64(9417087), details.Nodes[1].NodeID)
}

func TestDetailsDegradesToNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"response": {`)
			},
		},
		{
			name: "missing response object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, nil)
			assert.Nil(t, c.Details(context.Background(), "4521", "2024-03-12"))
		})
	}
}

func TestDetailsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, nil)
	assert.Nil(t, c.Details(context.Background(), "4521", "2024-03-12"))
}
