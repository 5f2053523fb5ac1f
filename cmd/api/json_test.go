package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	type form struct {
		Name string `json:"name"`
		Rank int    `json:"rank"`
	}

	tests := []struct {
		body string
		err  string
	}{
		{`{"name":"acme","rank":1}`, ""},
		{``, "body must not be empty"},
		{`{"name":`, "body contains malformed JSON"},
		{`{"name":"acme",}`, "body contains malformed JSON (at character"},
		{`{"rank":"first"}`, `body has the wrong type for field "rank"`},
		{`{"name":"acme","price":3}`, `body contains unknown field "price"`},
		{`{"name":"a"}{"name":"b"}`, "body must contain a single JSON value"},
		{`{"name":"` + strings.Repeat("a", maxJSONBody) + `"}`, "body must not be larger than 1048576 bytes"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		var f form
		err := readJSON(httptest.NewRecorder(), r, &f)
		if tt.err == "" {
			require.NoError(t, err)
			assert.Equal(t, form{Name: "acme", Rank: 1}, f)
			continue
		}
		label := tt.body
		if len(label) > 40 {
			label = label[:40]
		}
		assert.ErrorContains(t, err, tt.err, label)
	}
}

func TestWriteJSONError(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, writeJSONError(rr, http.StatusNotFound, "not found"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"not found","status":404}`, rr.Body.String())
}
