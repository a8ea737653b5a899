package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bolao/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError(t *testing.T) {
	recorder := httptest.NewRecorder()

	RespondWithError(recorder, http.StatusBadRequest, []string{"BAD_REQUEST"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var body models.Error
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, models.Error{Status: http.StatusBadRequest, Error: []string{"BAD_REQUEST"}}, body)
}

func TestRespondWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	RespondWithJSON(recorder, http.StatusOK, models.CounterSnapshot{Users: 10, Pools: 2, Guesses: 5})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"users":10,"pools":2,"guesses":5}`, recorder.Body.String())
}
