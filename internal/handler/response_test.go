package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhenduKH/TestMyBlood/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	respondError(c, err)
	return w
}

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrAccessDenied, http.StatusForbidden},
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{model.ErrAccountInactive, http.StatusForbidden},
		{model.ErrEmailTaken, http.StatusConflict},
		{model.ErrAlreadyPaid, http.StatusConflict},
		{model.ErrNotPaid, http.StatusConflict},
		{model.ErrInvalidTransition, http.StatusConflict},
		{model.ErrInvalidSignature, http.StatusBadRequest},
		{model.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := performError(tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Message)
	}
}

func TestRespondErrorMapsWrappedSentinels(t *testing.T) {
	wrapped := fmt.Errorf("cannot cancel a collected booking: %w", model.ErrInvalidTransition)
	w := performError(wrapped)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	w := performError(errors.New("pq: connection refused on 10.0.0.5"))
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestRespondListEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondList(c, []string{"a", "b"})

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 2, *resp.Count)
}

func TestRespondListEmptySliceNotNull(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var none []string
	respondList(c, none)

	assert.Contains(t, w.Body.String(), `"data":[]`)
	assert.Contains(t, w.Body.String(), `"count":0`)
}
