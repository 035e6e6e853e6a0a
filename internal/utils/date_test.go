package util_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	util "github.com/stridehq/stride-lambda/internal/utils"
)

func TestParseLocalDate(t *testing.T) {
	d, err := util.ParseLocalDate("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", d.String())

	_, err = util.ParseLocalDate("31/08/2026")
	assert.Error(t, err)

	_, err = util.ParseLocalDate("2026-13-01")
	assert.Error(t, err)
}

func TestLocalDateNextPrev(t *testing.T) {
	d, err := util.ParseLocalDate("2026-02-28")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", d.Next().String())
	assert.Equal(t, "2026-02-27", d.Prev().String())
	assert.True(t, d.Before(d.Next()))
	assert.True(t, d.Equal(d.Next().Prev()))
}

func TestLocalDateJSON(t *testing.T) {
	var payload struct {
		Date util.LocalDate `json:"date"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-08-31"}`), &payload))
	assert.Equal(t, "2026-08-31", payload.Date.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-08-31"}`, string(out))
}
