package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyCalendarRecordShape(t *testing.T) {
	data, err := json.Marshal(EmptyCalendarRecord())
	require.NoError(t, err)
	assert.JSONEq(t, `{"dates":[],"leaRequests":[],"betreuungEntries":[]}`, string(data))
}

func TestNormalizeFillsNilCollections(t *testing.T) {
	var r CalendarRecord
	r.Normalize()

	assert.NotNil(t, r.Dates)
	assert.NotNil(t, r.LeaRequests)
	assert.NotNil(t, r.BetreuungEntries)
}

func TestRequestFor(t *testing.T) {
	r := CalendarRecord{
		LeaRequests: []LeaRequest{
			{Date: "2026-09-10"},
			{Date: "2026-09-11", Helper: "Oma"},
		},
	}

	req, ok := r.RequestFor("2026-09-11")
	require.True(t, ok)
	assert.Equal(t, "Oma", req.Helper)

	// the pointer aliases the slice entry so callers can mutate in place
	req.Helper = "Opa"
	assert.Equal(t, "Opa", r.LeaRequests[1].Helper)

	_, ok = r.RequestFor("2026-12-24")
	assert.False(t, ok)
}

func TestLeaRequestOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(LeaRequest{Date: "2026-09-10"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-09-10"}`, string(data))
}
