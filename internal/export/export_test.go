package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/solia/internal/store"
)

func sampleRows() []store.EntryRow {
	projectID := int64(7)
	end := int64(1_700_003_600) // one hour after start
	return []store.EntryRow{
		{
			TimeEntry: store.TimeEntry{
				ID: 1, ProfileID: 2, ProjectID: &projectID,
				StartTS: 1_700_000_000, EndTS: &end,
				Note: "design review", Tags: "billable",
			},
			ProfileName: "Acme",
			ProjectName: "Website",
		},
		{
			TimeEntry: store.TimeEntry{
				ID: 2, ProfileID: 3,
				StartTS: 1_700_010_000,
				Note:    "still running",
			},
			ProfileName: "Beta",
		},
	}
}

func fixedNow() func() time.Time {
	return func() time.Time { return time.Unix(1_700_010_090, 0) }
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows(), WithNow(fixedNow())))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"profile", "project", "start", "end", "duration", "note", "tags"}, records[0])

	closed := records[1]
	assert.Equal(t, "Acme", closed[0])
	assert.Equal(t, "Website", closed[1])
	assert.Equal(t, "01:00:00", closed[4])
	assert.Equal(t, "design review", closed[5])
	assert.Equal(t, "billable", closed[6])
	assert.Regexp(t, `^\[\d{2}\.\d{2}\.\d{2}\] - \d{2}:\d{2}$`, closed[2])

	open := records[2]
	assert.Equal(t, "Beta", open[0])
	assert.Equal(t, "—", open[1], "missing project renders as dash")
	assert.Equal(t, "", open[3], "open entry has no end stamp")
	assert.Equal(t, "00:01:30", open[4], "open entry duration uses now")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows(), WithNow(fixedNow())))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	first := decoded[0]
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Acme", first["profile"])
	assert.Equal(t, "Website", first["project"])
	assert.Equal(t, float64(7), first["project_id"])
	assert.Equal(t, float64(3600), first["duration_sec"])

	second := decoded[1]
	assert.Nil(t, second["project"])
	assert.Nil(t, second["project_id"])
	assert.Nil(t, second["end_ts"])
	assert.Equal(t, float64(90), second["duration_sec"])
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{90, "00:01:30"},
		{3600, "01:00:00"},
		{3_661, "01:01:01"},
		{360_000, "100:00:00"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds))
	}
}
