package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tenant-exit-portal/internal/model"
)

var sample = []model.ExitRequest{
	{
		RequestID:        "r-1",
		TenantID:         "T1",
		Name:             "Asha Rao",
		RoomNumber:       "B-12",
		Email:            "asha@example.com",
		ExitDate:         "2026-11-30",
		ExitReason:       "Relocating",
		Status:           model.StatusPending,
		MoveoutChecklist: []string{"Keys returned", "Room cleaned"},
		SubmittedAt:      "2026-10-01T09:30:00",
	},
	{
		RequestID:   "r-2",
		TenantID:    "T2",
		Name:        "José Núñez",
		RoomNumber:  "C-3",
		Status:      model.StatusApproved,
		SubmittedAt: "2026-10-02T10:00:00Z",
		AdminNotes:  "Deposit cleared",
	},
}

func TestExitRequestsXLSX(t *testing.T) {
	data, err := ExitRequestsXLSX(sample)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exitSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exitHeaders, rows[0])
	assert.Equal(t, []string{
		"r-1", "T1", "Asha Rao", "B-12", "asha@example.com", "30 Nov 2026",
		"Relocating", "Pending", "Keys returned, Room cleaned", "01 Oct 2026 09:30",
	}, rows[1])
	assert.Equal(t, "N/A", rows[2][5])
	assert.Equal(t, "N/A", rows[2][8])
	assert.Equal(t, "Deposit cleared", rows[2][10])
}

func TestExitRequestsXLSX_Empty(t *testing.T) {
	data, err := ExitRequestsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(exitSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExitRequestsPDF(t *testing.T) {
	data, err := ExitRequestsPDF(sample, time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	many := make([]model.ExitRequest, 120)
	for i := range many {
		many[i] = sample[i%2]
	}
	data, err = ExitRequestsPDF(many, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestStatusSummary(t *testing.T) {
	reqs := append([]model.ExitRequest{
		{RequestID: "r-3", Status: model.StatusNeedsAction},
		{RequestID: "r-4", Status: "Withdrawn"},
		{RequestID: "r-5", Status: model.StatusPending},
	}, sample...)

	rows := statusSummary(reqs)
	assert.Equal(t, []statusCount{
		{"Pending", 2},
		{"Approved", 1},
		{"InReview", 0},
		{"Rejected", 0},
		{"Other", 2},
	}, rows)

	sum := 0
	for _, r := range rows {
		sum += r.count
	}
	assert.Equal(t, len(reqs), sum)

	assert.Len(t, statusSummary(sample), len(model.AdminStatuses), "no Other row when every status is known")
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 10, 14, 8, 5, 9, 0, time.UTC)
	assert.Equal(t, "exit_requests_20261014_080509.xlsx", Filename("xlsx", ts))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcdefg...", clip("abcdefghijklmnop", 10))
}
