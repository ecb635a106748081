package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/session"
)

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

func TestDeskSubmitDamage(t *testing.T) {
	var sent model.NewDamageReport
	p := newTestPortal(t, routes{
		"POST /damage-report/submit": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
			jsonReply(`{"message":"Damage report submitted"}`)(w, r)
		},
	})
	desk := roleCookies(session.RoleDesk)

	w := p.postForm("/desk/damage-reports", url.Values{
		"tenant_id":   {"T1"},
		"description": {"Broken window"},
		"amount":      {"120.5"},
	}, desk...)
	assert.Equal(t, "/desk", w.Header().Get("Location"))
	assert.Contains(t, p.follow(t, w, desk...).Body.String(), "Damage report submitted successfully!")

	assert.Regexp(t, `^damage_[0-9a-f]{8}$`, sent.ReportID)
	assert.Equal(t, "N/A", sent.RoomNumber)
	assert.Equal(t, 120.5, sent.EstimatedCost)
	assert.Equal(t, "2026-10-14T09:00:00.000Z", sent.ReportedAt)

	require.Len(t, p.store.submissions, 1)
	assert.Equal(t, sent.ReportID, p.store.submissions[0].RecordID)
	assert.Equal(t, 120.5, p.store.submissions[0].EstimatedCost)
}

func TestDeskSubmitDamage_BadAmount(t *testing.T) {
	p := newTestPortal(t, routes{
		"POST /damage-report/submit": func(w http.ResponseWriter, r *http.Request) {
			t.Error("upstream must not be called")
		},
	})

	w := p.postForm("/desk/damage-reports", url.Values{
		"tenant_id":   {"T1"},
		"description": {"Broken window"},
		"amount":      {"abc"},
	}, roleCookies(session.RoleAdmin)...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Must be a number")
}

func TestDeskSubmitExit_NetworkError(t *testing.T) {
	p := newTestPortal(t, routes{})
	p.upstream.Close()

	w := p.postMultipart(t, "/desk/exit-requests", exitForm(), nil, roleCookies(session.RoleDesk)...)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Network Error")
	assert.Contains(t, w.Body.String(), "Unable to submit exit request.")
}

func TestDeskLookup(t *testing.T) {
	p := newTestPortal(t, routes{
		"GET /exit-request/list/T1": jsonReply(`[
			{"request_id":"r-1","room_number":"B-12","request_status":"Needs Action","submitted_at":"2026-10-01T09:30:00"},
			{"request_id":"r-2","room_number":"B-12","request_status":"Mystery","submitted_at":"bad date"}
		]`),
		"GET /damage-report/list/T1": jsonReply(`[{"report_id":"d-1","room_number":"B-12","description":"Cracked tile","estimated_cost":"45.5","reported_at":"2026-10-03T08:00:00"}]`),
	})
	desk := roleCookies(session.RoleDesk)

	w := p.get("/desk/lookup?tenant_id=T1", desk...)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="damageForm"`, "full page")
	assert.Contains(t, body, "status-needs-action")
	assert.Contains(t, body, `class="status-pill status-pending"`)
	assert.Contains(t, body, "01 Oct 2026")
	assert.Contains(t, body, "N/A")
	assert.Contains(t, body, "Cracked tile")
	assert.Contains(t, body, "₹45.50")
	assert.Contains(t, body, `value="r-1|Needs Action"`)

	req, _ := http.NewRequest(http.MethodGet, "/desk/lookup?tenant_id=T1", nil)
	req.Header.Set(FragmentHeader, "1")
	w = p.do(req, desk...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `id="damageForm"`)
	assert.Contains(t, w.Body.String(), `id="deskLookup"`)
}

func TestDeskLookup_MissingTenant(t *testing.T) {
	p := newTestPortal(t, routes{})
	w := p.get("/desk/lookup?tenant_id=+", roleCookies(session.RoleDesk)...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a Tenant ID.")
}

func TestDeskUpdateStatus(t *testing.T) {
	testCases := []struct {
		name         string
		decision     string
		upstream     http.HandlerFunc
		expectedText string
		changes      int
	}{
		{
			name:         "approve",
			decision:     "r-1|Approved",
			upstream:     jsonReply(`{"message":"Status updated"}`),
			expectedText: "Request marked as &#39;Approved&#39;",
			changes:      1,
		},
		{
			name:         "needs action is refused upstream",
			decision:     "r-1|Needs Action",
			upstream:     statusReply(http.StatusBadRequest, `{"detail":"Invalid status value."}`),
			expectedText: "Invalid status value.",
		},
		{
			name:         "upstream failure without detail",
			decision:     "r-1|Approved",
			upstream:     statusReply(http.StatusBadGateway, ``),
			expectedText: "Failed to update status.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPortal(t, routes{
				"PATCH /exit-request/update-status": tc.upstream,
				"GET /exit-request/list/T1":         jsonReply(`[]`),
				"GET /damage-report/list/T1":        jsonReply(`[]`),
			})
			desk := roleCookies(session.RoleDesk)

			w := p.postForm("/desk/exit-requests/status", url.Values{
				"tenant_id": {"T1"},
				"decision":  {tc.decision},
			}, desk...)
			assert.Equal(t, "/desk/lookup?tenant_id=T1", w.Header().Get("Location"))
			assert.Contains(t, p.follow(t, w, desk...).Body.String(), tc.expectedText)
			assert.Len(t, p.store.changes, tc.changes)
			if tc.changes > 0 {
				assert.Equal(t, "T1", p.store.changes[0].TenantID)
				assert.Equal(t, "desk", p.store.changes[0].Source)
				require.Len(t, p.notifier.events, 1)
				assert.Equal(t, "T1", p.notifier.events[0].TenantID)
			}
		})
	}
}

func TestDeskReport(t *testing.T) {
	p := newTestPortal(t, routes{
		"GET /exit-request/report/T1": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="exit_report_T1.csv"`)
			_, _ = w.Write([]byte("request_id,status\nr-1,Pending\n"))
		},
	})
	desk := roleCookies(session.RoleDesk)

	w := p.get("/desk/report?tenant_id=T1", desk...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="exit_report_T1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "request_id,status\nr-1,Pending\n", w.Body.String())

	w = p.get("/desk/report?tenant_id=T404", desk...)
	assert.Equal(t, "/desk?tenant_id=T404", w.Header().Get("Location"))
	assert.Contains(t, p.follow(t, w, desk...).Body.String(), "Error downloading report.")

	w = p.get("/desk/report", desk...)
	assert.Equal(t, "/desk", w.Header().Get("Location"))
}

func TestNewDamageReportID(t *testing.T) {
	a, b := NewDamageReportID(), NewDamageReportID()
	assert.Len(t, a, len("damage_")+8)
	assert.NotEqual(t, a, b)
}
