package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"injective-token-lab/internal/domain"
)

type capture struct {
	mu       sync.Mutex
	payloads []payload
	paths    []string
}

func (c *capture) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p payload
		_ = json.NewDecoder(r.Body).Decode(&p)
		c.mu.Lock()
		c.payloads = append(c.payloads, p)
		c.paths = append(c.paths, r.URL.Path)
		c.mu.Unlock()
		w.WriteHeader(status)
	}
}

func TestWebhook_RoutesByKind(t *testing.T) {
	c := &capture{}
	server := httptest.NewServer(c.handler(http.StatusNoContent))
	defer server.Close()

	w := NewWebhook(map[Kind]string{
		KindBurn:   server.URL + "/burn",
		KindTalent: server.URL + "/talent",
	})

	row := &domain.Talent{Name: "alice", WalletAddress: "inj1alice", Status: domain.TalentApproved}
	w.Notify(context.Background(), KindTalent, TalentEmbed("Talent approved", row))
	w.Notify(context.Background(), KindBurn, BurnEmbed("PEDRO", "factory/x/pedro", decimal.NewFromInt(5), decimal.NewFromInt(105)))
	w.Notify(context.Background(), KindScam, ScamReportEmbed(&domain.ScamReport{Address: "inj1scam"}))

	require.Len(t, c.payloads, 2)
	assert.Equal(t, []string{"/talent", "/burn"}, c.paths)

	talent := c.payloads[0].Embeds[0]
	assert.Equal(t, ColorApproved, talent.Color)
	assert.Equal(t, "alice", talent.Description)
	assert.NotEmpty(t, talent.Timestamp)

	burn := c.payloads[1].Embeds[0]
	assert.Equal(t, "PEDRO burned", burn.Title)
	assert.Equal(t, "5", burn.Fields[0].Value)
	assert.Equal(t, "105", burn.Fields[1].Value)
}

func TestWebhook_FailureTolerated(t *testing.T) {
	c := &capture{}
	server := httptest.NewServer(c.handler(http.StatusInternalServerError))
	defer server.Close()

	w := NewWebhook(map[Kind]string{KindScam: server.URL})
	report := &domain.ScamReport{Address: "inj1scam", Project: "p", Info: "i", Discord: "d"}

	err := w.Send(context.Background(), KindScam, ScamReportEmbed(report))
	assert.ErrorContains(t, err, "status 500")

	// Notify swallows the same failure.
	w.Notify(context.Background(), KindScam, ScamReportEmbed(report))
	assert.Len(t, c.payloads, 2)
}

func TestWebhook_Unreachable(t *testing.T) {
	w := NewWebhook(map[Kind]string{KindBurn: "http://127.0.0.1:1/hook"})
	err := w.Send(context.Background(), KindBurn, Embed{Title: "x"})
	assert.Error(t, err)
	w.Notify(context.Background(), KindBurn, Embed{Title: "x"})
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status domain.TalentStatus
		want   int
	}{
		{domain.TalentPending, ColorPending},
		{domain.TalentApproved, ColorApproved},
		{domain.TalentRejected, ColorRejected},
		{domain.TalentChangesRequested, ColorChanges},
		{domain.TalentOnHold, ColorOnHold},
		{"weird", ColorUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusColor(tt.status))
		})
	}
}
