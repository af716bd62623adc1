package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

func render(t *testing.T, d DashboardData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Dashboard(d).Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboard_FormsFollowState(t *testing.T) {
	tests := []struct {
		state      core.State
		wantCount  bool
		wantFinish bool
		wantTally  bool
	}{
		{state: core.StateLoaded, wantCount: true, wantFinish: true},
		{state: core.StateReconciled, wantFinish: true, wantTally: true},
		{state: core.StateShutDown, wantTally: true},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			body := render(t, DashboardData{
				State:    tt.state,
				Counters: core.Counters{Variance: 2, Missed: 1},
			})
			assert.Equal(t, tt.wantCount, strings.Contains(body, `action="/count"`))
			assert.Equal(t, tt.wantCount, strings.Contains(body, `action="/remove"`))
			assert.Equal(t, tt.wantFinish, strings.Contains(body, `action="/finish"`))
			assert.Equal(t, tt.wantTally, strings.Contains(body, "2 products have a variance, 1 were not counted."))
		})
	}
}

func TestDashboard_EscapesText(t *testing.T) {
	body := render(t, DashboardData{
		State:      core.StateLoaded,
		Source:     "<stock>.csv",
		Flash:      `<script>alert("x")</script>`,
		FlashError: true,
		ExportDir:  `/tmp/"out"`,
		Duplicates: []string{"A&B"},
		Products: []core.ProductRecord{
			{ProductName: "Pipe", InStock: 4, SKU: `PIPE-3/4"`},
		},
	})

	assert.Contains(t, body, `<div class="flash error">`)
	assert.Contains(t, body, "&lt;stock&gt;.csv")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, `value="/tmp/&#34;out&#34;"`)
	assert.Contains(t, body, "<code>A&amp;B</code>")
	assert.Contains(t, body, "<td>PIPE-3/4&#34;</td>")
	assert.Contains(t, body, "<p>1 rows</p>")
}

func TestDashboard_NoFlashWhenEmpty(t *testing.T) {
	body := render(t, DashboardData{State: core.StateLoaded})
	assert.NotContains(t, body, `class="flash`)
	assert.NotContains(t, body, `class="warn"`)
}
