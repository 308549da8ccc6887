package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatuses_Metadata(t *testing.T) {
	all := Statuses()
	require.Len(t, all, 7)

	seen := map[Status]bool{}
	for _, info := range all {
		assert.True(t, info.Status.Valid())
		assert.NotEmpty(t, info.Label, info.Status)
		assert.NotEmpty(t, info.Description, info.Status)
		assert.NotEmpty(t, info.Color, info.Status)
		assert.NotEmpty(t, info.Icon, info.Status)
		seen[info.Status] = true
	}
	for _, s := range []Status{StatusReceived, StatusDiagnosing, StatusAwaitingPart, StatusInProgress, StatusReady, StatusDelivered, StatusRejected} {
		assert.True(t, seen[s], s)
	}
}

func TestStatus_ReadyIsNotTerminal(t *testing.T) {
	info := StatusReady.Info()
	assert.Equal(t, "¡Listo para Retirar!", info.Label)
	assert.False(t, info.Terminal)
	assert.False(t, StatusReady.IsTerminal())
	assert.Equal(t, StatusDelivered.Info().Step-1, info.Step, "ready sits right before delivered")
}

func TestStatus_Terminal(t *testing.T) {
	for _, info := range Statuses() {
		want := info.Status == StatusDelivered || info.Status == StatusRejected
		assert.Equal(t, want, info.Status.IsTerminal(), info.Status)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" In_Progress ")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.False(t, Status("").Valid())
	assert.Equal(t, StatusInfo{}, Status("nope").Info())
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, p)

	p, err = ParsePriority("URGENT")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)

	_, err = ParsePriority("asap")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestPermissive_AllowsAnything(t *testing.T) {
	p := PolicyFor(false)
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			assert.NoError(t, p.Allow(from.Status, to.Status), "%s -> %s", from.Status, to.Status)
		}
	}
}

func TestStrict_Transitions(t *testing.T) {
	p := PolicyFor(true)

	allowed := [][2]Status{
		{StatusReceived, StatusDiagnosing},
		{StatusDiagnosing, StatusInProgress},
		{StatusAwaitingPart, StatusInProgress},
		{StatusInProgress, StatusReady},
		{StatusReady, StatusDelivered},
		{StatusReceived, StatusRejected},
		{StatusDiagnosing, StatusRejected},
		{StatusReady, StatusReady},
	}
	for _, tr := range allowed {
		assert.NoError(t, p.Allow(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	refused := [][2]Status{
		{StatusInProgress, StatusDiagnosing},
		{StatusReady, StatusReceived},
		{StatusInProgress, StatusRejected},
		{StatusDelivered, StatusReady},
		{StatusRejected, StatusDiagnosing},
	}
	for _, tr := range refused {
		assert.ErrorIs(t, p.Allow(tr[0], tr[1]), ErrInvalidTransition, "%s -> %s", tr[0], tr[1])
	}
}
