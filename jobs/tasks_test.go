package jobs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuditPruneTaskCarriesRetention(t *testing.T) {
	task, err := NewAuditPruneTask(30)
	require.NoError(t, err)
	require.Equal(t, TaskAuditPrune, task.Type())

	var payload AuditPrunePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, 30, payload.Days())
}

func TestAuditPruneRetentionDefault(t *testing.T) {
	require.Equal(t, defaultAuditRetentionDays, AuditPrunePayload{}.Days())
	require.Equal(t, defaultAuditRetentionDays, AuditPrunePayload{RetentionDays: -1}.Days())
	require.Equal(t, 7, AuditPrunePayload{RetentionDays: 7}.Days())
}
