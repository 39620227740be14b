package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orazbekov/ratehub/internal/models"
	"github.com/orazbekov/ratehub/pkg/logger"
)

func TestTrail_RecordAndReadAll(t *testing.T) {
	logger.Init(false)

	tmpDir := t.TempDir()
	trail, err := NewTrail(filepath.Join(tmpDir, "audit.log"))
	require.NoError(t, err)
	defer trail.Close()

	entries := []Entry{
		{Actor: "mod", Role: models.RoleModerator, Action: "delete", Resource: "review", ResourceID: "1"},
		{Actor: "admin", Role: models.RoleAdmin, Action: "role_change", Resource: "user", ResourceID: "alice"},
		{Actor: "admin", Role: models.RoleAdmin, Action: "delete", Resource: "comment", ResourceID: "7"},
	}

	for _, entry := range entries {
		require.NoError(t, trail.Record(entry))
	}

	got, err := trail.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "mod", got[0].Actor)
	assert.Equal(t, models.RoleModerator, got[0].Role)
	assert.Equal(t, "review", got[0].Resource)
	assert.Equal(t, "role_change", got[1].Action)
	assert.False(t, got[0].Timestamp.IsZero(), "Record should stamp entries without a timestamp")
}

func TestTrail_AppendsAcrossReopen(t *testing.T) {
	logger.Init(false)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "audit.log")

	trail, err := NewTrail(path)
	require.NoError(t, err)
	require.NoError(t, trail.Record(Entry{
		Actor: "mod", Role: models.RoleModerator, Action: "delete",
		Resource: "review", ResourceID: "1", Timestamp: time.Now(),
	}))
	require.NoError(t, trail.Close())

	// Reopen: the trail must append, never truncate.
	trail, err = NewTrail(path)
	require.NoError(t, err)
	defer trail.Close()
	require.NoError(t, trail.Record(Entry{
		Actor: "admin", Role: models.RoleAdmin, Action: "delete",
		Resource: "review", ResourceID: "2", Timestamp: time.Now(),
	}))

	got, err := trail.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ResourceID)
	assert.Equal(t, "2", got[1].ResourceID)
}
