package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCorrections(t *testing.T) {
	vtrue := true
	raw := []RawQuestion{
		{ID: "c1-001", Question: "q1", Options: map[string]string{"A": "a", "B": "b"}, Answer: "A"},
		{ID: "c1-002", Question: "q2", Options: map[string]string{"A": "a", "B": "b"}, Answer: "B"},
	}
	corr := map[string]Correction{
		"c1-001": {Answer: "B", Explanation: "修正後解析", Verified: &vtrue},
		"c1-002": {Options: map[string]string{"B": "修正選項"}},
		"c9-999": {Answer: "A"},
	}

	updated, unknown := ApplyCorrections(raw, corr)
	assert.Equal(t, 2, updated)
	assert.Equal(t, []string{"c9-999"}, unknown)

	assert.Equal(t, "B", raw[0].Answer)
	assert.Equal(t, "修正後解析", raw[0].Explanation)
	assert.True(t, raw[0].Verified)
	assert.Equal(t, "修正選項", raw[1].Options["B"])
}

func TestApplyCorrectionsNoChange(t *testing.T) {
	raw := []RawQuestion{
		{ID: "c1-001", Question: "q1", Options: map[string]string{"A": "a", "B": "b"}, Answer: "A"},
	}
	// same answer as already recorded → nothing changes
	updated, unknown := ApplyCorrections(raw, map[string]Correction{"c1-001": {Answer: "A"}})
	assert.Zero(t, updated)
	assert.Empty(t, unknown)
}

func TestCorrectionsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	bankPath := filepath.Join(dir, "questions.json")

	raw := []RawQuestion{
		{ID: "c1-001", Question: "升溫目標", Options: map[string]string{"A": "1.5°C", "B": "3°C"}, Answer: "B"},
	}
	require.NoError(t, WriteRaw(bankPath, raw))

	loaded, err := LoadRaw(bankPath)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	updated, _ := ApplyCorrections(loaded, map[string]Correction{"c1-001": {Answer: "A"}})
	require.Equal(t, 1, updated)
	require.NoError(t, WriteRaw(bankPath, loaded))

	// the patched file must parse as a valid bank
	b, err := Load(bankPath)
	require.NoError(t, err)
	q, ok := b.Get("c1-001")
	require.True(t, ok)
	assert.Equal(t, "A", q.Answer)
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	bankPath := filepath.Join(dir, "questions.json")
	require.NoError(t, os.WriteFile(bankPath, []byte(`[]`), 0o644))

	dst, err := Backup(bankPath, filepath.Join(dir, "backups"))
	require.NoError(t, err)

	buf, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(buf))
}
