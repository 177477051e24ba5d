package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// HistoryHeader is the header row of the historical execution log.
const HistoryHeader = "project_id,version_id,num_revisions,revision_id,test_name,test_runtime,test_outcome,test_stack_trace"

// HistoryRow formats one execution observation.
func HistoryRow(revision int, rawTest string, runtime int64, outcome string) string {
	return fmt.Sprintf("proj,v1,0,%d,%s,%d,%s,", revision, rawTest, runtime, outcome)
}

// WriteHistoryLog writes a history log with the standard header and the
// given data rows, returning its path.
func WriteHistoryLog(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	content := HistoryHeader + "\n" + strings.Join(rows, "\n")
	if len(rows) > 0 {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
