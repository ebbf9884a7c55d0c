package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reillywatson/prcomments/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "pr_number,pr_title,pr_state,pr_created_at,pr_merged_at,comment_type,comment_id,comment_body," +
	"comment_created_at,comment_updated_at,comment_user,comment_path,comment_line,comment_side," +
	"comment_start_line,comment_start_side\n"

func sampleRecords() []github.CommentRecord {
	return []github.CommentRecord{
		{
			PRNumber:         1,
			PRTitle:          "パーサー追加",
			PRState:          "closed",
			PRCreatedAt:      "2025-01-01T00:00:00Z",
			PRMergedAt:       "2025-01-02T00:00:00Z",
			CommentType:      github.ReviewComment,
			CommentID:        10,
			CommentBody:      "line one\nline \"two\", with comma",
			CommentCreatedAt: "2025-01-01T01:00:00Z",
			CommentUpdatedAt: "2025-01-01T02:00:00Z",
			CommentUser:      "alice",
			CommentPath:      "main.go",
			CommentLine:      github.Line{Value: 5, Valid: true},
			CommentSide:      "RIGHT",
		},
		{
			PRNumber:         1,
			PRTitle:          "パーサー追加",
			PRState:          "closed",
			CommentType:      github.IssueComment,
			CommentID:        11,
			CommentBody:      "<b>&</b>",
			CommentCreatedAt: "2025-01-01T03:00:00Z",
			CommentUpdatedAt: "2025-01-01T03:00:00Z",
		},
	}
}

func TestWriteCSV_EmptyWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0xEF, 0xBB, 0xBF}, header...), data)
}

func TestWriteCSV_Rows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteCSV(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, github.CSVHeader, rows[0])
	assert.Equal(t, "パーサー追加", rows[1][1])
	assert.Equal(t, "line one\nline \"two\", with comma", rows[1][7])
	assert.Equal(t, "5", rows[1][12])
	assert.Equal(t, "issue_comment", rows[2][5])
	assert.Equal(t, "", rows[2][10])
	assert.Equal(t, "", rows[2][12])
}

func TestWriteJSON_Readable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, WriteJSON(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "パーサー追加")
	assert.Contains(t, text, "<b>&</b>")
	assert.Contains(t, text, "\n  {\n    \"pr_number\": 1,")
	assert.Contains(t, text, `"comment_line": 5,`)
	assert.Contains(t, text, `"comment_start_line": "",`)
	assert.NotContains(t, text, `\u`)
}

func TestWriteJSON_SummaryRoundTrip(t *testing.T) {
	for name, summary := range map[string]github.Summary{
		"populated": github.Summarize(sampleRecords(), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
		"empty":     github.Summarize(nil, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "summary.json")
			require.NoError(t, WriteJSON(path, summary))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			var got github.Summary
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, summary, got)
		})
	}
}

func TestWriteJSON_CountsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.json")
	counts := github.CommentCounts{}

	require.NoError(t, WriteJSON(path, counts))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got github.CommentCounts
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, counts, got)
	assert.Contains(t, string(data), `"avg_comments_per_pr": 0,`)
}

func TestWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")

	err := WriteJSON(path, map[string]int{})
	assert.Error(t, err)

	err = WriteCSV(path, nil)
	assert.Error(t, err)
}

func TestWrite_ReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteCSV(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "stale"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestPrintRecordSummary(t *testing.T) {
	records := []github.CommentRecord{
		{PRNumber: 1, CommentType: github.ReviewComment, CommentUser: "bob"},
		{PRNumber: 1, CommentType: github.Review, CommentUser: "alice"},
		{PRNumber: 2, CommentType: github.ReviewComment, CommentUser: "alice"},
		{PRNumber: 2, CommentType: github.IssueComment, CommentUser: ""},
	}
	var buf bytes.Buffer

	PrintRecordSummary(&buf, "out.csv", records)

	assert.Equal(t, `Saved out.csv
Total comments: 4
Total PRs: 2

Comments by type:
  - review_comment: 2
  - review: 1
  - issue_comment: 1

Top 10 users:
  - alice: 2
  - bob: 1
`, buf.String())
}

func TestPrintRecordSummary_Empty(t *testing.T) {
	var buf bytes.Buffer

	PrintRecordSummary(&buf, "out.csv", nil)

	assert.Equal(t, "Saved out.csv\nTotal comments: 0\nTotal PRs: 0\n", buf.String())
}

func TestPrintCounts(t *testing.T) {
	var buf bytes.Buffer

	PrintCounts(&buf, "comment_counts.json", github.CommentCounts{
		TotalPRs: 2, TotalComments: 4, ReviewComments: 3, Reviews: 1,
		AvgCommentsPerPR: 2, PRsWithComments: 1, PRsWithoutComments: 1,
	})

	out := buf.String()
	assert.Contains(t, out, "Total PRs: 2\n")
	assert.Contains(t, out, "Average comments per PR: 2.00\n")
	assert.Contains(t, out, "PRs without comments: 1\n")
}
