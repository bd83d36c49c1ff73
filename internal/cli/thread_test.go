package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/hnthread/internal/domain"
)

func executeThread(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	c := newTestContainer(t)
	cmd := newThreadCommand(c)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestThreadCommand_Tree(t *testing.T) {
	out, _, err := executeThread(t, "100")

	require.NoError(t, err)
	assert.Contains(t, out, "Story 100\n")
	assert.Contains(t, out, "3 comments\n")
	assert.Contains(t, out, "[1] user1\n  comment 1\n")
	assert.Contains(t, out, "  [3] user3\n    comment 3\n")
	assert.Less(t, bytes.Index([]byte(out), []byte("[3]")), bytes.Index([]byte(out), []byte("[2]")),
		"replies are printed before the next sibling")
}

func TestThreadCommand_JSON(t *testing.T) {
	out, _, err := executeThread(t, "100", "--format", "json")
	require.NoError(t, err)

	var doc threadDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, domain.ID(100), doc.ID)
	assert.Equal(t, domain.ItemTypeStory, doc.Type)
	require.Len(t, doc.Comments, 2)
	assert.Equal(t, domain.ID(1), doc.Comments[0].ID)
	require.Len(t, doc.Comments[0].Replies, 1)
	assert.Equal(t, domain.ID(3), doc.Comments[0].Replies[0].ID)
	assert.Equal(t, 1, doc.Comments[0].Replies[0].Depth)
	assert.Equal(t, domain.ID(2), doc.Comments[1].ID)
}

func TestThreadCommand_YAML(t *testing.T) {
	out, _, err := executeThread(t, "100", "-f", "yaml")
	require.NoError(t, err)

	var doc threadDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Story 100", doc.Title)
	require.Len(t, doc.Comments, 2)
	assert.Equal(t, "comment 3", doc.Comments[0].Replies[0].Text)
}

func TestThreadCommand_IndentStrategy(t *testing.T) {
	c, deps := newTestContainerWithDeps(t)
	deps.records.ByRoot[100] = []domain.FlatCommentRecord{
		{ID: 10, User: "alice", Text: "top", Indent: 0},
		{ID: 11, User: "bob", Text: "reply", Indent: 40},
	}
	cmd := newThreadCommand(c)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"100", "--strategy", "indent"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "[10] alice\n  top\n")
	assert.Contains(t, out.String(), "  [11] bob\n    reply\n")
	assert.Contains(t, out.String(), "2 comments\n")
}

func TestThreadCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		args    []string
	}{
		{name: "invalid id", args: []string{"abc"}, wantErr: domain.ErrInvalidItemID},
		{name: "zero id", args: []string{"0"}, wantErr: domain.ErrInvalidItemID},
		{name: "invalid strategy", args: []string{"100", "--strategy", "bogus"}, wantErr: domain.ErrInvalidStrategy},
		{name: "missing root", args: []string{"999"}, wantErr: domain.ErrItemNotFound},
		{name: "comment as root", args: []string{"1"}, wantErr: domain.ErrUnsupportedRootType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeThread(t, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestThreadCommand_UnknownFormat(t *testing.T) {
	_, _, err := executeThread(t, "100", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}

func TestThreadCommand_RequiresID(t *testing.T) {
	_, _, err := executeThread(t)
	assert.Error(t, err)
}
