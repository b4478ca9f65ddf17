package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []int
	}{
		{"default limit returns all when under 100", 0, 0, []int{0, 1, 2, 3, 4}},
		{"explicit limit", 0, 2, []int{0, 1}},
		{"offset only", 2, 0, []int{2, 3, 4}},
		{"offset and limit", 1, 2, []int{1, 2}},
		{"offset at end", 4, 2, []int{4}},
		{"offset beyond end", 5, 2, nil},
		{"negative offset", -1, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.offset, tt.limit))
		})
	}
}

func TestPaginate_MaxLimit(t *testing.T) {
	saved := cfg.MaxLimit
	t.Cleanup(func() { cfg.MaxLimit = saved })
	cfg.MaxLimit = 3

	assert.Equal(t, []int{0, 1, 2}, paginate([]int{0, 1, 2, 3, 4}, 0, 10))
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[int](4)
	assert.NotNil(t, s)
	assert.Equal(t, 0, len(s))
	assert.Equal(t, 4, cap(s))
}

func TestErrResult(t *testing.T) {
	res := errResult(errors.New("cannot read /home/user/data/a.xml: denied"))
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "cannot read <path>: denied", text.Text)

	assert.Equal(t, "", sanitizeError(nil))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 records", formatCount(0, "record"))
	assert.Equal(t, "1 record", formatCount(1, "record"))
	assert.Equal(t, "3 warnings", formatCount(3, "warning"))
}
