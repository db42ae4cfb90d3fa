//
//   date  : 2016-02-18
//   author: xjdrew
//

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xjdrew/ipnat"
)

const confData = `
[Rewrite]
SNAT, 10.0.0.1, 10.0.0.5
`

func TestRewrite(t *testing.T) {
	cfg, err := ipnat.ParseConfig([]byte(confData))
	require.NoError(t, err)
	rewriter, err := ipnat.FromConfig(cfg)
	require.NoError(t, err)

	input := strings.Join([]string{
		"# udp 10.0.0.1 > 10.0.0.2",
		"45 00 00 1c 6e 6d 40 00 40 11 b8 61 0a 00 00 01 0a 00 00 02",
		"",
		"not hex",
		"600000000000",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, rewrite(rewriter, strings.NewReader(input), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "4500001c6e6d40004011b85d0a0000050a000002", lines[0])
	assert.Equal(t, "600000000000", lines[1])
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRewriteWriteError(t *testing.T) {
	cfg, err := ipnat.ParseConfig([]byte(confData))
	require.NoError(t, err)
	rewriter, err := ipnat.FromConfig(cfg)
	require.NoError(t, err)

	input := "45 00 00 1c 6e 6d 40 00 40 11 b8 61 0a 00 00 01 0a 00 00 02\n"
	err = rewrite(rewriter, strings.NewReader(input), failWriter{})
	assert.EqualError(t, err, "disk full")
}
