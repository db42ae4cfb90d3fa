//
//   date  : 2023-12-13
//   author: xjdrew
//

package ipnat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	confData = `
	[General]
	log-level = debug

	[Core]
	tcp = true
	udp = false

	[Rewrite]
	# rewrite the client address
	SNAT, 10.0.0.1, 10.0.0.5
	snat,10.0.0.2,10.0.0.6

	# forward to the relay
	DNAT, 93.184.216.34, 10.192.0.1

	# ignored: wrong field count
	DNAT, 10.0.0.9
	`
)

func TestParseConfig(t *testing.T) {
	t.Setenv(LOG_LEVEL, "")

	cfg, err := ParseConfig([]byte(confData))

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.True(t, cfg.Core.TCP)
	assert.False(t, cfg.Core.UDP)

	require.Len(t, cfg.Rewrite, 3)
	assert.Equal(t, RuleConfig{Schema: "SNAT", From: "10.0.0.1", To: "10.0.0.5"}, cfg.Rewrite[0])
	assert.Equal(t, RuleConfig{Schema: "SNAT", From: "10.0.0.2", To: "10.0.0.6"}, cfg.Rewrite[1])
	assert.Equal(t, RuleConfig{Schema: "DNAT", From: "93.184.216.34", To: "10.192.0.1"}, cfg.Rewrite[2])
}

func TestParseConfigDefault(t *testing.T) {
	t.Setenv(LOG_LEVEL, "")

	cfg, err := ParseConfig([]byte("[General]\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.True(t, cfg.Core.TCP)
	assert.True(t, cfg.Core.UDP)
	assert.Empty(t, cfg.Rewrite)
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv(LOG_LEVEL, "warning")

	cfg, err := ParseConfig([]byte(confData))
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.General.LogLevel)
}

func TestParseConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"schema": "[Rewrite]\nMASQ, 10.0.0.1, 10.0.0.5\n",
		"ipv6":   "[Rewrite]\nSNAT, 2001:db8::1, 10.0.0.5\n",
		"ip":     "[Rewrite]\nDNAT, 10.0.0.1, example.com\n",
	}
	for name, data := range cases {
		cfg, err := ParseConfig([]byte(data))
		assert.Error(t, err, name)
		assert.Nil(t, cfg, name)
	}
}
