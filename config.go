//
//   date  : 2023-12-12
//   author: xjdrew
//

package ipnat

import (
	"fmt"
	"net"
	"os"
	"strings"
	"unicode"

	"gopkg.in/ini.v1"
)

func init() {
	ini.PrettyFormat = true
}

const LOG_LEVEL = "IPNAT_LOG_LEVEL"

type GeneralConfig struct {
	LogLevel string `ini:"log-level"`
}

type CoreConfig struct {
	TCP bool `ini:"tcp"` // rewrite tcp packets
	UDP bool `ini:"udp"` // rewrite udp packets
}

type RuleConfig struct {
	Schema string // SNAT or DNAT
	From   string
	To     string
}

type Config struct {
	source interface{} // config source: file name or raw ini data
	inif   *ini.File   // parsed ini file

	General GeneralConfig
	Core    CoreConfig
	Rewrite []RuleConfig `ini:"-"`
}

func parseDirection(schema string) (Direction, error) {
	switch strings.ToUpper(schema) {
	case "SNAT":
		return SNAT, nil
	case "DNAT":
		return DNAT, nil
	}
	return 0, fmt.Errorf("[check rewrite] invalid schema: %q", schema)
}

func (cfg *Config) parseRewrite(sec *ini.Section) error {
	for _, key := range sec.KeyStrings() {
		ops := strings.FieldsFunc(key, func(c rune) bool {
			return c == ',' || unicode.IsSpace(c)
		})
		logger.Debugf("%s %v", key, ops)
		if len(ops) != 3 { // ignore invalid format
			continue
		}
		cfg.Rewrite = append(cfg.Rewrite, RuleConfig{
			Schema: strings.ToUpper(ops[0]),
			From:   ops[1],
			To:     ops[2],
		})
	}
	return nil
}

func (cfg *Config) check() error {
	for _, rule := range cfg.Rewrite {
		if _, err := parseDirection(rule.Schema); err != nil {
			return err
		}
		for _, v := range []string{rule.From, rule.To} {
			if ip := net.ParseIP(v); ip == nil || ip.To4() == nil {
				return fmt.Errorf("[check rewrite] invalid ipv4 address: %s", v)
			}
		}
	}
	return nil
}

func ParseConfig(source interface{}) (*Config, error) {
	cfg := new(Config)
	cfg.source = source

	// set default value
	cfg.General.LogLevel = "info"
	cfg.Core.TCP = true
	cfg.Core.UDP = true

	// decode config value
	f, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true, KeyValueDelimiters: "="}, source)
	if err != nil {
		logger.Errorf("%v", err)
		return nil, err
	}
	cfg.inif = f

	err = f.MapTo(cfg)
	if err != nil {
		return nil, err
	}

	// read log level from env
	if os.Getenv(LOG_LEVEL) != "" {
		cfg.General.LogLevel = os.Getenv(LOG_LEVEL)
		logger.Debugf("[env]set %s=%s", LOG_LEVEL, cfg.General.LogLevel)
	}

	// init rewrite rules
	if err := cfg.parseRewrite(f.Section("Rewrite")); err != nil {
		return nil, err
	}

	err = cfg.check()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
