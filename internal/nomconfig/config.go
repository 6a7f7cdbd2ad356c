/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package nomconfig is the ambient configuration layer for nomd: an
// INI-style file parsed with github.com/gravwell/gcfg, with
// environment-variable overrides for the access/client glob rules, and
// an fsnotify-driven hot reload of the pieces that are safe to change
// at runtime: log level and the access and client rules.
package nomconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gravwell/gcfg"
)

const maxConfigSize int64 = 4 * 1024 * 1024

var ErrConfigFileTooLarge = errors.New("nomconfig: config file is too large")
var ErrNoListenAddress = errors.New("nomconfig: Listen-Address is required")

const envAccessRules = "NOM_ACCESS_RULES"
const envClientRules = "NOM_CLIENT_RULES"

// Global is the [Global] INI section.
type Global struct {
	Listen_Address  string
	Log_Level       string
	Log_File        string
	Default_Allow   bool
	Reply_Timeout   string
}

// RuleSet is one rule section, e.g. [AccessRule] or [ClientRule]: each
// repeated Pattern= key is paired by position with a repeated Allow= key.
type RuleSet struct {
	Pattern []string
	Allow   []bool
}

// Config is the full nomd configuration file shape.
type Config struct {
	Global      Global
	AccessRule  RuleSet
	ClientRule  RuleSet
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	fin, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fin.Close()

	fi, err := fin.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() > maxConfigSize {
		return nil, ErrConfigFileTooLarge
	}

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, fin); err != nil {
		return nil, err
	}

	var c Config
	if err := gcfg.ReadStringInto(&c, buf.String()); err != nil {
		return nil, err
	}
	c.loadEnvOverrides()
	return &c, nil
}

func (c *Config) loadEnvOverrides() {
	if len(c.AccessRule.Pattern) == 0 {
		if raw := os.Getenv(envAccessRules); raw != "" {
			c.AccessRule = parseRuleEnv(raw)
		}
	}
	if len(c.ClientRule.Pattern) == 0 {
		if raw := os.Getenv(envClientRules); raw != "" {
			c.ClientRule = parseRuleEnv(raw)
		}
	}
}

// parseRuleEnv parses a comma-separated "pattern:allow|deny" list, the
// environment-variable equivalent of repeated INI "pattern = verdict"
// lines.
func parseRuleEnv(raw string) RuleSet {
	var rs RuleSet
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		rs.Pattern = append(rs.Pattern, kv[0])
		rs.Allow = append(rs.Allow, strings.EqualFold(kv[1], "allow"))
	}
	return rs
}

// Verify validates and fills in defaults.
func (c *Config) Verify() error {
	c.Global.Log_Level = strings.ToUpper(strings.TrimSpace(c.Global.Log_Level))
	if c.Global.Log_Level == "" {
		c.Global.Log_Level = "INFO"
	}
	if c.Global.Listen_Address == "" {
		return ErrNoListenAddress
	}
	if c.Global.Reply_Timeout == "" {
		c.Global.Reply_Timeout = "5s"
	}
	return nil
}

// Rules renders a RuleSet as the (pattern, allow) pairs GlobAuthorizer
// expects, reported along with any pattern/allow length mismatch (a
// malformed config file -- gcfg cannot enforce that itself since the two
// fields are independent repeated keys).
func (rs RuleSet) Rules() ([]PatternRule, error) {
	if len(rs.Pattern) != len(rs.Allow) {
		return nil, fmt.Errorf("nomconfig: %d patterns but %d verdicts", len(rs.Pattern), len(rs.Allow))
	}
	out := make([]PatternRule, len(rs.Pattern))
	for i := range rs.Pattern {
		out[i] = PatternRule{Pattern: rs.Pattern[i], Allow: rs.Allow[i]}
	}
	return out, nil
}

// PatternRule is the config-neutral form package nom's GlobAuthorizer
// consumes (nomconfig deliberately doesn't import package nom, to keep
// config parsing independent of the protocol implementation).
type PatternRule struct {
	Pattern string
	Allow   bool
}
