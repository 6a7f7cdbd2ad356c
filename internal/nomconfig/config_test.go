/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nomconfig

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
[Global]
Listen-Address=0.0.0.0:9100
Log-Level=debug
Default-Allow=true

[AccessRule]
Pattern=_*
Allow=false
Pattern=public_*
Allow=true

[ClientRule]
Pattern=10.0.*
Allow=true
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "nomd.conf")
	if err := os.WriteFile(p, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadAndVerify(t *testing.T) {
	p := writeTemp(t, sampleConfig)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Verify(); err != nil {
		t.Fatal(err)
	}
	if cfg.Global.Listen_Address != "0.0.0.0:9100" {
		t.Fatalf("unexpected listen address: %q", cfg.Global.Listen_Address)
	}
	if cfg.Global.Log_Level != "DEBUG" {
		t.Fatalf("expected normalized DEBUG, got %q", cfg.Global.Log_Level)
	}

	rules, err := cfg.AccessRule.Rules()
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 2 || rules[0].Pattern != "_*" || rules[0].Allow {
		t.Fatalf("unexpected access rules: %#v", rules)
	}
}

func TestVerifyRequiresListenAddress(t *testing.T) {
	p := writeTemp(t, "[Global]\nLog-Level=info\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Verify(); err != ErrNoListenAddress {
		t.Fatalf("expected ErrNoListenAddress, got %v", err)
	}
}

func TestParseRuleEnv(t *testing.T) {
	rs := parseRuleEnv("_*:deny, public_*:allow")
	if len(rs.Pattern) != 2 || len(rs.Allow) != 2 {
		t.Fatalf("unexpected ruleset: %#v", rs)
	}
	if rs.Allow[0] || !rs.Allow[1] {
		t.Fatalf("unexpected verdicts: %#v", rs.Allow)
	}
}
