/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nom

import (
	"sync"

	"github.com/gobwas/glob"
)

// GlobAuthorizer evaluates an ordered allow/deny rule list of shell-style
// glob patterns against attribute and item names, and a separate pattern
// list against client host addresses for SYNC. Rules are evaluated in
// order; the first pattern that matches an attribute/address decides the
// outcome. No match falls through to defaultAllow.
//
// This is the domain-stack authorizer: config (package nomconfig) can
// hot-reload its rule set at runtime, so the compiled glob.Glob values
// are held behind a mutex and swapped wholesale by SetClientRules and
// SetAccessRules.
type GlobAuthorizer struct {
	mu           sync.RWMutex
	clientRules  []globRule
	accessRules  []globRule
	defaultAllow bool
}

type globRule struct {
	pattern glob.Glob
	allow   bool
}

// NewGlobAuthorizer builds a GlobAuthorizer with no rules; every check
// falls through to defaultAllow until SetClientRules/SetAccessRules are
// called.
func NewGlobAuthorizer(defaultAllow bool) *GlobAuthorizer {
	return &GlobAuthorizer{defaultAllow: defaultAllow}
}

// Rule is one (pattern, allow) pair as read from configuration, e.g.
// "10.0.*:allow" or "_*:deny" in nomconfig's environment-variable form
// (glob syntax, not CIDR).
type Rule struct {
	Pattern string
	Allow   bool
}

// SetClientRules compiles and installs the SYNC address rule set.
func SetClientRules(g *GlobAuthorizer, rules []Rule) error {
	compiled, err := compileRules(rules)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.clientRules = compiled
	g.mu.Unlock()
	return nil
}

// SetAccessRules compiles and installs the attribute/item rule set.
func SetAccessRules(g *GlobAuthorizer, rules []Rule) error {
	compiled, err := compileRules(rules)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.accessRules = compiled
	g.mu.Unlock()
	return nil
}

func compileRules(rules []Rule) ([]globRule, error) {
	out := make([]globRule, 0, len(rules))
	for _, r := range rules {
		g, err := glob.Compile(r.Pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, globRule{pattern: g, allow: r.Allow})
	}
	return out, nil
}

func evalRules(rules []globRule, subject string, defaultAllow bool) bool {
	for _, r := range rules {
		if r.pattern.Match(subject) {
			return r.allow
		}
	}
	return defaultAllow
}

// CanClientSync evaluates addr.Host against the client rule set.
func (g *GlobAuthorizer) CanClientSync(addr Address) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return evalRules(g.clientRules, addr.Host, g.defaultAllow)
}

// CanClientAccess evaluates attrOrItem against the access rule set.
func (g *GlobAuthorizer) CanClientAccess(addr Address, attrOrItem string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return evalRules(g.accessRules, attrOrItem, g.defaultAllow)
}
