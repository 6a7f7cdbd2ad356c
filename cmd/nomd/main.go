/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Command nomd runs a single NOM service: it binds a UDP socket and
// serves SYNC/DESYNC/PULL/RESOLVE/LIST requests until killed. It
// registers no objects of its own, so its directory starts empty.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/grissess/nom/internal/nomconfig"
	"github.com/grissess/nom/internal/nomlog"
	"github.com/grissess/nom/internal/nommetrics"
	"github.com/grissess/nom/nom"
)

const defaultConfigLoc = `/opt/nom/etc/nomd.conf`

var (
	configOverride = flag.String("config-file-override", "", "Override location for configuration file")
	verbose        = flag.Bool("v", false, "Display verbose status updates to stderr")

	confLoc string
)

func init() {
	flag.Parse()
	if *configOverride == "" {
		confLoc = defaultConfigLoc
	} else {
		confLoc = *configOverride
	}
}

func main() {
	cfg, err := nomconfig.Load(confLoc)
	if err != nil {
		log.Fatal("Failed to get configuration: ", err)
	}
	if err := cfg.Verify(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	lgr := nomlog.NewStderr()
	if err := lgr.SetLevelString(cfg.Global.Log_Level); err != nil {
		log.Fatal("Invalid Log-Level: ", err)
	}
	if *verbose {
		lgr.SetLevel(nomlog.DEBUG)
	}

	instanceID := uuid.New()
	lgr.Infof("nomd instance %s starting", instanceID)

	udpAddr, err := net.ResolveUDPAddr("udp", cfg.Global.Listen_Address)
	if err != nil {
		log.Fatal("Failed to resolve Listen-Address: ", err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		log.Fatal("Failed to bind socket: ", err)
	}

	authorizer := nom.NewGlobAuthorizer(cfg.Global.Default_Allow)
	if rules, err := cfg.AccessRule.Rules(); err != nil {
		log.Fatal("Invalid AccessRule configuration: ", err)
	} else if err := nom.SetAccessRules(authorizer, toNomRules(rules)); err != nil {
		log.Fatal("Invalid AccessRule pattern: ", err)
	}
	if rules, err := cfg.ClientRule.Rules(); err != nil {
		log.Fatal("Invalid ClientRule configuration: ", err)
	} else if err := nom.SetClientRules(authorizer, toNomRules(rules)); err != nil {
		log.Fatal("Invalid ClientRule pattern: ", err)
	}

	svc := nom.NewService(conn, nom.AddressFromUDP(conn.LocalAddr().(*net.UDPAddr)),
		nom.WithAuthorizer(authorizer),
		nom.WithLogger(lgr),
		nom.WithMetrics(nommetrics.New()),
	)

	watcher, err := nomconfig.WatchFile(confLoc, func(fresh *nomconfig.Config, err error) {
		if err != nil {
			lgr.Warnf("config reload failed: %v", err)
			return
		}
		if err := fresh.Verify(); err != nil {
			lgr.Warnf("reloaded config is invalid: %v", err)
			return
		}
		if err := lgr.SetLevelString(fresh.Global.Log_Level); err != nil {
			lgr.Warnf("reloaded Log-Level invalid: %v", err)
		}
		if rules, err := fresh.AccessRule.Rules(); err == nil {
			nom.SetAccessRules(authorizer, toNomRules(rules))
		}
		if rules, err := fresh.ClientRule.Rules(); err == nil {
			nom.SetClientRules(authorizer, toNomRules(rules))
		}
		lgr.Infof("config reloaded")
	})
	if err != nil {
		lgr.Warnf("config hot-reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	go func() {
		if err := svc.Serve(); err != nil {
			lgr.Errorf("serve loop exited: %v", err)
		}
	}()

	quitSig := make(chan os.Signal, 1)
	signal.Notify(quitSig, os.Interrupt, syscall.SIGTERM)
	<-quitSig

	lgr.Infof("nomd instance %s shutting down", instanceID)
	if err := svc.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "error closing service:", err)
	}
}

func toNomRules(prs []nomconfig.PatternRule) []nom.Rule {
	out := make([]nom.Rule, len(prs))
	for i, pr := range prs {
		out[i] = nom.Rule{Pattern: pr.Pattern, Allow: pr.Allow}
	}
	return out
}
