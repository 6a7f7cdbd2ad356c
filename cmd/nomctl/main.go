/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Command nomctl is a debug client for a running nomd: it resolves one
// named object and performs a single capability-set operation against
// it, printing the result.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/grissess/nom/internal/nomlog"
	"github.com/grissess/nom/nom"
	"github.com/grissess/nom/wire"
)

var (
	target  = flag.String("addr", "127.0.0.1:9100", "nomd address to query")
	name    = flag.String("name", "", "directory name to RESOLVE")
	op      = flag.String("op", "str", "capability-set op: getattr|setattr|getitem|len|repr|str|call")
	attr    = flag.String("attr", "", "attribute name, for getattr/setattr")
	val     = flag.String("val", "", "value to set, for setattr (parsed as int if numeric, else string)")
	list    = flag.Bool("list", false, "LIST the remote directory instead of RESOLVE+op")
	verbose = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Parse()

	remote, err := net.ResolveUDPAddr("udp", *target)
	if err != nil {
		log.Fatal("bad -addr: ", err)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		log.Fatal("failed to bind local socket: ", err)
	}
	lgr := nomlog.NewStderr()
	if *verbose {
		lgr.SetLevel(nomlog.DEBUG)
	} else {
		lgr.SetLevel(nomlog.WARN)
	}

	local := conn.LocalAddr().(*net.UDPAddr)
	svc := nom.NewService(conn, nom.AddressFromUDP(local), nom.WithLogger(lgr))
	go svc.Serve()
	defer svc.Close()

	remoteAddr := nom.AddressFromUDP(remote)

	if d, err := svc.SendRequest(remoteAddr, wire.CmdSync, nil); err != nil {
		log.Fatal("SYNC send failed: ", err)
	} else if _, err := d.Wait(5 * time.Second); err != nil {
		log.Fatal("SYNC denied: ", err)
	}

	if *list {
		d, err := svc.SendRequest(remoteAddr, wire.CmdList, nil)
		if err != nil {
			log.Fatal(err)
		}
		v, err := d.Wait(5 * time.Second)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(v)
		return
	}

	if *name == "" {
		fmt.Fprintln(os.Stderr, "-name is required unless -list is given")
		os.Exit(2)
	}

	d, err := svc.SendRequest(remoteAddr, wire.CmdResolve, map[string]interface{}{wire.AttrName: *name})
	if err != nil {
		log.Fatal(err)
	}
	v, err := d.Wait(5 * time.Second)
	if err != nil {
		log.Fatal("RESOLVE failed: ", err)
	}
	ref, ok := v.(*nom.RemoteReference)
	if !ok {
		log.Fatalf("RESOLVE returned a %T, not a remote object", v)
	}

	result, err := perform(ref, *op, *attr, *val)
	if err != nil {
		log.Fatal("operation failed: ", err)
	}
	fmt.Println(result)
}

func perform(ref *nom.RemoteReference, op, attr, val string) (interface{}, error) {
	switch op {
	case "getattr":
		return ref.GetAttr(attr)
	case "setattr":
		return nil, ref.SetAttr(attr, parseVal(val))
	case "getitem":
		return ref.GetItem(parseVal(attr))
	case "len":
		return ref.Len()
	case "repr":
		return ref.Repr()
	case "str":
		return ref.Str()
	case "call":
		return ref.Call(nil, nil)
	default:
		return nil, fmt.Errorf("unknown -op %q", op)
	}
}

// parseVal interprets a command-line string as an int32 when it parses
// cleanly, and as a literal string otherwise -- nomctl has no general
// notion of argument typing beyond that.
func parseVal(s string) interface{} {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(n)
	}
	return s
}
