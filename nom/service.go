/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package nom implements the bidirectional, xid-correlated UDP request/
// response protocol on top of package wire, plus the object
// identity/proxying machinery that turns a handle arriving over the
// wire into either the original local object or a *RemoteReference.
package nom

import (
	"fmt"
	"math/big"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grissess/nom/capability"
	"github.com/grissess/nom/codec"
	"github.com/grissess/nom/objtable"
	"github.com/grissess/nom/wire"
)

// Logger is the minimal leveled-logging surface Service needs; package
// internal/nomlog's *Logger satisfies it directly, so Service carries no
// import on any concrete logging library itself.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Metrics is the minimal counters/gauges surface Service reports to;
// package internal/nommetrics provides a Prometheus-backed
// implementation.
type Metrics interface {
	PacketSent(cmd string)
	PacketReceived(cmd string)
	SetOutstanding(n int)
	ObservePullLatency(d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) PacketSent(string)               {}
func (noopMetrics) PacketReceived(string)            {}
func (noopMetrics) SetOutstanding(int)               {}
func (noopMetrics) ObservePullLatency(time.Duration) {}

// DefaultReplyTimeout is the Wait timeout RemoteReference and
// RemoteClient use when their own Timeout field is zero. A Deferred
// returned by SendRequest has no timeout of its own: it waits as long
// as the timeout passed to Wait.
const DefaultReplyTimeout = 5 * time.Second

// Service is one NOM endpoint: a UDP socket, an object table, and the
// dispatch loop that turns inbound datagrams into either delivered
// Deferred replies or freshly handled requests.
type Service struct {
	conn     *net.UDPConn
	selfAddr Address
	codec    *codec.Codec
	table    *objtable.Table
	translator *ObjectTranslator
	deferreds  *DeferredRegistry

	authorizer Authorizer
	log        Logger
	metrics    Metrics

	// Trace logs every inbound and outbound datagram at DEBUG, the
	// Go equivalent of the original's commented-out LoggedSocket. It
	// defaults to false so a running Service pays nothing beyond the
	// level check already done inside Logger.Debugf.
	Trace bool

	clientsMu sync.Mutex
	clients   map[string]*Client

	xidCounter uint64

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// Option configures a Service at construction.
type Option func(*Service)

// WithAuthorizer overrides the default (underscore-denies-all) Authorizer.
func WithAuthorizer(a Authorizer) Option {
	return func(s *Service) { s.authorizer = a }
}

// WithLogger installs a Logger; nil leaves logging a no-op.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics installs a Metrics sink; nil leaves it a no-op.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTrace turns on Service.Trace at construction.
func WithTrace(on bool) Option {
	return func(s *Service) { s.Trace = on }
}

// NewService binds conn and returns a running Service's scaffolding;
// call Serve to start the dispatch loop. selfAddr is this Service's own
// advertised (host, port) -- the value remote peers will see as the
// owner address of handles this Service mints.
func NewService(conn *net.UDPConn, selfAddr Address, opts ...Option) *Service {
	s := &Service{
		conn:       conn,
		selfAddr:   selfAddr,
		codec:      codec.New(),
		table:      objtable.New(),
		deferreds:  NewDeferredRegistry(),
		authorizer: DefaultAuthorizer{},
		log:        noopLogger{},
		metrics:    noopMetrics{},
		clients:    make(map[string]*Client),
		closeCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.translator = newObjectTranslator(s)
	return s
}

// Codec returns the Service's Codec, e.g. so a caller can Register
// additional application-specific Variants before traffic starts.
func (s *Service) Codec() *codec.Codec { return s.codec }

// Table returns the Service's object table, for Register-ing named
// root objects (directory entries reachable via RESOLVE/LIST).
func (s *Service) Table() *objtable.Table { return s.table }

// SelfAddr returns the Service's own advertised address.
func (s *Service) SelfAddr() Address { return s.selfAddr }

// NewXID allocates the next transaction id.
func (s *Service) NewXID() uint64 {
	return atomic.AddUint64(&s.xidCounter, 1)
}

func xidToWire(xid uint64) *big.Int {
	return new(big.Int).SetUint64(xid)
}

func xidFromWire(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case *big.Int:
		if !n.IsUint64() {
			return 0, false
		}
		return n.Uint64(), true
	case int32:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}

// SendPacket encodes pkt and writes it to addr.
func (s *Service) SendPacket(addr Address, pkt *wire.Packet) error {
	data, err := pkt.Encode(s.codec)
	if err != nil {
		return err
	}
	udpAddr, err := addr.UDPAddr()
	if err != nil {
		return err
	}
	if _, err := s.conn.WriteToUDP(data, udpAddr); err != nil {
		return err
	}
	s.metrics.PacketSent(pkt.Cmd.String())
	if s.Trace {
		s.log.Debugf("nom: %s <- %s %+v", addr, pkt.Cmd, pkt.Attrs)
	}
	return nil
}

// SendRequest registers a Deferred for a fresh xid, sends cmd/attrs to
// addr with that xid attached, and returns the Deferred. Registration
// happens before transmission so a reply can never arrive before its
// waiter exists.
func (s *Service) SendRequest(addr Address, cmd wire.CMD, attrs map[string]interface{}) (*Deferred, error) {
	xid := s.NewXID()
	d := s.deferreds.New(xid)
	s.metrics.SetOutstanding(s.outstandingCount())

	full := make(map[string]interface{}, len(attrs)+1)
	for k, v := range attrs {
		full[k] = v
	}
	full[wire.AttrXid] = xidToWire(xid)

	if err := s.SendPacket(addr, wire.New(cmd, full)); err != nil {
		s.deferreds.Forget(xid)
		s.metrics.SetOutstanding(s.outstandingCount())
		return nil, err
	}
	return d, nil
}

func (s *Service) outstandingCount() int {
	return s.deferreds.Len()
}

// Serve runs the receive loop until Close is called. It is intended to
// run in its own goroutine, one per Service.
func (s *Service) Serve() error {
	buf := make([]byte, 65536)
	for {
		select {
		case <-s.closeCh:
			return nil
		default:
		}
		n, from, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-s.closeCh:
				return nil
			default:
			}
			s.log.Errorf("nom: recvfrom: %v", err)
			return err
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		s.handleDatagram(data, AddressFromUDP(from))
	}
}

// Close stops the receive loop, cancels every outstanding Deferred, and
// closes the underlying socket. It waits for in-flight PULL workers to
// finish before returning.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		err = s.conn.Close()
		s.deferreds.CancelAll()
	})
	s.wg.Wait()
	return err
}

func (s *Service) handleDatagram(data []byte, from Address) {
	pkt, err := wire.Decode(s.codec, data)
	if err != nil {
		s.log.Warnf("nom: decode from %s: %v", from, err)
		return
	}
	s.metrics.PacketReceived(pkt.Cmd.String())
	if s.Trace {
		s.log.Debugf("nom: %s -> %s %+v", from, pkt.Cmd, pkt.Attrs)
	}

	if pkt.Has(wire.AttrResult) || pkt.Has(wire.AttrError) {
		if xidVal, ok := pkt.Get(wire.AttrXid); ok {
			if xid, ok := xidFromWire(xidVal); ok {
				result := DeferredResult{}
				if errVal, has := pkt.Get(wire.AttrError); has {
					result.Err = asError(errVal)
				} else {
					result.Value, _ = pkt.Get(wire.AttrResult)
				}
				s.deferreds.Deliver(xid, result)
			}
		}
		return
	}

	switch pkt.Cmd {
	case wire.CmdSync:
		s.handleSync(pkt, from)
	case wire.CmdDesync:
		s.handleDesync(pkt, from)
	case wire.CmdPull:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handlePull(pkt, from)
		}()
	case wire.CmdResolve:
		s.handleResolve(pkt, from)
	case wire.CmdList:
		s.handleList(pkt, from)
	case wire.CmdPush:
		s.log.Debugf("nom: PUSH from %s ignored (reserved)", from)
	case wire.CmdKeepalive:
		s.touchClient(from)
	default:
		s.log.Warnf("nom: unrecognized cmd %d from %s", pkt.Cmd, from)
	}
}

func asError(v interface{}) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}

func (s *Service) reply(cmd wire.CMD, from Address, req *wire.Packet, result interface{}, replyErr error) {
	attrs := map[string]interface{}{}
	if xidVal, ok := req.Get(wire.AttrXid); ok {
		attrs[wire.AttrXid] = xidVal
	}
	if replyErr != nil {
		attrs[wire.AttrError] = replyErr
	} else {
		attrs[wire.AttrResult] = result
	}
	if err := s.SendPacket(from, wire.New(cmd, attrs)); err != nil {
		s.log.Warnf("nom: reply to %s: %v", from, err)
	}
}

func (s *Service) touchClient(from Address) {
	now := time.Now()
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if c, ok := s.clients[from.String()]; ok {
		c.touch(now)
	}
}

func (s *Service) handleSync(pkt *wire.Packet, from Address) {
	if !s.authorizer.CanClientSync(from) {
		s.reply(wire.CmdSync, from, pkt, nil, fmt.Errorf("nom: sync denied for %s", from))
		return
	}
	now := time.Now()
	s.clientsMu.Lock()
	s.clients[from.String()] = &Client{Addr: from, SyncedAt: now, LastSeen: now}
	s.clientsMu.Unlock()
	s.log.Infof("nom: SYNC from %s", from)
	s.reply(wire.CmdSync, from, pkt, true, nil)
}

// handleDesync forgets the peer and sends no reply: the sender of a
// DESYNC does not wait on it, and releases its own transaction (if any)
// through Deferred.Wait's timeout rather than a confirming packet.
func (s *Service) handleDesync(pkt *wire.Packet, from Address) {
	s.clientsMu.Lock()
	delete(s.clients, from.String())
	s.clientsMu.Unlock()
	s.log.Infof("nom: DESYNC from %s", from)
}

func (s *Service) handleResolve(pkt *wire.Packet, from Address) {
	nameVal, ok := pkt.Get(wire.AttrName)
	name, _ := nameVal.(string)
	if !ok || name == "" {
		s.reply(wire.CmdResolve, from, pkt, nil, fmt.Errorf("nom: RESOLVE missing name"))
		return
	}
	if !s.authorizer.CanClientAccess(from, name) {
		s.reply(wire.CmdResolve, from, pkt, nil, fmt.Errorf("nom: access denied: %s", name))
		return
	}
	obj, err := s.table.Resolve(name)
	if err != nil {
		s.reply(wire.CmdResolve, from, pkt, nil, err)
		return
	}
	s.reply(wire.CmdResolve, from, pkt, obj, nil)
}

func (s *Service) handleList(pkt *wire.Packet, from Address) {
	names := s.table.List()
	items := make(codec.List, len(names))
	for i, n := range names {
		items[i] = n
	}
	s.reply(wire.CmdList, from, pkt, items, nil)
}

// handlePull services one inbound PULL: op is the capability-set
// operation name, oid names the local object, and the rest of the
// attributes carry that operation's arguments. Each inbound PULL runs
// in its own goroutine, so a slow Call on one object cannot stall
// replies to unrelated PULLs.
func (s *Service) handlePull(pkt *wire.Packet, from Address) {
	start := time.Now()
	defer func() { s.metrics.ObservePullLatency(time.Since(start)) }()

	result, err := s.dispatchPull(pkt, from)
	s.reply(wire.CmdPull, from, pkt, result, err)
}

func (s *Service) dispatchPull(pkt *wire.Packet, from Address) (interface{}, error) {
	oidVal, ok := pkt.Get(wire.AttrOid)
	if !ok {
		return nil, fmt.Errorf("nom: PULL missing oid")
	}
	oid, ok := oidVal.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("nom: PULL oid is %T, want integer", oidVal)
	}
	obj, err := s.table.Lookup(oid)
	if err != nil {
		return nil, err
	}
	rp := capability.NewReverseProxy(obj)

	opVal, _ := pkt.Get(wire.AttrOp)
	op, _ := opVal.(string)

	if name, ok := pullAttrName(pkt); ok && !s.authorizer.CanClientAccess(from, name) {
		return nil, fmt.Errorf("nom: access denied: %s", name)
	}

	switch op {
	case "getattr":
		attr, _ := pkt.Get(wire.AttrAttr)
		return rp.GetAttr(attr.(string))
	case "setattr":
		attr, _ := pkt.Get(wire.AttrAttr)
		val, _ := pkt.Get(wire.AttrVal)
		return nil, rp.SetAttr(attr.(string), val)
	case "delattr":
		attr, _ := pkt.Get(wire.AttrAttr)
		return nil, rp.DelAttr(attr.(string))
	case "getitem":
		item, _ := pkt.Get(wire.AttrItem)
		return rp.GetItem(item)
	case "setitem":
		item, _ := pkt.Get(wire.AttrItem)
		val, _ := pkt.Get(wire.AttrVal)
		return nil, rp.SetItem(item, val)
	case "delitem":
		item, _ := pkt.Get(wire.AttrItem)
		return nil, rp.DelItem(item)
	case "len":
		n, err := rp.Len()
		return int32(n), err
	case "repr":
		return rp.Repr()
	case "str":
		return rp.Str()
	case "call":
		args, kwargs := pullCallArgs(pkt)
		return rp.Call(args, kwargs)
	default:
		return nil, fmt.Errorf("nom: unknown PULL op %q", op)
	}
}

func pullAttrName(pkt *wire.Packet) (string, bool) {
	if v, ok := pkt.Get(wire.AttrAttr); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	if v, ok := pkt.Get(wire.AttrItem); ok {
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func pullCallArgs(pkt *wire.Packet) ([]interface{}, map[string]interface{}) {
	var args []interface{}
	if v, ok := pkt.Get(wire.AttrArgs); ok {
		switch a := v.(type) {
		case codec.Tuple:
			args = []interface{}(a)
		case codec.List:
			args = []interface{}(a)
		}
	}
	var kwargs map[string]interface{}
	if v, ok := pkt.Get(wire.AttrKwargs); ok {
		if m, ok := v.(codec.Map); ok {
			kwargs = make(map[string]interface{}, len(m.Entries))
			for _, e := range m.Entries {
				if k, ok := e.Key.(string); ok {
					kwargs[k] = e.Value
				}
			}
		}
	}
	return args, kwargs
}
