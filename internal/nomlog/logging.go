/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Package nomlog is the ambient structured logger for nomd/nomctl: an
// RFC5424 formatter (github.com/crewjam/rfc5424) fanned out to one or
// more io.WriteClosers under a single mutex, gated by a runtime-
// adjustable level.
package nomlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/crewjam/rfc5424"
)

type Level int

const (
	OFF Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	CRITICAL
)

var ErrNotOpen = errors.New("nomlog: logger is not open")
var ErrInvalidLevel = errors.New("nomlog: invalid log level")

const defaultDepth = 3
const defaultMsgID = "nom@1"

func (l Level) String() string {
	switch l {
	case OFF:
		return "OFF"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case CRITICAL:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

func (l Level) valid() bool {
	return l >= OFF && l <= CRITICAL
}

func (l Level) priority() rfc5424.Priority {
	switch l {
	case DEBUG:
		return rfc5424.User | rfc5424.Debug
	case INFO:
		return rfc5424.User | rfc5424.Info
	case WARN:
		return rfc5424.User | rfc5424.Warning
	case ERROR:
		return rfc5424.User | rfc5424.Error
	case CRITICAL:
		return rfc5424.User | rfc5424.Crit
	}
	return rfc5424.User | rfc5424.Debug
}

// LevelFromString parses a config-file level name case-insensitively.
func LevelFromString(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "OFF":
		return OFF, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "CRITICAL":
		return CRITICAL, nil
	}
	return OFF, ErrInvalidLevel
}

// Logger fans RFC5424-formatted lines out to every registered writer.
// It satisfies nom.Logger (Debugf/Infof/Warnf/Errorf).
type Logger struct {
	mtx      sync.Mutex
	wtrs     []io.WriteCloser
	lvl      Level
	hot      bool
	hostname string
	appname  string
}

// New builds a Logger at level INFO writing to wtr.
func New(wtr io.WriteCloser) *Logger {
	l := &Logger{wtrs: []io.WriteCloser{wtr}, lvl: INFO, hot: true}
	l.guessHostnameAppname()
	return l
}

// NewStderr builds a Logger writing to os.Stderr.
func NewStderr() *Logger {
	return New(nopCloser{os.Stderr})
}

// NewDiscard builds a Logger that drops every line, for tests.
func NewDiscard() *Logger {
	return New(nopCloser{io.Discard})
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func (l *Logger) guessHostnameAppname() {
	if hn, err := os.Hostname(); err == nil {
		l.hostname = hn
	}
	if len(os.Args) > 0 {
		exe := filepath.Base(os.Args[0])
		if ext := filepath.Ext(exe); len(ext) > 0 && len(ext) < len(exe) {
			exe = strings.TrimSuffix(exe, ext)
		}
		l.appname = exe
	}
}

// AddWriter registers an additional destination for every logged line.
func (l *Logger) AddWriter(wtr io.WriteCloser) error {
	if wtr == nil {
		return errors.New("nomlog: nil writer")
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if !l.hot {
		return ErrNotOpen
	}
	l.wtrs = append(l.wtrs, wtr)
	return nil
}

// Close closes every writer and marks the Logger unusable.
func (l *Logger) Close() error {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if !l.hot {
		return ErrNotOpen
	}
	l.hot = false
	var err error
	for _, w := range l.wtrs {
		if lerr := w.Close(); lerr != nil {
			err = lerr
		}
	}
	return err
}

// SetLevel adjusts the minimum level that reaches the writers.
func (l *Logger) SetLevel(lvl Level) error {
	if !lvl.valid() {
		return ErrInvalidLevel
	}
	l.mtx.Lock()
	l.lvl = lvl
	l.mtx.Unlock()
	return nil
}

// SetLevelString is SetLevel from a config-file string, e.g. for
// nomconfig's hot-reload path.
func (l *Logger) SetLevelString(s string) error {
	lvl, err := LevelFromString(s)
	if err != nil {
		return err
	}
	return l.SetLevel(lvl)
}

func (l *Logger) Debugf(f string, args ...interface{}) { l.outputf(DEBUG, f, args...) }
func (l *Logger) Infof(f string, args ...interface{})  { l.outputf(INFO, f, args...) }
func (l *Logger) Warnf(f string, args ...interface{})  { l.outputf(WARN, f, args...) }
func (l *Logger) Errorf(f string, args ...interface{}) { l.outputf(ERROR, f, args...) }
func (l *Logger) Criticalf(f string, args ...interface{}) { l.outputf(CRITICAL, f, args...) }

func (l *Logger) outputf(lvl Level, f string, args ...interface{}) {
	l.mtx.Lock()
	cur := l.lvl
	hot := l.hot
	l.mtx.Unlock()
	if !hot || cur == OFF || lvl < cur {
		return
	}
	msg := fmt.Sprintf(f, args...)
	loc := callLoc(defaultDepth)
	b, err := genRFCMessage(time.Now(), lvl.priority(), l.hostname, l.appname, loc, msg)
	if err != nil || len(b) == 0 {
		return
	}
	l.write(b)
}

func (l *Logger) write(b []byte) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	if !l.hot {
		return
	}
	for _, w := range l.wtrs {
		w.Write(b)
		w.Write([]byte("\n"))
	}
}

// genRFCMessage renders one RFC5424 syslog line, trimming fields to the
// spec's maximum lengths (hostname 255, appname 48, msgid 32).
func genRFCMessage(ts time.Time, prio rfc5424.Priority, hostname, appname, msgid, msg string) ([]byte, error) {
	m := rfc5424.Message{
		Priority:  prio,
		Timestamp: ts,
		Hostname:  trimLen(255, hostname),
		AppName:   trimLen(48, appname),
		MessageID: trimLen(32, msgid),
		Message:   []byte(msg),
	}
	return m.MarshalBinary()
}

func trimLen(n int, s string) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func callLoc(depth int) string {
	if _, file, line, ok := runtime.Caller(depth); ok {
		dir, file := filepath.Split(file)
		return fmt.Sprintf("%s:%d", filepath.Join(filepath.Base(dir), file), line)
	}
	return defaultMsgID
}
