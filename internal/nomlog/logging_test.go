/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package nomlog

import (
	"bytes"
	"testing"
)

type bufCloser struct{ *bytes.Buffer }

func (bufCloser) Close() error { return nil }

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(bufCloser{&buf})
	if err := l.SetLevel(WARN); err != nil {
		t.Fatal(err)
	}
	l.Infof("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below WARN, got %q", buf.String())
	}
	l.Warnf("should appear")
	if buf.Len() == 0 {
		t.Fatal("expected output at WARN")
	}
}

func TestLevelFromString(t *testing.T) {
	lvl, err := LevelFromString("error")
	if err != nil {
		t.Fatal(err)
	}
	if lvl != ERROR {
		t.Fatalf("expected ERROR, got %v", lvl)
	}
	if _, err := LevelFromString("bogus"); err != ErrInvalidLevel {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestCloseRejectsFurtherWriters(t *testing.T) {
	l := New(bufCloser{&bytes.Buffer{}})
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if err := l.AddWriter(bufCloser{&bytes.Buffer{}}); err != ErrNotOpen {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
}

func TestNewDiscard(t *testing.T) {
	l := NewDiscard()
	l.Errorf("dropped: %d", 42)
}
