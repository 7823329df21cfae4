package logger

import "testing"

func TestNopDiscardsOutput(t *testing.T) {
	// Nop must not panic and must satisfy Interface.
	var l Interface = Nop
	l.Printf("discarded %s", "message")
}

func TestDefaultLoggerSatisfiesInterface(t *testing.T) {
	var l Interface = DefaultLogger
	if l == nil {
		t.Fatal("DefaultLogger must not be nil")
	}
}
