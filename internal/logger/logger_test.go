package logger

import "testing"

func TestGet_InitializesLazily(t *testing.T) {
	if Get() == nil {
		t.Fatal("expected a logger, got nil")
	}
	if Named("match") == nil {
		t.Fatal("expected a named logger, got nil")
	}
	Sync()
}
