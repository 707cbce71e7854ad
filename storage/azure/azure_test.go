package azure

import (
	"testing"
)

func TestNewStoreFromClient_DefaultContainer(t *testing.T) {
	s := NewStoreFromClient(nil)
	if s.Container() != "chat-history" {
		t.Fatalf("unexpected default container: %q", s.Container())
	}
}

func TestNewStoreFromClient_ContainerOverride(t *testing.T) {
	s := NewStoreFromClient(nil, func(o *Options) {
		o.Container = "custom"
	})
	if s.Container() != "custom" {
		t.Fatalf("unexpected container: %q", s.Container())
	}
}

func TestNewStore_BadConnectionString(t *testing.T) {
	if _, err := NewStore("not a connection string"); err == nil {
		t.Fatal("expected error for malformed connection string")
	}
}
