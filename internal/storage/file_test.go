package storage

import (
	"context"
	"errors"
	"testing"
)

func TestFileStore_Roundtrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "trace:archive:v2", []byte(`[{"id":"abc"}]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := s.Read(ctx, "trace:archive:v2")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != `[{"id":"abc"}]` {
		t.Errorf("Read() = %s, want written blob", data)
	}
}

func TestFileStore_ReadMissingKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	_, err = s.Read(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_QuotaExceeded(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 10)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "k", []byte("0123456789")); err != nil {
		t.Errorf("Write() at quota error = %v, want nil", err)
	}
	err = s.Write(ctx, "k", []byte("0123456789!"))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Write() over quota error = %v, want ErrCapacityExceeded", err)
	}

	// The prior blob must survive a rejected write.
	data, err := s.Read(ctx, "k")
	if err != nil || string(data) != "0123456789" {
		t.Errorf("Read() after rejected write = %s, %v; want prior blob intact", data, err)
	}
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	if err := s.Write(ctx, "k", []byte("x")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
	if _, err := s.Read(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() after delete error = %v, want ErrNotFound", err)
	}
}
