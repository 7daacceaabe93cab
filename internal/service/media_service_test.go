package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestMediaUpload(t *testing.T) {
	store := NewMemoryStore("http://media.test/")
	s := NewMediaService(store)

	url, err := s.Upload(context.Background(), "t1", pngHeader)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "http://media.test/t1/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}

	key := strings.TrimPrefix(url, "http://media.test/")
	data, ok := store.Get(key)
	if !ok || len(data) != len(pngHeader) {
		t.Errorf("stored object missing for key %q", key)
	}
}

func TestMediaUploadRejects(t *testing.T) {
	s := NewMediaService(NewMemoryStore("http://media.test"))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("just some words")},
		{"pdf", []byte("%PDF-1.4\n%âãÏÓ\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Upload(context.Background(), "t1", tt.data); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
