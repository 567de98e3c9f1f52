package ai

import (
	"bytes"
	"testing"
)

func TestDataURIRoundTrip(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	uri := EncodeDataURI("image/png", data)
	if !IsImageDataURI(uri) {
		t.Fatalf("expected image data uri, got %q", uri)
	}
	mime, decoded, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mime != "image/png" || !bytes.Equal(decoded, data) {
		t.Fatalf("unexpected decode %q %v", mime, decoded)
	}
}

func TestEncodeDataURIDefaultsMIME(t *testing.T) {
	uri := EncodeDataURI("", []byte("x"))
	if uri != "data:application/octet-stream;base64,eA==" {
		t.Fatalf("unexpected uri %q", uri)
	}
	if IsImageDataURI(uri) {
		t.Fatalf("octet stream should not be an image")
	}
}

func TestDecodeDataURIRejectsGarbage(t *testing.T) {
	for _, uri := range []string{"", "http://x", "data:image/png;base64"} {
		if _, _, err := DecodeDataURI(uri); err == nil {
			t.Fatalf("expected error for %q", uri)
		}
	}
	if _, _, err := DecodeDataURI("data:image/png;base64,@@@"); err == nil {
		t.Fatalf("expected base64 error")
	}
}

func TestAttachmentPartClassification(t *testing.T) {
	if part := AttachmentPart("data:image/jpeg;base64,AA=="); part.Type != PartImageURL || part.ImageURL == nil {
		t.Fatalf("expected image part, got %+v", part)
	}
	if part := AttachmentPart("data:application/pdf;base64,AA=="); part.Type != PartFile || part.File == nil {
		t.Fatalf("expected file part, got %+v", part)
	}
}
