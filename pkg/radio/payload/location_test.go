package payload

import "testing"

func TestLocationEncodeDecode(t *testing.T) {
	l := Location{
		LatDir:  "N",
		Lat:     "4943.97313",
		LongDir: "E",
		Long:    "02340.25276",
	}

	buf := l.Encode()
	if len(buf) != LocationSize {
		t.Fatalf("encoded length = %d, want %d", len(buf), LocationSize)
	}

	decoded, err := decodeLocation(buf)
	if err != nil {
		t.Fatalf("decodeLocation: %v", err)
	}
	if decoded != l {
		t.Errorf("decodeLocation(l.Encode()) = %+v, want %+v", decoded, l)
	}
}

func TestLocationEncodePadsWithNulls(t *testing.T) {
	l := Location{LatDir: "N", Lat: "1", LongDir: "E", Long: "2"}
	buf := l.Encode()

	if buf[1] != '1' {
		t.Fatalf("expected first byte of Lat field to be '1', got %q", buf[1])
	}
	if buf[2] != 0 {
		t.Fatalf("expected Lat field to be null-padded after its content, got %q", buf[2])
	}
}

func TestDecodeLocationWrongLength(t *testing.T) {
	if _, err := decodeLocation([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error for a short LOCATION payload")
	}
}
