package hashutil

import "testing"

func TestHashBytes(t *testing.T) {
	tests := []struct {
		name    string
		algo    HashAlgo
		wantErr bool
	}{
		{name: "sha256", algo: HashAlgoSHA256},
		{name: "blake3", algo: HashAlgoBLAKE3},
		{name: "unsupported", algo: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HashBytes([]byte("hello"), tt.algo)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 64 {
				t.Fatalf("expected 64 hex chars, got %d", len(got))
			}

			// same input must hash to the same digest
			again, _ := HashBytes([]byte("hello"), tt.algo)
			if got != again {
				t.Fatal("hash is not deterministic")
			}

			other, _ := HashBytes([]byte("world"), tt.algo)
			if got == other {
				t.Fatal("different inputs produced the same digest")
			}
		})
	}
}

func TestShortHash(t *testing.T) {
	h := ShortHash([]byte("q=a&b=c"), 8)
	if len(h) != 8 {
		t.Fatalf("expected 8 chars, got %d", len(h))
	}
	if h != ShortHash([]byte("q=a&b=c"), 8) {
		t.Fatal("short hash is not stable")
	}
	if full := ShortHash([]byte("x"), 1000); len(full) != 64 {
		t.Fatalf("expected hash capped at 64 chars, got %d", len(full))
	}
}
