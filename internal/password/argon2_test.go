package password

import (
	"strings"
	"testing"
)

func fastConfig() Config {
	return Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashAndVerify(t *testing.T) {
	hasher, err := NewHasher(fastConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	hash, err := hasher.Hash("Abcdef1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := hasher.Verify("Abcdef1!", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	hasher, err := NewHasher(fastConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	hash, err := hasher.Hash("Abcdef1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	for _, candidate := range []string{"", "abcdef1!", "Abcdef1", "Abcdef1!!"} {
		ok, err := hasher.Verify(candidate, hash)
		if err != nil {
			t.Fatalf("Verify(%q) error: %v", candidate, err)
		}
		if ok {
			t.Fatalf("expected %q to be rejected", candidate)
		}
	}
}

func TestHashUsesRandomSalt(t *testing.T) {
	hasher, err := NewHasher(fastConfig())
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}

	first, _ := hasher.Hash("Abcdef1!")
	second, _ := hasher.Hash("Abcdef1!")
	if first == second {
		t.Fatal("expected different hashes for the same password")
	}
}

func TestVerifyWithDifferentHasherConfig(t *testing.T) {
	strong, err := NewHasher(Config{Memory: 16 * 1024, Time: 2, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	hash, err := strong.Hash("Abcdef1!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	weak, _ := NewHasher(fastConfig())
	ok, err := weak.Verify("Abcdef1!", hash)
	if err != nil || !ok {
		t.Fatalf("expected stored parameters to be used, ok=%v err=%v", ok, err)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	hasher, _ := NewHasher(fastConfig())

	cases := []string{
		"",
		"plain",
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!$aGFzaGhhc2hoYXNoaGFzaA",
	}
	for _, encoded := range cases {
		if _, err := hasher.Verify("Abcdef1!", encoded); err == nil {
			t.Fatalf("expected error for %q", encoded)
		}
	}
}

func TestNewHasherRejectsWeakConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.SaltLength = 8
	if _, err := NewHasher(cfg); err == nil {
		t.Fatal("expected short salt to be rejected")
	}

	cfg = fastConfig()
	cfg.Memory = 1024
	if _, err := NewHasher(cfg); err == nil {
		t.Fatal("expected low memory to be rejected")
	}
}
