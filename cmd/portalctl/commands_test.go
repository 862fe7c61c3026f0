package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/security"
)

func TestHashPasswordFromStdin(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	cmd := newRootCommand(zerolog.Nop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("Abc12345!\n"))
	cmd.SetArgs([]string{"hash-password", "--algorithm", "bcrypt"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash = %q, want bcrypt", hash)
	}
	if !security.NewBcryptHasher(4).Verify("Abc12345!", hash) {
		t.Fatal("hash does not verify")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	cmd := newRootCommand(zerolog.Nop())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetArgs([]string{"hash-password"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestDatabaseCommandsNeedURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	for _, args := range [][]string{{"migrate", "up"}, {"migrate", "status"}, {"seed-admin", "--password", "Abc12345!"}} {
		cmd := newRootCommand(zerolog.Nop())
		cmd.SetArgs(args)
		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("%v: err = %v", args, err)
		}
	}
}
