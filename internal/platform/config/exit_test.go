package config

import (
	"io"
	"log"
	"os"
	"strings"
	"testing"
)

func TestExitfWritesPrefixedMessageAndExits(t *testing.T) {
	var code int
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	prefix := log.Prefix()
	log.SetPrefix("[TEST] ")
	t.Cleanup(func() { log.SetPrefix(prefix) })

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	stderr := os.Stderr
	os.Stderr = writer
	Exitf("fatal: %s", "something broke")
	os.Stderr = stderr
	_ = writer.Close()

	out, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read stderr: %v", err)
	}
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if got := string(out); !strings.HasPrefix(got, "[TEST] fatal: something broke") {
		t.Fatalf("stderr = %q", got)
	}
}
