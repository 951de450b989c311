package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseAddresses(t *testing.T) {
	got, err := ParseAddresses([]string{
		" 0x1111111111111111111111111111111111111111 ",
		"",
		"# comment",
		"0x2222222222222222222222222222222222222222",
		"0X1111111111111111111111111111111111111111",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []common.Address{
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d addresses, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("address %d: %s != %s", i, got[i].Hex(), want[i].Hex())
		}
	}
}

func TestParseAddressesInvalid(t *testing.T) {
	if _, err := ParseAddresses([]string{"0x1234"}); err == nil {
		t.Fatalf("expected error for short address")
	}
}

func TestReadAddressFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	content := "# tokens\n0x1111111111111111111111111111111111111111\n\n0x2222222222222222222222222222222222222222\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	lines, err := ReadAddressFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addrs, err := ParseAddresses(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(addrs) != 2 {
		t.Fatalf("got %d addresses, want 2", len(addrs))
	}
}

func TestReadAddressFileMissing(t *testing.T) {
	if _, err := ReadAddressFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
