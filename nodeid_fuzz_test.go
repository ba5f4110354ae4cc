// nodeid_fuzz_test.go: fuzz testing for NodeId.Hash, mirroring the
// teacher's FuzzStringHash (balios_fuzz_test.go) — determinism and
// no-panic guarantees for a hash function fed untrusted strings.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package nodestore

import "testing"

// FuzzNodeIdHash checks that Hash() is deterministic and never panics for
// any string identifier, including malformed UTF-8 and control characters.
func FuzzNodeIdHash(f *testing.F) {
	f.Add("user.temperature")
	f.Add("")
	f.Add("\x00\x01\x02")
	f.Add("用户:123")
	f.Add("🚀🎯💾")

	f.Fuzz(func(t *testing.T, s string) {
		id := NewStringNodeId(1, s)
		h1 := id.Hash()
		h2 := id.Hash()
		if h1 != h2 {
			t.Fatalf("Hash() not deterministic for %q: %d != %d", s, h1, h2)
		}

		other := NewStringNodeId(1, s)
		if !id.Equal(other) {
			t.Fatalf("two NodeIds built from the same string are not Equal")
		}
		if other.Hash() != h1 {
			t.Fatalf("equal NodeIds must hash identically")
		}
	})
}
