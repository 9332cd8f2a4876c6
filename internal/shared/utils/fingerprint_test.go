package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("pulsemcp.com", "memory")
	b := Fingerprint("pulsemcp.com", "memory")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintNormalizesQuery(t *testing.T) {
	a := Fingerprint("src", "Memory  Server")
	b := Fingerprint("src", "  memory server ")
	assert.Equal(t, a, b)
}

func TestFingerprintDistinguishesSources(t *testing.T) {
	assert.NotEqual(t, Fingerprint("a", "q"), Fingerprint("b", "q"))
	assert.NotEqual(t, Fingerprint("a", "q1"), Fingerprint("a", "q2"))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "foo bar", NormalizeQuery("  Foo   BAR "))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Memory Server", "memory"))
	assert.True(t, ContainsFold("foo", "FOO"))
	assert.False(t, ContainsFold("foo", "bar"))
}

func TestShortFingerprint(t *testing.T) {
	assert.Equal(t, "abcd1234", ShortFingerprint("abcd1234ef"))
	assert.Equal(t, "ab", ShortFingerprint("ab"))
}
