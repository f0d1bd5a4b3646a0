package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasher_HashProducesUniqueDigests(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("secret-password")
	require.NoError(t, err)
	second, err := h.Hash("secret-password")
	require.NoError(t, err)

	// Fresh salt per call means identical input yields distinct digests
	require.NotEqual(t, first, second)

	require.True(t, h.Verify("secret-password", first))
	require.True(t, h.Verify("secret-password", second))
}

func TestHasher_VerifyRejectsWrongPassword(t *testing.T) {
	h := NewHasher()

	digest, err := h.Hash("correct-password")
	require.NoError(t, err)

	require.False(t, h.Verify("wrong-password", digest))
	require.False(t, h.Verify("", digest))
}

func TestHasher_DigestFormat(t *testing.T) {
	h := NewHasher()

	digest, err := h.Hash("anything-at-all")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(digest, "$argon2id$"))
	// Raw password must never appear in the digest
	require.NotContains(t, digest, "anything-at-all")
}

func TestHasher_VerifyRejectsMalformedDigest(t *testing.T) {
	h := NewHasher()

	cases := []struct {
		name   string
		digest string
	}{
		{"empty", ""},
		{"garbage", "not-a-digest"},
		{"truncated", "$argon2id$v=19$m=65536,t=3,p=4$short"},
		{"bad base64", "$argon2id$v=19$m=65536,t=3,p=4$!!!$!!!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.False(t, h.Verify("whatever", tc.digest))
		})
	}
}
