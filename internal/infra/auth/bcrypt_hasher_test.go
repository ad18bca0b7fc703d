package auth

import (
	"strings"
	"testing"

	"shoponline/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	hasher := newBcryptHasher(bcrypt.MinCost)

	passwords := []string{"Secret123", "Ab1xyz", strings.Repeat("Aa1", 24), "ünïcødé9Z"}
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		require.NoError(t, err)
		assert.NotEqual(t, password, hash)
		assert.True(t, hasher.Verify(hash, password), "password %q", password)
	}
}

func TestBcryptHasher_RejectsOtherPasswords(t *testing.T) {
	hasher := newBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	assert.False(t, hasher.Verify(hash, "Secret124"))
	assert.False(t, hasher.Verify(hash, "secret123"))
	assert.False(t, hasher.Verify(hash, ""))
}

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	hasher := newBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_VerifyNeverFailsLoudly(t *testing.T) {
	hasher := newBcryptHasher(bcrypt.MinCost)

	valid, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	malformed := []string{
		"",
		"not-a-hash",
		"$2a$",
		"$2a$04$",
		valid[:len(valid)-10],
		strings.Replace(valid, "$2a$", "$9z$", 1),
		"$2a$99$" + valid[7:],
	}

	for _, digest := range malformed {
		assert.NotPanics(t, func() {
			assert.False(t, hasher.Verify(digest, "Secret123"), "digest %q", digest)
		})
	}
}

func TestBcryptHasher_CostFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "development cost", cost: 4, want: 4},
		{name: "production cost", cost: 12, want: 12},
		{name: "unset falls back", cost: 0, want: bcrypt.DefaultCost},
		{name: "too high falls back", cost: 99, want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: tt.cost}})
			assert.Equal(t, tt.want, hasher.(*bcryptHasher).cost)
		})
	}
}

func TestBcryptHasher_RejectsPasswordsBcryptWouldTruncate(t *testing.T) {
	hasher := newBcryptHasher(bcrypt.MinCost)
	limit := strings.Repeat("Ab1", 24)

	hash, err := hasher.Hash(limit)
	require.NoError(t, err)
	assert.True(t, hasher.Verify(hash, limit))

	_, err = hasher.Hash(limit + "x")
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	// Same 72-byte prefix, different tail: must not verify.
	assert.False(t, hasher.Verify(hash, limit+"x"))
	assert.False(t, hasher.Verify(hash, limit+"different"))
}
