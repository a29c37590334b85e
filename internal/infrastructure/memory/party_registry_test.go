package memory

import (
	"testing"

	"auction-house/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterBuyerRejectsDuplicates(t *testing.T) {
	registry := NewPartyRegistry()

	first := &domain.Buyer{Name: "alice", Address: "alice@example.com", BankAccount: "AC-1", BankAuthCode: "AUTH-1"}
	require.NoError(t, registry.RegisterBuyer(first))

	err := registry.RegisterBuyer(&domain.Buyer{Name: "alice", Address: "other@example.com"})
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	// The first registration's data is unchanged
	got, ok := registry.Buyer("alice")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", got.Address)
	assert.Equal(t, "AC-1", got.BankAccount)
}

func TestRegisterSellerRejectsDuplicates(t *testing.T) {
	registry := NewPartyRegistry()

	require.NoError(t, registry.RegisterSeller(&domain.Seller{Name: "bob", Address: "bob@example.com"}))
	err := registry.RegisterSeller(&domain.Seller{Name: "bob"})
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestBuyerAndSellerNamespacesAreSeparate(t *testing.T) {
	registry := NewPartyRegistry()

	require.NoError(t, registry.RegisterBuyer(&domain.Buyer{Name: "casey", Address: "buy@example.com"}))
	require.NoError(t, registry.RegisterSeller(&domain.Seller{Name: "casey", Address: "sell@example.com"}))

	buyer, ok := registry.Buyer("casey")
	require.True(t, ok)
	seller, ok := registry.Seller("casey")
	require.True(t, ok)
	assert.NotEqual(t, buyer.Address, seller.Address)
}

func TestLookupMissingParty(t *testing.T) {
	registry := NewPartyRegistry()

	_, ok := registry.Buyer("nobody")
	assert.False(t, ok)
	_, ok = registry.Seller("nobody")
	assert.False(t, ok)
}
