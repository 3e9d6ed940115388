package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelegationType(t *testing.T) {
	tests := []struct {
		input   string
		want    DelegationType
		wantErr bool
	}{
		{"transitive", DelegationTransitive, false},
		{"Transitive", DelegationTransitive, false},
		{"t", DelegationTransitive, false},
		{"fixed", DelegationFixed, false},
		{" FIXED ", DelegationFixed, false},
		{"f", DelegationFixed, false},
		{"", DelegationUnset, true},
		{"sometimes", DelegationUnset, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDelegationType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDelegation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMember_Validate(t *testing.T) {
	bob := MemberID("bob")
	alice := MemberID("alice")

	assert.NoError(t, Member{ID: alice}.Validate())
	assert.NoError(t, Member{ID: alice, Delegate: &bob, DelegationType: DelegationFixed}.Validate())
	assert.ErrorIs(t, Member{ID: alice, Delegate: &alice, DelegationType: DelegationFixed}.Validate(), ErrInvalidDelegation)
	assert.ErrorIs(t, Member{ID: alice, Delegate: &bob}.Validate(), ErrInvalidDelegation)
}

func TestParseMemberRef(t *testing.T) {
	tests := []struct {
		ref  string
		want MemberID
		ok   bool
	}{
		{"<@1234>", "1234", true},
		{"<@!1234>", "1234", true},
		{"@alice", "alice", true},
		{"alice", "alice", true},
		{"  bob ", "bob", true},
		{"Alice", "alice", true},
		{"@BOB", "bob", true},
		{"@", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := ParseMemberRef(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDelegationType_String(t *testing.T) {
	assert.Equal(t, "transitive", DelegationTransitive.String())
	assert.Equal(t, "fixed", DelegationFixed.String())
	assert.Equal(t, "unset", DelegationUnset.String())
}
