package faculty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var defaultCredentials = StaticCredentials{
	"FACULTY001": "pass001",
	"FACULTY002": "pass002",
	"FACULTY003": "pass003",
}

func TestGate_Authenticate(t *testing.T) {
	testCases := []struct {
		name      string
		id        string
		password  string
		wantOK    bool
		wantState State
	}{
		{name: "Valid credentials", id: "FACULTY001", password: "pass001", wantOK: true, wantState: LoggedIn},
		{name: "Wrong password", id: "FACULTY001", password: "wrong", wantOK: false, wantState: LoggedOut},
		{name: "Password of another id", id: "FACULTY001", password: "pass002", wantOK: false, wantState: LoggedOut},
		{name: "Unknown id", id: "FACULTY999", password: "pass001", wantOK: false, wantState: LoggedOut},
		{name: "Case sensitive id", id: "faculty001", password: "pass001", wantOK: false, wantState: LoggedOut},
		{name: "Empty fields", id: "", password: "", wantOK: false, wantState: LoggedOut},
	}

	gate := NewGate(defaultCredentials)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s Session
			ok := gate.Authenticate(&s, tc.id, tc.password)

			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantState, s.State())
			if tc.wantOK {
				assert.Equal(t, tc.id, s.FacultyID)
			}
		})
	}
}

func TestGate_FailedAuthenticateKeepsSession(t *testing.T) {
	gate := NewGate(defaultCredentials)
	var s Session
	require.True(t, gate.Authenticate(&s, "FACULTY002", "pass002"))

	assert.False(t, gate.Authenticate(&s, "FACULTY001", "nope"))
	assert.Equal(t, LoggedIn, s.State())
	assert.Equal(t, "FACULTY002", s.FacultyID)
}

func TestGate_Logout(t *testing.T) {
	gate := NewGate(defaultCredentials)
	var s Session
	require.True(t, gate.Authenticate(&s, "FACULTY003", "pass003"))

	gate.Logout(&s)
	assert.Equal(t, LoggedOut, s.State())
	assert.Empty(t, s.FacultyID)

	// Logging out twice is harmless.
	gate.Logout(&s)
	assert.Equal(t, LoggedOut, s.State())
}

func TestGate_NilVerifier(t *testing.T) {
	var s Session
	assert.False(t, NewGate(nil).Authenticate(&s, "FACULTY001", "pass001"))
	assert.Equal(t, LoggedOut, s.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "LoggedIn", LoggedIn.String())
	assert.Equal(t, "LoggedOut", LoggedOut.String())
	assert.Equal(t, LoggedOut, (*Session)(nil).State())
}

func TestHashedCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	creds := HashedCredentials{"FACULTY010": string(hash)}

	assert.True(t, creds.Verify("FACULTY010", "s3cret"))
	assert.False(t, creds.Verify("FACULTY010", "S3cret"))
	assert.False(t, creds.Verify("FACULTY011", "s3cret"))
}

func TestChain(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed"), bcrypt.MinCost)
	require.NoError(t, err)

	chain := Chain{defaultCredentials, nil, HashedCredentials{"FACULTY020": string(hash)}}
	assert.True(t, chain.Verify("FACULTY001", "pass001"))
	assert.True(t, chain.Verify("FACULTY020", "hashed"))
	assert.False(t, chain.Verify("FACULTY020", "pass001"))
	assert.False(t, Chain{}.Verify("FACULTY001", "pass001"))
}

func TestParseCredentials(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		want    StaticCredentials
		wantErr bool
	}{
		{name: "Empty", raw: "", want: StaticCredentials{}},
		{name: "Single pair", raw: "FACULTY001:pass001", want: StaticCredentials{"FACULTY001": "pass001"}},
		{
			name: "Several pairs with spaces",
			raw:  " FACULTY001:pass001 , FACULTY002:pass:002,",
			want: StaticCredentials{"FACULTY001": "pass001", "FACULTY002": "pass:002"},
		},
		{name: "Missing separator", raw: "FACULTY001", wantErr: true},
		{name: "Missing password", raw: "FACULTY001:", wantErr: true},
		{name: "Missing id", raw: ":pass001", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCredentials(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
