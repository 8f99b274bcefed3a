package directory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clockline/attendance-engine/attendance"
	"github.com/clockline/attendance-engine/directory"
)

func TestCanonicalPhone(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"+41791234567", "+41791234567"},
		{"+41 79 123 45 67", "+41791234567"},
		{"0041791234567", "+41791234567"},
		{"00 41 (79) 123-45-67", "+41791234567"},
		{"0791234567", "0791234567"},
		{"079-123-45-67", "0791234567"},
		{"not a phone", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := directory.CanonicalPhone(tc.raw); got != tc.want {
			t.Errorf("CanonicalPhone(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestRoster_Resolve(t *testing.T) {
	roster := directory.NewRoster()
	roster.Add(directory.Member{ID: "anna", Name: "Anna Keller", Phone: "+41 79 123 45 67"})

	// Phone matching survives formatting differences.
	staff, ok := roster.Resolve("+41791234567")
	require.True(t, ok)
	assert.Equal(t, attendance.StaffID("anna"), staff.ID)
	assert.Equal(t, "Anna Keller", staff.Name)

	staff, ok = roster.Resolve("0041 791234567")
	require.True(t, ok)
	assert.Equal(t, attendance.StaffID("anna"), staff.ID)

	// Bare staff ID also resolves.
	staff, ok = roster.Resolve("anna")
	require.True(t, ok)
	assert.Equal(t, "Anna Keller", staff.Name)

	// Unregistered identifiers do not.
	_, ok = roster.Resolve("+15550000000")
	assert.False(t, ok)
	_, ok = roster.Resolve("")
	assert.False(t, ok)
}

func TestRoster_AddReplaces(t *testing.T) {
	roster := directory.NewRoster()
	roster.Add(directory.Member{ID: "anna", Name: "Anna", Phone: "+41791234567"})
	roster.Add(directory.Member{ID: "anna", Name: "Anna Keller", Phone: "+41791234567"})

	staff, ok := roster.Resolve("+41791234567")
	require.True(t, ok)
	assert.Equal(t, "Anna Keller", staff.Name)
	assert.Len(t, roster.Members(), 1)
}

func TestParse_Roster(t *testing.T) {
	data := []byte(`
staff:
  - id: anna
    name: Anna Keller
    phone: "+41791234567"
  - id: marco
    name: Marco Bianchi
    phone: "0041791234568"
`)
	members, err := directory.Parse(data)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "anna", members[0].ID)
	assert.Equal(t, "Marco Bianchi", members[1].Name)
}

func TestParse_MissingID(t *testing.T) {
	_, err := directory.Parse([]byte("staff:\n  - name: Nobody\n"))
	assert.Error(t, err)
}

func TestLoadInto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
staff:
  - id: anna
    name: Anna Keller
    phone: "+41791234567"
`), 0o600))

	roster := directory.NewRoster()
	n, err := directory.LoadInto(roster, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok := roster.Resolve("+41791234567")
	assert.True(t, ok)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := directory.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
