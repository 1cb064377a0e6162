package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "contract.pdf", "contract.pdf"},
		{"spaces", "my contract v2.pdf", "my_contract_v2.pdf"},
		{"path stripped", "../../etc/passwd.pdf", "passwd.pdf"},
		{"windows path stripped", `C:\uploads\contract.pdf`, "contract.pdf"},
		{"unicode replaced", "contrat-café.pdf", "contrat-caf_.pdf"},
		{"empty", "", "upload.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}
}

func TestNewIDFormat(t *testing.T) {
	a := newID()
	b := newID()
	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
}
