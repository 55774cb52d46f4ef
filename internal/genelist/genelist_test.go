package genelist

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gokea/domain/core"
	"gokea/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_SkipsBlankAndComments(t *testing.T) {
	tokens, err := Validate([]string{"# my list", "TP53", "", "  egfr  ", "HLA-A", "C1orf112", "MT-CO1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"TP53", "egfr", "HLA-A", "C1orf112", "MT-CO1"}, tokens)
}

func TestValidate_ReportsLineNumber(t *testing.T) {
	_, err := Validate([]string{"TP53", "", "BAD GENE", "EGFR"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)

	var lineErr *LineError
	require.True(t, stderrors.As(err, &lineErr))
	assert.Equal(t, 3, lineErr.Line)
	assert.Equal(t, "BAD GENE", lineErr.Token)
	assert.Contains(t, err.Error(), "BAD GENE at line 3 is not a valid gene symbol")
}

func TestValidate_Empty(t *testing.T) {
	for _, lines := range [][]string{nil, {""}, {"# only a comment", "   "}} {
		_, err := Validate(lines)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrEmptyInput)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}

func TestRead(t *testing.T) {
	tokens, err := Read(strings.NewReader("TP53\r\nEGFR\n\nMAPK1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"TP53", "EGFR", "MAPK1"}, tokens)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.txt")
	require.NoError(t, os.WriteFile(path, []byte("AKT1\nGSK3B\n"), 0o600))

	tokens, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AKT1", "GSK3B"}, tokens)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestFileReader_KeepsLinePositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.txt")
	require.NoError(t, os.WriteFile(path, []byte("AKT1\n\n# comment\nbad gene\n"), 0o600))

	lines, err := NewFileReader(path).ReadLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"AKT1", "", "# comment", "bad gene"}, lines)

	_, err = Validate(lines)
	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 4, lineErr.Line)
}
