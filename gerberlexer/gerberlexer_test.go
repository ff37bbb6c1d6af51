package gerberlexer

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/PLM-MPT/gerber-to-svg/gerberbasetypes"
)

func collect(t *testing.T, src string) ([]Block, []Warning) {
	t.Helper()
	var warnings []Warning
	l := NewLexer(strings.NewReader(src), WarningFunc(func(w Warning) { warnings = append(warnings, w) }))
	var blocks []Block
	for {
		b, err := l.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		blocks = append(blocks, b)
	}
	return blocks, warnings
}

func TestLexerBlocks(t *testing.T) {
	src := "G04 a comment*\r\n" +
		"%FSLAX24Y24*%\n" +
		"%AMDONUT*\n1,1,$1,0,0*\n1,0,$2,0,0*%\n" +
		"X4794700Y2202900D01**\n" +
		"D10*M02*\n"
	blocks, warnings := collect(t, src)
	want := []Block{
		{WordBlock, []string{"G04 a comment"}, 0},
		{ExtendedBlock, []string{"FSLAX24Y24"}, 1},
		{ExtendedBlock, []string{"AMDONUT", "1,1,$1,0,0", "1,0,$2,0,0"}, 2},
		{WordBlock, []string{"X4794700Y2202900D01"}, 5},
		{WordBlock, []string{"D10"}, 6},
		{WordBlock, []string{"M02"}, 6},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, warnings)
}

func TestLexerUnterminated(t *testing.T) {
	blocks, warnings := collect(t, "D10*\n%FSLAX24Y24*")
	require.Len(t, blocks, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, Warning{Line: 1, Message: "unterminated parameter block"}, warnings[0])

	blocks, warnings = collect(t, "D10*\n\nX100")
	require.Len(t, blocks, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Line)

	blocks, warnings = collect(t, "X100%MOIN*%")
	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"MOIN"}, blocks[0].Words)
	require.Len(t, warnings, 1)
	assert.Equal(t, 0, warnings[0].Line)
}

func TestLexerEmpty(t *testing.T) {
	blocks, warnings := collect(t, "")
	assert.Empty(t, blocks)
	assert.Empty(t, warnings)

	blocks, _ = collect(t, "%%\n**\n")
	assert.Empty(t, blocks)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestLexerReadError(t *testing.T) {
	l := NewLexer(failingReader{}, nil)
	_, err := l.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gerberlexer: read input")
}

func TestExtCommand(t *testing.T) {
	assert.Equal(t, FS, ExtCommand("FSLAX24Y24"))
	assert.Equal(t, AM, ExtCommand("amTEST"))
	assert.Equal(t, NOP, ExtCommand("Q"))
	assert.Equal(t, NOP, ExtCommand("ZZ1"))
	assert.Equal(t, "SR", SR.String())
}

func TestFormatGCode(t *testing.T) {
	assert.Equal(t, "G01", FormatGCode("G", "1"))
	assert.Equal(t, "G01", FormatGCode("G", "001"))
	assert.Equal(t, "D00", FormatGCode("D", "0"))
	assert.Equal(t, "D10", FormatGCode("D", "10"))
	assert.Equal(t, "M", FormatGCode("M", ""))
}
