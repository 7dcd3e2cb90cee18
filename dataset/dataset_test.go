package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/qamatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Header(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  []string // questions
	}{
		{
			name:  "first row dropped by default",
			input: "Question,Answer\nCan my cat get COVID?,Rarely.\nIs there a vaccine?,Yes.\n",
			want:  []string{"Can my cat get COVID?", "Is there a vaccine?"},
		},
		{
			name:  "non canonical header dropped by default",
			input: "Questions,Answers\nWhat is COVID-19?,A viral respiratory illness.\n",
			want:  []string{"What is COVID-19?"},
		},
		{
			name:  "foreign header dropped by default",
			input: "Frage,Antwort\nq1,a1\n",
			want:  []string{"q1"},
		},
		{
			name:  "explicit header",
			input: "Q,A\nq1,a1\n",
			opts:  []Option{WithHeader(true)},
			want:  []string{"q1"},
		},
		{
			name:  "no header",
			input: "Question,Answer\nq1,a1\n",
			opts:  []Option{WithHeader(false)},
			want:  []string{"Question", "q1"},
		},
		{
			name:  "detection finds header case insensitive",
			input: "QUESTION , answer\nq1,a1\n",
			opts:  []Option{WithHeaderDetection()},
			want:  []string{"q1"},
		},
		{
			name:  "detection keeps data row",
			input: "q1,a1\nq2,a2\n",
			opts:  []Option{WithHeaderDetection()},
			want:  []string{"q1", "q2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input), tt.opts...)
			require.NoError(t, err)

			questions := make([]string, len(got))
			for i, c := range got {
				questions[i] = c.Question
				assert.Equal(t, i, c.Index)
				assert.Equal(t, core.IDFromContent(c.Question), c.ID)
			}
			assert.Equal(t, tt.want, questions)
		})
	}
}

func TestRead_PairsStayAligned(t *testing.T) {
	input := "Question,Answer\n" +
		"\"What are the symptoms, exactly?\",\"Fever, cough and fatigue.\"\n" +
		"\"Multi\nline?\",Yes\n" +
		"Empty answer?,\n"

	got, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "What are the symptoms, exactly?", got[0].Question)
	assert.Equal(t, "Fever, cough and fatigue.", got[0].Answer)
	assert.Equal(t, "Multi\nline?", got[1].Question)
	assert.Equal(t, "Yes", got[1].Answer)
	assert.Equal(t, "Empty answer?", got[2].Question)
	assert.Empty(t, got[2].Answer)
}

func TestRead_Windows1252(t *testing.T) {
	input := []byte("Question,Answer\nIs caf\xe9 open?,\x93Yes\x94 \x96 until 5\n")

	got, err := Read(strings.NewReader(string(input)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Is café open?", got[0].Question)
	assert.Equal(t, "“Yes” – until 5", got[0].Answer)
}

func TestRead_BOMInWindows1252Mode(t *testing.T) {
	input := "\xEF\xBB\xBFQuestion,Answer\nIs caf\xe9 open?,Yes\n"

	got, err := Read(strings.NewReader(input), WithHeaderDetection())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Is café open?", got[0].Question)

	got, err = Read(strings.NewReader("\xEF\xBB\xBFq1,a1\n"), WithHeader(false))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "q1", got[0].Question)
}

func TestRead_UTF8(t *testing.T) {
	input := "\uFEFFQuestion,Answer\nIs café open?,Yes\n"

	got, err := Read(strings.NewReader(input), WithEncoding(EncodingUTF8), WithHeaderDetection())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Is café open?", got[0].Question)

	_, err = Read(strings.NewReader("caf\xe9,x\n"), WithEncoding(EncodingUTF8), WithHeader(false))
	assert.ErrorIs(t, err, core.ErrDataLoad)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    []Option
		want    error
		message string
	}{
		{"empty file", "", nil, core.ErrNoCandidates, ""},
		{"header only", "Question,Answer\n", nil, core.ErrNoCandidates, ""},
		{"three columns", "Question,Answer\nq1,a1\nq2,a2,extra\n", nil, core.ErrDataLoad, "line 3"},
		{"one column", "Question,Answer\nq1\n", nil, core.ErrDataLoad, "line 2"},
		{"one column without header", "q1\n", []Option{WithHeader(false)}, core.ErrDataLoad, "line 1"},
		{"empty question", "Question,Answer\nq1,a1\n  ,a2\n", nil, core.ErrEmptyQuestion, "line 3"},
		{"broken quoting", "q1,\"unterminated\n", nil, core.ErrDataLoad, ""},
		{"unknown encoding", "q1,a1\n", []Option{WithEncoding("latin-9")}, core.ErrDataLoad, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.opts...)
			assert.ErrorIs(t, err, core.ErrDataLoad)
			assert.ErrorIs(t, err, tt.want)
			if tt.message != "" {
				assert.ErrorContains(t, err, tt.message)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.csv")
	require.NoError(t, os.WriteFile(path, []byte("Question,Answer\nq1,a1\nq2,a2\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, core.ErrDataLoad)
}

func TestParseEncoding(t *testing.T) {
	for _, name := range []string{"", "cp1252", "Windows-1252", "windows1252"} {
		e, err := ParseEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, EncodingWindows1252, e)
	}
	for _, name := range []string{"utf-8", "UTF8"} {
		e, err := ParseEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, EncodingUTF8, e)
	}
	_, err := ParseEncoding("ebcdic")
	assert.Error(t, err)
}
