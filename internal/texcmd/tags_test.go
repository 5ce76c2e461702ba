package texcmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCommandTags(t *testing.T) {
	numbered := CommandTag{"1", "2", "3", "4", "5"}

	tests := []struct {
		name  string
		input string
		tag   CommandTag
		want  string
	}{
		{"no commands", "This does not contain any command", CommandTag{}, "This does not contain any command"},
		{"empty tag", `This is a \formula{epic}`, CommandTag{}, `This is a \formula{epic}`},
		{"five markers", `This is a \formula{epic} and this is not`, numbered,
			`This is a 1\formula2{3epic4}5 and this is not`},
		{"uniform", `This is a \formula{epic} and this is not`, UniformCommandTag("|"),
			`This is a |\formula|{|epic|}| and this is not`},
		{"two commands", `This is a \formula{epic} and this \i{s} not`, numbered,
			`This is a 1\formula2{3epic4}5 and this 1\i2{3s4}5 not`},
		{"nested left alone", `This is a \formula{\epic{nice}} and this is not`, numbered,
			`This is a 1\formula2{3\epic{nice}4}5 and this is not`},
		{"at end", `This is a \formula{nice}`, numbered, `This is a 1\formula2{3nice4}5`},
		{"same name nested", `This is a \formula{\formula{nice}}`, numbered, `This is a 1\formula2{3\formula{nice}4}5`},
		{"empty argument", `\a{}`, numbered, `1\a2{34}5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyCommandTags(tt.input, tt.tag))
		})
	}
}

func TestApplyCommandTagsWith(t *testing.T) {
	out, err := ApplyCommandTagsWith(`\cite[p. 3]{key}`, OptionalDelimiters, CommandTag{BeforeArgContent: "<", AfterArgContent: ">"})
	require.NoError(t, err)
	assert.Equal(t, `\cite[<p. 3>]{key}`, out)

	_, err = ApplyCommandTagsWith("x", Delimiters{Open: "|", Close: "|"}, UniformCommandTag("x"))
	assert.ErrorIs(t, err, ErrInvalidDelimiters)
}

func TestApplyBareCommandTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		tag   BareCommandTag
		want  string
	}{
		{"no commands", "This does not contain any command", BareCommandTag{}, "This does not contain any command"},
		{"only argument commands", `This does not contain any \command{command!}`, UniformBareCommandTag("|"),
			`This does not contain any \command{command!}`},
		{"two markers", `This is a \formula and this is not`, BareCommandTag{"1", "2"},
			`This is a 1\formula2 and this is not`},
		{"uniform", `This is a \formula and this is not`, UniformBareCommandTag("|"),
			`This is a |\formula| and this is not`},
		{"two commands", `This is a \formula and this \i not`, BareCommandTag{"1", "2"},
			`This is a 1\formula2 and this 1\i2 not`},
		{"nested", `This is a \formula{\a{} not \b{\c}} and this \i not`, BareCommandTag{"1", "2"},
			`This is a \formula{\a{} not \b{1\c2}} and this 1\i2 not`},
		{"at end", `This is a \formula`, BareCommandTag{"1", "2"}, `This is a 1\formula2`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyBareCommandTags(tt.input, tt.tag))
		})
	}
}

func TestApplyRangeTags(t *testing.T) {
	dollar := Delimiters{Open: "$", Close: "$"}

	tests := []struct {
		name    string
		input   string
		delims  Delimiters
		tag     RangeTag
		escapes bool
		want    string
	}{
		{"four markers", "This is a $formula$ and this is not", dollar, RangeTag{"a", "b", "c", "d"}, false,
			"This is a a$bformulac$d and this is not"},
		{"outer only", "$formula$", dollar, RangeTag{"X", "", "", "X"}, false, "X$formula$X"},
		{"empty tag", "$formula$", dollar, RangeTag{}, false, "$formula$"},
		{"uniform", "$formula$", dollar, UniformRangeTag("a"), false, "a$aformulaa$a"},
		{"two ranges", "$formula$ jaja $x$", dollar, UniformRangeTag("a"), false, "a$aformulaa$a jaja a$axa$a"},
		{"escaped inner", `$form\$ula$`, dollar, RangeTag{"X", "", "", "X"}, true, `X$form\$ula$X`},
		{"escaped both", `\$formula\$`, dollar, RangeTag{"X", "", "", "X"}, true, `\$formula\$`},
		{"escapes ignored", `\$formula\$`, dollar, RangeTag{"X", "", "", "X"}, false, `\X$formula\$X`},
		{"two ranges outer", "$formula$ jaja $x$", dollar, RangeTag{"a", "", "", "b"}, false, "a$formula$b jaja a$x$b"},
		{"unmatched tail", "$a$ and $b", dollar, RangeTag{"<", "", "", ">"}, false, "<$a$> and $b"},
		{"multi-character", `see \(x+y\) here`, Delimiters{Open: `\(`, Close: `\)`}, RangeTag{"[", "", "", "]"}, false,
			`see [\(x+y\)] here`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyRangeTags(tt.input, tt.delims, tt.tag, tt.escapes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyRangeTags_InvalidDelimiters(t *testing.T) {
	_, err := ApplyRangeTags("$x$", Delimiters{Open: "$"}, UniformRangeTag("a"), false)
	assert.ErrorIs(t, err, ErrInvalidDelimiters)
}
