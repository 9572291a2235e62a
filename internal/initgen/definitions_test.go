package initgen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dstauffman/drepo/internal/initgen"
)

func TestExtractDefinitionsFindsTopLevelNames(t *testing.T) {
	testCases := []struct {
		name           string
		sourceText     string
		includePrivate bool
		expected       []string
	}{
		{
			name:       "FunctionsAndClasses",
			sourceText: "def first():\n    pass\n\nclass Second:\n    pass\n\nclass Third(Base):\n    pass\n",
			expected:   []string{"first", "Second", "Third"},
		},
		{
			name:       "ModuleConstants",
			sourceText: "MAX_RETRIES = 3\nDEFAULT_NAME: str = \"x\"\nnot_constant = 1\n",
			expected:   []string{"MAX_RETRIES", "DEFAULT_NAME"},
		},
		{
			name:       "SkipsPrivateNamesByDefault",
			sourceText: "def _hidden():\n    pass\n\ndef visible():\n    pass\n",
			expected:   []string{"visible"},
		},
		{
			name:           "IncludesPrivateNamesWhenRequested",
			sourceText:     "def _hidden():\n    pass\n",
			includePrivate: true,
			expected:       []string{"_hidden"},
		},
		{
			name:       "SkipsOverloadedDefinitions",
			sourceText: "@overload\ndef same(x: int) -> int: ...\ndef same(x):\n    return x\n",
			expected:   []string{"same"},
		},
		{
			name:       "SkipsModuleDocstring",
			sourceText: "\"\"\"Module summary.\n\ndef not_a_function():\n\"\"\"\ndef real():\n    pass\n",
			expected:   []string{"real"},
		},
		{
			name:       "OneLineDocstringDoesNotSwallowFile",
			sourceText: "\"\"\"Module summary.\"\"\"\ndef real():\n    pass\n",
			expected:   []string{"real"},
		},
		{
			name:       "IgnoresIndentedDefinitions",
			sourceText: "class Outer:\n    def method(self):\n        pass\n",
			expected:   []string{"Outer"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			definitions := initgen.ExtractDefinitions(testCase.sourceText, testCase.includePrivate)
			require.Equal(t, testCase.expected, definitions)
		})
	}
}
