package initgen

import "strings"

const (
	classDefinitionPrefixConstant    = "class "
	functionDefinitionPrefixConstant = "def "
	privateNamePrefixConstant        = "_"
	overloadDecoratorLineConstant    = "@overload"
	docstringDelimiterConstant       = `"""`
	rawDocstringDelimiterConstant    = `r"""`
	assignmentMarkerConstant         = "="
)

// ExtractDefinitions returns the top-level class, function, and constant names
// declared in the Python source text, in order of appearance. Overloaded
// definitions and module docstrings are skipped; private names (leading
// underscore) are included only when requested.
func ExtractDefinitions(sourceText string, includePrivate bool) []string {
	var definitions []string

	skipNextLine := false
	insideDocstring := false

	for _, line := range strings.Split(sourceText, "\n") {
		if skipNextLine {
			skipNextLine = false
			continue
		}
		if insideDocstring {
			if strings.HasSuffix(line, docstringDelimiterConstant) {
				insideDocstring = false
			}
			continue
		}
		if line == overloadDecoratorLineConstant {
			skipNextLine = true
			continue
		}
		if opensDocstring(line) {
			insideDocstring = !closesOnSameLine(line)
			continue
		}

		if definitionName, found := namedDefinition(line, classDefinitionPrefixConstant, includePrivate); found {
			definitions = append(definitions, definitionName)
			continue
		}
		if definitionName, found := namedDefinition(line, functionDefinitionPrefixConstant, includePrivate); found {
			definitions = append(definitions, definitionName)
			continue
		}
		if constantName, found := constantAssignment(line); found {
			definitions = append(definitions, constantName)
		}
	}

	return definitions
}

func opensDocstring(line string) bool {
	return strings.HasPrefix(line, docstringDelimiterConstant) || strings.HasPrefix(line, rawDocstringDelimiterConstant)
}

// closesOnSameLine recognizes one-line docstrings such as `"""Summary."""`.
func closesOnSameLine(line string) bool {
	body := strings.TrimPrefix(line, "r")
	return len(body) >= 2*len(docstringDelimiterConstant) && strings.HasSuffix(body, docstringDelimiterConstant)
}

// namedDefinition extracts the identifier from a top-level class or def line.
func namedDefinition(line string, definitionPrefix string, includePrivate bool) (string, bool) {
	if !strings.HasPrefix(line, definitionPrefix) {
		return "", false
	}

	remainder := line[len(definitionPrefix):]
	definitionName := remainder
	if openParenIndex := strings.IndexByte(definitionName, '('); openParenIndex >= 0 {
		definitionName = definitionName[:openParenIndex]
	}
	if colonIndex := strings.IndexByte(definitionName, ':'); colonIndex >= 0 {
		definitionName = definitionName[:colonIndex]
	}
	definitionName = strings.TrimSpace(definitionName)

	if len(definitionName) == 0 {
		return "", false
	}
	if !includePrivate && strings.HasPrefix(definitionName, privateNamePrefixConstant) {
		return "", false
	}
	return definitionName, true
}

// constantAssignment recognizes module-level UPPER_CASE assignments.
func constantAssignment(line string) (string, bool) {
	if !strings.Contains(line, assignmentMarkerConstant) || !strings.Contains(line, " ") {
		return "", false
	}

	token := strings.SplitN(line, " ", 2)[0]
	token = strings.SplitN(token, ":", 2)[0]
	if !isConstantName(token) {
		return "", false
	}
	return token, true
}

func isConstantName(token string) bool {
	if len(token) == 0 {
		return false
	}
	if token[0] < 'A' || token[0] > 'Z' {
		return false
	}
	for characterIndex := 0; characterIndex < len(token); characterIndex++ {
		character := token[characterIndex]
		switch {
		case character >= 'A' && character <= 'Z':
		case character >= '0' && character <= '9':
		case character == '_':
		default:
			return false
		}
	}
	return true
}
