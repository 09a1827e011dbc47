package plan

import (
	"regexp"
	"strings"

	"github.com/mlnomadpy/dronify/internal/action"
)

// defaultConfidence applies when the output contains valid action lines but
// no recognizable confidence token.
const defaultConfidence = 0.5

// listMarkerPattern strips enumeration markers ("1.", "2)", "-", "*") from
// the front of a line so they are not mistaken for parameter values. The
// numeric form requires trailing whitespace so a bare "0.85" confidence line
// is not mangled into "85".
var listMarkerPattern = regexp.MustCompile(`^\s*(?:\d+\s*[.):]\s+|[-*]\s+)`)

// Parse extracts a Plan from raw vision-language model output. It is a total
// function: malformed input yields a well-formed Plan with no actions,
// confidence 0, and a diagnostic rationale, never an error.
//
// The generator is prompted for a short rationale, an enumerated action
// list, and a trailing confidence value, but that format is not guaranteed.
// The parser recovers what it can:
//
//   - the rationale is the leading free-text span before the first line that
//     resolves to a vocabulary action;
//   - each subsequent line is matched against the synonym table, with
//     embedded numbers bound as parameters; lines that resolve to nothing
//     are dropped;
//   - the confidence is the last numeric token in [0,1], defaulting to 0.5
//     when absent.
//
// Parsing the same text twice yields structurally identical Plans.
func Parse(raw string) Plan {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Plan{
			Rationale:  "model returned no output",
			Confidence: 0.0,
		}
	}

	lines := strings.Split(trimmed, "\n")

	var (
		rationale    []string
		actions      []action.Action
		sawAction    bool
		numberTokens []float64
	)

	for _, line := range lines {
		stripped := listMarkerPattern.ReplaceAllString(line, "")
		numberTokens = append(numberTokens, action.ExtractNumbers(stripped)...)

		name, _, ok := action.MatchPhrase(stripped)
		if !ok {
			if !sawAction {
				if s := strings.TrimSpace(line); s != "" {
					rationale = append(rationale, s)
				}
			}
			// Unresolvable lines after the action list starts are dropped.
			continue
		}

		sawAction = true
		params := action.BindNumbers(name, action.ExtractNumbers(stripped))
		a, err := action.New(name, params)
		if err != nil {
			// BindNumbers already drops out-of-range values, so this only
			// fires for vocabulary drift; treat the line as unresolvable.
			continue
		}
		actions = append(actions, a)
	}

	if len(actions) == 0 {
		return Plan{
			Rationale:  diagnostic(rationale),
			Confidence: 0.0,
		}
	}

	confidence := defaultConfidence
	for _, v := range numberTokens {
		if v >= 0 && v <= 1 {
			confidence = v
		}
	}

	return Plan{
		Actions:    actions,
		Rationale:  strings.Join(rationale, " "),
		Confidence: confidence,
	}
}

func diagnostic(rationale []string) string {
	if len(rationale) == 0 {
		return "model output contained no recognizable actions"
	}
	return "no recognizable actions in model output: " + strings.Join(rationale, " ")
}
