package action

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// synonyms maps each vocabulary entry to the phrase variants that resolve to
// it. The table is shared by the intent classifier and the plan parser so the
// two call sites cannot drift apart. Not mutated after init.
// Bare directional words ("left", "ahead", "up") are deliberately absent:
// the plan parser runs this table over every line of model output, and a
// rationale like "obstacle ahead, moving right" must stay a rationale.
var synonyms = map[Name][]string{
	Initialize:   {"initialize", "initialise", "init", "arm", "start up", "power on"},
	Takeoff:      {"take off", "takeoff", "take-off", "launch", "lift off", "liftoff"},
	Land:         {"land", "touch down", "touchdown", "come down"},
	Hover:        {"hover", "hold position", "stay put"},
	MoveForward:  {"move forward", "go forward", "fly forward", "advance"},
	MoveBack:     {"move back", "move backward", "go back", "fly back", "back up"},
	MoveLeft:     {"move left", "go left", "fly left", "strafe left"},
	MoveRight:    {"move right", "go right", "fly right", "strafe right"},
	MoveUp:       {"move up", "go up", "fly up", "ascend", "climb"},
	MoveDown:     {"move down", "go down", "fly down", "descend"},
	RotateLeft:   {"rotate left", "turn left", "yaw left", "spin left", "rotate counterclockwise"},
	RotateRight:  {"rotate right", "turn right", "yaw right", "spin right", "rotate clockwise"},
	GetStatus:    {"get status", "status", "where are you", "telemetry"},
	Reset:        {"reset", "restart", "reboot"},
	CaptureImage: {"capture image", "take a picture", "take picture", "take photo", "snapshot", "screenshot"},
}

// phraseEntry pairs one synonym phrase with its vocabulary entry.
type phraseEntry struct {
	phrase string
	name   Name
}

// phraseIndex holds every synonym sorted longest-first so that "move forward"
// wins over the bare "forward" and "take off" over "off". Built once at init.
var phraseIndex []phraseEntry

func init() {
	for _, n := range names {
		for _, p := range synonyms[n] {
			phraseIndex = append(phraseIndex, phraseEntry{phrase: p, name: n})
		}
	}
	sort.SliceStable(phraseIndex, func(i, j int) bool {
		return len(phraseIndex[i].phrase) > len(phraseIndex[j].phrase)
	})
}

var (
	nonWordPattern    = regexp.MustCompile(`[^a-z0-9.\s-]+`)
	dotPattern        = regexp.MustCompile(`\d\.\d|\.`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	numberPattern     = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// Normalize lowercases, strips punctuation, and collapses whitespace. Both
// the classifier and the parser run input through it before matching.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonWordPattern.ReplaceAllString(s, " ")
	// Dots survive the pass above so decimals like "2.5" stay intact.
	// Drop the rest: sentence-ending periods must not break phrase matching.
	s = dotPattern.ReplaceAllStringFunc(s, func(m string) string {
		if len(m) > 1 {
			return m
		}
		return " "
	})
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// MatchPhrase resolves free text to a vocabulary entry via the synonym
// table. The text is normalized and phrases are tried longest-first on word
// boundaries. Returns the entry and the matched phrase, or ok=false when no
// synonym occurs in the text.
func MatchPhrase(text string) (Name, string, bool) {
	normalized := Normalize(text)
	if normalized == "" {
		return "", "", false
	}
	padded := " " + normalized + " "
	for _, entry := range phraseIndex {
		if strings.Contains(padded, " "+entry.phrase+" ") {
			return entry.name, entry.phrase, true
		}
	}
	return "", "", false
}

// ExtractNumbers returns every numeric token in the text, in order of
// appearance. Used to pull modifier values ("move forward 5 3") out of the
// tokens remaining after phrase matching.
func ExtractNumbers(text string) []float64 {
	matches := numberPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// BindNumbers binds positional numeric modifiers to the entry's parameters
// in schema declaration order. Values that fall outside a parameter's range
// are dropped so the schema default applies instead; extra numbers beyond
// the schema are ignored.
func BindNumbers(name Name, numbers []float64) map[string]float64 {
	spec, err := Lookup(name)
	if err != nil || len(spec.Params) == 0 || len(numbers) == 0 {
		return nil
	}
	params := make(map[string]float64)
	for i, p := range spec.Params {
		if i >= len(numbers) {
			break
		}
		v := numbers[i]
		if v < p.Min || (p.Exclusive && v == p.Min) {
			continue
		}
		params[p.Key] = v
	}
	if len(params) == 0 {
		return nil
	}
	return params
}
