package plan

import (
	"fmt"
	"strings"

	"github.com/mlnomadpy/dronify/internal/action"
)

// planningPrompt instructs the vision-language model to answer in the
// semi-structured form the parser expects: rationale, enumerated action
// list, trailing confidence.
const planningPrompt = `You are the flight planner for a small quadcopter drone.
Given the operator's instruction%s, produce a short flight plan.

Operator instruction: %q

%s
Answer in exactly this form:
1. One or two sentences of reasoning about the scene and the instruction.
2. A numbered list of actions, one per line, chosen only from:
   %s
   Movement actions may carry two numbers: distance in meters and duration in seconds
   (for example "move forward 5 3").
3. A final line "Confidence: X" where X is a value between 0 and 1.`

// noImageNote is inserted when planning proceeds without a camera frame.
const noImageNote = "No camera image is available for this request; plan from the instruction alone and prefer conservative actions.\n"

// imageNote is inserted when a camera frame accompanies the prompt.
const imageNote = "The attached image is the drone's current forward camera view.\n"

// BuildPrompt renders the planning prompt for a command, noting explicitly
// whether visual context accompanies the request.
func BuildPrompt(command string, hasImage bool) string {
	contextClause := " and the current camera view"
	note := imageNote
	if !hasImage {
		contextClause = ""
		note = noImageNote
	}
	return fmt.Sprintf(planningPrompt,
		contextClause,
		command,
		note,
		strings.Join(action.CandidatePhrases(), ", "),
	)
}
