package llm

import (
	"fmt"

	"github.com/mlnomadpy/dronify/internal/types"
)

// TranslateError wraps a provider failure as INFERENCE_UNAVAILABLE so the
// engine can fall back to the non-vision path. The provider name is kept in
// the message for diagnostics.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return types.WrapError(types.INFERENCE_UNAVAILABLE,
		fmt.Sprintf("%s inference call failed", provider), err)
}
