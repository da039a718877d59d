package helpers

import (
	"fmt"

	"github.com/zinc-sig/nbcheck/cmd/config"
	"github.com/zinc-sig/nbcheck/internal/params"
)

// ContextEnvPrefix selects NBCHECK_CONTEXT (JSON) and NBCHECK_CONTEXT_* variables.
const ContextEnvPrefix = "NBCHECK_CONTEXT"

// BuildContext merges run metadata attached to the summary.
// Precedence: env < file < json < kv
func BuildContext(cfg *config.ContextConfig) (any, error) {
	ctx, err := params.Build(ContextEnvPrefix, cfg.JSON, cfg.KV, cfg.File)
	if err != nil {
		return nil, fmt.Errorf("failed to build context: %w", err)
	}
	return ctx, nil
}
