package response

import (
	"encoding/json"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"knowbot/internal/repair"
)

// =============================================================================
// NORMALIZER - The Full Pipeline Entry Point
// =============================================================================
// Normalizer wraps the pure Reconcile/Validate functions with diagnostic
// logging and monitoring counters. Logging never changes the returned value;
// the counters are atomic so concurrent invocations stay independent.

// Normalizer converts raw backend payloads into canonical Responses.
type Normalizer struct {
	log *zap.Logger

	stats normalizerStats
}

type normalizerStats struct {
	processed     atomic.Int64
	fallbacks     atomic.Int64
	droppedFields atomic.Int64
}

// Stats is a point-in-time snapshot of normalization counters.
type Stats struct {
	Processed     int64
	Fallbacks     int64
	DroppedFields int64
}

// NewNormalizer creates a Normalizer. A nil logger disables diagnostics.
func NewNormalizer(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log}
}

// Normalize reconciles and validates a decoded payload. It is total: every
// input yields a well-formed Response.
func (n *Normalizer) Normalize(payload any) Response {
	n.stats.processed.Add(1)

	cand, method := reconcile(payload)
	resp := Validate(cand)

	if strings.HasSuffix(method, "_fallback") {
		n.stats.fallbacks.Add(1)
		n.log.Debug("payload shape unrecognized, used stringification",
			zap.String("method", method))
	}
	if dropped := droppedCount(cand, resp); dropped > 0 {
		n.stats.droppedFields.Add(int64(dropped))
		n.log.Debug("dropped malformed metadata entries",
			zap.String("method", method),
			zap.Int("dropped", dropped))
	}
	return resp
}

// NormalizeText handles the plain-text transport path. Text that is
// syntactically a JSON object or array re-enters the structured pipeline;
// anything else is repaired as markdown and wrapped into a one-field
// Response.
func (n *Normalizer) NormalizeText(raw string) Response {
	trimmed := strings.TrimSpace(raw)
	if repair.LooksLikeJSON(trimmed) {
		var payload any
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			return n.Normalize(payload)
		}
		n.log.Debug("text looked like JSON but failed to parse, repairing as markdown")
	}
	n.stats.processed.Add(1)
	return Response{Answer: repair.Markdown(raw)}
}

// Stats returns a snapshot of the monitoring counters.
func (n *Normalizer) Stats() Stats {
	return Stats{
		Processed:     n.stats.processed.Load(),
		Fallbacks:     n.stats.fallbacks.Load(),
		DroppedFields: n.stats.droppedFields.Load(),
	}
}

// droppedCount compares raw sequence lengths against the validated result so
// silent filtering still leaves a diagnostic trail.
func droppedCount(cand RawCandidate, resp Response) int {
	dropped := 0
	dropped += rawLen(cand["relatedContent"]) - len(resp.RelatedContent)
	dropped += rawLen(cand["recommendations"]) - len(resp.Recommendations)
	dropped += rawLen(cand["fileLinks"]) - len(resp.FileLinks)
	dropped += rawLen(cand["tables"]) - len(resp.Tables)
	return dropped
}

func rawLen(v any) int {
	arr, ok := v.([]any)
	if !ok {
		return 0
	}
	return len(arr)
}
