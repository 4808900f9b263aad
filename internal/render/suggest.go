package render

// nextLoop maps a finished loop to the loop that usually follows it in the
// production pipeline. Loops absent from the map end a chain.
var nextLoop = map[string]string{
	"story-spark":       "hook-harvest",
	"hook-harvest":      "lore-deepening",
	"lore-deepening":    "codex-expansion",
	"codex-expansion":   "style-tuneup",
	"style-tuneup":      "art-touchup",
	"art-touchup":       "binding-run",
	"audio-pass":        "binding-run",
	"translation-pass":  "binding-run",
	"binding-run":       "narration-dry-run",
	"narration-dry-run": "gatecheck",
	"gatecheck":         "post-mortem",
	"post-mortem":       "archive-snapshot",
}

// SuggestNextLoop returns the loop ID to suggest after the given loop
// finishes, and whether a suggestion exists.
func SuggestNextLoop(loopID string) (string, bool) {
	next, ok := nextLoop[loopID]
	return next, ok
}
