package showrunner

import (
	"context"
	"time"

	"github.com/questfoundry/qf/internal/logger"
	"github.com/questfoundry/qf/internal/progress"
)

// scriptStep is one scripted step execution.
type scriptStep struct {
	name     string
	agent    string
	revision bool
	issues   []string // non-nil means the step blocks with these issues
}

// scriptPass is one scripted iteration.
type scriptPass struct {
	steps     []scriptStep
	decision  string // showrunner decision recorded at the end of the pass
	stabilize bool
}

// Simulated drives the tracker through a fixed per-loop script. It stands
// in for the questfoundry engine's Showrunner until that integration is
// complete.
type Simulated struct {
	Recorder  Recorder      // optional; nil disables history recording
	StepDelay time.Duration // pacing between steps; zero for tests
	OnStep    func(step *progress.Step)
}

// Execute runs the scripted iterations for the requested loop.
func (s *Simulated) Execute(ctx context.Context, tracker *progress.Tracker, req Request) error {
	script, ok := scripts[req.LoopID]
	if !ok {
		script = defaultScript
	}

	logger.Info("Simulated execution of loop %s (%d iterations scripted)", req.LoopID, len(script))

	tracker.StartLoop()
	for _, pass := range script {
		if err := ctx.Err(); err != nil {
			return err
		}

		it := tracker.StartIteration()
		s.record(func(r Recorder) error {
			return r.IterationStart(ctx, req.Project, req.RunID, it.Number)
		})

		for _, scripted := range pass.steps {
			if err := ctx.Err(); err != nil {
				return err
			}

			step, err := tracker.StartStep(scripted.name, scripted.agent, scripted.revision)
			if err != nil {
				return err
			}
			s.pause()

			if scripted.issues != nil {
				tracker.BlockStep(step, scripted.issues)
			} else {
				tracker.CompleteStep(step)
			}
			if s.OnStep != nil {
				s.OnStep(step)
			}
			s.record(func(r Recorder) error {
				return r.StepFinished(ctx, req.Project, req.RunID, it.Number, step)
			})
		}

		if pass.decision != "" {
			tracker.RecordShowrunnerDecision(pass.decision)
		}
		if pass.stabilize {
			tracker.MarkStabilized()
		} else {
			tracker.CompleteIteration()
		}
		s.record(func(r Recorder) error {
			return r.IterationComplete(ctx, req.Project, req.RunID, it.Number, it.Stabilized, it.ShowrunnerDecision)
		})
	}

	return nil
}

func (s *Simulated) pause() {
	if s.StepDelay > 0 {
		time.Sleep(s.StepDelay)
	}
}

// record runs fn against the recorder if one is set. Recording failures are
// logged but do not abort execution: history is best-effort.
func (s *Simulated) record(fn func(Recorder) error) {
	if s.Recorder == nil {
		return
	}
	if err := fn(s.Recorder); err != nil {
		logger.Warn("Failed to record run event: %v", err)
	}
}

// clean builds a single stabilized pass over the given steps.
func clean(steps ...scriptStep) []scriptPass {
	return []scriptPass{{steps: steps, stabilize: true}}
}

func step(name, agent string) scriptStep {
	return scriptStep{name: name, agent: agent}
}

var defaultScript = clean(
	step("Context Init", "Showrunner"),
	step("Execution", "Showrunner"),
	step("Review", "Showrunner"),
)

// scripts maps loop IDs to their simulated execution. Step and agent names
// follow the role vocabulary of the questfoundry engine.
var scripts = map[string][]scriptPass{
	"story-spark": clean(
		step("Seed Intake", "Showrunner"),
		step("Premise Draft", "Scene Smith"),
		step("Hook Sketch", "Lore Weaver"),
	),
	"hook-harvest": clean(
		step("Context Init", "Lore Weaver"),
		step("Hook Generation", "Scene Smith"),
		step("Hook Ranking", "Showrunner"),
	),
	"lore-deepening": clean(
		step("Context Init", "Lore Weaver"),
		step("Topology Analysis", "Lore Weaver"),
		step("Canon Update", "Lore Weaver"),
	),
	"codex-expansion": clean(
		step("Canon Review", "Lore Weaver"),
		step("Codex Draft", "Scene Smith"),
	),
	"style-tuneup": clean(
		step("Style Audit", "Style Warden"),
		step("Prose Revision", "Scene Smith"),
	),
	"art-touchup": clean(
		step("Brief Review", "Illustrator"),
		step("Palette Pass", "Illustrator"),
	),
	"audio-pass": clean(
		step("Cue Sheet", "Voice Director"),
		step("Ambience Draft", "Voice Director"),
	),
	"translation-pass": clean(
		step("String Extraction", "Translator"),
		step("Localization", "Translator"),
	),
	"binding-run": clean(
		step("Artifact Collection", "Book Binder"),
		step("Bundle Assembly", "Book Binder"),
	),
	"narration-dry-run": clean(
		step("Read-Through", "Voice Director"),
		step("Pacing Notes", "Showrunner"),
	),
	// Gatecheck illustrates the revision cycle: the quality gate blocks the
	// first pass and stabilizes after a revision sweep.
	"gatecheck": {
		{
			steps: []scriptStep{
				step("Gate Setup", "Showrunner"),
				step("Consistency Sweep", "Lore Weaver"),
				{name: "Quality Gate", agent: "Showrunner", issues: []string{
					"Canon references unresolved in codex entries",
					"Two hooks contradict established timeline",
				}},
			},
			decision: "Revising consistency sweep before re-running the gate",
		},
		{
			steps: []scriptStep{
				{name: "Consistency Sweep", agent: "Lore Weaver", revision: true},
				step("Quality Gate", "Showrunner"),
			},
			stabilize: true,
		},
	},
	"post-mortem": clean(
		step("Run Review", "Showrunner"),
		step("Lessons Summary", "Showrunner"),
	),
	"archive-snapshot": clean(
		step("Workspace Freeze", "Archivist"),
		step("Snapshot Write", "Archivist"),
	),
}
