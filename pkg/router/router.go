// Package router resolves a natural-language request to the single best
// matching enabled skill via a one-shot classification call. Every
// invocation terminates in one of four outcomes; classification-layer
// failures never escape the router.
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/skillkit/pkg/llm"
	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/settings"
	"github.com/jingkaihe/skillkit/pkg/skills"
	"github.com/jingkaihe/skillkit/pkg/telemetry"
)

// Outcome is the terminal state of a routing invocation.
type Outcome int

const (
	// OutcomeUnconfigured means no routing model is set; no classification
	// call is attempted.
	OutcomeUnconfigured Outcome = iota
	// OutcomeNoSkillsEnabled means the enabled set is empty.
	OutcomeNoSkillsEnabled
	// OutcomeRouted means classification resolved to a known enabled skill.
	OutcomeRouted
	// OutcomeNoMatch covers the NONE sentinel, unresolvable names, and any
	// classification failure.
	OutcomeNoMatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnconfigured:
		return "unconfigured"
	case OutcomeNoSkillsEnabled:
		return "no-skills-enabled"
	case OutcomeRouted:
		return "routed"
	case OutcomeNoMatch:
		return "no-match"
	default:
		return "unknown"
	}
}

// Result is the routing decision plus the user-facing message for it.
type Result struct {
	Outcome Outcome
	Skill   *skills.Skill // set only for OutcomeRouted
	Message string
}

// SetupGuidance is returned verbatim when no routing model is configured.
const SetupGuidance = `Skill routing is not configured. Set a routing model first:

  skillkit model set <model>

Then enable the skills you want routable with "skillkit enable <skill>".`

// ClassifierFactory builds a classifier for a model identifier. Swappable
// for tests.
type ClassifierFactory func(model string) llm.Classifier

// Router routes requests to enabled skills.
type Router struct {
	repo       *skills.Repository
	settings   *settings.Settings
	classifier ClassifierFactory
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithClassifierFactory overrides how classifiers are constructed
func WithClassifierFactory(factory ClassifierFactory) RouterOption {
	return func(r *Router) {
		r.classifier = factory
	}
}

// New creates a Router over the given repository and settings
func New(repo *skills.Repository, s *settings.Settings, opts ...RouterOption) *Router {
	r := &Router{
		repo:     repo,
		settings: s,
		classifier: func(model string) llm.Classifier {
			return llm.NewClassifier(model)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route classifies the request against the enabled skills and returns a
// terminal result. It never returns an error: classification failures
// collapse into a no-match result.
func (r *Router) Route(ctx context.Context, request string) *Result {
	log := logger.G(ctx).WithField("request_id", uuid.NewString())

	model, configured := r.settings.RoutingModel(ctx)
	if !configured {
		return &Result{Outcome: OutcomeUnconfigured, Message: SetupGuidance}
	}

	enabled := r.settings.ListEnabledSkills(ctx, r.repo)
	if len(enabled) == 0 {
		return &Result{
			Outcome: OutcomeNoSkillsEnabled,
			Message: `No skills are enabled. Enable one with "skillkit enable <skill>" and try again.`,
		}
	}

	prompt, err := BuildPrompt(request, enabled)
	if err != nil {
		log.WithError(err).Error("failed to build classification prompt")
		return noMatch(enabled)
	}

	var raw string
	err = telemetry.WithSpan(ctx, "router.classify", func(ctx context.Context) error {
		var classifyErr error
		raw, classifyErr = r.classifier(model).Classify(ctx, model, prompt)
		return classifyErr
	},
		attribute.String("router.model", model),
		attribute.Int("router.enabled_skills", len(enabled)),
	)
	if err != nil {
		log.WithError(err).Warn("classification call failed, treating as no match")
		return noMatch(enabled)
	}

	name := normalizeResponse(raw)
	if strings.EqualFold(name, NoneSentinel) {
		log.WithField("outcome", OutcomeNoMatch.String()).Debug("classifier declined")
		return noMatch(enabled)
	}

	skill := resolveEnabled(enabled, name)
	if skill == nil {
		log.WithField("response", name).Warn("classifier returned an unknown skill name")
		return noMatch(enabled)
	}

	log.WithField("skill", skill.DirName).Debug("routed request to skill")
	return &Result{
		Outcome: OutcomeRouted,
		Skill:   skill,
		Message: FormatInstructions(skill),
	}
}

// normalizeResponse trims whitespace and strips a single layer of
// surrounding quote characters from the raw completion.
func normalizeResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			s = s[1 : len(s)-1]
		}
	}
	return s
}

// resolveEnabled applies the repository's dual lookup against the enabled
// list only: directory name first, declared name second.
func resolveEnabled(enabled []*skills.Skill, name string) *skills.Skill {
	for _, skill := range enabled {
		if skill.DirName == name {
			return skill
		}
	}
	for _, skill := range enabled {
		if skill.Meta.Name == name {
			return skill
		}
	}
	return nil
}

func noMatch(enabled []*skills.Skill) *Result {
	var b strings.Builder
	b.WriteString("No skill matches this request. Currently enabled skills:\n")
	for _, skill := range enabled {
		fmt.Fprintf(&b, "  - %s: %s\n", skill.DirName, skill.Meta.Description)
	}
	b.WriteString(`Rephrase the request or enable a more suitable skill with "skillkit enable <skill>".`)
	return &Result{Outcome: OutcomeNoMatch, Message: b.String()}
}

// FormatInstructions renders a routed skill's instructions for the caller.
func FormatInstructions(skill *skills.Skill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Using skill %q: %s\n\n", skill.DisplayName(), skill.Meta.Description)
	b.WriteString(skill.Body)
	if len(skill.Files) > 0 {
		b.WriteString("\n\nSupporting files:\n")
		for _, file := range skill.Files {
			fmt.Fprintf(&b, "  - %s\n", file)
		}
	}
	return b.String()
}
