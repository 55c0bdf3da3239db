// Package rules loads the halal rule file into an ordered RuleSet.
// It supports JSON (with // and /* */ comments and trailing commas), YAML
// and TOML documents.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/tailscale/hujson"
	"go.uber.org/multierr"

	"github.com/haukened/halal-classifier/internal/halal/common/log"
	"github.com/haukened/halal-classifier/internal/halal/domain"
)

var (
	// ErrUnsupportedFormat is returned for rule files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported rules file format")
	// ErrInvalidDocument is returned when the rules document is structurally wrong.
	ErrInvalidDocument = errors.New("invalid rules document")
)

// keyDelim is the koanf path delimiter. Material names routinely contain
// dots, so "." cannot be used.
const keyDelim = "::"

// Load reads, validates and compiles the rules file at path.
func Load(path string, logger log.Logger) (*RuleSet, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	parser, isJSON, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\uFEFF"))
	if isJSON {
		// comments and trailing commas are allowed in JSON rule files
		raw, err = hujson.Standardize(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
		}
	}

	k := koanf.New(keyDelim)
	if err := k.Load(rawbytes.Provider(raw), parser); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if err := validateDocument(k.Raw()); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}

	var doc document
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("failed to decode rules file %s: %w", path, err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("rules file %s: %w: %v", path, ErrInvalidDocument, err)
	}

	rs, err := build(doc, path, logger)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}

	fields := map[string]any{"source": path, "total": rs.Len()}
	counts := rs.Counts()
	for _, tier := range domain.Tiers {
		fields[tier.String()] = counts[tier]
	}
	logger.Info(fields, "Rules loaded")
	return rs, nil
}

// parserFor selects a koanf parser by file extension.
func parserFor(path string) (koanf.Parser, bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return json.Parser(), true, nil
	case ".yaml", ".yml":
		return yaml.Parser(), false, nil
	case ".toml":
		return toml.Parser(), false, nil
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// build converts a decoded document into a RuleSet. Every problem is
// reported, not just the first.
func build(doc document, source string, logger log.Logger) (*RuleSet, error) {
	rs := &RuleSet{Source: source, Labels: defaultLabels()}

	for key, label := range doc.StatusLabels {
		s, err := domain.ParseStatus(key)
		if err != nil {
			return nil, fmt.Errorf("%w: status_labels: %v", ErrInvalidDocument, err)
		}
		rs.Labels[s] = label
	}

	var errs error

	overrides, err := buildOverrides(doc.Overrides.Exact, logger)
	errs = multierr.Append(errs, err)
	rs.Overrides = overrides

	rs.Haram = buildKeywords(doc.Rules.Haram, domain.TierHaram, logger)
	rs.Review = buildKeywords(doc.Rules.Review, domain.TierReview, logger)
	rs.Halal = buildKeywords(doc.Rules.Halal, domain.TierHalal, logger)

	if errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, errs)
	}
	return rs, nil
}

// buildOverrides compiles exact overrides in sorted key order. Keys that
// normalize to the same name must agree on status.
func buildOverrides(entries map[string]overrideEntry, logger log.Logger) ([]domain.Rule, error) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	seen := make(map[string]domain.Rule, len(names))
	out := make([]domain.Rule, 0, len(names))
	for _, name := range names {
		entry := entries[name]
		status, err := domain.ParseStatus(entry.Status)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("override %q: %w", name, err))
			continue
		}
		rule, err := domain.NewOverrideRule(name, status, entry.Reason)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("override %q: %w", name, err))
			continue
		}
		if prev, ok := seen[rule.Key]; ok {
			if prev.Status != rule.Status {
				errs = multierr.Append(errs, fmt.Errorf("override %q conflicts with %q: %s vs %s",
					name, prev.Term, rule.Status, prev.Status))
				continue
			}
			logger.Debug(map[string]any{"name": name, "kept": prev.Term}, "skip_duplicate_override")
			continue
		}
		seen[rule.Key] = rule
		out = append(out, rule)
	}
	return out, errs
}

// buildKeywords compiles one keyword tier, keeping file order. Blank and
// repeated keywords are skipped.
func buildKeywords(terms []string, tier domain.Tier, logger log.Logger) []domain.Rule {
	seen := make(map[string]struct{}, len(terms))
	out := make([]domain.Rule, 0, len(terms))
	for i, term := range terms {
		rule, err := domain.NewKeywordRule(term, tier)
		if err != nil {
			logger.Debug(map[string]any{"tier": tier.String(), "index": i, "error": err.Error()}, "skip_blank_keyword")
			continue
		}
		if _, ok := seen[rule.Key]; ok {
			logger.Debug(map[string]any{"tier": tier.String(), "keyword": term}, "skip_duplicate_keyword")
			continue
		}
		seen[rule.Key] = struct{}{}
		out = append(out, rule)
	}
	return out
}
