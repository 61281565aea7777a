// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintelligence/lexiflow/pkg/types"
)

// exportProfile is the portable profile shape, shared by YAML and JSON
// export so a profile can move between machines.
type exportProfile struct {
	ExamType            types.ExamType           `json:"exam_type" yaml:"exam_type"`
	ExamScore           int                      `json:"exam_score,omitempty" yaml:"exam_score,omitempty"`
	EstimatedVocabulary int                      `json:"estimated_vocabulary" yaml:"estimated_vocabulary"`
	LevelConfidence     float64                  `json:"level_confidence" yaml:"level_confidence"`
	KnownWords          []string                 `json:"known_words" yaml:"known_words"`
	UnknownWords        []types.UnknownWordEntry `json:"unknown_words" yaml:"unknown_words"`
	ExportedAt          time.Time                `json:"exported_at" yaml:"exported_at"`
}

// Export serializes the profile in the given format: "yaml" or "json".
func (s *Store) Export(format string) ([]byte, error) {
	s.mu.Lock()
	p := s.copyLocked()
	now := s.now()
	s.mu.Unlock()

	out := exportProfile{
		ExamType:            p.ExamType,
		ExamScore:           p.ExamScore,
		EstimatedVocabulary: p.EstimatedVocabulary,
		LevelConfidence:     p.LevelConfidence,
		KnownWords:          p.KnownWords,
		UnknownWords:        p.UnknownWords,
		ExportedAt:          now,
	}

	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// Import merges an exported profile into this one: word lists union (the
// imported verdict wins on conflict), and the estimate and confidence
// are replaced. YAML input is accepted; JSON parses as a YAML subset.
func (s *Store) Import(ctx context.Context, data []byte) error {
	var in exportProfile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing profile: %w", err)
	}
	if in.EstimatedVocabulary < types.MinVocabulary || in.EstimatedVocabulary > types.MaxVocabulary {
		return fmt.Errorf("estimated vocabulary %d out of range [%d, %d]",
			in.EstimatedVocabulary, types.MinVocabulary, types.MaxVocabulary)
	}

	s.MarkKnown(ctx, in.KnownWords...)
	for _, u := range in.UnknownWords {
		s.MarkUnknown(ctx, u.Word, u.Context, u.Translation)
	}

	s.mu.Lock()
	s.profile.EstimatedVocabulary = in.EstimatedVocabulary
	s.profile.LevelConfidence = in.LevelConfidence
	s.profile.UpdatedAt = s.now()
	s.persistLocked(ctx)
	s.mu.Unlock()
	return nil
}
