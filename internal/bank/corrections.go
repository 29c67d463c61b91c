package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Correction is one entry of a CORRECTIONS.json file, keyed by question
// id. Nil/empty fields leave the original value untouched.
type Correction struct {
	Options     map[string]string `json:"options,omitempty"`
	Answer      string            `json:"answer,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
	Verified    *bool             `json:"verified,omitempty"`
}

// LoadRaw reads the bank file without normalization, preserving the
// on-disk shape for round-tripping through ApplyCorrections/WriteRaw.
func LoadRaw(path string) ([]RawQuestion, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []RawQuestion
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}
	return raw, nil
}

// LoadCorrections reads a question-id → correction map.
func LoadCorrections(path string) (map[string]Correction, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var corr map[string]Correction
	if err := json.Unmarshal(buf, &corr); err != nil {
		return nil, fmt.Errorf("decode corrections: %w", err)
	}
	return corr, nil
}

// ApplyCorrections patches raw questions in place and reports how many
// questions changed. Corrections for unknown ids are returned so the
// caller can warn about them.
func ApplyCorrections(raw []RawQuestion, corr map[string]Correction) (updated int, unknown []string) {
	index := make(map[string]int, len(raw))
	for i, rq := range raw {
		index[rq.ID] = i
	}
	for id, c := range corr {
		i, ok := index[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		changed := false
		if len(c.Options) > 0 {
			if raw[i].Options == nil {
				raw[i].Options = map[string]string{}
			}
			for label, text := range c.Options {
				raw[i].Options[label] = text
			}
			changed = true
		}
		if c.Answer != "" && c.Answer != raw[i].Answer {
			raw[i].Answer = c.Answer
			changed = true
		}
		if c.Explanation != "" && c.Explanation != raw[i].Explanation {
			raw[i].Explanation = c.Explanation
			changed = true
		}
		if c.Verified != nil && *c.Verified != raw[i].Verified {
			raw[i].Verified = *c.Verified
			changed = true
		}
		if changed {
			updated++
		}
	}
	return updated, unknown
}

// WriteRaw writes the bank back to disk, pretty-printed like the
// upstream pipeline emits it.
func WriteRaw(path string, raw []RawQuestion) error {
	buf, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(buf, '\n'), 0o644)
}

// Backup copies the bank file into dir with a timestamp suffix before a
// destructive update.
func Backup(path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("questions_backup_%s.json", time.Now().Format("20060102_150405"))
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, buf, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}
