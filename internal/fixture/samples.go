// Package fixture provides a local stand-in for the coaching backend. It
// serves sample emails in batches and answers queries and flags with canned
// coaching replies.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jhillyerd/enmime"

	"github.com/wesm/phishcoach/internal/textutil"
)

// Sample is one training email with its ground truth.
type Sample struct {
	ID         int    `toml:"-" json:"id"`
	Sender     string `toml:"sender" json:"sender"`
	Subject    string `toml:"subject" json:"subject"`
	Content    string `toml:"content" json:"content"`
	IsPhishing bool   `toml:"is_phishing" json:"is_phishing"`
	Analysis   string `toml:"analysis" json:"analysis"`
}

func (s Sample) complete() bool {
	return s.Sender != "" && s.Subject != "" && s.Content != ""
}

type sampleFile struct {
	Message []Sample `toml:"message"`
}

// ErrNoSamples is returned when a sample source holds no usable emails.
var ErrNoSamples = errors.New("no usable sample emails")

// LoadSamples reads samples from a TOML file or from a directory of .eml
// files. IDs are positions in the source, so an incomplete entry is skipped
// but still consumes its ID.
func LoadSamples(path string) ([]Sample, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat samples: %w", err)
	}

	var all []Sample
	if info.IsDir() {
		all, err = loadEMLDir(path)
	} else {
		all, err = loadTOML(path)
	}
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(all))
	for i, s := range all {
		s.ID = i
		if !s.complete() {
			continue
		}
		samples = append(samples, s)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSamples)
	}
	return samples, nil
}

func loadTOML(path string) ([]Sample, error) {
	var f sampleFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return f.Message, nil
}

func loadEMLDir(dir string) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sample dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".eml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	samples := make([]Sample, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		s, err := ParseEML(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// ParseEML builds a sample from a raw RFC 5322 message. Ground truth comes
// from the X-Phishing and X-Analysis headers.
func ParseEML(raw []byte) (Sample, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return Sample{}, err
	}

	body := env.Text
	if strings.TrimSpace(body) == "" {
		body = env.HTML
	}

	s := Sample{
		Sender:   formatSender(env),
		Subject:  textutil.ToUTF8(env.GetHeader("Subject"), ""),
		Content:  textutil.ToUTF8(strings.TrimSpace(body), ""),
		Analysis: textutil.ToUTF8(env.GetHeader("X-Analysis"), ""),
	}
	if v := strings.TrimSpace(env.GetHeader("X-Phishing")); v != "" {
		s.IsPhishing, err = strconv.ParseBool(v)
		if err != nil {
			return Sample{}, fmt.Errorf("X-Phishing header: %w", err)
		}
	}
	return s, nil
}

// formatSender renders From as "Name (address)", the shape the inbox list
// truncates at the parenthesis.
func formatSender(env *enmime.Envelope) string {
	list, err := env.AddressList("From")
	if err != nil || len(list) == 0 {
		return textutil.ToUTF8(strings.TrimSpace(env.GetHeader("From")), "")
	}
	addr := list[0]
	name := textutil.ToUTF8(addr.Name, "")
	if name == "" {
		return addr.Address
	}
	return fmt.Sprintf("%s (%s)", name, addr.Address)
}
