package mailer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Content is the catalogue warmup messages are drawn from.
type Content struct {
	Subjects []string `yaml:"subjects"`
	Bodies   []string `yaml:"bodies"`
}

// DefaultContent returns the built-in catalogue of short, conversational
// messages.
func DefaultContent() Content {
	return Content{
		Subjects: []string{
			"Quick check",
			"Following up",
			"Small question",
			"Just confirming",
			"Need your input",
		},
		Bodies: []string{
			"Hey, just checking this.",
			"Please confirm once.",
			"Sharing this for review.",
			"Let me know your thoughts.",
			"Waiting for your response.",
		},
	}
}

// Validate reports an error when either list is empty or has blank entries.
func (c Content) Validate() error {
	var errs []error
	if len(c.Subjects) == 0 {
		errs = append(errs, errors.New("no subjects"))
	}
	if len(c.Bodies) == 0 {
		errs = append(errs, errors.New("no bodies"))
	}
	for i, s := range c.Subjects {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Errorf("subject %d is blank", i))
		}
	}
	for i, b := range c.Bodies {
		if strings.TrimSpace(b) == "" {
			errs = append(errs, fmt.Errorf("body %d is blank", i))
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidContent}, errs...)...)
	}
	return nil
}

// Pick returns a subject and a body chosen independently and uniformly.
// A nil rng uses the global source.
func (c Content) Pick(rng *rand.Rand) (subject, body string) {
	intn := rand.IntN
	if rng != nil {
		intn = rng.IntN
	}
	return c.Subjects[intn(len(c.Subjects))], c.Bodies[intn(len(c.Bodies))]
}

// LoadContent reads a YAML catalogue:
//
//	subjects:
//	  - Quick check
//	bodies:
//	  - "Hey {{.Receiver}}, just checking this."
//
// An empty path returns DefaultContent. A list missing from the file is
// taken from the defaults.
func LoadContent(path string) (Content, error) {
	if path == "" {
		return DefaultContent(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, errors.Join(ErrInvalidContent, err)
	}

	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, errors.Join(ErrInvalidContent, fmt.Errorf("%s: %w", path, err))
	}

	def := DefaultContent()
	if len(c.Subjects) == 0 {
		c.Subjects = def.Subjects
	}
	if len(c.Bodies) == 0 {
		c.Bodies = def.Bodies
	}

	if err := c.Validate(); err != nil {
		return Content{}, err
	}
	return c, nil
}
