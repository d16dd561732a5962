// Package assessfile loads assessments from YAML or JSON files.
package assessfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/huangsam/mri/core/algo"
	"github.com/huangsam/mri/schema"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of an assessment file.
type Format string

// Supported file formats.
const (
	YAMLFormat Format = "yaml"
	JSONFormat Format = "json"
)

// ErrUnsupportedFormat is returned for file extensions other than yaml, yml and json.
var ErrUnsupportedFormat = errors.New("unsupported assessment file format")

var validate = validator.New()

// File is the on-disk shape of one assessment.
//
//	assessment_id: 2024-q1-hq   # optional, generated when omitted
//	organization: acme
//	site: hq
//	date: 2024-03-01
//	roles:
//	  - role: Office Worker
//	    scores: {sitting: 3, neck: 2}
type File struct {
	AssessmentID string      `yaml:"assessment_id" json:"assessment_id" validate:"omitempty,max=64"`
	Organization string      `yaml:"organization" json:"organization" validate:"required,max=128"`
	Site         string      `yaml:"site" json:"site" validate:"required,max=128"`
	Date         string      `yaml:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Roles        []RoleEntry `yaml:"roles" json:"roles" validate:"dive"`
}

// RoleEntry holds the driver scores observed for one role.
// Drivers without a score are left out of the map.
type RoleEntry struct {
	Role   string         `yaml:"role" json:"role" validate:"required,max=191"`
	Scores map[string]int `yaml:"scores" json:"scores"`
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".json":
		return JSONFormat, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads, decodes and validates the assessment file at path.
func Load(path string) (schema.Assessment, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return schema.Assessment{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Assessment{}, fmt.Errorf("failed to read assessment file: %w", err)
	}
	assessment, err := Parse(data, format)
	if err != nil {
		return schema.Assessment{}, fmt.Errorf("%s: %w", path, err)
	}
	return assessment, nil
}

// Parse decodes and validates an assessment document.
// Unknown fields are rejected so that typos do not silently drop scores.
func Parse(data []byte, format Format) (schema.Assessment, error) {
	var file File
	switch format {
	case YAMLFormat:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil {
			return schema.Assessment{}, fmt.Errorf("parse yaml: %w", err)
		}
	case JSONFormat:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&file); err != nil {
			return schema.Assessment{}, fmt.Errorf("parse json: %w", err)
		}
	default:
		return schema.Assessment{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return file.ToAssessment()
}

// ToAssessment validates the file and flattens it into observations.
// Roles keep their file order; drivers within a role are sorted by key.
func (f File) ToAssessment() (schema.Assessment, error) {
	if err := validate.Struct(f); err != nil {
		return schema.Assessment{}, describeValidation(err)
	}

	date, err := algo.ParseDate(f.Date)
	if err != nil {
		return schema.Assessment{}, err
	}

	var observations []schema.Observation
	for _, entry := range f.Roles {
		keys := make([]string, 0, len(entry.Scores))
		for key := range entry.Scores {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			observations = append(observations, schema.Observation{
				RoleID: entry.Role,
				Driver: schema.DriverKey(key),
				Score:  entry.Scores[key],
			})
		}
	}

	id := f.AssessmentID
	if id == "" {
		id = contentID(f.Organization, f.Site, algo.FormatDate(date), observations)
	}

	return schema.Assessment{
		AssessmentID: id,
		OrgID:        f.Organization,
		SiteID:       f.Site,
		Date:         date,
		Observations: observations,
	}, nil
}

// contentID derives a stable assessment ID from the site, date and scores,
// so loading the same file twice yields the same ID.
func contentID(org, site, date string, observations []schema.Observation) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\x00%s\x00%s\n", org, site, date)
	for _, o := range observations {
		fmt.Fprintf(&buf, "%s\x00%s\x00%d\n", o.RoleID, o.Driver, o.Score)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, buf.Bytes()).String()
}

// describeValidation turns validator errors into one readable message.
func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid assessment: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid assessment: %s", strings.Join(msgs, "; "))
}
