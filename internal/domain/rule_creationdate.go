package domain

import (
	"errors"
	"fmt"
	"time"
)

// AbbrCreationDate marks the file's creation date
const AbbrCreationDate = "CD"

// MetadataReader reads file metadata the filesystem may not always provide
type MetadataReader interface {
	CreationTime(path string) (time.Time, error)
}

// CreationDateRule writes the file's creation time, in local time, into the output name.
type CreationDateRule struct {
	identity RuleIdentity
	format   *DateFormat
	metadata MetadataReader
	loc      *time.Location
}

func generateCreationDateRule(f *RuleFactory, _, output string) (Rule, bool, error) {
	match, region, ok := markerRegion(output, AbbrCreationDate)
	if !ok {
		return nil, false, nil
	}

	pattern := match.Arguments
	if pattern == "" {
		pattern = ISODateTimePattern
	}
	format, err := ParseDateFormat(pattern)
	if err != nil {
		return nil, false, err
	}

	identity, err := NewRuleIdentity(EmptyRegion, region)
	if err != nil {
		return nil, false, err
	}
	return &CreationDateRule{identity: identity, format: format, metadata: f.Metadata, loc: f.location()}, true, nil
}

func (r *CreationDateRule) Abbreviation() string   { return AbbrCreationDate }
func (r *CreationDateRule) Identity() RuleIdentity { return r.identity }

// SearchExpression leaves the input pattern unchanged
func (r *CreationDateRule) SearchExpression(pattern string) string {
	return pattern
}

func (r *CreationDateRule) Value(subject Subject) (string, error) {
	if r.metadata == nil {
		return "", &RuleError{Rule: AbbrCreationDate, File: subject.Name(),
			Err: fmt.Errorf("%w: no metadata reader configured", ErrMetadataUnavailable)}
	}
	created, err := r.metadata.CreationTime(subject.Path)
	if err != nil {
		if !errors.Is(err, ErrMetadataUnavailable) {
			err = fmt.Errorf("%w: %v", ErrMetadataUnavailable, err)
		}
		return "", &RuleError{Rule: AbbrCreationDate, File: subject.Name(), Err: err}
	}
	return r.format.Format(created.In(r.loc)), nil
}

func (r *CreationDateRule) String() string {
	sample := time.Date(1990, time.October, 15, 10, 35, 22, 123, time.UTC)
	return fmt.Sprintf("Creation date rule: adding file creation date formatted as %q", r.format.Format(sample))
}
