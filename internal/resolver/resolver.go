// Package resolver fills in the date and modified fields of a document from
// its version control history, falling back to the filesystem where history
// has nothing to say.
package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"filetime/internal/fstime"
	"filetime/internal/models"
	"filetime/internal/render"

	"go.uber.org/zap"
)

var ErrNoDocument = errors.New("no document to resolve")

// SourceControl is what the resolver needs to know about a path.
// Commits must be ordered oldest first.
type SourceControl interface {
	IsTracked(path string) (bool, error)
	IsModified(path string) (bool, error)
	Commits(path string, follow bool) ([]string, error)
	CommitTime(hash string) (time.Time, error)
}

type Resolver struct {
	scm        SourceControl
	opts       models.Options
	logger     *zap.Logger
	changeTime func(path string) (time.Time, error)
}

func New(scm SourceControl, opts models.Options, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		scm:        scm,
		opts:       opts,
		logger:     logger,
		changeTime: fstime.ChangeTime,
	}
}

// Resolve computes timestamps for doc and writes them back, together with
// their rendered forms. It returns what was computed, which is empty when the
// document was skipped. On error doc is left untouched.
func (r *Resolver) Resolve(doc *models.Document) (models.Timestamps, error) {
	if doc == nil {
		return models.Timestamps{}, ErrNoDocument
	}

	if doc.IsStatic() {
		r.logger.Debug("Ignoring static content", zap.String("path", doc.SourcePath))
		return models.Timestamps{}, nil
	}

	if OptedOut(doc.Metadata) {
		r.logger.Debug("Explicitly disabled for document", zap.String("path", doc.SourcePath))
		return models.Timestamps{}, nil
	}

	if r.opts.OnlyIfMissing && doc.HasDate() && doc.HasModified() {
		r.logger.Debug("Date and modified are already set, nothing to do", zap.String("path", doc.SourcePath))
		return models.Timestamps{}, nil
	}

	ts, err := r.compute(doc.SourcePath)
	if err != nil {
		return models.Timestamps{}, err
	}

	if err := r.apply(doc, ts); err != nil {
		return models.Timestamps{}, err
	}

	return ts, nil
}

// OptedOut reports whether the gittime metadata disables resolution. Any
// value other than off, false or no keeps it enabled.
func OptedOut(metadata map[string]string) bool {
	value, ok := metadata["gittime"]
	if !ok {
		return false
	}

	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "false", "no")
	value = strings.ReplaceAll(value, "off", "no")
	return value == "no"
}

func (r *Resolver) compute(path string) (models.Timestamps, error) {
	tracked, err := r.scm.IsTracked(path)
	if err != nil {
		return models.Timestamps{}, fmt.Errorf("failed to check whether %s is tracked: %w", path, err)
	}

	if !tracked {
		date, err := r.fileTime(path)
		if err != nil {
			return models.Timestamps{}, err
		}
		return models.Timestamps{Date: &date}, nil
	}

	commits, err := r.scm.Commits(path, r.opts.Follow)
	if err != nil {
		return models.Timestamps{}, fmt.Errorf("failed to list commits for %s: %w", path, err)
	}

	// staged but never committed
	if len(commits) == 0 {
		date, err := r.fileTime(path)
		if err != nil {
			return models.Timestamps{}, err
		}
		return models.Timestamps{Date: &date}, nil
	}

	date, err := r.commitTime(commits[len(commits)-1])
	if err != nil {
		return models.Timestamps{}, err
	}
	ts := models.Timestamps{Date: &date}

	dirty, err := r.scm.IsModified(path)
	if err != nil {
		return models.Timestamps{}, fmt.Errorf("failed to check whether %s is modified: %w", path, err)
	}

	switch {
	case dirty:
		modified, err := r.fileTime(path)
		if err != nil {
			return models.Timestamps{}, err
		}
		ts.Modified = &modified
	case len(commits) > 1:
		modified, err := r.commitTime(commits[0])
		if err != nil {
			return models.Timestamps{}, err
		}
		ts.Modified = &modified
	}

	return ts, nil
}

func (r *Resolver) fileTime(path string) (time.Time, error) {
	t, err := r.changeTime(path)
	if err != nil {
		return time.Time{}, err
	}
	return fstime.Attach(t, r.opts.Location), nil
}

func (r *Resolver) commitTime(hash string) (time.Time, error) {
	t, err := r.scm.CommitTime(hash)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get time of commit %s: %w", hash, err)
	}
	return fstime.Convert(t, r.opts.Location), nil
}

// apply works out every field first so that a rendering error leaves doc as
// it was.
func (r *Resolver) apply(doc *models.Document, ts models.Timestamps) error {
	date := doc.Date
	modified := doc.Modified

	if ts.Date != nil && (date == nil || !r.opts.OnlyIfMissing) {
		r.logger.Debug("Setting date from git", zap.String("path", doc.SourcePath))
		date = ts.Date
	}

	if ts.Modified != nil && (modified == nil || !r.opts.OnlyIfMissing) {
		r.logger.Debug("Setting modified from git", zap.String("path", doc.SourcePath))
		modified = ts.Modified
	}

	if modified == nil && date != nil {
		m := *date
		modified = &m
	}

	localeDate := doc.LocaleDate
	if date != nil {
		s, err := render.Strftime(*date, doc.DateFormat)
		if err != nil {
			return err
		}
		localeDate = s
	}

	localeModified := doc.LocaleModified
	if modified != nil {
		s, err := render.Strftime(*modified, doc.DateFormat)
		if err != nil {
			return err
		}
		localeModified = s
	}

	doc.Date = date
	doc.Modified = modified
	doc.LocaleDate = localeDate
	doc.LocaleModified = localeModified
	return nil
}
