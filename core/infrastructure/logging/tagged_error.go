package logging

import "errors"

// TaggedError carries the logger tag of the component that produced the
// error, so the outermost boundary can log it under that tag.
type TaggedError struct {
	tag string
	err error
}

func (e *TaggedError) Error() string {
	if e == nil || e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *TaggedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Tag returns the associated logger tag.
func (e *TaggedError) Tag() string {
	if e == nil {
		return ""
	}
	return e.tag
}

// WithTag wraps err with a logger tag. A nil err stays nil, and an error that
// already carries a tag keeps the innermost one.
func WithTag(tag string, err error) error {
	if err == nil {
		return nil
	}
	if ErrorTag(err) != "" {
		return err
	}
	return &TaggedError{tag: tag, err: err}
}

// ErrorTag extracts a logger tag from an error chain.
func ErrorTag(err error) string {
	var tagged *TaggedError
	if errors.As(err, &tagged) && tagged != nil {
		return tagged.Tag()
	}
	return ""
}

// ErrorTagOr returns the tag carried by err, or fallback when there is none.
func ErrorTagOr(err error, fallback string) string {
	if tag := ErrorTag(err); tag != "" {
		return tag
	}
	return fallback
}
