package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type invalidKeyError struct {
	path   string
	reason string
}

func (e invalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.path, e.reason)
}

func errInvalidKey(path, reason string) error {
	return invalidKeyError{path: path, reason: reason}
}
