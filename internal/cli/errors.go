package cli

import (
	"errors"
	"fmt"
)

var errNoServer = errors.New("no server configured; pass --server or run `photos config set serverUrl <url>`")

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

var errDoctorFailed = errors.New("doctor found failing checks")
