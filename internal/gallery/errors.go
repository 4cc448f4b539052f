package gallery

import (
	"errors"
	"fmt"
)

var (
	// ErrStale is returned by Apply* for results superseded by a newer request.
	ErrStale = errors.New("gallery: response superseded")

	ErrNoFolder        = errors.New("gallery: no folder open")
	ErrNotAdmin        = errors.New("gallery: admin rights required")
	ErrNothingSelected = errors.New("gallery: no image selected")
	ErrFolderNotEmpty  = errors.New("gallery: folder is not empty")
	ErrUnavailable     = errors.New("gallery: operation not offered for this folder")
	ErrWrongMode       = errors.New("gallery: not available in this mode")
	ErrFilterDisabled  = errors.New("gallery: filter mode is off")
	ErrNoTimeline      = errors.New("gallery: folder has no timeline")
	ErrBusy            = errors.New("gallery: a save is in progress")
	ErrDuplicateTag    = errors.New("gallery: tag already exists")
	ErrUnknownTag      = errors.New("gallery: no such tag")
)

// PartialDeleteError reports a delete the server only partly performed. No image is
// removed locally in that case.
type PartialDeleteError struct {
	Success int
	Errors  int
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("delete: %d of %d images failed", e.Errors, e.Success+e.Errors)
}
