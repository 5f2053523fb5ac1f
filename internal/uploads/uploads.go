// Package uploads enforces the image upload limits in front of a file host.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"souq/internal/filehost"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	MaxFileSize = 4 << 20 // 4MB
	MaxFiles    = 100
)

var (
	ErrNoFiles         = errors.New("no files uploaded")
	ErrTooManyFiles    = fmt.Errorf("at most %d files can be uploaded at once", MaxFiles)
	ErrFileTooLarge    = errors.New("file exceeds 4MB")
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// FileError ties a rejected file to the reason.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Name, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// IsRejected reports whether err is caused by the request content rather
// than the file host.
func IsRejected(err error) bool {
	return errors.Is(err, ErrNoFiles) ||
		errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrUnsupportedType)
}

// ReasonUnused marks hosted files that were uploaded but never referenced.
const ReasonUnused = "unused upload"

// Orphans records hosted files that still have to be deleted.
// filequeue.Repository satisfies it.
type Orphans interface {
	Enqueue(ctx context.Context, keys []string, reason string) error
}

type Service struct {
	host        filehost.Host
	orphans     Orphans
	concurrency int
	newName     func() string
}

func NewService(host filehost.Host) *Service {
	return &Service{
		host:        host,
		concurrency: 4,
		newName:     uuid.NewString,
	}
}

// WithOrphans makes Discard hand undeletable files to o.
func (s *Service) WithOrphans(o Orphans) *Service {
	s.orphans = o
	return s
}

type image struct {
	data        []byte
	contentType string
	ext         string
}

// Upload checks every file first and only then sends them to the host, so a
// bad file never leaves the others half uploaded. URLs are returned in the
// order of files.
func (s *Service) Upload(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	switch {
	case len(files) == 0:
		return nil, ErrNoFiles
	case len(files) > MaxFiles:
		return nil, ErrTooManyFiles
	}

	images := make([]image, len(files))
	for i, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			return nil, &FileError{Name: fh.Filename, Err: err}
		}
		images[i] = img
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			url, err := s.host.Upload(gctx, s.newName()+img.ext, img.contentType, bytes.NewReader(img.data))
			if err != nil {
				return fmt.Errorf("upload %s: %w", files[i].Filename, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// files of the batch that did reach the host
		if derr := s.Discard(context.WithoutCancel(ctx), urls); derr != nil {
			err = multierr.Append(err, derr)
		}
		return nil, err
	}
	return urls, nil
}

// Discard deletes uploaded files nothing refers to. Keys the host fails to
// delete are recorded as orphans for the background sweep; an error means
// they could be neither deleted nor recorded.
func (s *Service) Discard(ctx context.Context, urls []string) error {
	var live []string
	for _, u := range urls {
		if u != "" {
			live = append(live, u)
		}
	}
	keys := filehost.Keys(s.host, live)
	if len(keys) == 0 {
		return nil
	}

	failed, err := s.host.DeleteFiles(ctx, keys)
	if err == nil && len(failed) == 0 {
		return nil
	}
	if len(failed) == 0 {
		failed = keys
	}
	if err == nil {
		err = fmt.Errorf("%d files were not deleted", len(failed))
	}
	if s.orphans == nil {
		return fmt.Errorf("discard uploads: %w", err)
	}
	if qerr := s.orphans.Enqueue(ctx, failed, ReasonUnused); qerr != nil {
		return multierr.Append(fmt.Errorf("discard uploads: %w", err), fmt.Errorf("record orphaned uploads: %w", qerr))
	}
	return nil
}

func readImage(fh *multipart.FileHeader) (image, error) {
	if fh.Size > MaxFileSize {
		return image{}, ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return image{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return image{}, fmt.Errorf("read: %w", err)
	}
	if len(data) > MaxFileSize {
		return image{}, ErrFileTooLarge
	}

	mt := mimetype.Detect(data)
	if !allowedTypes[mt.String()] {
		return image{}, ErrUnsupportedType
	}
	return image{data: data, contentType: mt.String(), ext: mt.Extension()}, nil
}
