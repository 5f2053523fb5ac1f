package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
)

type ImageKind string

const (
	ImageUploaded ImageKind = "uploaded"
	ImagePending  ImageKind = "pending"
)

// ImageRef is one entry of a product's image picker: either a file already
// on the host or a local file still waiting to be uploaded.
//
// On the wire an uploaded image is {"kind":"uploaded","url":"..."} (or just
// the URL string) and a pending one is {"kind":"pending","file":N}, N being
// the index of the file among the request's "images" parts.
type ImageRef struct {
	Kind ImageKind `json:"kind"`
	URL  string    `json:"url,omitempty"`
	File int       `json:"file,omitempty"`

	header *multipart.FileHeader
}

func Uploaded(url string) ImageRef {
	return ImageRef{Kind: ImageUploaded, URL: url}
}

func Pending(fh *multipart.FileHeader) ImageRef {
	return ImageRef{Kind: ImagePending, header: fh}
}

func (r ImageRef) FileHeader() *multipart.FileHeader { return r.header }

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = Uploaded(s)
		return nil
	}
	type plain ImageRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ImageRef(p)
	return nil
}

var ErrBadImage = errors.New("invalid image reference")

// bind resolves pending references against the uploaded parts.
func bind(refs []ImageRef, files []*multipart.FileHeader) error {
	for i := range refs {
		r := &refs[i]
		switch r.Kind {
		case ImageUploaded:
			u, err := url.Parse(r.URL)
			if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
				return fmt.Errorf("%w: image %d: bad url", ErrBadImage, i)
			}
		case ImagePending:
			if r.header != nil {
				continue
			}
			if r.File < 0 || r.File >= len(files) {
				return fmt.Errorf("%w: image %d: no file at index %d", ErrBadImage, i, r.File)
			}
			r.header = files[r.File]
		default:
			return fmt.Errorf("%w: image %d: unknown kind %q", ErrBadImage, i, r.Kind)
		}
	}
	return nil
}

// Partition splits refs into the URLs to keep and the files to upload,
// each in picker order.
func Partition(refs []ImageRef) (retained []string, pending []*multipart.FileHeader) {
	for _, r := range refs {
		switch r.Kind {
		case ImageUploaded:
			retained = append(retained, r.URL)
		case ImagePending:
			if r.header != nil {
				pending = append(pending, r.header)
			}
		}
	}
	return retained, pending
}

// Merge is the product's final image list: retained URLs, then new uploads.
func Merge(retained, uploaded []string) []string {
	out := make([]string, 0, len(retained)+len(uploaded))
	out = append(out, retained...)
	return append(out, uploaded...)
}
