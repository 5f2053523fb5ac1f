package filehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/multierr"
)

type Cloudinary struct {
	cld       *cloudinary.Cloudinary
	folder    string
	cloudName string
}

const cloudinaryHost = "res.cloudinary.com"

func NewCloudinary(cloudinaryURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder, cloudName: cld.Config.Cloud.CloudName}, nil
}

// Upload stores r under <folder>/<name>. Cloudinary appends the format
// itself, so any extension on name is dropped.
func (c *Cloudinary) Upload(ctx context.Context, name, _ string, r io.Reader) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:    c.folder,
		PublicID:  strings.TrimSuffix(name, path.Ext(name)),
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (c *Cloudinary) DeleteFiles(ctx context.Context, keys []string) ([]string, error) {
	var (
		failed []string
		errs   error
	)
	for _, key := range keys {
		resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
		if err == nil && resp != nil && resp.Result != "ok" && resp.Result != "not found" {
			err = fmt.Errorf("unexpected result %q", resp.Result)
		}
		if err != nil {
			failed = append(failed, key)
			errs = multierr.Append(errs, fmt.Errorf("destroy %s: %w", key, err))
		}
	}
	return failed, errs
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// KeyFromURL returns the public ID: the path after ".../upload/", without
// the version segment or file extension. Only delivery URLs of our own cloud
// are accepted.
// https://res.cloudinary.com/demo/image/upload/v1740815725/products/abc.png -> products/abc
func (c *Cloudinary) KeyFromURL(rawURL string) (string, bool) {
	key, err := cloudinaryPublicID(rawURL, c.cloudName)
	if err != nil {
		return "", false
	}
	return key, true
}

func cloudinaryPublicID(rawURL, cloudName string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if !strings.EqualFold(u.Hostname(), cloudinaryHost) {
		return "", fmt.Errorf("not a cloudinary URL: %s", u.Host)
	}

	// /<cloud>/<resource type>/upload/[v123/]<public id>.<ext>
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if cloudName == "" || len(parts) < 4 || parts[0] != cloudName || parts[2] != "upload" {
		return "", errors.New("not an upload of this cloud")
	}
	rest := parts[3:]
	if versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	id := strings.Join(rest, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", errors.New("failed to extract public ID from URL")
	}
	return id, nil
}
