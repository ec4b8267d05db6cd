package ifunny

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/gabriel-vasile/mimetype"
)

// ErrEmptyMedia is returned by Upload for zero-length media.
var ErrEmptyMedia = errors.New("ifunny: media is empty")

// UploadOptions describe the post created by Upload.
type UploadOptions struct {
	Description string
	Tags        []string

	// Visibility defaults to VisibilityPublic
	Visibility PostVisibility
}

// mediaKind is how the server classifies an upload.
type mediaKind struct {
	// postType is the "type" form value
	postType string
	// field is the name of the file part
	field string
}

// classifyMedia sniffs the content: GIFs and raster images are uploaded as
// images, everything else as a video clip.
func classifyMedia(mtype *mimetype.MIME) mediaKind {
	switch {
	case mtype.Is("image/gif"):
		return mediaKind{postType: "gif", field: "image"}
	case strings.HasPrefix(mtype.String(), "image/") && !mtype.Is("image/svg+xml"):
		return mediaKind{postType: "pic", field: "image"}
	default:
		return mediaKind{postType: "video_clip", field: "video"}
	}
}

// Upload publishes media as a new post.
func (a *API) Upload(ctx context.Context, media []byte, opts UploadOptions) error {
	if len(media) == 0 {
		return ErrEmptyMedia
	}

	visibility := opts.Visibility
	if visibility == "" {
		visibility = VisibilityPublic
	}
	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	mtype := mimetype.Detect(media)
	kind := classifyMedia(mtype)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"description", opts.Description},
		{"tags", string(tagsJSON)},
		{"type", kind.postType},
		{"visibility", string(visibility)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, kind.field, kind.field+mtype.Extension()))
	header.Set("Content-Type", mtype.String())
	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create media part: %w", err)
	}
	if _, err := part.Write(media); err != nil {
		return fmt.Errorf("write media part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	a.logger.Info().
		Str("type", kind.postType).
		Str("mime", mtype.String()).
		Int("bytes", len(media)).
		Msg("Uploading media")

	_, err = a.client.Do(ctx, &client.Request{
		Method:      http.MethodPost,
		Path:        pathUpload,
		Name:        "upload",
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
		Options:     a.options,
	})
	return err
}

// UploadFile reads path and uploads its contents.
func (a *API) UploadFile(ctx context.Context, path string, opts UploadOptions) error {
	media, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read media: %w", err)
	}
	return a.Upload(ctx, media, opts)
}
