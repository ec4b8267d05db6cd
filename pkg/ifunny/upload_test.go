package ifunny

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gabriel-vasile/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

type uploadedForm struct {
	fields    map[string]string
	fileField string
	fileName  string
	fileType  string
	file      []byte
}

func readUpload(t *testing.T, contentType string, body []byte) uploadedForm {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	form := uploadedForm{fields: map[string]string{}}
	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := r.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			form.fileField = part.FormName()
			form.fileName = part.FileName()
			form.fileType = part.Header.Get("Content-Type")
			form.file = data
			continue
		}
		form.fields[part.FormName()] = string(data)
	}
	return form
}

func TestClassifyMedia(t *testing.T) {
	tests := []struct {
		name      string
		media     func(*testing.T) []byte
		wantType  string
		wantField string
	}{
		{"gif", gifBytes, "gif", "image"},
		{"png", pngBytes, "pic", "image"},
		{"svg", func(*testing.T) []byte {
			return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
		}, "video_clip", "video"},
		{"unknown", func(*testing.T) []byte { return []byte{0x00, 0x01, 0x02, 0x03} }, "video_clip", "video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := classifyMedia(mimetype.Detect(tt.media(t)))
			assert.Equal(t, tt.wantType, kind.postType)
			assert.Equal(t, tt.wantField, kind.field)
		})
	}
}

func TestUpload_Image(t *testing.T) {
	api, mock := newTestAPI(t)
	media := pngBytes(t)

	err := api.Upload(context.Background(), media, UploadOptions{
		Description: "cat",
		Tags:        []string{"cats", "memes"},
	})
	require.NoError(t, err)

	req, ok := mock.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/content", req.Path)

	form := readUpload(t, req.Header.Get("Content-Type"), req.Body)
	assert.Equal(t, "cat", form.fields["description"])
	assert.JSONEq(t, `["cats","memes"]`, form.fields["tags"])
	assert.Equal(t, "pic", form.fields["type"])
	assert.Equal(t, "public", form.fields["visibility"])
	assert.Equal(t, "image", form.fileField)
	assert.Equal(t, "image.png", form.fileName)
	assert.Equal(t, "image/png", form.fileType)
	assert.Equal(t, media, form.file)
}

func TestUpload_VideoAndVisibility(t *testing.T) {
	api, mock := newTestAPI(t)

	err := api.Upload(context.Background(), []byte{0x00, 0x01, 0x02, 0x03}, UploadOptions{
		Visibility: VisibilitySubscribers,
	})
	require.NoError(t, err)

	req, _ := mock.LastRequest()
	form := readUpload(t, req.Header.Get("Content-Type"), req.Body)
	assert.Equal(t, "video_clip", form.fields["type"])
	assert.Equal(t, "subscribers", form.fields["visibility"])
	assert.Equal(t, "[]", form.fields["tags"])
	assert.Equal(t, "video", form.fileField)
}

func TestUpload_Empty(t *testing.T) {
	api, mock := newTestAPI(t)

	err := api.Upload(context.Background(), nil, UploadOptions{})
	assert.ErrorIs(t, err, ErrEmptyMedia)
	assert.Zero(t, mock.GetRequestCount())
}

func TestUploadFile(t *testing.T) {
	api, mock := newTestAPI(t)

	path := filepath.Join(t.TempDir(), "funny.gif")
	require.NoError(t, os.WriteFile(path, gifBytes(t), 0o600))

	require.NoError(t, api.UploadFile(context.Background(), path, UploadOptions{}))

	req, _ := mock.LastRequest()
	form := readUpload(t, req.Header.Get("Content-Type"), req.Body)
	assert.Equal(t, "gif", form.fields["type"])
	assert.Equal(t, "image", form.fileField)

	err := api.UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.gif"), UploadOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCropWatermark(t *testing.T) {
	t.Run("sub image", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 100, 50))
		got := CropWatermark(img)
		assert.Equal(t, image.Rect(0, 0, 100, 30), got.Bounds())
	})

	t.Run("shorter than banner", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 10, 12))
		got := CropWatermark(img)
		assert.True(t, got.Bounds().Empty())
	})

	t.Run("without SubImage", func(t *testing.T) {
		src := image.NewUniform(color.White)
		bounded := boundedImage{Image: src, rect: image.Rect(0, 0, 8, 40)}
		got := CropWatermark(bounded)
		assert.Equal(t, image.Rect(0, 0, 8, 20), got.Bounds())
		r, g, b, _ := got.At(3, 3).RGBA()
		assert.Equal(t, uint32(0xffff), r&g&b)
	})
}

type boundedImage struct {
	image.Image
	rect image.Rectangle
}

func (b boundedImage) Bounds() image.Rectangle { return b.rect }
