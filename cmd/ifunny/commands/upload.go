package commands

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/spf13/cobra"
)

func newUploadCommand(a *app) *cobra.Command {
	var (
		description string
		tags        []string
		visibility  string
		crop        bool
	)

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Publish an image, GIF or video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vis, err := ifunny.ParseVisibility(visibility)
			if err != nil {
				return err
			}

			media, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read media: %w", err)
			}
			if crop {
				if media, err = cropMedia(media); err != nil {
					return err
				}
			}

			api, err := a.api(cmd.Context())
			if err != nil {
				return err
			}
			if err := api.Upload(cmd.Context(), media, ifunny.UploadOptions{
				Description: description,
				Tags:        tags,
				Visibility:  vis,
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "post description")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	cmd.Flags().StringVar(&visibility, "visibility", string(ifunny.VisibilityPublic), "public or subscribers")
	cmd.Flags().BoolVar(&crop, "crop", false, "strip the iFunny watermark banner from a still image")

	return cmd
}

// cropMedia removes the watermark banner and re-encodes the image as PNG.
func cropMedia(media []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(media))
	if err != nil {
		return nil, fmt.Errorf("crop: not a still image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, ifunny.CropWatermark(img)); err != nil {
		return nil, fmt.Errorf("crop: encode: %w", err)
	}
	return buf.Bytes(), nil
}
