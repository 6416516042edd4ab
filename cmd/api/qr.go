package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"streetpaws/internal/platform/logger"
	"streetpaws/internal/qr"
)

func qrCommand() *cobra.Command {
	var (
		size int
		out  string
		tag  bool
	)

	cmd := &cobra.Command{
		Use:   "qr <payload>",
		Short: "Encode a payload (usually an animal URL) as a QR image or printable tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec := qr.NewCodec(size, logger.NewFromEnv())
			img := codec.Encode(args[0])
			if img.Fallback {
				return fmt.Errorf("payload could not be encoded")
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if tag {
				return qr.RenderTag(w, qr.Tag{PublicID: args[0], Image: img})
			}
			_, err := w.Write(img.Data)
			return err
		},
	}
	cmd.Flags().IntVar(&size, "size", qr.DefaultSize, "image size in pixels")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&tag, "tag", false, "render the printable HTML tag instead of a PNG")
	return cmd
}
